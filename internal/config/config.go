// Package config loads the optional selection.toml configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
)

const (
	// FileName is the configuration file looked up in the working directory.
	FileName = "selection.toml"
	// EnvConfig names an alternative configuration file.
	EnvConfig = "SELECTION_CONFIG"
	// EnvActivationKey overrides activation_key from the file.
	EnvActivationKey = "SELECTION_ACTIVATION_KEY"
)

// Config is the decoded configuration file.
type Config struct {
	ActivationKey   string             `toml:"activation_key"`
	Theme           string             `toml:"theme"`
	NamespaceHidden bool               `toml:"namespace_hidden"`
	Bindings        map[string]float64 `toml:"bindings"`

	// Source is the file the values came from, empty when none was read.
	Source string `toml:"-"`
	// Unknown lists keys present in the file but not understood.
	Unknown []string `toml:"-"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{Theme: "auto", NamespaceHidden: true}
}

// ResolvePath picks the configuration file: the flag value, then
// $SELECTION_CONFIG, then selection.toml.
func ResolvePath(flag string) string {
	if flag != "" {
		return flag
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return FileName
}

// Load reads path. A missing file yields the defaults. On a read or parse
// error the defaults are returned together with the error so the caller can
// warn and carry on. $SELECTION_ACTIVATION_KEY is applied in every case.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		cfg = Default()
	}
	if key, ok := os.LookupEnv(EnvActivationKey); ok {
		cfg.ActivationKey = key
	}
	return cfg, err
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for _, k := range md.Undecoded() {
		cfg.Unknown = append(cfg.Unknown, k.String())
	}
	sort.Strings(cfg.Unknown)
	cfg.Source = path
	return cfg, nil
}
