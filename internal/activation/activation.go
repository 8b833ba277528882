// Package activation validates the optional activation key read at startup.
package activation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Tier is the feature tier granted by a key.
type Tier int

const (
	// TierFree applies when no key is configured.
	TierFree Tier = iota
	// TierLicensed applies for a well-formed key.
	TierLicensed
)

func (t Tier) String() string {
	switch t {
	case TierFree:
		return "free"
	case TierLicensed:
		return "licensed"
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// Error reports a rejected key.
type Error struct {
	Key    string
	Reason error
}

func (e *Error) Error() string {
	return fmt.Sprintf("activation key %q rejected: %v", Redact(e.Key), e.Reason)
}

func (e *Error) Unwrap() error { return e.Reason }

// Check validates key. An empty key selects the free tier; otherwise the
// key must be a UUID.
func Check(key string) (Tier, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return TierFree, nil
	}
	if _, err := uuid.Parse(key); err != nil {
		return TierFree, &Error{Key: key, Reason: err}
	}
	return TierLicensed, nil
}

// Redact keeps the first four characters of key.
func Redact(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-4)
}
