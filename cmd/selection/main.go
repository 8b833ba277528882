// Command selection derives and compares the Fisherian and total selection
// responses of a three-allele model.
package main

import (
	"os"

	"github.com/njchilds90/algebra-of-selection/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
