// Command pinhole seeds and inspects the pinhole location database.
package main

import (
	"os"

	"github.com/mesh-intelligence/pinhole/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
