// Package pinhole holds build metadata for the pinhole binary.
package pinhole

// Version is overridden at build time with
// -ldflags "-X github.com/mesh-intelligence/pinhole/pkg/pinhole.Version=...".
var Version = "0.1.0-dev"

// ModulePath is the Go module path of this repository.
const ModulePath = "github.com/mesh-intelligence/pinhole"
