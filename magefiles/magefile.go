//go:build mage

// Package main provides build targets for pinhole using Mage.
//
// Usage:
//
//	mage build         Compile the pinhole binary to bin/
//	mage install       Install pinhole to GOPATH/bin
//	mage clean         Remove build artifacts
//	mage test:all      Run every test
//	mage test:race     Run every test with the race detector
//	mage test:cover    Write coverage.out and print per-function coverage
//	mage lint          Run golangci-lint
//	mage vet           Run go vet
//	mage generate      Regenerate mocks
//	mage stats         Print Go line counts
package main
