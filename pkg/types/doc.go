// Package types defines the pinhole domain entities, the repository and
// unit-of-work ports the business layer consumes, and the standard errors
// those ports return.
//
// Storage backends (see internal/sqlite) implement UnitOfWork; the bootstrap
// coordinator and the CLI depend only on the interfaces declared here.
package types
