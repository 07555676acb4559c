// Package log is the logging port used by pinhole components.
//
// Components accept a Logger and never depend on a concrete logging
// library. Three implementations ship with the package:
//
//	log.NewZerolog(os.Stderr, zerolog.InfoLevel) // console output via zerolog
//	log.NewZerologWithLogger(zl)                 // wrap an existing zerolog.Logger
//	log.NewNoop()                                // discard everything
//
// NewAsync wraps any Logger in a buffered, non-blocking sink: callers never
// wait on log delivery and entries are dropped when the buffer is full.
package log
