// Package bootstrap seeds a pinhole store with reference data exactly once.
//
// A Coordinator owns the bootstrap state for one store. IsInitialized is a
// cheap, never-failing predicate that callers may poll. Bootstrap runs the
// seed tasks under a non-reentrant guard; concurrent callers either return
// on the fast path or wait, bounded by Config.WaitTimeout, for the holder to
// finish. A fatal failure rolls the state back so a later call can retry.
//
// Seed tasks isolate per-record failures: a failed record is logged and
// recorded in the task's TaskResult while the task moves on. Only an error
// returned from SeedTask.Run, a panic, or context cancellation aborts the
// whole attempt.
package bootstrap
