package bootstrap

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors. The typed errors below match them with errors.Is.
var (
	ErrLockTimeout       = errors.New("timed out waiting for bootstrap in progress")
	ErrBootstrapFailed   = errors.New("bootstrap failed")
	ErrIncompleteSeed    = errors.New("seed incomplete")
	ErrUserSettings      = errors.New("user settings phase failed")
	ErrInvalidConfig     = errors.New("invalid bootstrap config")
	ErrInvalidPreference = errors.New("invalid user preference")
)

// LockTimeoutError is returned to a caller that waited WaitTimeout for
// another caller's bootstrap without seeing it complete.
type LockTimeoutError struct {
	Timeout time.Duration
	Waited  time.Duration
}

func (e *LockTimeoutError) Error() string {
	return fmt.Sprintf("%s: waited %s (timeout %s)", ErrLockTimeout, e.Waited.Round(time.Millisecond), e.Timeout)
}

func (e *LockTimeoutError) Is(target error) bool { return target == ErrLockTimeout }

// FatalError reports an error that escaped seed task isolation. The
// coordinator state has been rolled back; retrying is safe.
type FatalError struct {
	Cause  error
	Report *Report
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", ErrBootstrapFailed, e.Cause)
}

func (e *FatalError) Unwrap() error { return e.Cause }

func (e *FatalError) Is(target error) bool { return target == ErrBootstrapFailed }

// IncompleteSeedError is returned in strict mode when records failed. No
// marker was written and the state has been rolled back.
type IncompleteSeedError struct {
	Failed int
	Report *Report
}

func (e *IncompleteSeedError) Error() string {
	return fmt.Sprintf("%s: %d record(s) failed", ErrIncompleteSeed, e.Failed)
}

func (e *IncompleteSeedError) Is(target error) bool { return target == ErrIncompleteSeed }

// UserSettingsError wraps whatever made BootstrapWithUserSettings fail.
type UserSettingsError struct {
	Cause error
}

func (e *UserSettingsError) Error() string {
	return fmt.Sprintf("%s: %v", ErrUserSettings, e.Cause)
}

func (e *UserSettingsError) Unwrap() error { return e.Cause }

func (e *UserSettingsError) Is(target error) bool { return target == ErrUserSettings }
