package bootstrap

import (
	"fmt"
	"time"
)

// Defaults applied to zero-valued Config fields.
const (
	DefaultWaitTimeout         = 60 * time.Second
	DefaultPollInterval        = 250 * time.Millisecond
	DefaultMarkerAttempts      = 3
	DefaultMarkerRetryInterval = 100 * time.Millisecond
)

// Config tunes a Coordinator. The zero value is usable: zero durations and
// attempt counts take the package defaults.
type Config struct {
	// WaitTimeout bounds how long a caller waits for another caller's
	// bootstrap to finish before failing with ErrLockTimeout.
	WaitTimeout time.Duration `mapstructure:"wait_timeout" yaml:"wait_timeout"`

	// PollInterval is how often a waiting caller checks the status.
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`

	// Strict withholds the completion marker when any seed record failed.
	Strict bool `mapstructure:"strict" yaml:"strict"`

	// ConcurrentTasks runs seed tasks in parallel instead of in order.
	ConcurrentTasks bool `mapstructure:"concurrent_tasks" yaml:"concurrent_tasks"`

	// MarkerAttempts is the number of tries for the completion marker write.
	MarkerAttempts int `mapstructure:"marker_attempts" yaml:"marker_attempts"`

	// MarkerRetryInterval is the pause between marker write attempts.
	MarkerRetryInterval time.Duration `mapstructure:"marker_retry_interval" yaml:"marker_retry_interval"`
}

// DefaultConfig returns a Config with every default filled in.
func DefaultConfig() Config {
	return Config{}.withDefaults()
}

// Validate rejects negative durations and attempt counts.
func (c Config) Validate() error {
	switch {
	case c.WaitTimeout < 0:
		return fmt.Errorf("%w: wait_timeout %s is negative", ErrInvalidConfig, c.WaitTimeout)
	case c.PollInterval < 0:
		return fmt.Errorf("%w: poll_interval %s is negative", ErrInvalidConfig, c.PollInterval)
	case c.MarkerAttempts < 0:
		return fmt.Errorf("%w: marker_attempts %d is negative", ErrInvalidConfig, c.MarkerAttempts)
	case c.MarkerRetryInterval < 0:
		return fmt.Errorf("%w: marker_retry_interval %s is negative", ErrInvalidConfig, c.MarkerRetryInterval)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.WaitTimeout == 0 {
		c.WaitTimeout = DefaultWaitTimeout
	}
	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.MarkerAttempts == 0 {
		c.MarkerAttempts = DefaultMarkerAttempts
	}
	if c.MarkerRetryInterval == 0 {
		c.MarkerRetryInterval = DefaultMarkerRetryInterval
	}
	return c
}
