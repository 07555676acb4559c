package log

// NoopLogger discards all entries.
type NoopLogger struct{}

// NewNoop creates a logger that discards all entries.
func NewNoop() *NoopLogger {
	return &NoopLogger{}
}

func (NoopLogger) Debug(string, ...Field) {}
func (NoopLogger) Info(string, ...Field)  {}
func (NoopLogger) Warn(string, ...Field)  {}
func (NoopLogger) Error(string, ...Field) {}
