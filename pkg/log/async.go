package log

import (
	"sync"
	"sync/atomic"
)

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

type entry struct {
	level  level
	msg    string
	fields []Field
}

// AsyncLogger forwards entries to another Logger from a background
// goroutine. Logging never blocks: when the buffer is full the entry is
// dropped and counted.
type AsyncLogger struct {
	next    Logger
	entries chan entry
	done    chan struct{}
	dropped atomic.Int64

	mu     sync.RWMutex
	closed bool
}

// NewAsync starts an AsyncLogger with room for buffer pending entries.
// Call Close to flush and stop it.
func NewAsync(next Logger, buffer int) *AsyncLogger {
	if buffer <= 0 {
		buffer = 256
	}
	a := &AsyncLogger{
		next:    next,
		entries: make(chan entry, buffer),
		done:    make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *AsyncLogger) Debug(msg string, fields ...Field) { a.enqueue(levelDebug, msg, fields) }
func (a *AsyncLogger) Info(msg string, fields ...Field)  { a.enqueue(levelInfo, msg, fields) }
func (a *AsyncLogger) Warn(msg string, fields ...Field)  { a.enqueue(levelWarn, msg, fields) }
func (a *AsyncLogger) Error(msg string, fields ...Field) { a.enqueue(levelError, msg, fields) }

// Dropped returns the number of entries discarded because the buffer was
// full or the logger was closed.
func (a *AsyncLogger) Dropped() int64 {
	return a.dropped.Load()
}

// Close stops accepting entries and waits until every buffered entry has
// been delivered. Close is idempotent.
func (a *AsyncLogger) Close() {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.entries)
	}
	a.mu.Unlock()
	<-a.done
}

func (a *AsyncLogger) enqueue(lvl level, msg string, fields []Field) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		a.dropped.Add(1)
		return
	}
	select {
	case a.entries <- entry{level: lvl, msg: msg, fields: fields}:
	default:
		a.dropped.Add(1)
	}
}

func (a *AsyncLogger) run() {
	defer close(a.done)
	for e := range a.entries {
		a.deliver(e)
	}
}

// deliver writes one entry, isolating the caller from a misbehaving sink.
func (a *AsyncLogger) deliver(e entry) {
	defer func() { _ = recover() }()

	switch e.level {
	case levelDebug:
		a.next.Debug(e.msg, e.fields...)
	case levelInfo:
		a.next.Info(e.msg, e.fields...)
	case levelWarn:
		a.next.Warn(e.msg, e.fields...)
	default:
		a.next.Error(e.msg, e.fields...)
	}
}
