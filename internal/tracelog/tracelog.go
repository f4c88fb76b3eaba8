// Package tracelog provides an optional raw-telegram trace log: every
// accepted or rejected ESP3 frame, hex-dumped, written asynchronously so a
// slow or stalled disk never blocks the engine's main loop. Adapted from a
// channel-relay logger pattern: a single goroutine owns the file handle and
// drains a buffered channel, callers only ever send.
package tracelog

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"
	"time"
)

const maxInFlight = 200

// Direction distinguishes a frame read from the modem from one written to
// it, so the trace log reads like a packet capture.
type Direction string

const (
	DirectionRX Direction = "rx"
	DirectionTX Direction = "tx"
)

// Logger relays hex-dumped frames to a file on a single background
// goroutine. The zero value is not usable; construct with New.
type Logger struct {
	logger  *log.Logger
	file    *os.File
	channel chan string
	done    chan struct{}
	closed  atomic.Bool
}

// New opens path (truncating any prior trace) and starts the relay
// goroutine. Returns nil, nil if path is empty - callers then skip tracing
// entirely rather than holding a nil-checked Logger everywhere.
func New(path string) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("open trace log: %w", err)
	}
	l := &Logger{
		logger:  log.New(f, "", log.LstdFlags|log.Lmicroseconds),
		file:    f,
		channel: make(chan string, maxInFlight),
		done:    make(chan struct{}),
	}
	go l.relay()
	return l, nil
}

func (l *Logger) relay() {
	for msg := range l.channel {
		l.logger.Print(msg)
	}
	close(l.done)
}

// Frame queues one hex-dumped frame for logging. It never blocks the
// caller: a full buffer drops the line rather than stalling the engine's
// select loop. A nil *Logger is a valid no-op receiver.
func (l *Logger) Frame(dir Direction, data []byte) {
	if l == nil || l.closed.Load() {
		return
	}
	line := fmt.Sprintf("%s %s % x", time.Now().Format(time.RFC3339Nano), dir, data)
	select {
	case l.channel <- line:
	default:
	}
}

// Close stops the relay goroutine and closes the underlying file. A nil
// *Logger is a valid no-op receiver.
func (l *Logger) Close() error {
	if l == nil || l.closed.Swap(true) {
		return nil
	}
	close(l.channel)
	<-l.done
	return l.file.Close()
}

var _ io.Closer = (*Logger)(nil)
