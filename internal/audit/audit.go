// Package audit implements the append-only sync audit log: one
// "[timestamp] message" line per sync attempt or outcome. The file is a
// diagnostic artifact for operators; nothing in the system parses it back.
package audit

import (
	"fmt"
	"os"
	"sync"
	"time"
)

const timestampFormat = "2006-01-02 15:04:05"

// Log appends timestamped lines to a file. Writes hold an exclusive lock so
// concurrent writers cannot interleave lines.
type Log struct {
	mu      sync.Mutex
	path    string
	enabled bool
}

// New creates an audit log writing to path. When disabled, writes are
// silently dropped.
func New(path string, enabled bool) *Log {
	return &Log{path: path, enabled: enabled}
}

// SetEnabled toggles writing. The orchestrator applies the persisted
// logEnabled setting before each run.
func (l *Log) SetEnabled(enabled bool) {
	l.mu.Lock()
	l.enabled = enabled
	l.mu.Unlock()
}

// Printf appends one formatted line.
func (l *Log) Printf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled {
		return
	}
	line := fmt.Sprintf("[%s] %s\n", time.Now().Format(timestampFormat), fmt.Sprintf(format, args...))
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.WriteString(line)
}

// Read returns the full log contents. A missing file reads as empty.
func (l *Log) Read() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Clear truncates the log file.
func (l *Log) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return os.WriteFile(l.path, nil, 0644)
}
