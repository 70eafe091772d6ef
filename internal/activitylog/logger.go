// Package activitylog appends audit events to a local log file, one
// pipe-delimited line per event. Logging is non-fatal by contract:
// write failures are swallowed.
package activitylog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Logger writes timestamp|username|action|details lines.
type Logger struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// New creates a logger writing to path. The parent directory is created
// on first append.
func New(path string) *Logger {
	return &Logger{path: path, now: time.Now}
}

// Append records one event. Pipes inside fields are replaced so the
// line stays parseable.
func (l *Logger) Append(username, action, details string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	line := fmt.Sprintf("%s|%s|%s|%s\n",
		l.now().Format(time.RFC3339),
		sanitize(username),
		sanitize(action),
		sanitize(details),
	)

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return
	}
	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer file.Close()
	_, _ = file.WriteString(line)
}

func sanitize(field string) string {
	field = strings.ReplaceAll(field, "|", "/")
	return strings.ReplaceAll(field, "\n", " ")
}
