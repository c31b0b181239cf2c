package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// FileLogger writes log messages to a file, optionally echoing them to a
// secondary logger (typically a ConsoleLogger). It records the full history
// of one check-and-repair pass next to the inspected file.
// Safe for concurrent use by multiple goroutines.
type FileLogger struct {
	w    io.WriteCloser
	echo *ConsoleLogger
	mu   sync.Mutex
}

// NewFileLogger creates a FileLogger writing to path, truncating any
// previous log. The caller must Close it when the pass completes.
func NewFileLogger(path string, echo *ConsoleLogger) (*FileLogger, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file %s: %w", path, err)
	}
	return &FileLogger{w: f, echo: echo}, nil
}

// Close flushes and closes the underlying file.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Close()
}

func (l *FileLogger) write(prefix, format string, args ...interface{}) {
	l.mu.Lock()
	if len(args) > 0 {
		fmt.Fprintf(l.w, prefix+format+"\n", args...)
	} else {
		fmt.Fprint(l.w, prefix+format+"\n")
	}
	l.mu.Unlock()
}

// Verbose logs diagnostic detail to the file and echoes it when verbose
// console output is enabled.
func (l *FileLogger) Verbose(format string, args ...interface{}) {
	l.write("", format, args...)
	if l.echo != nil {
		l.echo.Verbose(format, args...)
	}
}

// Info logs informational messages to the file and the echo logger.
func (l *FileLogger) Info(format string, args ...interface{}) {
	l.write("", format, args...)
	if l.echo != nil {
		l.echo.Info(format, args...)
	}
}

// Error logs error messages to the file and the echo logger.
func (l *FileLogger) Error(format string, args ...interface{}) {
	l.write("[ERROR] ", format, args...)
	if l.echo != nil {
		l.echo.Error(format, args...)
	}
}
