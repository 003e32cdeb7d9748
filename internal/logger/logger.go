package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogFilePath is the default log file, relative to the working directory.
const LogFilePath = "logs/drive.txt"

// maxLines is how many formatted lines Lines keeps for the HUD.
const maxLines = 200

// Logger is a zerolog.Logger that writes to the console, appends to a file on disk,
// and remembers the most recent lines in memory.
type Logger struct {
	zerolog.Logger

	mu    sync.Mutex
	lines []string
	file  *os.File
}

// New opens (or creates) the log file at path, creating its directory if needed.
// An empty path disables the file. debug lowers the global level to Debug.
func New(path string, debug bool) (*Logger, error) {
	return newWithConsole(os.Stdout, path, debug)
}

func newWithConsole(console io.Writer, path string, debug bool) (*Logger, error) {
	l := &Logger{lines: make([]string, 0, maxLines)}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("logger: create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("logger: open %s: %w", path, err)
		}
		l.file = f
		writers = append(writers, zerolog.ConsoleWriter{Out: f, NoColor: true, TimeFormat: "2006-01-02 15:04:05"})
	}
	writers = append(writers, zerolog.ConsoleWriter{Out: lineSink{l}, NoColor: true, TimeFormat: "15:04:05"})

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	l.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	return l, nil
}

// lineSink feeds formatted log output into the in-memory ring.
type lineSink struct{ l *Logger }

func (s lineSink) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(bytes.TrimRight(p, "\n"), []byte("\n")) {
		s.l.push(strings.TrimSpace(string(line)))
	}
	return len(p), nil
}

func (l *Logger) push(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.lines) == maxLines {
		copy(l.lines, l.lines[1:])
		l.lines = l.lines[:maxLines-1]
	}
	l.lines = append(l.lines, line)
}

// Lines returns a copy of the most recent lines, oldest first.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
