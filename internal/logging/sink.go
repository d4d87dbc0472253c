package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Special Output values.
const (
	OutputStderr = "-"
	OutputNone   = "none"
)

const (
	logFilePrefix = "replops-"
	logFileSuffix = ".log"
	logFileStamp  = "20060102T150405.000Z"
)

// LogConfig describes where and how records are written.
type LogConfig struct {
	Format string // human (default), text or json
	Level  string // DEBUG, INFO (default), WARN or ERROR
	// Output is "-" for stderr, "none" to discard, empty for a new
	// timestamped file in Dir, or a file path relative to Dir.
	Output        string
	Dir           string
	RetentionDays int
}

// Sink is the destination of log records.
type Sink struct {
	Path string // empty unless writing to a file
	w    io.Writer
	f    *os.File
}

// OpenSink resolves cfg.Output to a writer, creating the log file if needed.
func OpenSink(cfg *LogConfig) (*Sink, error) {
	switch strings.ToLower(cfg.Output) {
	case OutputNone:
		return &Sink{w: io.Discard}, nil
	case OutputStderr:
		return &Sink{w: os.Stderr}, nil
	}

	path := cfg.Output
	if path == "" {
		path = LogFileName(time.Now())
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.Dir, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %q: %w", path, err)
	}
	return &Sink{Path: path, w: f, f: f}, nil
}

func (s *Sink) Write(p []byte) (int, error) { return s.w.Write(p) }

// Close closes the log file, if any.
func (s *Sink) Close() error {
	if s == nil || s.f == nil {
		return nil
	}
	return s.f.Close()
}

// LogFileName returns the name of an automatic log file opened at t, such as
// replops-20261019T101500.123Z.log.
func LogFileName(t time.Time) string {
	return logFilePrefix + t.UTC().Format(logFileStamp) + logFileSuffix
}

// PruneLogFiles removes automatic log files in dir whose name stamps are
// older than retentionDays before now. Other files are left alone. It returns
// the number of files removed.
func PruneLogFiles(dir string, retentionDays int, now time.Time) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading log directory: %w", err)
	}
	cutoff := now.AddDate(0, 0, -retentionDays)
	removed := 0
	for _, e := range entries {
		stamp, ok := strings.CutPrefix(e.Name(), logFilePrefix)
		if e.IsDir() || !ok {
			continue
		}
		stamp, ok = strings.CutSuffix(stamp, logFileSuffix)
		if !ok {
			continue
		}
		t, err := time.Parse(logFileStamp, stamp)
		if err != nil || !t.Before(cutoff) {
			continue
		}
		if os.Remove(filepath.Join(dir, e.Name())) == nil {
			removed++
		}
	}
	return removed, nil
}
