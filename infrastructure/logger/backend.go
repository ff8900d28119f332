package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jrick/logrotate/rotator"
	"github.com/pkg/errors"
)

const normalLogSize = 512

// Flags that modify the backend's output format. They are read from the
// LOGFLAGS environment variable when the backend is created.
const (
	// LogFlagLongFile includes the full path and line number of the logging
	// callsite in every entry, e.g. /a/b/c/main.go:123.
	LogFlagLongFile uint32 = 1 << iota

	// LogFlagShortFile includes only the file name and line number, e.g.
	// main.go:123. It takes precedence over LogFlagLongFile.
	LogFlagShortFile
)

// parseLogFlags interprets a comma-separated LOGFLAGS value.
func parseLogFlags(s string) (flags uint32) {
	for _, f := range strings.Split(s, ",") {
		switch f {
		case "longfile":
			flags |= LogFlagLongFile
		case "shortfile":
			flags |= LogFlagShortFile
		}
	}
	return flags
}

const (
	defaultThresholdKB = 100 * 1000 // roll log files at 100 MB
	defaultMaxRolls    = 8          // keep the 8 most recent rolls
)

// leveledWriter is a destination together with the least severe level it
// accepts.
type leveledWriter struct {
	writer   io.WriteCloser
	minLevel Level
}

// Backend fans log entries out to a set of writers. All subsystem loggers
// share one backend, and the backend funnels every entry through a single
// goroutine so that writes never interleave.
type Backend struct {
	flag      uint32
	isRunning uint32
	writers   []leveledWriter
	writeChan chan logEntry
	writeDone sync.Mutex // held by the fan-out goroutine for its whole lifetime
}

// NewBackend creates a backend with no writers attached. The output format
// flags are taken from the LOGFLAGS environment variable.
func NewBackend() *Backend {
	return &Backend{
		flag:      parseLogFlags(os.Getenv("LOGFLAGS")),
		writeChan: make(chan logEntry),
	}
}

// AddLogFile attaches a log file with the default rotation settings,
// creating it if it does not exist.
func (b *Backend) AddLogFile(logFile string, logLevel Level) error {
	return b.AddLogFileWithRotation(logFile, logLevel, defaultThresholdKB, defaultMaxRolls)
}

// AddLogFileWithRotation attaches a log file that is rolled once it grows
// past thresholdKB, keeping at most maxRolls compressed rolls. The file and
// its directory are created if they do not exist.
func (b *Backend) AddLogFileWithRotation(logFile string, logLevel Level, thresholdKB int64, maxRolls int) error {
	if b.IsRunning() {
		return errors.New("cannot attach a log file to a running logger backend")
	}
	logDir, _ := filepath.Split(logFile)
	// An empty dir means the file is relative to the cwd, which always exists.
	if logDir != "" {
		err := os.MkdirAll(logDir, 0700)
		if err != nil {
			return errors.Wrapf(err, "failed to create log directory %s", logDir)
		}
	}
	fileRotator, err := rotator.New(logFile, thresholdKB, false, maxRolls)
	if err != nil {
		return errors.Wrapf(err, "failed to create a rotator for %s", logFile)
	}
	b.writers = append(b.writers, leveledWriter{writer: fileRotator, minLevel: logLevel})
	return nil
}

// Run starts the fan-out goroutine. It may only be called once.
func (b *Backend) Run() error {
	if !atomic.CompareAndSwapUint32(&b.isRunning, 0, 1) {
		return errors.New("the logger backend is already running")
	}
	go func() {
		defer func() {
			if err := recover(); err != nil {
				fmt.Fprintf(os.Stderr, "Fatal error in the logger backend: %+v\n", err)
				fmt.Fprintf(os.Stderr, "Goroutine stacktrace: %s\n", debug.Stack())
			}
		}()
		b.fanOut()
	}()
	return nil
}

func (b *Backend) fanOut() {
	defer atomic.StoreUint32(&b.isRunning, 0)
	b.writeDone.Lock()
	defer b.writeDone.Unlock()

	for entry := range b.writeChan {
		for _, destination := range b.writers {
			if entry.level >= destination.minLevel {
				_, _ = destination.writer.Write(entry.log)
			}
		}
	}
}

// IsRunning reports whether Run has been called and Close has not.
func (b *Backend) IsRunning() bool {
	return atomic.LoadUint32(&b.isRunning) != 0
}

// Close drains the pending entries and closes every attached writer,
// flushing the log rotators.
func (b *Backend) Close() {
	close(b.writeChan)
	// Block until the fan-out goroutine has drained the channel.
	b.writeDone.Lock()
	defer b.writeDone.Unlock()
	for _, destination := range b.writers {
		_ = destination.writer.Close()
	}
}

// Logger returns a subsystem logger writing to this backend. The tag is
// included in every entry the logger emits. The logger starts at the off
// level until it is registered.
func (b *Backend) Logger(subsystemTag string) *Logger {
	return &Logger{
		lvl:       uint32(LevelOff),
		tag:       subsystemTag,
		backend:   b,
		writeChan: b.writeChan,
	}
}
