package logger

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// logEntry is a single formatted log message together with the level it was
// emitted at, so that the backend can route it to the right writers.
type logEntry struct {
	log   []byte
	level Level
}

// Logger is a subsystem logger. It writes formatted log entries to its
// backend's write channel; the backend goroutine fans them out to the
// configured writers.
type Logger struct {
	lvl       uint32 // atomic, holds a Level
	tag       string
	backend   *Backend
	writeChan chan<- logEntry
}

// Trace formats a message using the default formats for its operands and
// writes it at level trace.
func (l *Logger) Trace(args ...interface{}) { l.print(LevelTrace, args...) }

// Tracef formats a message according to a format specifier and writes it at
// level trace.
func (l *Logger) Tracef(format string, args ...interface{}) { l.printf(LevelTrace, format, args...) }

// Debug writes a message at level debug.
func (l *Logger) Debug(args ...interface{}) { l.print(LevelDebug, args...) }

// Debugf writes a formatted message at level debug.
func (l *Logger) Debugf(format string, args ...interface{}) { l.printf(LevelDebug, format, args...) }

// Info writes a message at level info.
func (l *Logger) Info(args ...interface{}) { l.print(LevelInfo, args...) }

// Infof writes a formatted message at level info.
func (l *Logger) Infof(format string, args ...interface{}) { l.printf(LevelInfo, format, args...) }

// Warn writes a message at level warn.
func (l *Logger) Warn(args ...interface{}) { l.print(LevelWarn, args...) }

// Warnf writes a formatted message at level warn.
func (l *Logger) Warnf(format string, args ...interface{}) { l.printf(LevelWarn, format, args...) }

// Error writes a message at level error.
func (l *Logger) Error(args ...interface{}) { l.print(LevelError, args...) }

// Errorf writes a formatted message at level error.
func (l *Logger) Errorf(format string, args ...interface{}) { l.printf(LevelError, format, args...) }

// Critical writes a message at level critical.
func (l *Logger) Critical(args ...interface{}) { l.print(LevelCritical, args...) }

// Criticalf writes a formatted message at level critical.
func (l *Logger) Criticalf(format string, args ...interface{}) {
	l.printf(LevelCritical, format, args...)
}

// Level returns the current logging level of the subsystem.
func (l *Logger) Level() Level {
	return Level(atomic.LoadUint32(&l.lvl))
}

// SetLevel changes the logging level of the subsystem.
func (l *Logger) SetLevel(level Level) {
	atomic.StoreUint32(&l.lvl, uint32(level))
}

// Backend returns the backend this logger writes to.
func (l *Logger) Backend() *Backend {
	return l.backend
}

func (l *Logger) print(level Level, args ...interface{}) {
	if level < l.Level() {
		return
	}
	l.writeEntry(level, fmt.Sprint(args...))
}

func (l *Logger) printf(level Level, format string, args ...interface{}) {
	if level < l.Level() {
		return
	}
	l.writeEntry(level, fmt.Sprintf(format, args...))
}

func (l *Logger) writeEntry(level Level, message string) {
	if !l.backend.IsRunning() {
		// Losing log lines silently during startup or shutdown makes failures
		// there undebuggable, so fall back to stderr.
		fmt.Fprintf(os.Stderr, "logger backend is not running. log: %s\n", message)
		return
	}

	buf := make([]byte, 0, normalLogSize)
	buf = append(buf, time.Now().Format("2006-01-02 15:04:05.000")...)
	buf = append(buf, " ["...)
	buf = append(buf, level.String()...)
	buf = append(buf, "] "...)
	buf = append(buf, l.tag...)
	if file, line, ok := callsite(l.backend.flag); ok {
		buf = append(buf, ' ')
		buf = append(buf, fmt.Sprintf("%s:%d", file, line)...)
	}
	buf = append(buf, ": "...)
	buf = append(buf, message...)
	buf = append(buf, '\n')

	l.writeChan <- logEntry{log: buf, level: level}
}

// callsite returns the file name and line of the logging callsite when the
// backend flags request it.
func callsite(flag uint32) (string, int, bool) {
	if flag&(LogFlagLongFile|LogFlagShortFile) == 0 {
		return "", 0, false
	}
	// Skip writeEntry, print/printf and the exported level method.
	_, file, line, ok := runtime.Caller(4)
	if !ok {
		return "<unknown>", 0, true
	}
	if flag&LogFlagShortFile != 0 {
		for i := len(file) - 1; i > 0; i-- {
			if os.IsPathSeparator(file[i]) {
				file = file[i+1:]
				break
			}
		}
	}
	return file, line, true
}

var (
	// backendLog is the shared logging backend all subsystems write to.
	backendLog = NewBackend()

	subsystemsMutex sync.Mutex
	subsystems      = make(map[string]*Logger)
)

// RegisterSubSystem returns a logger for the given subsystem tag, creating it
// if this is the first time the tag is seen. Loggers start at the info level
// until SetLogLevels overrides them.
func RegisterSubSystem(subsystem string) *Logger {
	subsystemsMutex.Lock()
	defer subsystemsMutex.Unlock()

	log, ok := subsystems[subsystem]
	if !ok {
		log = backendLog.Logger(subsystem)
		log.SetLevel(LevelInfo)
		subsystems[subsystem] = log
	}
	return log
}

// InitLog attaches the given log files to the backend (the first at trace
// level, the second at warn level for a compact error log) and starts the
// backend.
func InitLog(logFile, errLogFile string) {
	// 100 MB before rolling, keep the last 8 rolls.
	err := backendLog.AddLogFileWithRotation(logFile, LevelTrace, defaultThresholdKB, defaultMaxRolls)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding log file %s as log rotator for level %s: %s", logFile, LevelTrace, err)
		os.Exit(1)
	}
	err = backendLog.AddLogFile(errLogFile, LevelWarn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding log file %s as log rotator for level %s: %s", errLogFile, LevelWarn, err)
		os.Exit(1)
	}

	run()
}

func run() {
	if backendLog.IsRunning() {
		return
	}
	err := backendLog.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting the logger: %s ", err)
		os.Exit(1)
	}
}

// Close flushes any buffered log entries and stops the logging backend.
func Close() {
	backendLog.Close()
}

// SetLogLevels sets the logging level of all registered subsystems to the
// given level string. It returns an error if the string does not name a
// level.
func SetLogLevels(logLevel string) error {
	level, ok := LevelFromString(logLevel)
	if !ok {
		return errors.Errorf("invalid log level %s, supported levels are %s",
			logLevel, strings.Join(SupportedLevels(), ", "))
	}

	subsystemsMutex.Lock()
	defer subsystemsMutex.Unlock()
	for _, log := range subsystems {
		log.SetLevel(level)
	}
	return nil
}

// LogAndMeasureExecutionTime logs that functionName started and returns a
// function to be deferred that logs how long the call took.
func LogAndMeasureExecutionTime(log *Logger, functionName string) (onEnd func()) {
	start := time.Now()
	log.Debugf("%s start", functionName)
	return func() {
		log.Debugf("%s end. Took: %s", functionName, time.Since(start))
	}
}
