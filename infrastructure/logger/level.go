package logger

import "strings"

// Level is the verbosity of a subsystem logger. An entry is written only
// when its level is at or above the level the logger is set to.
type Level uint32

// Level constants, ordered from the most to the least verbose.
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff
)

// levelTags holds the three-letter tag each level is printed with.
var levelTags = [...]string{
	LevelTrace:    "TRC",
	LevelDebug:    "DBG",
	LevelInfo:     "INF",
	LevelWarn:     "WRN",
	LevelError:    "ERR",
	LevelCritical: "CRT",
	LevelOff:      "OFF",
}

// levelNames maps the names accepted on the command line to levels. Both
// the full name and the printed tag are accepted.
var levelNames = map[string]Level{
	"trace":    LevelTrace,
	"debug":    LevelDebug,
	"info":     LevelInfo,
	"warn":     LevelWarn,
	"error":    LevelError,
	"critical": LevelCritical,
	"off":      LevelOff,
}

func init() {
	for level := LevelTrace; level <= LevelOff; level++ {
		levelNames[strings.ToLower(levelTags[level])] = level
	}
}

// String returns the tag the level is printed with in log entries.
func (l Level) String() string {
	if int(l) >= len(levelTags) {
		return "OFF"
	}
	return levelTags[l]
}

// LevelFromString returns the level named by s, case-insensitively. When s
// names no level, LevelInfo and false are returned.
func LevelFromString(s string) (Level, bool) {
	level, ok := levelNames[strings.ToLower(s)]
	if !ok {
		return LevelInfo, false
	}
	return level, ok
}

// SupportedLevels returns the names LevelFromString accepts, in order of
// decreasing verbosity. It is used to build usage and error messages.
func SupportedLevels() []string {
	supported := make([]string, 0, len(levelTags))
	for level := LevelTrace; level <= LevelOff; level++ {
		supported = append(supported, strings.ToLower(levelTags[level]))
	}
	return supported
}
