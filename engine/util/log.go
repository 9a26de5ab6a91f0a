package util

import (
	"log"
	"strings"

	"github.com/pkg/errors"
)

var GLOBAL_LOG_LEVEL = LogLevelInfo
var GLOBAL_LOG_CATEGORIES = LogMesh | LogIO | LogStore | LogSystem

type LogLevel int

const (
	LogLevelError LogLevel = 1 << iota
	LogLevelWarning
	LogLevelInfo
	LogLevelDebug
)

type LogCategory int

const (
	LogMesh LogCategory = 1 << iota
	LogIO
	LogStore
	LogSystem
)

var categoryNames = map[LogCategory]string{
	LogMesh:   "Mesh",
	LogIO:     "IO",
	LogStore:  "Store",
	LogSystem: "System",
}

// ParseLogLevel accepts error, warning, info and debug.
func ParseLogLevel(name string) (LogLevel, error) {
	switch strings.ToLower(name) {
	case "error":
		return LogLevelError, nil
	case "warning", "warn":
		return LogLevelWarning, nil
	case "info", "":
		return LogLevelInfo, nil
	case "debug":
		return LogLevelDebug, nil
	}
	return 0, errors.Errorf("unknown log level %q", name)
}

func logf(cat LogCategory, lvl LogLevel, format string, args ...any) {
	if lvl > GLOBAL_LOG_LEVEL {
		return
	}
	if GLOBAL_LOG_CATEGORIES&cat == 0 {
		return
	}
	log.Printf("[%s] "+format, append([]any{categoryNames[cat]}, args...)...)
}

func LogMeshInfo(format string, args ...any) {
	logf(LogMesh, LogLevelInfo, format, args...)
}

func LogMeshDebug(format string, args ...any) {
	logf(LogMesh, LogLevelDebug, format, args...)
}

func LogMeshError(format string, args ...any) {
	logf(LogMesh, LogLevelError, format, args...)
}

func LogIOInfo(format string, args ...any) {
	logf(LogIO, LogLevelInfo, format, args...)
}

func LogIOError(format string, args ...any) {
	logf(LogIO, LogLevelError, format, args...)
}

func LogStoreDebug(format string, args ...any) {
	logf(LogStore, LogLevelDebug, format, args...)
}

func LogStoreWarning(format string, args ...any) {
	logf(LogStore, LogLevelWarning, format, args...)
}

func LogSystemInfo(format string, args ...any) {
	logf(LogSystem, LogLevelInfo, format, args...)
}

func LogSystemError(format string, args ...any) {
	logf(LogSystem, LogLevelError, format, args...)
}
