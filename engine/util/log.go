package util

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var GLOBAL_LOG_LEVEL = LogLevelInfo
var GLOBAL_LOG_CATEGORIES = LogPhysics | LogMovement | LogSystem | LogIO

type LogLevel int

const (
	LogLevelError LogLevel = 1 << iota
	LogLevelWarning
	LogLevelInfo
	LogLevelDebug
)

type LogCategory int

const (
	LogPhysics LogCategory = 1 << iota
	LogMovement
	LogSystem
	LogIO
)

func (c LogCategory) String() string {
	switch c {
	case LogPhysics:
		return "physics"
	case LogMovement:
		return "movement"
	case LogSystem:
		return "system"
	case LogIO:
		return "io"
	}
	return "unknown"
}

var logger = zap.NewNop()

// SetLogger routes all log output through l. Until it is called nothing is written.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

func GetLogger() *zap.Logger {
	return logger
}

// SetLogLevel sets the most verbose level that is still written.
func SetLogLevel(level LogLevel) {
	GLOBAL_LOG_LEVEL = level
}

// NewConsoleLogger builds the development console logger used by the demo.
func NewConsoleLogger(debug bool) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// LogEnabled reports whether a message of the category and level would be written.
// Hot paths check it before building fields.
func LogEnabled(cat LogCategory, lvl LogLevel) bool {
	return lvl <= GLOBAL_LOG_LEVEL && GLOBAL_LOG_CATEGORIES&cat != 0
}

func log(cat LogCategory, lvl LogLevel, txt string, fields ...zap.Field) {
	if !LogEnabled(cat, lvl) {
		return
	}
	categorized := logger.With(zap.Stringer("category", cat))
	switch lvl {
	case LogLevelError:
		categorized.Error(txt, fields...)
	case LogLevelWarning:
		categorized.Warn(txt, fields...)
	case LogLevelDebug:
		categorized.Debug(txt, fields...)
	default:
		categorized.Info(txt, fields...)
	}
}

func LogPhysicsDebug(txt string, fields ...zap.Field) {
	log(LogPhysics, LogLevelDebug, txt, fields...)
}

func LogPhysicsWarning(txt string, fields ...zap.Field) {
	log(LogPhysics, LogLevelWarning, txt, fields...)
}

func LogMovementDebug(txt string, fields ...zap.Field) {
	log(LogMovement, LogLevelDebug, txt, fields...)
}

func LogSystemInfo(txt string, fields ...zap.Field) {
	log(LogSystem, LogLevelInfo, txt, fields...)
}

func LogIOError(txt string, fields ...zap.Field) {
	log(LogIO, LogLevelError, txt, fields...)
}

func LogIOInfo(txt string, fields ...zap.Field) {
	log(LogIO, LogLevelInfo, txt, fields...)
}
