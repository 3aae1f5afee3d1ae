package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Logger is the leveled key-value logger shared by the admin service and the store.
type Logger interface {
	Debug(msg string, keyvals ...interface{})
	Info(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
}

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

func (l level) String() string {
	switch l {
	case levelDebug:
		return "DEBUG"
	case levelInfo:
		return "INFO"
	case levelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

type stdLogger struct {
	out *log.Logger
	min level
}

// NewLogger creates a logger writing to stdout, filtered by level.
// Unknown level names fall back to info.
func NewLogger(levelName string) Logger {
	min := levelInfo

	switch strings.ToLower(levelName) {
	case "debug":
		min = levelDebug
	case "warn":
		min = levelWarn
	case "error":
		min = levelError
	}

	return &stdLogger{
		out: log.New(os.Stdout, "", log.Ldate|log.Ltime),
		min: min,
	}
}

func (l *stdLogger) Debug(msg string, keyvals ...interface{}) { l.log(levelDebug, msg, keyvals...) }
func (l *stdLogger) Info(msg string, keyvals ...interface{})  { l.log(levelInfo, msg, keyvals...) }
func (l *stdLogger) Warn(msg string, keyvals ...interface{})  { l.log(levelWarn, msg, keyvals...) }
func (l *stdLogger) Error(msg string, keyvals ...interface{}) { l.log(levelError, msg, keyvals...) }

func (l *stdLogger) log(lv level, msg string, keyvals ...interface{}) {
	if lv < l.min {
		return
	}

	var b strings.Builder
	b.WriteString(lv.String())
	b.WriteString(": ")
	b.WriteString(msg)

	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprintf("%v", keyvals[i])
		value := "missing"

		if i+1 < len(keyvals) {
			value = fmt.Sprintf("%v", keyvals[i+1])
		}

		b.WriteString(" " + key + "=" + value)
	}

	l.out.Println(b.String())
}

// NopLogger discards everything. Used in tests.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
