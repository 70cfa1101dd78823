// Package logger provides the leveled logger shared by the covlens CLI.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level represents the logging level.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

var levelColors = [...]string{
	"\033[36m", // DEBUG cyan
	"\033[32m", // INFO green
	"\033[33m", // WARN yellow
	"\033[31m", // ERROR red
	"\033[35m", // FATAL magenta
}

const colorReset = "\033[0m"

type logState struct {
	mu    sync.Mutex
	level Level
	out   io.Writer
	color bool
}

var std = &logState{level: INFO, out: os.Stderr, color: true}

// Init sets the level from its string form ("debug", "info", "warn",
// "error", "fatal"); unknown strings mean INFO.
func Init(level string) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.level = ParseLevel(level)
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.out = w
}

// SetColor enables or disables ANSI level coloring.
func SetColor(enable bool) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.color = enable
}

// ParseLevel converts a level name to a Level, defaulting to INFO.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	}
	return INFO
}

func (l *logState) log(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	tag := levelNames[level]
	msg := fmt.Sprintf(format, args...)
	if l.color {
		tag = levelColors[level] + "[" + tag + "]" + colorReset
	} else {
		tag = "[" + tag + "]"
	}
	log.New(l.out, "", log.LstdFlags).Printf("%s %s", tag, msg)

	if level == FATAL {
		os.Exit(1)
	}
}

// Debug logs at DEBUG level.
func Debug(format string, args ...interface{}) { std.log(DEBUG, format, args...) }

// Info logs at INFO level.
func Info(format string, args ...interface{}) { std.log(INFO, format, args...) }

// Warn logs at WARN level.
func Warn(format string, args ...interface{}) { std.log(WARN, format, args...) }

// Error logs at ERROR level.
func Error(format string, args ...interface{}) { std.log(ERROR, format, args...) }

// Fatal logs at FATAL level and exits.
func Fatal(format string, args ...interface{}) { std.log(FATAL, format, args...) }
