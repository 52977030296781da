package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// Logger is a minimal leveled logger over the stdlib log package. It is
// used for operational output (startup, shutdown, fatal errors); the
// per-message telemetry reports go through the reporters instead.
type Logger struct {
	logger   *log.Logger
	minLevel Level
}

func New(minLevel Level) *Logger {
	return NewWithWriter(os.Stderr, minLevel)
}

func NewWithWriter(w io.Writer, minLevel Level) *Logger {
	return &Logger{
		logger:   log.New(w, "", log.LstdFlags|log.Lmicroseconds),
		minLevel: minLevel,
	}
}

func (l *Logger) Fatal(msg string, args ...any) {
	l.logger.Fatalf("[FATAL] "+msg, args...)
}

func (l *Logger) Debug(msg string, args ...any) {
	if l.minLevel <= DEBUG {
		l.logger.Printf("[DEBUG] "+msg, args...)
	}
}

func (l *Logger) Info(msg string, args ...any) {
	if l.minLevel <= INFO {
		l.logger.Printf("[INFO] "+msg, args...)
	}
}

func (l *Logger) Warn(msg string, args ...any) {
	if l.minLevel <= WARN {
		l.logger.Printf("[WARN] "+msg, args...)
	}
}

func (l *Logger) Error(msg string, args ...any) {
	if l.minLevel <= ERROR {
		l.logger.Printf("[ERROR] "+msg, args...)
	}
}

func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARN":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	default:
		return 0, fmt.Errorf("unknown log level: %q (valid: DEBUG, INFO, WARN, ERROR)", s)
	}
}
