// internal/logger/logger.go

package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

type Mode int

const (
	MINIMAL Mode = iota
	NORMAL
	FULL
)

var (
	levelNames = map[Level]string{
		DEBUG: "DEBUG",
		INFO:  "INFO",
		WARN:  "WARN",
		ERROR: "ERROR",
		FATAL: "FATAL",
	}

	levelColors = map[Level]string{
		DEBUG: "\033[36m",
		INFO:  "\033[32m",
		WARN:  "\033[33m",
		ERROR: "\033[31m",
		FATAL: "\033[35m",
	}

	resetColor = "\033[0m"
)

// sink is shared between a logger and every component logger derived from it,
// so level changes and file handles apply to the whole tree.
type sink struct {
	mu         sync.Mutex
	level      Level
	mode       Mode
	consoleOut io.Writer
	fileOut    io.Writer
	logFile    *os.File
	useColors  bool
	exit       func(int)
}

type Logger struct {
	out       *sink
	component string
}

type Config struct {
	Level       Level
	Mode        Mode
	LogFilePath string
	UseColors   bool
}

func New(cfg Config) (*Logger, error) {
	s := &sink{
		level:      cfg.Level,
		mode:       cfg.Mode,
		consoleOut: os.Stdout,
		useColors:  cfg.UseColors,
		exit:       os.Exit,
	}

	if cfg.LogFilePath != "" {
		if err := s.setupLogFile(cfg.LogFilePath); err != nil {
			return nil, fmt.Errorf("failed to setup log file: %w", err)
		}
	}

	return &Logger{out: s}, nil
}

// Discard returns a logger that writes nowhere. Used by tests and by
// components constructed without a logger.
func Discard() *Logger {
	return &Logger{out: &sink{level: FATAL + 1, consoleOut: io.Discard, exit: func(int) {}}}
}

func (s *sink) setupLogFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	s.logFile = file
	s.fileOut = file
	return nil
}

// With returns a logger that prefixes every message with the component name.
func (l *Logger) With(component string) *Logger {
	if l.component != "" {
		component = l.component + "." + component
	}
	return &Logger{out: l.out, component: component}
}

func (l *Logger) Close() error {
	if l.out.logFile != nil {
		return l.out.logFile.Close()
	}
	return nil
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	s := l.out
	s.mu.Lock()
	defer s.mu.Unlock()

	if level < s.level {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	if l.component != "" {
		message = "[" + l.component + "] " + message
	}

	var consoleMsg, fileMsg string

	switch s.mode {
	case MINIMAL:
		consoleMsg = s.formatMinimal(level, message)
		fileMsg = s.formatFile(level, timestamp, "", message)

	case FULL:
		file, line := getCaller()
		location := fmt.Sprintf("%s:%d", file, line)
		consoleMsg = s.formatConsole(level, timestamp, location, message)
		fileMsg = s.formatFile(level, timestamp, location, message)

	default:
		consoleMsg = s.formatConsole(level, timestamp, "", message)
		fileMsg = s.formatFile(level, timestamp, "", message)
	}

	if s.consoleOut != nil {
		fmt.Fprintln(s.consoleOut, consoleMsg)
	}

	if s.fileOut != nil {
		fmt.Fprintln(s.fileOut, fileMsg)
	}

	if level == FATAL {
		s.exit(1)
	}
}

func (s *sink) formatMinimal(level Level, msg string) string {
	levelStr := levelNames[level]
	if s.useColors {
		return fmt.Sprintf("%s[%s]%s %s", levelColors[level], levelStr, resetColor, msg)
	}
	return fmt.Sprintf("[%s] %s", levelStr, msg)
}

func (s *sink) formatConsole(level Level, timestamp, location, msg string) string {
	levelStr := levelNames[level]
	if location != "" {
		msg = location + " | " + msg
	}
	if s.useColors {
		return fmt.Sprintf("%s[%s]%s %s | %s", levelColors[level], levelStr, resetColor, timestamp, msg)
	}
	return fmt.Sprintf("[%s] %s | %s", levelStr, timestamp, msg)
}

func (s *sink) formatFile(level Level, timestamp, location, msg string) string {
	if location != "" {
		return fmt.Sprintf("%s [%s] %s | %s", timestamp, levelNames[level], location, msg)
	}
	return fmt.Sprintf("%s [%s] %s", timestamp, levelNames[level], msg)
}

func getCaller() (string, int) {
	_, file, line, ok := runtime.Caller(3)
	if !ok {
		return "unknown", 0
	}
	return filepath.Base(file), line
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

func (l *Logger) Fatal(format string, args ...interface{}) {
	l.log(FATAL, format, args...)
}

func (l *Logger) SetLevel(level Level) {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	l.out.level = level
}

func (l *Logger) SetMode(mode Mode) {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	l.out.mode = mode
}

// SetOutput redirects console output; nil silences the console.
func (l *Logger) SetOutput(w io.Writer) {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	l.out.consoleOut = w
}

func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return DEBUG
	case "info", "INFO":
		return INFO
	case "warn", "WARN", "warning", "WARNING":
		return WARN
	case "error", "ERROR":
		return ERROR
	case "fatal", "FATAL":
		return FATAL
	default:
		return INFO
	}
}

func ParseMode(s string) Mode {
	switch s {
	case "minimal", "MINIMAL":
		return MINIMAL
	case "normal", "NORMAL":
		return NORMAL
	case "full", "FULL":
		return FULL
	default:
		return NORMAL
	}
}

var defaultLogger *Logger

func init() {
	defaultLogger, _ = New(Config{
		Level:     INFO,
		Mode:      NORMAL,
		UseColors: true,
	})
}

// Default returns the process-wide logger used before configuration is loaded.
func Default() *Logger {
	return defaultLogger
}

func Debug(format string, args ...interface{}) {
	defaultLogger.Debug(format, args...)
}

func Info(format string, args ...interface{}) {
	defaultLogger.Info(format, args...)
}

func Warn(format string, args ...interface{}) {
	defaultLogger.Warn(format, args...)
}

func Error(format string, args ...interface{}) {
	defaultLogger.Error(format, args...)
}

func Fatal(format string, args ...interface{}) {
	defaultLogger.Fatal(format, args...)
}
