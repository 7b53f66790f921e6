// Package logging provides unified logging for the status timeline server
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

// LogFileName is the active log file inside the log directory.
const LogFileName = "scantimeline.log"

// Logger wraps the standard logger with file output
type Logger struct {
	*log.Logger
	file *os.File
	dir  string
	mu   sync.Mutex
}

var (
	defaultLogger *Logger
	once          sync.Once
	debugEnabled  atomic.Bool
)

func init() {
	debugEnabled.Store(os.Getenv("DEBUG") == "true")
}

// Initialize sets up logging to stdout and logDir/scantimeline.log.
// An empty logDir logs to stdout only.
func Initialize(logDir string) error {
	var initErr error
	once.Do(func() {
		if logDir == "" {
			defaultLogger = &Logger{Logger: log.New(os.Stdout, "", log.LstdFlags)}
			return
		}

		if err := os.MkdirAll(logDir, 0755); err != nil {
			initErr = fmt.Errorf("failed to create log directory: %w", err)
			return
		}

		logPath := filepath.Join(logDir, LogFileName)
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			initErr = fmt.Errorf("failed to open log file: %w", err)
			return
		}

		multiWriter := io.MultiWriter(os.Stdout, file)
		defaultLogger = &Logger{
			Logger: log.New(multiWriter, "", log.LstdFlags),
			file:   file,
			dir:    logDir,
		}

		log.SetOutput(multiWriter)
		log.SetFlags(log.LstdFlags)

		log.Printf("Logging initialized: %s", logPath)
	})
	return initErr
}

// SetDebug switches Debug output on or off at runtime.
func SetDebug(enabled bool) {
	debugEnabled.Store(enabled)
}

// DebugEnabled reports whether Debug messages are written.
func DebugEnabled() bool {
	return debugEnabled.Load()
}

// Close closes the log file
func Close() error {
	if defaultLogger == nil {
		return nil
	}
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	if defaultLogger.file != nil {
		err := defaultLogger.file.Close()
		defaultLogger.file = nil
		return err
	}
	return nil
}

// Printf logs a formatted message
func Printf(format string, v ...interface{}) {
	output(fmt.Sprintf(format, v...))
}

// Println logs a message with newline
func Println(v ...interface{}) {
	output(fmt.Sprintln(v...))
}

// Error logs an error message
func Error(format string, v ...interface{}) {
	output(fmt.Sprintf("[ERROR] "+format, v...))
}

// Warning logs a warning message
func Warning(format string, v ...interface{}) {
	output(fmt.Sprintf("[WARN] "+format, v...))
}

// Info logs an info message
func Info(format string, v ...interface{}) {
	output(fmt.Sprintf("[INFO] "+format, v...))
}

// Debug logs a debug message when debug output is enabled
func Debug(format string, v ...interface{}) {
	if !debugEnabled.Load() {
		return
	}
	output(fmt.Sprintf("[DEBUG] "+format, v...))
}

func output(msg string) {
	if defaultLogger != nil {
		defaultLogger.mu.Lock()
		defer defaultLogger.mu.Unlock()
		_ = defaultLogger.Output(3, msg)
		return
	}
	_ = log.Output(3, msg)
}

// RotateLogs moves the current log file aside with a timestamp and reopens it.
func RotateLogs() error {
	if defaultLogger == nil || defaultLogger.dir == "" {
		return fmt.Errorf("file logging not initialized")
	}

	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()

	if defaultLogger.file != nil {
		if err := defaultLogger.file.Close(); err != nil {
			return fmt.Errorf("failed to close current log file: %w", err)
		}
	}

	oldPath := filepath.Join(defaultLogger.dir, LogFileName)
	newPath := filepath.Join(defaultLogger.dir, fmt.Sprintf("scantimeline-%s.log", time.Now().Format("20060102-150405")))
	renameErr := os.Rename(oldPath, newPath)

	file, err := os.OpenFile(oldPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open new log file: %w", err)
	}
	defaultLogger.file = file

	multiWriter := io.MultiWriter(os.Stdout, file)
	defaultLogger.Logger.SetOutput(multiWriter)
	log.SetOutput(multiWriter)

	if renameErr != nil {
		return fmt.Errorf("failed to rotate log file: %w", renameErr)
	}
	defaultLogger.Logger.Printf("Log rotation completed: %s", newPath)
	return nil
}
