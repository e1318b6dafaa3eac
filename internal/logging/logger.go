// Package logging provides categorized file-based logging for mandibot.
// Logs are written to <workspace>/logs/ with one file per category. When
// debug mode is off the whole package is a silent no-op.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Category names a logging subsystem.
type Category string

const (
	CategoryBoot     Category = "boot"     // startup, config, vocabulary load
	CategoryChat     Category = "chat"     // conversation orchestration
	CategorySlots    Category = "slots"    // extraction and dialogue state
	CategoryScraper  Category = "scraper"  // browser automation
	CategoryVocab    Category = "vocab"    // vocabulary tables
	CategoryStore    Category = "store"    // sqlite persistence
	CategoryClassify Category = "classify" // intent classification
)

// Log levels.
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Options controls logger behaviour; supplied by the config package at boot.
type Options struct {
	DebugMode bool
	Level     string // debug, info, warn, error
}

// Logger writes to one category file.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string
	opts      Options
	logLevel  = LevelInfo
)

// Initialize sets up the logging directory. Call once at startup.
func Initialize(workspace string, o Options) error {
	if workspace == "" {
		return fmt.Errorf("workspace path required")
	}
	opts = o
	switch o.Level {
	case "debug":
		logLevel = LevelDebug
	case "info", "":
		logLevel = LevelInfo
	case "warn", "warning":
		logLevel = LevelWarn
	case "error":
		logLevel = LevelError
	default:
		logLevel = LevelInfo
	}

	if !opts.DebugMode {
		return nil
	}

	logsDir = filepath.Join(workspace, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	Get(CategoryBoot).Info("=== mandibot logging initialized (level=%s) ===", o.Level)
	return nil
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger when debug mode is off.
func Get(category Category) *Logger {
	if !opts.DebugMode || logsDir == "" {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	date := time.Now().Format("2006-01-02")
	logPath := filepath.Join(logsDir, fmt.Sprintf("%s_%s.log", date, category))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] warning: could not open %s: %v\n", logPath, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l
	return l
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelDebug {
		return
	}
	l.logger.Printf("[DEBUG] %s", fmt.Sprintf(format, args...))
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelInfo {
		return
	}
	l.logger.Printf("[INFO] %s", fmt.Sprintf(format, args...))
}

// Warn logs a warning.
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelWarn {
		return
	}
	l.logger.Printf("[WARN] %s", fmt.Sprintf(format, args...))
}

// Error logs an error. Always written when the file is open.
func (l *Logger) Error(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Printf("[ERROR] %s", fmt.Sprintf(format, args...))
}

// CloseAll closes all open log files. Call at shutdown.
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for _, l := range loggers {
		if l.file != nil {
			_ = l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// Timer measures an operation's duration.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration at debug level.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// Convenience functions; no-ops when the category file is unavailable.

func Boot(format string, args ...interface{})  { Get(CategoryBoot).Info(format, args...) }
func Chat(format string, args ...interface{})  { Get(CategoryChat).Info(format, args...) }
func Slots(format string, args ...interface{}) { Get(CategorySlots).Info(format, args...) }
func Vocab(format string, args ...interface{}) { Get(CategoryVocab).Info(format, args...) }
func Store(format string, args ...interface{}) { Get(CategoryStore).Info(format, args...) }

func Scraper(format string, args ...interface{})      { Get(CategoryScraper).Info(format, args...) }
func ScraperDebug(format string, args ...interface{}) { Get(CategoryScraper).Debug(format, args...) }
func ScraperWarn(format string, args ...interface{})  { Get(CategoryScraper).Warn(format, args...) }
func ScraperError(format string, args ...interface{}) { Get(CategoryScraper).Error(format, args...) }

func SlotsDebug(format string, args ...interface{}) { Get(CategorySlots).Debug(format, args...) }
func ChatDebug(format string, args ...interface{})  { Get(CategoryChat).Debug(format, args...) }
func StoreDebug(format string, args ...interface{}) { Get(CategoryStore).Debug(format, args...) }
func VocabWarn(format string, args ...interface{})  { Get(CategoryVocab).Warn(format, args...) }
func StoreError(format string, args ...interface{}) { Get(CategoryStore).Error(format, args...) }
