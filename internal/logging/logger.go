// Package logging provides config-driven categorized file logging for blogfeed.
// Logs are written to <workspace>/.feed/logs/ with one file per category.
// Logging is controlled by logging.debug_mode in the config - when false, no
// logs are written and every logger is a no-op.
//
// The interactive browser owns the terminal, so nothing here ever writes to
// stdout or stderr once initialized.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot   Category = "boot"   // Startup, config resolution
	CategoryAPI    Category = "api"    // Posts service calls
	CategoryUI     Category = "ui"     // Interactive browser events
	CategoryConfig Category = "config" // Config load and hot reload
)

// Settings mirrors config.LoggingConfig so that config can log through this
// package without an import cycle.
type Settings struct {
	DebugMode  bool
	Level      string
	JSONFormat bool
	Categories map[string]bool
}

func (s Settings) categoryEnabled(category string) bool {
	if !s.DebugMode {
		return false
	}
	if s.Categories == nil {
		return true // All enabled by default in debug mode
	}
	enabled, exists := s.Categories[category]
	if !exists {
		return true
	}
	return enabled
}

// Logger is a category-scoped wrapper around a zap.Logger.
type Logger struct {
	category Category
	zl       *zap.Logger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string
	wsDir     string // workspace given to Initialize; Reconfigure may create logs under it
	settings  Settings
	level     = zapcore.InfoLevel
	configMu  sync.RWMutex
)

// Initialize sets up the logging directory for the workspace.
// Should be called once at startup, before any logger is requested.
func Initialize(workspace string, cfg Settings) error {
	if workspace == "" {
		return fmt.Errorf("workspace path required")
	}

	loggersMu.Lock()
	wsDir = workspace
	loggersMu.Unlock()

	if err := apply(cfg); err != nil {
		return err
	}
	if !cfg.DebugMode {
		return nil
	}

	Boot("=== blogfeed logging initialized ===")
	Boot("Workspace: %s", workspace)
	Boot("Log level: %s", level)
	if len(cfg.Categories) == 0 {
		Boot("All categories enabled (no category filter)")
	}
	return nil
}

// Reconfigure applies new settings to the workspace passed to Initialize.
// Turning debug mode on creates the logs directory if it is missing.
// Existing loggers are closed so the next Get picks up the new level/format.
func Reconfigure(cfg Settings) error {
	return apply(cfg)
}

func apply(cfg Settings) error {
	CloseAll()

	configMu.Lock()
	settings = cfg
	level = parseLevel(cfg.Level)
	configMu.Unlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()
	logsDir = ""
	if !cfg.DebugMode || wsDir == "" {
		return nil
	}
	dir := filepath.Join(wsDir, ".feed", "logs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}
	logsDir = dir
	return nil
}

func parseLevel(s string) zapcore.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zapcore.ParseLevel(s)
	if err != nil || s == "" {
		return zapcore.InfoLevel
	}
	return lvl
}

// IsDebugMode returns whether debug logging is enabled
func IsDebugMode() bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return settings.DebugMode
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return settings.categoryEnabled(string(category))
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode is disabled or category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category, zl: zap.NewNop()}
	}

	loggersMu.RLock()
	dir := logsDir
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	if dir == "" {
		return &Logger{category: category, zl: zap.NewNop()}
	}

	loggersMu.Lock()
	defer loggersMu.Unlock()

	if l, ok := loggers[category]; ok {
		return l
	}

	// Date prefix keeps rotation trivial
	filename := fmt.Sprintf("%s_%s.log", time.Now().Format("2006-01-02"), category)
	file, err := os.OpenFile(filepath.Join(dir, filename), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return &Logger{category: category, zl: zap.NewNop()}
	}

	configMu.RLock()
	jsonFormat := settings.JSONFormat
	lvl := level
	configMu.RUnlock()

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if jsonFormat {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(file), lvl)
	l := &Logger{
		category: category,
		file:     file,
		// A logger outliving CloseAll writes to a closed file; zap must not
		// report that on the terminal.
		zl: zap.New(core, zap.ErrorOutput(zapcore.AddSync(io.Discard))).
			With(zap.String("cat", string(category))),
	}
	loggers[category] = l
	return l
}

func (l *Logger) log(lvl zapcore.Level, format string, args []interface{}, fields ...zap.Field) {
	if l.zl == nil {
		return
	}
	ce := l.zl.Check(lvl, "")
	if ce == nil {
		return
	}
	ce.Message = fmt.Sprintf(format, args...)
	ce.Write(fields...)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(zapcore.DebugLevel, format, args)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(zapcore.InfoLevel, format, args)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(zapcore.WarnLevel, format, args)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(zapcore.ErrorLevel, format, args)
}

// CloseAll flushes and closes every open category logger.
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	for cat, l := range loggers {
		_ = l.zl.Sync()
		if l.file != nil {
			_ = l.file.Close()
		}
		delete(loggers, cat)
	}
}

// =============================================================================
// CATEGORY HELPERS
// =============================================================================

func Boot(format string, args ...interface{}) { Get(CategoryBoot).Info(format, args...) }

func UI(format string, args ...interface{})      { Get(CategoryUI).Info(format, args...) }
func UIDebug(format string, args ...interface{}) { Get(CategoryUI).Debug(format, args...) }
func UIWarn(format string, args ...interface{})  { Get(CategoryUI).Warn(format, args...) }

func Config(format string, args ...interface{})      { Get(CategoryConfig).Info(format, args...) }
func ConfigWarn(format string, args ...interface{})  { Get(CategoryConfig).Warn(format, args...) }
func ConfigError(format string, args ...interface{}) { Get(CategoryConfig).Error(format, args...) }

// =============================================================================
// REQUEST-SCOPED LOGGING
// =============================================================================

// RequestLogger attaches a request id and extra fields to every entry.
type RequestLogger struct {
	logger *Logger
	fields []zap.Field
}

// WithRequestID returns a logger that tags entries with req=<id>.
func WithRequestID(category Category, requestID string) *RequestLogger {
	return &RequestLogger{
		logger: Get(category),
		fields: []zap.Field{zap.String("req", requestID)},
	}
}

// WithField returns a copy of r carrying an additional field.
func (r *RequestLogger) WithField(key string, value interface{}) *RequestLogger {
	fields := make([]zap.Field, len(r.fields), len(r.fields)+1)
	copy(fields, r.fields)
	return &RequestLogger{logger: r.logger, fields: append(fields, zap.Any(key, value))}
}

func (r *RequestLogger) Debug(format string, args ...interface{}) {
	r.logger.log(zapcore.DebugLevel, format, args, r.fields...)
}

func (r *RequestLogger) Info(format string, args ...interface{}) {
	r.logger.log(zapcore.InfoLevel, format, args, r.fields...)
}

func (r *RequestLogger) Warn(format string, args ...interface{}) {
	r.logger.log(zapcore.WarnLevel, format, args, r.fields...)
}

func (r *RequestLogger) Error(format string, args ...interface{}) {
	r.logger.log(zapcore.ErrorLevel, format, args, r.fields...)
}

// =============================================================================
// TIMING
// =============================================================================

// Timer measures an operation and logs its duration on Stop.
type Timer struct {
	category  Category
	operation string
	start     time.Time
}

// StartTimer begins timing operation under category.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, operation: operation, start: time.Now()}
}

// Stop logs the elapsed time at debug level and returns it.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).log(zapcore.DebugLevel, "%s completed", []interface{}{t.operation},
		zap.String("op", t.operation), zap.Duration("elapsed", elapsed))
	return elapsed
}

// StopWithThreshold logs a warning when the operation ran longer than threshold.
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	lvl := zapcore.DebugLevel
	if elapsed > threshold {
		lvl = zapcore.WarnLevel
	}
	Get(t.category).log(lvl, "%s completed", []interface{}{t.operation},
		zap.String("op", t.operation), zap.Duration("elapsed", elapsed))
	return elapsed
}
