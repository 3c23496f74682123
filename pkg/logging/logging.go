// pkg/logging/logging.go
package logging

import (
	"fmt"
	"io"
	stdLog "log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// logWriter stores the current log writer globally
	logWriter io.Writer
	mu        sync.Mutex
	sink      = &fileSink{out: os.Stderr}
	current   Options
)

// fileSink is the destination shared by every logger this package builds.
// Configure and Reopen retarget it, so component loggers created earlier
// keep writing after the log file is rotated.
type fileSink struct {
	mu   sync.Mutex
	out  io.Writer
	file *os.File
}

func (s *fileSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Write(p)
}

// retarget points the sink at out and closes the file it owned before.
func (s *fileSink) retarget(out io.Writer, file *os.File) {
	s.mu.Lock()
	prev := s.file
	s.out, s.file = out, file
	s.mu.Unlock()
	if prev != nil && prev != file {
		_ = prev.Close()
	}
}

// Options describes how the global logger is built.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // text (console) or json
	File   string // append to this file instead of stderr when set
}

// stdLogWriter is a custom writer that reformats stdlog output to match zerolog's format
type stdLogWriter struct {
	logger zerolog.Logger
}

func (w *stdLogWriter) Write(p []byte) (n int, err error) {
	// Remove trailing newline if exists
	message := strings.TrimSuffix(string(p), "\n")

	// Example stdlog output: "2026/05/23 14:40:15 server.go:35: http: TLS handshake error"
	parts := strings.SplitN(message, " ", 4)
	if len(parts) >= 4 {
		stdTime, err := time.Parse("2006/01/02 15:04:05", parts[0]+" "+parts[1])
		if err == nil {
			fileLine := strings.TrimSuffix(parts[2], ":")

			w.logger.Debug().
				Str("file", fileLine).
				Time("time", stdTime).
				Msg(parts[3])
			return len(p), nil
		}
	}

	// Fallback if parsing fails
	w.logger.Debug().Msg(message)
	return len(p), nil
}

// init keeps the CLI quiet until logging is configured: only errors reach stderr.
func init() {
	logWriter = consoleWriter(sink)
	log.Logger = zerolog.New(logWriter).With().Timestamp().Logger().Level(zerolog.ErrorLevel)
}

func consoleWriter(out io.Writer) io.Writer {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}
}

// Configure builds the global logger from opts. The previous log file, if
// any, is closed when a new one is opened.
func Configure(opts Options) error {
	mu.Lock()
	defer mu.Unlock()
	return configureOptionsLocked(opts)
}

// Reopen closes and re-opens the configured log file so an external rotator
// can move it aside. Loggers returned by NewLogger follow the new file. It is
// a no-op when logging goes to stderr.
func Reopen() error {
	mu.Lock()
	defer mu.Unlock()
	if current.File == "" {
		return nil
	}
	return configureOptionsLocked(current)
}

func configureOptionsLocked(opts Options) error {
	var w io.Writer
	switch strings.ToLower(opts.Format) {
	case "", "text", "console":
		w = consoleWriter(sink)
	case "json":
		w = sink
	default:
		return fmt.Errorf("unknown log format %q", opts.Format)
	}

	if opts.File == "" {
		sink.retarget(os.Stderr, nil)
	} else {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file %s: %w", opts.File, err)
		}
		sink.retarget(f, f)
	}
	logWriter = w

	current = opts
	return configureLocked(opts.Level)
}

// ConfigureGlobalLogging configures the global logging settings for the application.
func ConfigureGlobalLogging(levelStr string) error {
	mu.Lock()
	defer mu.Unlock()
	return configureLocked(levelStr)
}

func configureLocked(levelStr string) error {
	level := parseLogLevel(levelStr)
	zerolog.SetGlobalLevel(level)

	logContext := zerolog.New(logWriter).With().Timestamp()
	if level <= zerolog.DebugLevel {
		logContext = logContext.Caller()
	}

	log.Logger = logContext.Logger().Level(level)
	zerolog.DefaultContextLogger = &log.Logger

	// Configure stdlog (net/http server errors) to use our custom writer
	stdLog.SetFlags(stdLog.LstdFlags | stdLog.Lshortfile)
	stdLog.SetOutput(&stdLogWriter{logger: WithLevelOverride(log.Logger, zerolog.DebugLevel)})

	return nil
}

// ConfigureGlobal sets the global level and routes the global logger to stderr as JSON.
func ConfigureGlobal(level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()

	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level)
}

// NewLogger returns a component logger writing to the current log writer.
func NewLogger(component string, level zerolog.Level) zerolog.Logger {
	return NewLoggerWithWriter(component, level, getLogWriter())
}

// NewLoggerWithWriter returns a JSON component logger writing to w.
func NewLoggerWithWriter(component string, level zerolog.Level, w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}

// parseLogLevel converts a string log level to zerolog.Level
func parseLogLevel(levelString string) zerolog.Level {
	if levelString == "" {
		levelString = "error"
	}

	level, err := zerolog.ParseLevel(strings.ToLower(levelString))
	if err != nil || level == zerolog.NoLevel {
		log.Error().Err(err).
			Str("logLevel", levelString).
			Msg("Invalid log level provided. Defaulting to error level.")
		return zerolog.ErrorLevel
	}
	return level
}

// getLogWriter returns the configured log writer
func getLogWriter() io.Writer {
	return logWriter
}

// SetLogWriter sets the global log writer
func SetLogWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logWriter = w
}

// LevelOverrideHook provides functionality to override log levels
// and filter logs below a minimum severity level.
type LevelOverrideHook struct {
	minSeverity zerolog.Level // Minimum log level to keep
	targetLevel zerolog.Level // Level to assign to NoLevel events
}

// NewLevelOverrideHook creates a new LevelOverrideHook instance.
// minSeverity: Logs below this level will be discarded
// targetLevel: NoLevel events will be upgraded to this level
func NewLevelOverrideHook(minSeverity, targetLevel zerolog.Level) *LevelOverrideHook {
	return &LevelOverrideHook{
		minSeverity: minSeverity,
		targetLevel: targetLevel,
	}
}

// Run implements zerolog.Hook interface and performs the log level processing.
func (h LevelOverrideHook) Run(e *zerolog.Event, currentLevel zerolog.Level, _ string) {
	if h.minSeverity > h.targetLevel {
		e.Discard()
		return
	}

	if currentLevel == zerolog.NoLevel {
		e.Str("level", h.targetLevel.String())
	}
}

// WithLevelOverride configures a logger to handle NoLevel events and level filtering.
func WithLevelOverride(logger zerolog.Logger, targetLevel zerolog.Level) zerolog.Logger {
	return logger.Hook(NewLevelOverrideHook(logger.GetLevel(), targetLevel))
}
