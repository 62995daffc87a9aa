package main

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// loggerInstance wraps the zerolog logger for thread-safe access.
type loggerInstance struct {
	logger zerolog.Logger
	file   *os.File
}

func (l *loggerInstance) get() *zerolog.Logger {
	return &l.logger
}

func newLoggerInstance() *loggerInstance {
	return &loggerInstance{
		logger: zerolog.New(os.Stderr).With().Timestamp().Logger(),
	}
}

var loggerHolder = newLoggerInstance() //nolint:gochecknoglobals // logger needs to be accessible throughout the application

// InitLogger initializes the global logger. Console output always goes to
// stderr; stdout belongs to the MCP stdio transport. When logFilePath is not
// empty the log is also appended to that file.
func InitLogger(logFilePath string) error {
	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	writers := []io.Writer{consoleWriter}
	var logFile *os.File
	if logFilePath != "" {
		f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return err
		}
		logFile = f
		writers = append(writers, logFile)
	}

	previous := loggerHolder.file

	loggerHolder.logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Caller().
		Logger()
	loggerHolder.file = logFile

	if previous != nil {
		_ = previous.Close()
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	return nil
}

// CloseLogger closes the log file opened by InitLogger, if any. Later
// messages still reach the console.
func CloseLogger() error {
	f := loggerHolder.file
	if f == nil {
		return nil
	}

	loggerHolder.logger = loggerHolder.logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	loggerHolder.file = nil

	return f.Close()
}

// SetLogLevel sets the global log level.
func SetLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// GetLogger returns the global logger.
func GetLogger() *zerolog.Logger {
	return loggerHolder.get()
}

// componentLogger returns a child of the global logger tagged with name.
func componentLogger(name string) *zerolog.Logger {
	l := GetLogger().With().Str("component", name).Logger()
	return &l
}
