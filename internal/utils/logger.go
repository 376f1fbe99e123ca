package utils

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger is a simple logger for the application
type Logger struct {
	infoLog  *log.Logger
	errorLog *log.Logger
}

// NewLogger creates a new logger writing info to stdout and errors to stderr
func NewLogger() *Logger {
	return NewLoggerTo(os.Stdout, os.Stderr)
}

// NewLoggerTo creates a logger writing to the given destinations
func NewLoggerTo(info, errs io.Writer) *Logger {
	return &Logger{
		infoLog:  log.New(info, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile),
		errorLog: log.New(errs, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile),
	}
}

// Discard returns a logger that drops everything, for tests and quiet CLIs
func Discard() *Logger {
	return NewLoggerTo(io.Discard, io.Discard)
}

// Info logs an informational message attributed to the caller
func (l *Logger) Info(format string, v ...interface{}) {
	l.infoLog.Output(2, fmt.Sprintf(format, v...))
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.errorLog.Output(2, fmt.Sprintf(format, v...))
}
