package logger

import (
	"fmt"
	"io"
	"log"
)

type Logger struct {
	l         *log.Logger
	component string
}

func New(l *log.Logger) *Logger {
	return &Logger{l: l}
}

// Discard returns a logger that drops every message. Used by tests.
func Discard() *Logger {
	return New(log.New(io.Discard, "", 0))
}

// With returns a child logger whose messages are tagged with the component name.
func (l *Logger) With(component string) *Logger {
	//nolint:exhaustruct
	child := &Logger{l: l.l, component: component}
	if l.component != "" {
		child.component = l.component + "." + component
	}

	return child
}

func (l *Logger) print(level, format string, v ...any) {
	msg := fmt.Sprintf(format, v...)

	if l.component == "" {
		l.l.Printf("[%s]: %s\n", level, msg)

		return
	}

	l.l.Printf("[%s] %s: %s\n", level, l.component, msg)
}

func (l *Logger) LogErrorf(format string, v ...any) {
	l.print("Error", format, v...)
}

func (l *Logger) LogWarnf(format string, v ...any) {
	l.print("Warn", format, v...)
}

func (l *Logger) LogInfo(format string, v ...any) {
	l.print("Info", format, v...)
}
