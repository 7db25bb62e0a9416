package sendgrid

import "go.uber.org/zap"

// ErrorLogger receives failures the client handles without returning them.
type ErrorLogger interface {
	LogError(message string)
}

// LoggerFunc adapts a function to the ErrorLogger interface.
type LoggerFunc func(message string)

// LogError calls f(message).
func (f LoggerFunc) LogError(message string) {
	f(message)
}

// ZapErrorLogger reports messages to l at error level.
func ZapErrorLogger(l *zap.Logger) ErrorLogger {
	return LoggerFunc(func(message string) {
		l.Error(message)
	})
}

var nopErrorLogger = LoggerFunc(func(string) {})
