package logger

import (
	"io"
	"log"
)

// A LoggerOptFn is a functional option configuring a StdLogger when constructing a new one.
type LoggerOptFn func(*StdLogger)

// WithEnv sets the environment StdLogger is operating in.
func WithEnv(env string) LoggerOptFn {
	return func(l *StdLogger) {
		l.env = env
	}
}

// WithLevel sets the log level StdLogger uses.
func WithLevel(level LogLevel) LoggerOptFn {
	return func(l *StdLogger) {
		if level != LogLevelUnk {
			l.ll = level
		}
	}
}

// WithLogger sets the log.Logger StdLogger uses.
func WithLogger(log *log.Logger) LoggerOptFn {
	return func(l *StdLogger) {
		l.l = log
	}
}

// WithOutput sets where StdLogger writes to, keeping the std lib log pkg's standard flags.
func WithOutput(w io.Writer) LoggerOptFn {
	return func(l *StdLogger) {
		l.l = log.New(w, "", log.LstdFlags)
	}
}

// WithSentryDSN configures New to forward warnings and errors to Sentry.
func WithSentryDSN(dsn string) LoggerOptFn {
	return func(l *StdLogger) {
		l.sentryDSN = dsn
	}
}

// WithSkip sets the number of frames in the call stack
// to skip in order to log the desired file and line number
// of the calling code.
func WithSkip(skip int) LoggerOptFn {
	return func(l *StdLogger) {
		l.skip = skip
	}
}
