package core

// Logger is any leveled logger that can ship diagnostics to an error
// tracking backend. Extra args may carry an error, a map of context data
// or a domain object the backend knows how to attach (see services/logger).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
