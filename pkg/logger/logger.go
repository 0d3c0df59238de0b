// Package logger is a small facade over pluggable logging backends. The rest
// of the codebase logs through the package-level functions; main wires the
// actual backends once at startup via Init. Before Init every call is a
// no-op, which keeps tests quiet without any setup.
package logger

// Backend is a single logging sink.
type Backend interface {
	Log(message string, keyvals ...any)
	Debug(message string, keyvals ...any)
	Info(message string, keyvals ...any)
	Warn(message string, keyvals ...any)
	Error(message string, keyvals ...any)
	Fatal(message string, keyvals ...any)
}

var backends []Backend

// Init installs the global backends. Call once from main before anything
// logs; later calls replace the set.
func Init(b ...Backend) {
	backends = b
}

// Log writes at the backend's default level.
func Log(message string, keyvals ...any) {
	for _, b := range backends {
		b.Log(message, keyvals...)
	}
}

// Debug writes at DEBUG level.
func Debug(message string, keyvals ...any) {
	for _, b := range backends {
		b.Debug(message, keyvals...)
	}
}

// Info writes at INFO level.
func Info(message string, keyvals ...any) {
	for _, b := range backends {
		b.Info(message, keyvals...)
	}
}

// Warn writes at WARN level.
func Warn(message string, keyvals ...any) {
	for _, b := range backends {
		b.Warn(message, keyvals...)
	}
}

// Error writes at ERROR level.
func Error(message string, keyvals ...any) {
	for _, b := range backends {
		b.Error(message, keyvals...)
	}
}

// Fatal writes at FATAL level; backends are expected to terminate the
// program.
func Fatal(message string, keyvals ...any) {
	for _, b := range backends {
		b.Fatal(message, keyvals...)
	}
}
