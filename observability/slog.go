package observability

import "log/slog"

// SlogLogger adapts a *slog.Logger to the Logger interface.
type SlogLogger struct{ L *slog.Logger }

func (s SlogLogger) log(fn func(string, ...any), msg string, fields []Field) {
	args := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		args = append(args, f.Key(), f.Value())
	}
	fn(msg, args...)
}

func (s SlogLogger) Debug(msg string, fields ...Field) { s.log(s.L.Debug, msg, fields) }
func (s SlogLogger) Info(msg string, fields ...Field)  { s.log(s.L.Info, msg, fields) }
func (s SlogLogger) Warn(msg string, fields ...Field)  { s.log(s.L.Warn, msg, fields) }
func (s SlogLogger) Error(msg string, fields ...Field) { s.log(s.L.Error, msg, fields) }

func (s SlogLogger) With(fields ...Field) Logger {
	args := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		args = append(args, f.Key(), f.Value())
	}
	return SlogLogger{L: s.L.With(args...)}
}
