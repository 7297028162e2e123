package slogex

import "log/slog"

// Error returns the "error" attribute of a log record, an empty attribute for nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Attr{Key: "error", Value: slog.StringValue(err.Error())}
}
