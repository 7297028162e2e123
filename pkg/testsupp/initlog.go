package testsupp

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/dusted-go/logging/prettylog"
	slogformatter "github.com/samber/slog-formatter"
)

type testWriter struct {
	t *testing.T
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// NewLogger returns a debug logger that writes through t.Log.
func NewLogger(t *testing.T) *slog.Logger {
	t.Helper()

	funcHandler := slogformatter.NewFormatterHandler(
		slogformatter.FormatByType(func(s []string) slog.Value {
			return slog.StringValue(strings.Join(s, ","))
		}),
	)

	plHandler := prettylog.New(
		&slog.HandlerOptions{
			Level:       slog.LevelDebug,
			AddSource:   false,
			ReplaceAttr: nil,
		},
		prettylog.WithDestinationWriter(testWriter{t: t}),
	)

	return slog.New(funcHandler(plHandler))
}

// InitLog makes the test logger the default one until the test finishes.
func InitLog(t *testing.T) {
	t.Helper()

	prev := slog.Default()
	slog.SetDefault(NewLogger(t))
	t.Cleanup(func() {
		slog.SetDefault(prev)
	})
}
