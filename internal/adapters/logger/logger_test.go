package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/depot/internal/adapters/logger"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger writing to a buffer without ANSI escape codes.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name       string
		verbose    bool
		log        func(*logger.Logger)
		goldenName string
	}{
		{
			name:       "info",
			log:        func(l *logger.Logger) { l.Info("resolved 3 packages") },
			goldenName: "info_basic",
		},
		{
			name:       "warn",
			log:        func(l *logger.Logger) { l.Warn("channel updates skipped") },
			goldenName: "warn_basic",
		},
		{
			name:       "debug filtered",
			log:        func(l *logger.Logger) { l.Debug("linking relations") },
			goldenName: "debug_filtered",
		},
		{
			name:       "debug verbose",
			verbose:    true,
			log:        func(l *logger.Logger) { l.Debug("linking relations") },
			goldenName: "debug_verbose",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.SetVerbose(tt.verbose)
			tt.log(lg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{
			name:       "plain error",
			err:        errors.New("'vim' matches no packages"),
			goldenName: "error_simple",
		},
		{
			name: "zerr chain with metadata",
			err: zerr.With(
				zerr.Wrap(errors.New("no such file or directory"), "failed to read session state"),
				"path", "/work/.depot/session.json",
			),
			goldenName: "error_chain_metadata",
		},
		{
			name: "metadata on bare wrapper",
			err: func() error {
				e := zerr.With(errors.New("resolution failed: install A-1 (requested)"), "policy", "install")
				return zerr.Wrap(e, "failed to mark packages")
			}(),
			goldenName: "error_bare_wrapper",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_ErrorNil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Info("hello")
	lg.Error(zerr.New("boom"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first, second map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	require.NoError(t, json.Unmarshal(lines[1], &second))

	assert.Equal(t, "INFO", first["level"])
	assert.Equal(t, "hello", first["msg"])
	assert.Equal(t, "ERROR", second["level"])
	assert.Equal(t, "operation failed", second["msg"])
	// zerr errors log themselves as a group
	errGroup, ok := second["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "boom", errGroup["msg"])
}

func TestCollectErrorEntries(t *testing.T) {
	err := zerr.With(
		zerr.Wrap(
			zerr.With(zerr.New("invalid configuration"), "alias", "my repo"),
			"failed to load depot.yaml",
		),
		"path", "/work/depot.yaml",
	)

	entries := logger.CollectErrorEntries(err)
	require.Len(t, entries, 2)
	assert.Equal(t, logger.ErrorEntry{
		Message:  "failed to load depot.yaml",
		Metadata: map[string]any{"path": "/work/depot.yaml"},
	}, entries[0])
	assert.Equal(t, logger.ErrorEntry{
		Message:  "invalid configuration",
		Metadata: map[string]any{"alias": "my repo"},
	}, entries[1])

	assert.Empty(t, logger.CollectErrorEntries(nil))
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "single entry",
			entries: []logger.ErrorEntry{{Message: "single error"}},
			want:    "Error: single error",
		},
		{
			name:    "two entries",
			entries: []logger.ErrorEntry{{Message: "outer"}, {Message: "inner"}},
			want:    "Error: outer\n\n  Caused by:\n    → inner",
		},
		{
			name: "metadata sorted",
			entries: []logger.ErrorEntry{{
				Message:  "error",
				Metadata: map[string]any{"zebra": "z", "alpha": "a"},
			}},
			want: "Error: error\n       alpha: a\n       zebra: z",
		},
		{
			name:    "multiline cause",
			entries: []logger.ErrorEntry{{Message: "main"}, {Message: "line1\nline2"}},
			want:    "Error: main\n\n  Caused by:\n    → line1\n      line2",
		},
		{
			name: "empty",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntries(tt.entries))
		})
	}
}
