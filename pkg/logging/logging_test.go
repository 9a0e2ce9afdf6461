package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	log := Logger(&buf, false, slog.LevelInfo)

	log.Info("hello", "codec", "jxl")
	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "codec=jxl")

	buf.Reset()
	log.Debug("hidden")
	assert.Empty(t, buf.String(), "debug is below the configured level")
}

func TestLogger_ContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := Logger(&buf, true, slog.LevelInfo)

	ctx := AppendCtx(context.Background(), slog.String("run", "abc123"))
	ctx = AppendCtx(ctx, slog.Int("tile", 7))
	log.InfoContext(ctx, "matched")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "abc123", rec["run"])
	assert.Equal(t, float64(7), rec["tile"])
	assert.Equal(t, "matched", rec["msg"])
}
