package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContextAddsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	initWith(&buf, "prod", "info")

	ctx := WithUserID(WithRequestID(context.Background(), "req-1"), 42)
	FromContext(ctx).Info("page served", "page", "dashboard")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line["request_id"])
	assert.EqualValues(t, 42, line["user_id"])
	assert.Equal(t, "dashboard", line["page"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	initWith(&buf, "prod", "warn")

	Info("hidden")
	assert.Zero(t, buf.Len())
	Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}
