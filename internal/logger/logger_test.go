package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParsesLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.DebugLevel) })

	assert.Equal(t, zerolog.DebugLevel, New("DEBUG").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New("nonsense").GetLevel())
}

func TestContextHelpers(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	l := WithTask(WithWorker(WithComponent(base, "generator"), "worker-1"), "task-1", "deploy")
	coinLogger := WithCoin(l, "coin-1")
	coinLogger.Info().Msg("done")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "generator", entry["component"])
	assert.Equal(t, "worker-1", entry["worker_id"])
	assert.Equal(t, "task-1", entry["task_id"])
	assert.Equal(t, "deploy", entry["task_kind"])
	assert.Equal(t, "coin-1", entry["coin_id"])
}
