package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatLine(t *testing.T) {
	ev := Event{
		Type:       ApplicationApproved,
		ActorID:    3,
		EntityID:   9,
		Detail:     map[string]string{"worker_id": "3", "pet_id": "5"},
		OccurredAt: "2024-05-01T10:00:00Z",
	}
	assert.Equal(t,
		`[2024-05-01T10:00:00Z] application.approved | entity_id=9 | actor_id=3 | pet_id="5" | worker_id="3"`+"\n",
		FormatLine(ev))
}

func TestNewEventPairsDetail(t *testing.T) {
	ev := NewEvent(PaymentStatusUpdated, 1, 10, "status", "Completed", "dangling")
	assert.Equal(t, map[string]string{"status": "Completed"}, ev.Detail)
	assert.NotEmpty(t, ev.OccurredAt)

	assert.Nil(t, NewEvent(UserRegistered, 0, 4).Detail)
}

func TestHandleMessageAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "db_log.txt")

	for _, id := range []uint64{1, 2} {
		body, err := json.Marshal(NewEvent(ApplicationSubmitted, 7, id, "pet_id", "5"))
		require.NoError(t, err)
		require.NoError(t, handleMessage(path, body))
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "entity_id=1")
	assert.Contains(t, lines[1], "entity_id=2")
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db_log.txt")
	assert.Error(t, handleMessage(path, []byte("{not json")))
	assert.Error(t, handleMessage(path, []byte(`{"entity_id":1}`)))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
