package rabbitmq

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notekeeper/internal/model"
)

func TestEncodeEvent(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	payload, err := encodeEvent(model.NoteEvent{
		Type:       model.NoteUpdated,
		NoteID:     7,
		UserID:     3,
		OccurredAt: at,
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "note.updated", decoded["type"])
	assert.EqualValues(t, 7, decoded["note_id"])
	assert.EqualValues(t, 3, decoded["user_id"])
	assert.Equal(t, "2024-05-01T12:00:00Z", decoded["occurred_at"])
	assert.NotContains(t, decoded, "title")
}
