package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotifier_WithoutURLIsNoop(t *testing.T) {
	n, err := NewNotifier("", "posts")
	require.NoError(t, err)
	assert.IsType(t, NoopPublisher{}, n)
	assert.NoError(t, n.Publish(PostEvent{PostID: 1, Action: ActionCreated}))
	n.Close()
}

func TestPostEvent_JSON(t *testing.T) {
	groupID := int64(3)
	event := PostEvent{
		PostID:    12,
		Author:    "leo",
		GroupID:   &groupID,
		Action:    ActionUpdated,
		Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)
	assert.JSONEq(t, `{"post_id":12,"author":"leo","group_id":3,"action":"updated","timestamp":"2024-01-02T03:04:05Z"}`, string(data))

	event.GroupID = nil
	data, err = json.Marshal(event)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "group_id")
}
