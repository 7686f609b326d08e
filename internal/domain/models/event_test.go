package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "pinstack-feed-service/internal/domain/models"
)

func TestPostEvent_MarshalJSON(t *testing.T) {
	t.Run("create carries the post with creator", func(t *testing.T) {
		event := model.PostEvent{
			Action: model.ActionCreate,
			Post: &model.Post{
				ID:        "p1",
				Title:     "T",
				Content:   "C",
				ImageURL:  "images/a.png",
				Creator:   model.Creator{ID: "u1", Name: "A"},
				CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			},
		}

		data, err := json.Marshal(event)
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "create", got["action"])
		post := got["post"].(map[string]any)
		assert.Equal(t, "p1", post["_id"])
		assert.Equal(t, "images/a.png", post["imageUrl"])
		assert.Equal(t, map[string]any{"_id": "u1", "name": "A"}, post["creator"])
	})

	t.Run("delete carries only the id", func(t *testing.T) {
		data, err := json.Marshal(model.PostEvent{Action: model.ActionDelete, PostID: "p1"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"action":"delete","post":"p1"}`, string(data))
	})
}

func TestPost_OwnedBy(t *testing.T) {
	post := &model.Post{Creator: model.Creator{ID: "u1"}}
	assert.True(t, post.OwnedBy("u1"))
	assert.False(t, post.OwnedBy("u2"))
}
