package consumers_test

import (
	"commentadmin/app/comment"
	"commentadmin/infra/memory"
	"commentadmin/internal/consumers"
	"commentadmin/pkg/events"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func submitted(t *testing.T, payload any) *events.Event {
	t.Helper()

	event, err := events.NewEvent(events.CommentSubmittedEvent, events.EventVersionV1, payload, events.Headers{TraceID: "trace-1"})
	require.NoError(t, err)
	return event
}

func TestCommentEventHandler(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	handler := consumers.NewCommentEventHandler(comment.NewService(repo, comment.Options{}))

	score := 4

	t.Run("stores submitted comments", func(t *testing.T) {
		err := handler.HandleEvent(ctx, submitted(t, events.CommentSubmittedPayload{
			ItemID:     "A",
			Score:      &score,
			CreateTime: "1632799167009",
			IDC:        "X1",
		}))
		require.NoError(t, err)

		stored, err := repo.FindComments(ctx, comment.CommentFilter{})
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, 4, stored[0].Score)
		assert.Equal(t, "X1", stored[0].IDC)
	})

	t.Run("missing score is malformed", func(t *testing.T) {
		err := handler.HandleEvent(ctx, submitted(t, events.CommentSubmittedPayload{ItemID: "A", CreateTime: "1"}))
		assert.ErrorContains(t, err, "malformed payload")
	})

	t.Run("missing create_time is malformed", func(t *testing.T) {
		err := handler.HandleEvent(ctx, submitted(t, events.CommentSubmittedPayload{ItemID: "A", Score: &score}))
		assert.ErrorContains(t, err, "malformed payload")
		assert.True(t, comment.IsValidation(err))
	})

	t.Run("non numeric create_time is malformed", func(t *testing.T) {
		err := handler.HandleEvent(ctx, submitted(t, events.CommentSubmittedPayload{ItemID: "A", Score: &score, CreateTime: "abc"}))
		assert.ErrorContains(t, err, "malformed payload")

		stored, err := repo.FindComments(ctx, comment.CommentFilter{})
		require.NoError(t, err)
		assert.Len(t, stored, 1)
	})

	t.Run("undecodable payload", func(t *testing.T) {
		event := submitted(t, nil)
		event.Payload = json.RawMessage(`"not an object"`)

		err := handler.HandleEvent(ctx, event)
		assert.ErrorContains(t, err, "unmarshal failed")
	})

	t.Run("unknown events are ignored", func(t *testing.T) {
		event, err := events.NewEvent("comment.deleted", events.EventVersionV1, map[string]string{}, events.Headers{})
		require.NoError(t, err)

		assert.NoError(t, handler.HandleEvent(ctx, event))
	})
}
