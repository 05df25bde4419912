package consumers

import (
	"commentadmin/app/comment"
	"commentadmin/domain"
	"commentadmin/pkg/events"
	"context"
	"fmt"

	"go.uber.org/zap"
)

// CommentSaver stores comments collected by intake terminals.
type CommentSaver interface {
	SaveComment(ctx context.Context, c domain.Comment) (domain.Comment, error)
}

type CommentEventHandler struct {
	comments CommentSaver
}

func NewCommentEventHandler(comments CommentSaver) *CommentEventHandler {
	return &CommentEventHandler{
		comments: comments,
	}
}

func (h *CommentEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	zap.L().Info("Comment event received",
		zap.String("event", event.Event),
		zap.String("version", event.Version),
		zap.String("traceId", event.TraceID),
	)

	switch event.Event {
	case events.CommentSubmittedEvent:
		return h.handleCommentSubmitted(ctx, event)
	default:
		zap.L().Warn("Unknown comment event type", zap.String("event", event.Event))
		return nil
	}
}

func (h *CommentEventHandler) handleCommentSubmitted(ctx context.Context, event *events.Event) error {
	var payload events.CommentSubmittedPayload
	if err := event.DecodePayload(&payload); err != nil {
		return fmt.Errorf("malformed payload - unmarshal failed: %w", err)
	}

	if payload.Score == nil {
		return fmt.Errorf("malformed payload - score missing")
	}

	saved, err := h.comments.SaveComment(ctx, domain.Comment{
		ItemID:     payload.ItemID,
		Score:      *payload.Score,
		CreateTime: payload.CreateTime,
		IDC:        payload.IDC,
		Content:    payload.Content,
		Contact:    payload.Contact,
	})
	if err != nil {
		if comment.IsValidation(err) {
			return fmt.Errorf("malformed payload - %w", err)
		}
		return fmt.Errorf("failed to save comment: %w", err)
	}

	zap.L().Info("Stored submitted comment",
		zap.String("commentId", saved.ID),
		zap.String("itemId", saved.ItemID),
		zap.Int("score", saved.Score),
		zap.String("traceId", event.TraceID),
	)

	return nil
}
