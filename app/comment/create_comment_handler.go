package comment

import (
	"commentadmin/domain"
	"commentadmin/pkg/events"
	"context"
)

type CreateCommentHandler struct {
	service        *Service
	eventPublisher events.Publisher
}

func NewCreateCommentHandler(service *Service, eventPublisher events.Publisher) *CreateCommentHandler {
	return &CreateCommentHandler{
		service:        service,
		eventPublisher: eventPublisher,
	}
}

type CreateCommentRequest struct {
	ItemID     string `json:"item_id"`
	Score      *int   `json:"score" validate:"required,gte=0"`
	CreateTime string `json:"create_time" validate:"required,number"`
	IDC        string `json:"idc"`
	Content    string `json:"content"`
	Contact    string `json:"contact"`
}

type CreateCommentResponse struct {
	Comment domain.Comment `json:"comment"`
}

func (h *CreateCommentHandler) Handle(ctx context.Context, req *CreateCommentRequest) (*CreateCommentResponse, error) {
	if err := validateRequest("comments.create", req); err != nil {
		return nil, err
	}

	comment, err := h.service.SaveComment(ctx, domain.Comment{
		ItemID:     req.ItemID,
		Score:      *req.Score,
		CreateTime: req.CreateTime,
		IDC:        req.IDC,
		Content:    req.Content,
		Contact:    req.Contact,
	})
	if err != nil {
		return nil, toHTTPError("comments.create", "Failed to create comment", err)
	}

	events.Emit(ctx, h.eventPublisher, events.CommentExchange, events.CommentCreatedEvent, events.CommentCreatedPayload{
		ID:         comment.ID,
		ItemID:     comment.ItemID,
		Score:      comment.Score,
		CreateTime: comment.CreateTime,
		IDC:        comment.IDC,
	})

	return &CreateCommentResponse{
		Comment: comment,
	}, nil
}
