package comment

import (
	"commentadmin/domain"
	"context"
)

type GetAllCommentsHandler struct {
	service *Service
}

func NewGetAllCommentsHandler(service *Service) *GetAllCommentsHandler {
	return &GetAllCommentsHandler{
		service: service,
	}
}

type GetAllCommentsRequest struct{}

type GetAllCommentsResponse struct {
	Comments []domain.Comment `json:"comments"`
}

func (h *GetAllCommentsHandler) Handle(ctx context.Context, _ *GetAllCommentsRequest) (*GetAllCommentsResponse, error) {
	comments, err := h.service.ListAllComments(ctx)
	if err != nil {
		return nil, toHTTPError("comments.all", "Failed to retrieve comments", err)
	}

	return &GetAllCommentsResponse{
		Comments: comments,
	}, nil
}
