package comment

import (
	"commentadmin/domain"
	"context"
)

type GetCommentsHandler struct {
	service *Service
}

func NewGetCommentsHandler(service *Service) *GetCommentsHandler {
	return &GetCommentsHandler{
		service: service,
	}
}

type GetCommentsRequest struct {
	PageNum int `query:"pageNum" validate:"gte=0"`
	Score   int `query:"score" validate:"gte=0"`
}

type GetCommentsResponse struct {
	Comments   []domain.CommentDetail `json:"comments"`
	PageNum    int                    `json:"pageNum"`
	Score      int                    `json:"score"`
	TotalItems int                    `json:"totalItems"`
}

func (h *GetCommentsHandler) Handle(ctx context.Context, req *GetCommentsRequest) (*GetCommentsResponse, error) {
	if err := validateRequest("comments.index", req); err != nil {
		return nil, err
	}

	comments, err := h.service.GetCommentDetail(ctx, req.PageNum, req.Score)
	if err != nil {
		return nil, toHTTPError("comments.index", "Failed to retrieve comments", err)
	}

	totalItems, err := h.service.CountComments(ctx, req.Score)
	if err != nil {
		return nil, toHTTPError("comments.count_comments", "Failed to count comments", err)
	}

	return &GetCommentsResponse{
		Comments:   comments,
		PageNum:    req.PageNum,
		Score:      req.Score,
		TotalItems: totalItems,
	}, nil
}
