package comment

import (
	"commentadmin/domain"
	"context"
)

type SearchCommentsHandler struct {
	service *Service
}

func NewSearchCommentsHandler(service *Service) *SearchCommentsHandler {
	return &SearchCommentsHandler{
		service: service,
	}
}

type SearchCommentsRequest struct {
	StartTime int64  `query:"startTime" validate:"gte=0"`
	EndTime   int64  `query:"endTime" validate:"gte=0"`
	Score     int    `query:"score" validate:"gte=0"`
	Type      int    `query:"type"`
	TypeData  string `query:"typeData"`
}

type SearchCommentsResponse struct {
	Comments []domain.CommentDetail `json:"comments"`
}

func (h *SearchCommentsHandler) Handle(ctx context.Context, req *SearchCommentsRequest) (*SearchCommentsResponse, error) {
	if err := validateRequest("comments.search", req); err != nil {
		return nil, err
	}

	comments, err := h.service.SearchByCondition(ctx, SearchCondition{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Score:     req.Score,
		Type:      SearchType(req.Type),
		TypeData:  req.TypeData,
	})
	if err != nil {
		return nil, toHTTPError("comments.search", "Failed to search comments", err)
	}

	return &SearchCommentsResponse{
		Comments: comments,
	}, nil
}
