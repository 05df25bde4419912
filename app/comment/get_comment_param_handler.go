package comment

import (
	"commentadmin/domain"
	"context"
)

type GetCommentParamHandler struct {
	service *Service
}

func NewGetCommentParamHandler(service *Service) *GetCommentParamHandler {
	return &GetCommentParamHandler{
		service: service,
	}
}

type GetCommentParamRequest struct{}

type GetCommentParamResponse struct {
	domain.CommentParam
}

func (h *GetCommentParamHandler) Handle(ctx context.Context, _ *GetCommentParamRequest) (*GetCommentParamResponse, error) {
	param, err := h.service.GetCommentParam(ctx)
	if err != nil {
		return nil, toHTTPError("comments.param", "Failed to compute comment statistics", err)
	}

	return &GetCommentParamResponse{
		CommentParam: param,
	}, nil
}
