package comment

import (
	"commentadmin/pkg/httperror"
	"context"
)

type GetItemHandler struct {
	service *Service
}

func NewGetItemHandler(service *Service) *GetItemHandler {
	return &GetItemHandler{
		service: service,
	}
}

type GetItemRequest struct {
	ItemID string `params:"itemId" validate:"required"`
}

type GetItemResponse struct {
	Resolution
}

func (h *GetItemHandler) Handle(ctx context.Context, req *GetItemRequest) (*GetItemResponse, error) {
	if err := validateRequest("item.show", req); err != nil {
		return nil, err
	}

	res, err := h.service.Resolve(ctx, req.ItemID)
	if err != nil {
		return nil, toHTTPError("item.show", "Failed to retrieve item", err)
	}

	if res.Item == nil {
		return nil, httperror.NotFound(
			"item.show.not_found",
			"Item not found",
			nil,
		)
	}

	return &GetItemResponse{
		Resolution: res,
	}, nil
}
