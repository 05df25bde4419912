package failure

import (
	"commentadmin/domain"
	"commentadmin/pkg/httperror"
	"commentadmin/pkg/timewindow"
	"context"
	"time"
)

type GetFailuresHandler struct {
	repository Repository
	now        func() time.Time
}

func NewGetFailuresHandler(repository Repository) *GetFailuresHandler {
	return &GetFailuresHandler{
		repository: repository,
		now:        time.Now,
	}
}

type GetFailuresRequest struct {
	Today    bool `query:"today"`
	ThisWeek bool `query:"thisWeek"`
}

type GetFailuresResponse struct {
	Failures   []domain.SystemFailure `json:"failures"`
	TotalItems int                    `json:"totalItems"`
}

func (h *GetFailuresHandler) Handle(ctx context.Context, req *GetFailuresRequest) (*GetFailuresResponse, error) {
	failures, err := h.repository.GetFailures(ctx)
	if err != nil {
		return nil, httperror.InternalServerError(
			"failures.index.failed",
			"Failed to retrieve system failures",
			nil,
		)
	}

	if start, end, ok := timewindow.Select(h.now(), req.Today, req.ThisWeek); ok {
		filtered := make([]domain.SystemFailure, 0, len(failures))
		for _, f := range failures {
			if timewindow.ContainsMillis(f.FailureTime, start, end) {
				filtered = append(filtered, f)
			}
		}
		failures = filtered
	}

	if failures == nil {
		failures = []domain.SystemFailure{}
	}

	return &GetFailuresResponse{
		Failures:   failures,
		TotalItems: len(failures),
	}, nil
}
