package systemlog

import (
	"commentadmin/domain"
	"commentadmin/pkg/httperror"
	"context"
)

// GetSystemLogsHandler lists every log entry. The public listing hides who
// performed each operation; the detail listing keeps it.
type GetSystemLogsHandler struct {
	repository   Repository
	withOperator bool
}

func NewGetSystemLogsHandler(repository Repository) *GetSystemLogsHandler {
	return &GetSystemLogsHandler{
		repository: repository,
	}
}

func NewGetSystemLogDetailsHandler(repository Repository) *GetSystemLogsHandler {
	return &GetSystemLogsHandler{
		repository:   repository,
		withOperator: true,
	}
}

type GetSystemLogsRequest struct{}

type GetSystemLogsResponse struct {
	Logs       []domain.SystemLog `json:"logs"`
	TotalItems int                `json:"totalItems"`
}

func (h *GetSystemLogsHandler) Handle(ctx context.Context, _ *GetSystemLogsRequest) (*GetSystemLogsResponse, error) {
	logs, err := h.repository.GetSystemLogs(ctx)
	if err != nil {
		return nil, httperror.InternalServerError(
			"system_logs.index.failed",
			"Failed to retrieve system logs",
			nil,
		)
	}

	if !h.withOperator {
		for i := range logs {
			logs[i].Operator = ""
		}
	}

	return newLogsResponse(logs), nil
}

func newLogsResponse(logs []domain.SystemLog) *GetSystemLogsResponse {
	if logs == nil {
		logs = []domain.SystemLog{}
	}

	return &GetSystemLogsResponse{
		Logs:       logs,
		TotalItems: len(logs),
	}
}
