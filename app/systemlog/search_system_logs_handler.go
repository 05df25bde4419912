package systemlog

import (
	"commentadmin/domain"
	"commentadmin/pkg/httperror"
	"commentadmin/pkg/timewindow"
	"context"
	"time"
)

type SearchSystemLogsHandler struct {
	repository Repository
	now        func() time.Time
}

func NewSearchSystemLogsHandler(repository Repository) *SearchSystemLogsHandler {
	return &SearchSystemLogsHandler{
		repository: repository,
		now:        time.Now,
	}
}

type SearchSystemLogsRequest struct {
	Today    bool `query:"today"`
	ThisWeek bool `query:"thisWeek"`
}

func (h *SearchSystemLogsHandler) Handle(ctx context.Context, req *SearchSystemLogsRequest) (*GetSystemLogsResponse, error) {
	logs, err := h.repository.GetSystemLogs(ctx)
	if err != nil {
		return nil, httperror.InternalServerError(
			"system_logs.search.failed",
			"Failed to search system logs",
			nil,
		)
	}

	if start, end, ok := timewindow.Select(h.now(), req.Today, req.ThisWeek); ok {
		filtered := make([]domain.SystemLog, 0, len(logs))
		for _, l := range logs {
			if timewindow.ContainsMillis(l.LogTime, start, end) {
				filtered = append(filtered, l)
			}
		}
		logs = filtered
	}

	return newLogsResponse(logs), nil
}
