package systemlog

import (
	"commentadmin/domain"
	"context"
)

type Repository interface {
	CreateSystemLog(ctx context.Context, log domain.SystemLog) (domain.SystemLog, error)
	GetSystemLogs(ctx context.Context) ([]domain.SystemLog, error)
}
