package systemlog

import (
	"commentadmin/domain"
	"commentadmin/pkg/httperror"
	"context"

	"github.com/go-playground/validator/v10"
)

type RecordSystemLogHandler struct {
	repository Repository
}

func NewRecordSystemLogHandler(repository Repository) *RecordSystemLogHandler {
	return &RecordSystemLogHandler{
		repository: repository,
	}
}

type RecordSystemLogRequest struct {
	Operator  string `json:"operator" validate:"required"`
	Operation string `json:"operation" validate:"required"`
	LogTime   string `json:"log_time" validate:"required,number"`
	IDC       string `json:"idc"`
}

type RecordSystemLogResponse struct {
	Log domain.SystemLog `json:"log"`
}

func (h *RecordSystemLogHandler) Handle(ctx context.Context, req *RecordSystemLogRequest) (*RecordSystemLogResponse, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(req); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			return nil, httperror.BadRequest(
				"system_logs.create.validation_failed",
				"Validation failed for the request",
				ve.Error(),
			)
		}

		return nil, httperror.InternalServerError(
			"system_logs.create.validation_error",
			"An unexpected validation error occurred",
			nil,
		)
	}

	saved, err := h.repository.CreateSystemLog(ctx, domain.SystemLog{
		Operator:  req.Operator,
		Operation: req.Operation,
		LogTime:   req.LogTime,
		IDC:       req.IDC,
	})
	if err != nil {
		return nil, httperror.InternalServerError(
			"system_logs.create.store_failed",
			"Failed to save system log",
			nil,
		)
	}

	return &RecordSystemLogResponse{
		Log: saved,
	}, nil
}
