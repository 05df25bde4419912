package failure

import (
	"commentadmin/domain"
	"commentadmin/internal/middleware"
	"commentadmin/pkg/events"
	"commentadmin/pkg/httperror"
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxPictureSize = 5 * 1024 * 1024

var allowedPictureTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
}

type ReportFailureHandler struct {
	repository     Repository
	pictures       PictureStore
	eventPublisher events.Publisher
}

func NewReportFailureHandler(repository Repository, pictures PictureStore, eventPublisher events.Publisher) *ReportFailureHandler {
	return &ReportFailureHandler{
		repository:     repository,
		pictures:       pictures,
		eventPublisher: eventPublisher,
	}
}

type ReportFailureRequest struct {
	FailureName string `json:"failure_name" form:"failure_name" validate:"required"`
	FailureDes  string `json:"failure_des" form:"failure_des" validate:"required"`
	FailureTime string `json:"failure_time" form:"failure_time" validate:"required,number"`
	IDC         string `json:"idc" form:"idc" validate:"required"`
}

type ReportFailureResponse struct {
	Failure domain.SystemFailure `json:"failure"`
}

func (h *ReportFailureHandler) Handle(ctx context.Context, req *ReportFailureRequest) (*ReportFailureResponse, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(req); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			return nil, httperror.BadRequest(
				"failures.create.validation_failed",
				"Validation failed for the request",
				ve.Error(),
			)
		}

		return nil, httperror.InternalServerError(
			"failures.create.validation_error",
			"An unexpected validation error occurred",
			nil,
		)
	}

	failure := domain.SystemFailure{
		FailureName: req.FailureName,
		FailureDes:  req.FailureDes,
		FailureTime: req.FailureTime,
		IDC:         req.IDC,
	}

	file := pictureFromContext(ctx)

	var pictureKey string
	if file != nil {
		key, url, err := h.uploadPicture(file)
		if err != nil {
			return nil, err
		}
		pictureKey = key
		failure.FailurePicture = &url
	}

	saved, err := h.repository.CreateFailure(ctx, failure)
	if err != nil {
		if pictureKey != "" {
			_ = h.pictures.Delete(pictureKey)
		}
		return nil, httperror.InternalServerError(
			"failures.create.store_failed",
			"Failed to save system failure",
			nil,
		)
	}

	events.Emit(ctx, h.eventPublisher, events.FailureExchange, events.FailureReportedEvent, events.FailureReportedPayload{
		ID:             saved.ID,
		FailureName:    saved.FailureName,
		FailureTime:    saved.FailureTime,
		IDC:            saved.IDC,
		FailurePicture: saved.FailurePicture,
	})

	return &ReportFailureResponse{
		Failure: saved,
	}, nil
}

func (h *ReportFailureHandler) uploadPicture(file *multipart.FileHeader) (string, string, error) {
	if h.pictures == nil {
		return "", "", httperror.InternalServerError("failures.picture.unavailable", "Picture storage is not configured", nil)
	}

	if file.Size > maxPictureSize {
		return "", "", httperror.BadRequest("failures.picture.too_large", "File size must not exceed 5MB",
			fiber.Map{
				"size_mb": float64(file.Size) / 1024 / 1024,
				"max_mb":  5,
			})
	}

	contentType := file.Header.Get("Content-Type")
	extension, ok := allowedPictureTypes[contentType]
	if !ok {
		return "", "", httperror.BadRequest("failures.picture.invalid_content_type", "Only PNG, JPEG/JPG images are allowed",
			fiber.Map{
				"received": contentType,
				"allowed":  []string{"image/png", "image/jpeg", "image/jpg"},
			})
	}

	reader, err := file.Open()
	if err != nil {
		return "", "", httperror.InternalServerError("failures.picture.open_failed", "Failed to open uploaded file", err.Error())
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", "", httperror.InternalServerError("failures.picture.read_failed", "Failed to read file content", err.Error())
	}

	key := fmt.Sprintf("failures/%s%s", uuid.New().String(), extension)

	if err := h.pictures.Upload(key, data); err != nil {
		zap.L().Error("Failed to upload failure picture", zap.String("key", key), zap.Error(err))
		return "", "", httperror.InternalServerError("failures.picture.upload_failed", "Failed to upload picture to storage", nil)
	}

	return key, h.pictures.URL(key), nil
}

// pictureFromContext returns the optional "picture" form file of the current
// HTTP request.
func pictureFromContext(ctx context.Context) *multipart.FileHeader {
	c, ok := ctx.Value(middleware.FiberContextKey).(*fiber.Ctx)
	if !ok || c == nil {
		return nil
	}

	form, err := c.MultipartForm()
	if err != nil || len(form.File["picture"]) == 0 {
		return nil
	}

	return form.File["picture"][0]
}
