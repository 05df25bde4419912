package failure

import (
	"bytes"
	"commentadmin/domain"
	"commentadmin/infra/memory"
	"commentadmin/internal/middleware"
	"commentadmin/pkg/httperror"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePictures struct {
	mu        sync.Mutex
	uploaded  map[string][]byte
	deleted   []string
	uploadErr error
}

func newFakePictures() *fakePictures {
	return &fakePictures{uploaded: map[string][]byte{}}
}

func (p *fakePictures) Upload(key string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.uploadErr != nil {
		return p.uploadErr
	}
	p.uploaded[key] = data
	return nil
}

func (p *fakePictures) Delete(key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.uploaded, key)
	p.deleted = append(p.deleted, key)
	return nil
}

func (p *fakePictures) URL(key string) string {
	return "https://pictures.example.test/" + key
}

type brokenRepository struct {
	Repository
}

func (brokenRepository) CreateFailure(context.Context, domain.SystemFailure) (domain.SystemFailure, error) {
	return domain.SystemFailure{}, errors.New("disk full")
}

func (brokenRepository) GetFailures(context.Context) ([]domain.SystemFailure, error) {
	return nil, errors.New("disk full")
}

func millis(ts time.Time) string {
	return strconv.FormatInt(ts.UnixMilli(), 10)
}

func TestGetFailuresHandler(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.October, 21, 15, 0, 0, 0, time.UTC)

	repo := memory.NewRepository()
	for _, ts := range []time.Time{
		now.Add(-time.Hour),   // today
		now.AddDate(0, 0, -2), // monday
		now.AddDate(0, 0, -3), // previous sunday
		now.AddDate(0, -1, 0), // last month
	} {
		_, err := repo.CreateFailure(ctx, domain.SystemFailure{FailureName: "disk", FailureTime: millis(ts), IDC: "X1"})
		require.NoError(t, err)
	}
	_, err := repo.CreateFailure(ctx, domain.SystemFailure{FailureName: "bad", FailureTime: "n/a"})
	require.NoError(t, err)

	handler := NewGetFailuresHandler(repo)
	handler.now = func() time.Time { return now }

	tests := []struct {
		name string
		req  GetFailuresRequest
		want int
	}{
		{name: "all", req: GetFailuresRequest{}, want: 5},
		{name: "today", req: GetFailuresRequest{Today: true}, want: 1},
		{name: "this week", req: GetFailuresRequest{ThisWeek: true}, want: 2},
		{name: "today wins", req: GetFailuresRequest{Today: true, ThisWeek: true}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := handler.Handle(ctx, &tt.req)
			require.NoError(t, err)
			assert.Len(t, res.Failures, tt.want)
			assert.Equal(t, tt.want, res.TotalItems)
		})
	}

	t.Run("empty store returns an empty list", func(t *testing.T) {
		res, err := NewGetFailuresHandler(memory.NewRepository()).Handle(ctx, &GetFailuresRequest{})
		require.NoError(t, err)
		assert.NotNil(t, res.Failures)
		assert.Zero(t, res.TotalItems)
	})

	t.Run("storage failure", func(t *testing.T) {
		_, err := NewGetFailuresHandler(brokenRepository{}).Handle(ctx, &GetFailuresRequest{})

		var httpErr *httperror.Error
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, "failures.index.failed", httpErr.Code)
	})
}

func newReportApp(handler *ReportFailureHandler) *fiber.App {
	app := fiber.New()
	app.Post("/failures", middleware.NewTraceMiddleware(), func(c *fiber.Ctx) error {
		var req ReportFailureRequest
		if err := c.BodyParser(&req); err != nil {
			return err
		}

		res, err := handler.Handle(c.UserContext(), &req)
		if err != nil {
			var httpErr *httperror.Error
			if errors.As(err, &httpErr) {
				return c.Status(httpErr.Status).JSON(fiber.Map{"code": httpErr.Code})
			}
			return err
		}

		return c.JSON(res)
	})
	return app
}

func multipartRequest(t *testing.T, fields map[string]string, contentType string, picture []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}

	if picture != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="picture"; filename="screen.png"`)
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(picture)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/failures", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, res *http.Response, v any) {
	t.Helper()
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, v), string(body))
}

func validFields() map[string]string {
	return map[string]string{
		"failure_name": "Database outage",
		"failure_des":  "Primary node unreachable",
		"failure_time": "1632799167009",
		"idc":          "X1",
	}
}

func TestReportFailureHandler(t *testing.T) {
	t.Run("without picture", func(t *testing.T) {
		repo := memory.NewRepository()
		app := newReportApp(NewReportFailureHandler(repo, nil, nil))

		res, err := app.Test(multipartRequest(t, validFields(), "", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, res.StatusCode)

		var out ReportFailureResponse
		decodeBody(t, res, &out)
		assert.NotEmpty(t, out.Failure.ID)
		assert.Nil(t, out.Failure.FailurePicture)

		stored, err := repo.GetFailures(context.Background())
		require.NoError(t, err)
		assert.Len(t, stored, 1)
	})

	t.Run("with picture", func(t *testing.T) {
		pictures := newFakePictures()
		app := newReportApp(NewReportFailureHandler(memory.NewRepository(), pictures, nil))

		res, err := app.Test(multipartRequest(t, validFields(), "image/png", []byte("png-bytes")))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, res.StatusCode)

		var out ReportFailureResponse
		decodeBody(t, res, &out)
		require.NotNil(t, out.Failure.FailurePicture)
		assert.Contains(t, *out.Failure.FailurePicture, "https://pictures.example.test/failures/")
		assert.Len(t, pictures.uploaded, 1)
	})

	t.Run("rejects unsupported picture type", func(t *testing.T) {
		app := newReportApp(NewReportFailureHandler(memory.NewRepository(), newFakePictures(), nil))

		res, err := app.Test(multipartRequest(t, validFields(), "image/gif", []byte("gif")))
		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, res.StatusCode)

		var out map[string]string
		decodeBody(t, res, &out)
		assert.Equal(t, "failures.picture.invalid_content_type", out["code"])
	})

	t.Run("picture without object storage", func(t *testing.T) {
		app := newReportApp(NewReportFailureHandler(memory.NewRepository(), nil, nil))

		res, err := app.Test(multipartRequest(t, validFields(), "image/png", []byte("png")))
		require.NoError(t, err)
		require.Equal(t, http.StatusInternalServerError, res.StatusCode)

		var out map[string]string
		decodeBody(t, res, &out)
		assert.Equal(t, "failures.picture.unavailable", out["code"])
	})

	t.Run("missing fields", func(t *testing.T) {
		app := newReportApp(NewReportFailureHandler(memory.NewRepository(), nil, nil))

		fields := validFields()
		delete(fields, "idc")
		res, err := app.Test(multipartRequest(t, fields, "", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, res.StatusCode)

		var out map[string]string
		decodeBody(t, res, &out)
		assert.Equal(t, "failures.create.validation_failed", out["code"])
	})

	t.Run("store failure removes the uploaded picture", func(t *testing.T) {
		pictures := newFakePictures()
		app := newReportApp(NewReportFailureHandler(brokenRepository{}, pictures, nil))

		res, err := app.Test(multipartRequest(t, validFields(), "image/jpeg", []byte("jpg")))
		require.NoError(t, err)
		require.Equal(t, http.StatusInternalServerError, res.StatusCode)

		assert.Empty(t, pictures.uploaded)
		assert.Len(t, pictures.deleted, 1)
	})
}
