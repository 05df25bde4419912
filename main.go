package main

import (
	"commentadmin/app/comment"
	"commentadmin/app/failure"
	"commentadmin/app/systemlog"
	"commentadmin/infra/rabbitmq"
	"commentadmin/infra/storage"
	"commentadmin/internal/middleware"
	"commentadmin/pkg/aws"
	"commentadmin/pkg/config"
	"commentadmin/pkg/events"
	"commentadmin/pkg/httperror"
	"commentadmin/pkg/logger"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

type Request any
type Response any

type HandlerInterface[R Request, Res Response] interface {
	Handle(ctx context.Context, req *R) (*Res, error)
}

func handle[R Request, Res Response](handler HandlerInterface[R, Res]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req R

		if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
			return writeError(c, httperror.BadRequest(
				"request.invalid_body",
				"Invalid body",
				fiber.Map{"error": err.Error()},
			))
		}

		if err := c.ParamsParser(&req); err != nil {
			return writeError(c, httperror.BadRequest(
				"request.invalid_path_params",
				"Invalid path params",
				fiber.Map{"error": err.Error()},
			))
		}

		if err := c.QueryParser(&req); err != nil {
			return writeError(c, httperror.BadRequest(
				"request.invalid_query_params",
				"Invalid query params",
				fiber.Map{"error": err.Error()},
			))
		}

		res, err := handler.Handle(c.UserContext(), &req)
		if err != nil {
			return writeError(c, err)
		}

		return c.JSON(res)
	}
}

type handlers struct {
	createComment   *comment.CreateCommentHandler
	getComments     *comment.GetCommentsHandler
	getAllComments  *comment.GetAllCommentsHandler
	getCommentParam *comment.GetCommentParamHandler
	searchComments  *comment.SearchCommentsHandler
	getItem         *comment.GetItemHandler
	reportFailure   *failure.ReportFailureHandler
	getFailures     *failure.GetFailuresHandler
	recordLog       *systemlog.RecordSystemLogHandler
	getLogs         *systemlog.GetSystemLogsHandler
	getLogDetails   *systemlog.GetSystemLogsHandler
	searchLogs      *systemlog.SearchSystemLogsHandler
}

func newApp(h handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		IdleTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Concurrency:  256 * 1024,
		BodyLimit:    6 * 1024 * 1024,
	})

	app.Use(recover.New())

	api := app.Group("/api/v1", middleware.NewTraceMiddleware())

	api.Post("/comments", handle[comment.CreateCommentRequest, comment.CreateCommentResponse](h.createComment))
	api.Get("/comments", handle[comment.GetCommentsRequest, comment.GetCommentsResponse](h.getComments))
	api.Get("/comments/all", handle[comment.GetAllCommentsRequest, comment.GetAllCommentsResponse](h.getAllComments))
	api.Get("/comments/param", handle[comment.GetCommentParamRequest, comment.GetCommentParamResponse](h.getCommentParam))
	api.Get("/comments/search", handle[comment.SearchCommentsRequest, comment.SearchCommentsResponse](h.searchComments))
	api.Get("/items/:itemId", handle[comment.GetItemRequest, comment.GetItemResponse](h.getItem))
	api.Post("/failures", handle[failure.ReportFailureRequest, failure.ReportFailureResponse](h.reportFailure))
	api.Get("/failures", handle[failure.GetFailuresRequest, failure.GetFailuresResponse](h.getFailures))
	api.Post("/system-logs", handle[systemlog.RecordSystemLogRequest, systemlog.RecordSystemLogResponse](h.recordLog))
	api.Get("/system-logs", handle[systemlog.GetSystemLogsRequest, systemlog.GetSystemLogsResponse](h.getLogs))
	api.Get("/system-logs/detail", handle[systemlog.GetSystemLogsRequest, systemlog.GetSystemLogsResponse](h.getLogDetails))
	api.Get("/system-logs/search", handle[systemlog.SearchSystemLogsRequest, systemlog.GetSystemLogsResponse](h.searchLogs))

	return app
}

func main() {
	log := logger.Init()
	defer log.Sync()

	appConfig := config.Read()
	zap.L().Info("app starting...",
		zap.String("serviceName", appConfig.ServiceName),
		zap.String("storageDriver", appConfig.StorageDriver),
	)

	ctx := context.Background()

	repository, err := storage.Open(ctx, appConfig)
	if err != nil {
		zap.L().Fatal("Failed to open storage", zap.Error(err))
	}
	defer repository.Close()

	var publisher events.Publisher
	if appConfig.RabbitMQURL != "" {
		rabbitPublisher, err := rabbitmq.NewRabbitMQPublisher(
			appConfig.RabbitMQURL,
			appConfig.ServiceName,
			events.CommentExchange,
			events.FailureExchange,
		)
		if err != nil {
			zap.L().Fatal("Failed to connect event publisher", zap.Error(err))
		}
		defer rabbitPublisher.Close()
		publisher = rabbitPublisher
	} else {
		zap.L().Warn("RABBITMQ_URL not set, events will not be published")
	}

	var pictures failure.PictureStore
	if appConfig.HasObjectStorage() {
		pictures = aws.NewS3Bucket(appConfig)
	}

	commentService := comment.NewService(repository, comment.Options{
		EnrichConcurrency:  appConfig.EnrichConcurrency,
		LegacyItemRuleJoin: appConfig.LegacyItemRuleJoin,
	})

	app := newApp(handlers{
		createComment:   comment.NewCreateCommentHandler(commentService, publisher),
		getComments:     comment.NewGetCommentsHandler(commentService),
		getAllComments:  comment.NewGetAllCommentsHandler(commentService),
		getCommentParam: comment.NewGetCommentParamHandler(commentService),
		searchComments:  comment.NewSearchCommentsHandler(commentService),
		getItem:         comment.NewGetItemHandler(commentService),
		reportFailure:   failure.NewReportFailureHandler(repository, pictures, publisher),
		getFailures:     failure.NewGetFailuresHandler(repository),
		recordLog:       systemlog.NewRecordSystemLogHandler(repository),
		getLogs:         systemlog.NewGetSystemLogsHandler(repository),
		getLogDetails:   systemlog.NewGetSystemLogDetailsHandler(repository),
		searchLogs:      systemlog.NewSearchSystemLogsHandler(repository),
	})

	go func() {
		if err := app.Listen(fmt.Sprintf("0.0.0.0:%s", appConfig.Port)); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	zap.L().Info("Server started on port", zap.String("port", appConfig.Port))

	gracefulShutdown(app)
}

func gracefulShutdown(app *fiber.App) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		zap.L().Error("Error during server shutdown", zap.Error(err))
	}

	zap.L().Info("Server gracefully stopped")
}

func writeError(c *fiber.Ctx, err error) error {
	var httpErr *httperror.Error
	if errors.As(err, &httpErr) {
		payload := fiber.Map{
			"code":    httpErr.Code,
			"message": httpErr.Message,
		}

		if httpErr.Details != nil {
			payload["details"] = httpErr.Details
		}

		if httpErr.Status >= fiber.StatusInternalServerError {
			zap.L().Error("Handler returned server error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		} else {
			zap.L().Warn("Handler returned client error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		}

		return c.Status(httpErr.Status).JSON(payload)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		zap.L().Warn("Fiber validation error", zap.String("message", fiberErr.Message), zap.Error(err))
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"code":    "request.invalid",
			"message": fiberErr.Message,
		})
	}

	zap.L().Error("Unhandled error", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"code":    "internal_server_error",
		"message": "Internal server error.",
	})
}
