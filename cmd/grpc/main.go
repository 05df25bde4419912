package main

import (
	"commentadmin/app/comment"
	"commentadmin/infra/grpc"
	"commentadmin/infra/storage"
	"commentadmin/pkg/config"
	"commentadmin/pkg/logger"
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

func main() {
	log := logger.Init()
	defer log.Sync()

	zap.L().Info("Comment admin gRPC Service starting...")

	appConfig := config.Read()

	repository, err := storage.Open(context.Background(), appConfig)
	if err != nil {
		zap.L().Fatal("Failed to open storage", zap.Error(err))
	}
	defer repository.Close()

	grpcServer, err := grpc.NewServer(appConfig.GRPCPort)
	if err != nil {
		zap.L().Error("failed to create grpc server", zap.Error(err))
		os.Exit(1)
	}

	commentService := comment.NewService(repository, comment.Options{
		EnrichConcurrency:  appConfig.EnrichConcurrency,
		LegacyItemRuleJoin: appConfig.LegacyItemRuleJoin,
	})

	grpc.RegisterCommentServiceServer(grpcServer.GetGRPCServer(), grpc.NewCommentServiceServer(commentService))
	grpcServer.SetServing(grpc.CommentServiceName)

	zap.L().Info("starting gRPC server...", zap.String("port", appConfig.GRPCPort))
	go func() {
		if err := grpcServer.Start(); err != nil {
			zap.L().Error("failed to start grpc server", zap.Error(err))
			os.Exit(1)
		}
	}()

	gracefulShutdown(grpcServer)
}

func gracefulShutdown(grpcServer *grpc.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")

	grpcServer.GracefulStop()

	zap.L().Info("Server gracefully stopped")
}
