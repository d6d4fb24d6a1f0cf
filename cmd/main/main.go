package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gitlab.crja72.ru/gospec/go5/pingpong/internal/config"
	"gitlab.crja72.ru/gospec/go5/pingpong/internal/domain/pingpong"
	transport "gitlab.crja72.ru/gospec/go5/pingpong/internal/transport/grpc"
	"gitlab.crja72.ru/gospec/go5/pingpong/internal/transport/rest"
	"gitlab.crja72.ru/gospec/go5/pingpong/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var (
	serviceName = "pingpong"
)

func main() {
	ctx := context.Background()
	bootLogger := logger.New(zap.DebugLevel, serviceName)

	cfg, err := config.New()
	if err != nil {
		bootLogger.Fatal(ctx, err.Error())
		return
	}

	mainLogger := logger.New(logger.ParseLevel(cfg.LogLevel), serviceName)

	interactor := pingpong.NewInteractor(mainLogger, pingpong.DefaultRegistry())

	grpcServer, err := transport.NewServer(ctx, mainLogger, interactor, cfg.GRPCServerHost, cfg.GRPCServerPort)
	if err != nil {
		mainLogger.Fatal(ctx, err.Error())
		return
	}

	client, err := transport.NewClient(
		cfg.GRPCAddr(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		mainLogger.Fatal(ctx, err.Error())
		return
	}
	defer client.Close()

	handler, err := rest.NewHandler(mainLogger, client)
	if err != nil {
		mainLogger.Fatal(ctx, err.Error())
		return
	}

	gwServer := &http.Server{
		Addr:    cfg.RESTAddr(),
		Handler: handler,
	}

	graceCh := make(chan os.Signal, 1)
	signal.Notify(graceCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := grpcServer.Start(ctx); err != nil {
			mainLogger.Error(ctx, err.Error())
		}
	}()

	mainLogger.Info(ctx, "gRPC server started", zap.String("addr", grpcServer.Addr().String()), zap.Strings("kinds", interactor.Kinds()))

	go func() {
		if err := gwServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			mainLogger.Error(ctx, err.Error())
			return
		}
	}()

	mainLogger.Info(ctx, "Gateway server started", zap.Int("port", cfg.RESTServerPort))

	<-graceCh

	mainLogger.Info(ctx, "Shutting down")

	if err := gwServer.Shutdown(ctx); err != nil {
		mainLogger.Error(ctx, err.Error())
		return
	}

	if err := grpcServer.Stop(ctx); err != nil {
		mainLogger.Error(ctx, err.Error())
		return
	}

	mainLogger.Info(ctx, "Successfully shut down")
}
