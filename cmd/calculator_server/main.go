package main

import (
	"context"
	"log"
	"net/http"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"batch-calculator/internal/api"
	"batch-calculator/internal/config"
	"batch-calculator/internal/db"
	"batch-calculator/internal/grpc"
	"batch-calculator/internal/logger"
)

func main() {
	if err := config.InitConfig(".env"); err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}
	logger.InitServerLogger()
	defer logger.CloseLogger()

	if config.AppConfig.JWTSecret == "" {
		logger.ERROR.Fatal("JWT_SECRET not set")
	}

	// Инициализируем базу данных
	if err := db.InitDB(config.AppConfig.DBPath); err != nil {
		logger.ERROR.Fatalf("Ошибка инициализации базы данных: %v", err)
	}

	httpServer := &http.Server{
		Addr:    ":" + config.AppConfig.ServerPort,
		Handler: api.NewRouter(),
	}

	go func() {
		logger.INFO.Println("HTTP сервер запущен на порту " + config.AppConfig.ServerPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.ERROR.Fatalf("Ошибка запуска HTTP сервера: %v", err)
		}
	}()

	grpcServer, err := grpc.StartGRPCServer(":" + config.AppConfig.GRPCPort)
	if err != nil {
		logger.ERROR.Fatalf("Ошибка запуска gRPC сервера: %v", err)
	}

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		config.AppConfig.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http": func(ctx context.Context) error {
				return httpServer.Shutdown(ctx)
			},
			"grpc": func(ctx context.Context) error {
				grpcServer.GracefulStop()
				return nil
			},
		},
	)

	exitCode := <-wait
	if err := db.CloseDB(); err != nil {
		logger.LogERROR("Ошибка закрытия базы данных: " + err.Error())
	}
	logger.INFO.Printf("Сервер остановлен с кодом %d", exitCode)
	logger.CloseLogger()
	os.Exit(exitCode)
}
