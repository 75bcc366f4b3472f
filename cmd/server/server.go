package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rubricgen/config"
	"rubricgen/handlers"
	"rubricgen/logger"
	"rubricgen/services"
	"rubricgen/services/gateway"
	"rubricgen/services/rubric"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	generator, err := gateway.NewGenerator(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize model client", "provider", cfg.Provider, "error", err)
	}

	rubricService := rubric.NewService(gateway.New(generator, log), log)
	controller := services.NewFormController(rubricService,
		services.WithActionTimeout(cfg.ActionTimeout),
		services.WithLogger(log),
	)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(controller, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info("Shutting down server")
		controller.Cancel()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		}
	}()

	log.Info("Server starting", "port", cfg.Port, "provider", cfg.Provider, "model", cfg.Model())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("Server failed to start", "error", err)
	}
}
