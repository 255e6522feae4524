package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pagemarkhq/pagemark/internal/api"
	"github.com/pagemarkhq/pagemark/internal/config"
	"github.com/pagemarkhq/pagemark/internal/ocr"
	"github.com/pagemarkhq/pagemark/internal/reader"
	"github.com/pagemarkhq/pagemark/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Error("opening store", "error", err)
		os.Exit(1)
	}

	ocrClient := ocr.NewClient(cfg.MistralOCRURL, cfg.MistralAPIKey, cfg.MistralOCRModel, cfg.OCRTimeout)

	service := reader.NewService(st.Documents(), ocrClient, log)
	engine := reader.NewEngine(st.Highlights(), log)
	srv := api.NewServer(service, engine, log)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		ocrClient.Close()
		st.Close()
	}()

	log.Info("starting pagemark", "port", cfg.Port, "database", st.Path())
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
