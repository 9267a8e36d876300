package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kurtniemi/kurtclone/internal/config"
	"github.com/kurtniemi/kurtclone/internal/handler"
	"github.com/kurtniemi/kurtclone/internal/handler/webhook"
	"github.com/kurtniemi/kurtclone/internal/recall"
	"github.com/kurtniemi/kurtclone/internal/service/ai"
	"github.com/kurtniemi/kurtclone/internal/service/export"
	"github.com/kurtniemi/kurtclone/internal/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if !cfg.Recall.Enabled() {
		log.Fatal("RECALL_API_KEY is required for the webhook server")
	}

	store := session.NewMemoryStore()
	recallClient := recall.NewClient(cfg.Recall)
	exporter := export.New(store, cfg.Bot.ExportDir)

	// Initialize the response generator
	var responder webhook.Responder
	if cfg.AI.Enabled() {
		chatModel, err := cfg.AI.NewChatModel(ctx)
		if err != nil {
			log.Printf("warning: failed to create chat model: %v", err)
			log.Println("continuing without AI responses - check the ARK_* environment variables")
		} else {
			aiService, err := ai.NewService(ctx, chatModel)
			if err != nil {
				log.Printf("warning: failed to initialize AI service: %v", err)
			} else {
				responder = aiService
				log.Println("AI service initialized successfully")
			}
		}
	} else {
		log.Println("model credentials not configured, chat messages will be recorded but not answered")
	}

	webhookHandler := webhook.New(store, responder, recallClient, exporter, cfg.Bot)
	router := handler.NewRouter(webhookHandler)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("webhook server listening on %s", serverCfg.Addr)
	log.Println("make sure the webhook URL is publicly accessible")
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
