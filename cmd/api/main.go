package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	appanalysis "github.com/vehiscan/odometer-api/internal/application/analysis"
	"github.com/vehiscan/odometer-api/internal/config"
	"github.com/vehiscan/odometer-api/internal/infra/ai/gemini"
	"github.com/vehiscan/odometer-api/internal/infra/ai/prompt"
	"github.com/vehiscan/odometer-api/internal/infra/httpserver"
	"github.com/vehiscan/odometer-api/internal/infra/storage"
	"github.com/vehiscan/odometer-api/internal/middleware"
)

func main() {
	// .env is optional, env vars win
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// init uploads dir
	uploads, err := storage.NewLocal(cfg.Uploads.Dir)
	if err != nil {
		log.Fatalf("uploads init error: %v", err)
	}

	// init prompt store
	prompts := prompt.NewStore()
	if cfg.Gemini.PromptFile != "" {
		if err := prompts.LoadFile(cfg.Gemini.PromptFile); err != nil {
			log.Fatalf("prompt file error: %v", err)
		}
		go func() {
			if err := prompts.Watch(ctx, cfg.Gemini.PromptFile); err != nil && ctx.Err() == nil {
				log.Printf("prompt watcher stopped: %v", err)
			}
		}()
	}

	// init gemini client
	vision, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, gemini.Options{
		Model:             cfg.Gemini.Model,
		Temperature:       cfg.Gemini.Temperature,
		TopP:              cfg.Gemini.TopP,
		TopK:              cfg.Gemini.TopK,
		MaxOutputTokens:   cfg.Gemini.MaxOutputTokens,
		SystemInstruction: cfg.Gemini.SystemInstruction,
	})
	if err != nil {
		log.Fatalf("gemini init error: %v", err)
	}

	// init service
	svc := &appanalysis.Service{
		Vision:  vision,
		Uploads: uploads,
		Prompts: prompts,
		Clock:   appanalysis.SystemClock{},
	}

	checkers := map[string]middleware.HealthChecker{
		"uploads":  &middleware.UploadsDirChecker{Dir: uploads.Dir()},
		"provider": &middleware.ProviderKeyChecker{APIKey: cfg.GeminiAPIKey},
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: httpserver.NewRouter(svc, cfg.APIToken, checkers),
		// inference can take tens of seconds
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")
	cancel()

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
