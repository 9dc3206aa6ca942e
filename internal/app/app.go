package app

import (
	"context"
	"errors"
	"fmt"
	"framedetect/internal/config"
	"framedetect/internal/logger"
	"framedetect/internal/route"
	"framedetect/internal/service/ai"
	"framedetect/internal/service/websocket"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config          *config.Config
	logger          *logger.Logger
	detectorService *ai.DetectorService
	hubService      *websocket.HubService
	server          *http.Server
}

// NewApp loads the configuration from the environment and builds the App.
func NewApp() (*App, error) {
	return New(config.Load())
}

// New loads the model and wires services and routes for cfg.
func New(cfg *config.Config) (*App, error) {
	log := logger.NewLogger(cfg)

	model, err := ai.NewModel(cfg)
	if err != nil {
		log.Error("Could not initialize detection model: %v", err)
		log.Close()
		return nil, fmt.Errorf("failed to initialize model: %w", err)
	}
	log.Info("Detection model initialized (%s backend)", model.Name())

	detector := ai.NewDetectorService(model, log)
	hub := websocket.NewHubService(log)

	return &App{
		config:          cfg,
		logger:          log,
		detectorService: detector,
		hubService:      hub,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Port),
			Handler: route.SetupRoutes(detector, hub, cfg, log),
		},
	}, nil
}

// Handler returns the HTTP handler serving all routes.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves until SIGINT/SIGTERM and then shuts down gracefully.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return a.serve(ctx)
}

func (a *App) serve(ctx context.Context) error {
	go a.hubService.Run()

	fmt.Printf("🚀 Frame Detection Server\n")
	fmt.Printf("📍 URL: http://localhost:%d\n", a.config.Port)
	fmt.Printf("🤖 AI Model: %s (%s)\n", a.detectorService.ModelName(), a.config.ModelPath)
	fmt.Printf("📁 Logs: %s\n", a.config.LogDirectory)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.server.ListenAndServe()
	}()

	var runErr error
	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	case <-ctx.Done():
		a.logger.Info("🛑 Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			runErr = fmt.Errorf("failed to shut down server: %w", err)
		}
	}

	a.close()
	return runErr
}

// close stops the hub, releases the model and flushes the logs.
func (a *App) close() {
	a.hubService.Stop()
	if err := a.detectorService.Close(); err != nil {
		a.logger.Error("Error closing detection model: %v", err)
	}
	a.logger.Close()
}
