package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"recordstore/internal/config"
	"recordstore/internal/queue"
	"recordstore/internal/sse"
	"recordstore/internal/telemetry"
)

type App struct {
	cfg      *config.Config
	hub      *sse.Hub
	consumer queue.Consumer
	server   *http.Server
	logger   *zap.Logger
	wg       sync.WaitGroup

	mu      sync.Mutex
	metrics *http.Server

	shutdownTracing telemetry.ShutdownFunc
}

func NewApp(cfg *config.Config, hub *sse.Hub, consumer queue.Consumer, router *gin.Engine, logger *zap.Logger) *App {
	return &App{
		cfg:      cfg,
		hub:      hub,
		consumer: consumer,
		server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: logger,
	}
}

// InitTelemetry installs tracing. Call it before Run.
func (a *App) InitTelemetry(ctx context.Context) error {
	shutdown, err := telemetry.Init(ctx, a.cfg)
	if err != nil {
		return err
	}
	a.shutdownTracing = shutdown
	return nil
}

// Run blocks serving HTTP until the server stops.
func (a *App) Run(ctx context.Context) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.hub.Run(ctx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.consumer.Start(ctx); err != nil && ctx.Err() == nil {
			a.logger.Error("consumer stopped", zap.Error(err))
		}
	}()

	if err := a.startMetrics(); err != nil {
		return err
	}

	lis, err := net.Listen("tcp", a.cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.HTTPAddr, err)
	}
	a.logger.Info("Servidor rodando em http://localhost:" + a.cfg.Port())
	if err := a.server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("graceful shutdown started")
	shutdownErr := a.server.Shutdown(ctx)
	a.mu.Lock()
	metricsServer := a.metrics
	a.mu.Unlock()
	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Warn("metrics shutdown failed", zap.Error(err))
		}
	}
	if a.shutdownTracing != nil {
		if err := a.shutdownTracing(ctx); err != nil {
			a.logger.Warn("tracing shutdown failed", zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("graceful shutdown completed")
		return shutdownErr
	case <-ctx.Done():
		if shutdownErr != nil {
			return shutdownErr
		}
		return ctx.Err()
	}
}

func (a *App) Logger() *zap.Logger {
	return a.logger
}
