package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"recordstore/internal/http/dto"
)

var registerRuntimeCollectorsOnce sync.Once

// startMetrics serves /metrics and /health on MetricsAddr in the background.
// Empty address disables it.
func (a *App) startMetrics() error {
	if a.cfg.MetricsAddr == "" {
		return nil
	}

	var regErr error
	registerRuntimeCollectorsOnce.Do(func() {
		for _, c := range []prometheus.Collector{
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		} {
			if err := prometheus.DefaultRegisterer.Register(c); err != nil {
				var already prometheus.AlreadyRegisteredError
				if !errors.As(err, &already) {
					regErr = fmt.Errorf("metrics register runtime collector: %w", err)
					return
				}
			}
		}
	})
	if regErr != nil {
		return regErr
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", health)

	lis, err := net.Listen("tcp", a.cfg.MetricsAddr)
	if err != nil {
		return fmt.Errorf("listen metrics %s: %w", a.cfg.MetricsAddr, err)
	}

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	a.mu.Lock()
	a.metrics = srv
	a.mu.Unlock()
	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", zap.Error(err))
		}
	}()
	a.logger.Info("metrics listening", zap.String("addr", lis.Addr().String()))
	return nil
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(dto.StatusResponse{Status: "ok"})
}
