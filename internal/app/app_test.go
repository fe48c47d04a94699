package app

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"recordstore/internal/config"
	"recordstore/internal/sse"
)

type blockingConsumer struct{}

func (blockingConsumer) Start(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func freeAddr(t *testing.T) string {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())
	return addr
}

func TestAppRunAndShutdown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/data", func(c *gin.Context) { c.Status(http.StatusOK) })

	cfg := &config.Config{HTTPAddr: freeAddr(t), MetricsAddr: freeAddr(t)}
	a := NewApp(cfg, sse.NewHub(), blockingConsumer{}, router, zap.NewNop())
	require.NoError(t, a.InitTelemetry(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- a.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/data", cfg.HTTPAddr))
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	resp, err := http.Get(fmt.Sprintf("http://%s/metrics", cfg.MetricsAddr))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	require.Contains(t, string(body), "go_goroutines")

	resp, err = http.Get(fmt.Sprintf("http://%s/health", cfg.MetricsAddr))
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"status":"ok"}`, string(body))

	cancel()
	shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()
	require.NoError(t, a.Shutdown(shutdownCtx))

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not return")
	}
}
