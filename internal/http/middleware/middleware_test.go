package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"recordstore/internal/domain"
	"recordstore/internal/http/dto"
	"recordstore/internal/metrics"
)

func newEngine(t *testing.T, logger *zap.Logger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	m, err := metrics.NewPrometheus(prometheus.NewRegistry())
	require.NoError(t, err)

	router := gin.New()
	router.Use(RequestID(), ZapLogger(logger), ZapRecovery(logger), Metrics(m))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/boom", func(c *gin.Context) { panic("boom") })
	return router
}

func TestZapRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	router := newEngine(t, zap.New(core))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body dto.MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, domain.MessageInternalError, body.Message)
	require.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestRequestID(t *testing.T) {
	router := newEngine(t, zap.NewNop())

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
		require.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})
}

func TestZapLoggerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	router := newEngine(t, zap.New(core))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	completed := logs.FilterMessage("request completed").All()
	require.Len(t, completed, 2)
	require.Equal(t, zapcore.InfoLevel, completed[0].Level)
	require.Equal(t, zapcore.WarnLevel, completed[1].Level)
	require.NotEmpty(t, completed[0].ContextMap()["request_id"])
	require.Equal(t, "/ok", completed[0].ContextMap()["route"])
	require.Equal(t, "unmatched", completed[1].ContextMap()["route"])
}

func TestZapLoggerHandlerErrors(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ZapLogger(zap.New(core)))
	router.POST("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("bad payload"))
		c.AbortWithStatus(http.StatusInternalServerError)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/fail?debug=1", nil))

	failed := logs.FilterMessage("request failed").All()
	require.Len(t, failed, 1)
	require.Equal(t, zapcore.ErrorLevel, failed[0].Level)
	fields := failed[0].ContextMap()
	require.Equal(t, "debug=1", fields["query"])
	require.Contains(t, fields["errors"], "bad payload")
}
