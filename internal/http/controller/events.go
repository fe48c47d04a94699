package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"recordstore/internal/domain"
	"recordstore/internal/http/dto"
	"recordstore/internal/model"
	"recordstore/internal/sse"
)

// Events streams record changes as server-sent events until the client goes away.
func (h *Handler) Events(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		h.log.Error("streaming unsupported")
		c.PureJSON(http.StatusInternalServerError, dto.MessageResponse{Message: domain.MessageInternalError})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	flusher.Flush()

	client := sse.NewClient(16)
	if !h.hub.Register(client) {
		return
	}
	defer h.hub.Unregister(client)

	interval := h.cfg.SSEHeartbeat
	if interval <= 0 {
		interval = 15 * time.Second
	}
	heartbeat := time.NewTicker(interval)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-h.hub.Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(c.Writer, ": ping\n\n"); err != nil {
				h.log.Error("heartbeat write failed", zap.Error(err))
				return
			}
			flusher.Flush()
		case event, ok := <-client.Ch:
			if !ok {
				return
			}
			if err := writeEvent(c.Writer, event); err != nil {
				h.log.Error("write record event failed", zap.String("event_id", event.EventID), zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event model.RecordEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %s\nevent: record\ndata: %s\n\n", event.EventID, payload)
	return err
}
