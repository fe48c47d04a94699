package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"recordstore/internal/config"
	"recordstore/internal/domain"
	"recordstore/internal/http/dto"
	"recordstore/internal/model"
	"recordstore/internal/service/records"
	"recordstore/internal/sse"
)

type Handler struct {
	cfg *config.Config
	svc *records.Service
	hub *sse.Hub
	log *zap.Logger
}

func NewHandler(cfg *config.Config, svc *records.Service, hub *sse.Hub, logger *zap.Logger) *Handler {
	return &Handler{cfg: cfg, svc: svc, hub: hub, log: logger}
}

func (h *Handler) ListRecords(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.PureJSON(http.StatusOK, list)
}

func (h *Handler) CreateRecord(c *gin.Context) {
	payload, ok := h.readPayload(c)
	if !ok {
		return
	}
	created, err := h.svc.Create(c.Request.Context(), payload)
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.PureJSON(http.StatusCreated, created)
}

func (h *Handler) ReplaceRecord(c *gin.Context) {
	payload, ok := h.readPayload(c)
	if !ok {
		return
	}
	id, ok := domain.ParsePathID(c.Param("id"))
	if !ok {
		h.itemNotFound(c)
		return
	}
	replaced, err := h.svc.Replace(c.Request.Context(), id, payload)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.PureJSON(http.StatusOK, replaced)
}

func (h *Handler) PatchRecord(c *gin.Context) {
	payload, ok := h.readPayload(c)
	if !ok {
		return
	}
	id, ok := domain.ParsePathID(c.Param("id"))
	if !ok {
		h.itemNotFound(c)
		return
	}
	patched, err := h.svc.Patch(c.Request.Context(), id, payload)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.PureJSON(http.StatusOK, patched)
}

func (h *Handler) DeleteRecord(c *gin.Context) {
	id, ok := domain.ParsePathID(c.Param("id"))
	if !ok {
		h.itemNotFound(c)
		return
	}
	removed, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.PureJSON(http.StatusOK, []model.Record{removed})
}

func (h *Handler) RouteNotFound(c *gin.Context) {
	c.PureJSON(http.StatusNotFound, dto.MessageResponse{Message: domain.MessageRouteNotFound})
}

// readPayload waits for the whole body, then decodes it. On failure the
// response has already been handled and ok is false.
func (h *Handler) readPayload(c *gin.Context) (model.Record, bool) {
	if h.cfg.MaxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxBodyBytes)
	}
	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.MessageResponse{Message: "Corpo da requisição muito grande"})
			return nil, false
		}
		h.malformed(c, err)
		return nil, false
	}
	payload, err := domain.DecodePayload(body)
	if err != nil {
		h.malformed(c, err)
		return nil, false
	}
	return payload, true
}

func (h *Handler) malformed(c *gin.Context, err error) {
	if domain.MalformedPayloadPolicy(h.cfg.MalformedPayloadPolicy) == domain.MalformedPayloadFatal {
		h.log.Fatal("malformed request payload",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		return
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.MessageResponse{Message: domain.MessageInternalError})
}

func (h *Handler) storeError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrRecordNotFound) {
		h.itemNotFound(c)
		return
	}
	h.internalError(c, err)
}

func (h *Handler) itemNotFound(c *gin.Context) {
	c.PureJSON(http.StatusNotFound, dto.MessageResponse{Message: domain.MessageItemNotFound})
}

func (h *Handler) internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.MessageResponse{Message: domain.MessageInternalError})
}
