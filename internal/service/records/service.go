package records

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"recordstore/internal/config"
	"recordstore/internal/domain"
	"recordstore/internal/metrics"
	"recordstore/internal/model"
	"recordstore/internal/queue"
	"recordstore/internal/repository"
	"recordstore/internal/sse"
)

type Service struct {
	store   repository.RecordRepository
	hub     *sse.Hub
	pub     queue.Publisher
	metrics *metrics.Prometheus
	log     *zap.Logger
	prefix  string
	tracer  trace.Tracer
	now     func() time.Time
}

func NewService(cfg *config.Config, store repository.RecordRepository, hub *sse.Hub, publisher queue.Publisher, m *metrics.Prometheus, logger *zap.Logger) *Service {
	prefix := cfg.RabbitPublishPrefix
	if prefix == "" {
		prefix = "record"
	}
	return &Service{
		store:   store,
		hub:     hub,
		pub:     publisher,
		metrics: m,
		log:     logger,
		prefix:  prefix,
		tracer:  otel.Tracer("recordstore/records"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) List(ctx context.Context) ([]model.Record, error) {
	ctx, span := s.tracer.Start(ctx, "records.List")
	defer span.End()

	records, err := s.store.ListRecords(ctx)
	s.metrics.IncRecordOperation("list", err)
	if err != nil {
		s.fail(span, err)
		s.log.Error("store list records failed", zap.Error(err))
		return nil, err
	}
	span.SetAttributes(attribute.Int("records.count", len(records)))
	return records, nil
}

func (s *Service) Create(ctx context.Context, payload model.Record) (model.Record, error) {
	ctx, span := s.tracer.Start(ctx, "records.Create")
	defer span.End()

	created, err := s.store.CreateRecord(ctx, payload)
	s.metrics.IncRecordOperation("create", err)
	if err != nil {
		s.fail(span, err)
		s.log.Error("store create record failed", zap.Error(err))
		return nil, err
	}
	id, _ := created.ID()
	span.SetAttributes(attribute.Int64("record.id", id))
	s.emit(ctx, model.EventCreated, id, created)
	return created, nil
}

func (s *Service) Replace(ctx context.Context, id int64, payload model.Record) (model.Record, error) {
	return s.mutate(ctx, "replace", model.EventReplaced, id, func(ctx context.Context) (model.Record, error) {
		return s.store.ReplaceRecord(ctx, id, payload)
	})
}

func (s *Service) Patch(ctx context.Context, id int64, payload model.Record) (model.Record, error) {
	return s.mutate(ctx, "patch", model.EventPatched, id, func(ctx context.Context) (model.Record, error) {
		return s.store.PatchRecord(ctx, id, payload)
	})
}

func (s *Service) Delete(ctx context.Context, id int64) (model.Record, error) {
	return s.mutate(ctx, "delete", model.EventDeleted, id, func(ctx context.Context) (model.Record, error) {
		return s.store.DeleteRecord(ctx, id)
	})
}

func (s *Service) mutate(ctx context.Context, op string, eventType model.EventType, id int64, apply func(context.Context) (model.Record, error)) (model.Record, error) {
	ctx, span := s.tracer.Start(ctx, "records."+op, trace.WithAttributes(attribute.Int64("record.id", id)))
	defer span.End()

	record, err := apply(ctx)
	s.metrics.IncRecordOperation(op, err)
	if errors.Is(err, domain.ErrRecordNotFound) {
		span.SetStatus(codes.Error, "record not found")
		return nil, err
	}
	if err != nil {
		s.fail(span, err)
		s.log.Error("store "+op+" record failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	// A patch may renumber the record; the event follows the new id.
	if current, ok := record.ID(); ok {
		id = current
	}
	s.emit(ctx, eventType, id, record)
	return record, nil
}

// emit hands a change event to the hub and the broker. Delivery failures are logged only.
func (s *Service) emit(ctx context.Context, eventType model.EventType, id int64, record model.Record) {
	if n, err := s.store.Len(ctx); err == nil {
		s.metrics.SetRecordsStored(n)
	}

	event := model.RecordEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		RecordID:   id,
		Record:     record,
		OccurredAt: s.now(),
	}
	if !s.hub.Broadcast(event) {
		s.log.Warn("event hub full, dropping event", zap.String("event_id", event.EventID), zap.String("type", string(eventType)))
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Error("event marshal failed", zap.String("event_id", event.EventID), zap.Error(err))
		return
	}
	err = s.pub.Publish(ctx, payload, s.prefix+"."+string(eventType))
	s.metrics.IncEventPublished(string(eventType), err)
	if err != nil {
		s.log.Error("publish record event failed",
			zap.String("event_id", event.EventID),
			zap.String("type", string(eventType)),
			zap.Int64("record_id", id),
			zap.Error(err),
		)
	}
}

func (s *Service) fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
