package repository

import (
	"context"

	"recordstore/internal/model"
)

// RecordRepository is an ordered record store. Lookups by id address the first match.
// Missing ids are reported as domain.ErrRecordNotFound.
type RecordRepository interface {
	ListRecords(ctx context.Context) ([]model.Record, error)
	CreateRecord(ctx context.Context, record model.Record) (model.Record, error)
	ReplaceRecord(ctx context.Context, id int64, payload model.Record) (model.Record, error)
	PatchRecord(ctx context.Context, id int64, payload model.Record) (model.Record, error)
	DeleteRecord(ctx context.Context, id int64) (model.Record, error)
	Len(ctx context.Context) (int, error)
}
