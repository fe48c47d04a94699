// Package sqlstore keeps records in a SQL table, one JSON document per row.
// Row order follows the auto-increment seq column, so it matches insertion order.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"recordstore/internal/domain"
	"recordstore/internal/model"
)

// Dialect holds the driver-specific statements.
type Dialect struct {
	Name   string
	Schema []string
}

type Store struct {
	db      *sql.DB
	dialect Dialect
	policy  domain.IDPolicy
	log     *zap.Logger

	// mu serialises mutations; maxID backs the sequence policy.
	mu    sync.Mutex
	maxID int64
}

func New(db *sql.DB, dialect Dialect, policy domain.IDPolicy, logger *zap.Logger) *Store {
	return &Store{db: db, dialect: dialect, policy: policy, log: logger}
}

// Migrate creates the records table if needed.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range s.dialect.Schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s migrate: %w", s.dialect.Name, err)
		}
	}
	return nil
}

// Reset drops every row and inserts seed in order.
func (s *Store) Reset(ctx context.Context, seed []model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s reset begin: %w", s.dialect.Name, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("%s reset delete: %w", s.dialect.Name, err)
	}
	var maxID int64
	for _, record := range seed {
		id, ok := record.ID()
		if !ok {
			return fmt.Errorf("%s reset: seed record without integer id", s.dialect.Name)
		}
		if err := insertRecord(ctx, tx, id, record); err != nil {
			return err
		}
		if id > maxID {
			maxID = id
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s reset commit: %w", s.dialect.Name, err)
	}
	s.maxID = maxID
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
