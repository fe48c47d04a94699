package sqlstore

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"recordstore/internal/domain"
	"recordstore/internal/model"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) ListRecords(ctx context.Context) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT body FROM records ORDER BY seq`)
	if err != nil {
		s.log.Error("sql list records failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := []model.Record{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		record, err := decodeRecord(body)
		if err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}

func (s *Store) CreateRecord(ctx context.Context, record model.Record) (model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	id := s.maxID + 1
	if s.policy != domain.IDPolicySequence {
		var count int64
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&count); err != nil {
			s.log.Error("sql count records failed", zap.Error(err))
			return nil, err
		}
		id = count + 1
	}

	created := record.WithID(id)
	if err := insertRecord(ctx, tx, id, created); err != nil {
		s.log.Error("sql create record failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	if id > s.maxID {
		s.maxID = id
	}
	return created, nil
}

func (s *Store) ReplaceRecord(ctx context.Context, id int64, payload model.Record) (model.Record, error) {
	return s.update(ctx, id, func(model.Record) model.Record {
		return domain.Replace(id, payload)
	})
}

func (s *Store) PatchRecord(ctx context.Context, id int64, payload model.Record) (model.Record, error) {
	return s.update(ctx, id, func(existing model.Record) model.Record {
		return domain.Merge(existing, payload)
	})
}

func (s *Store) DeleteRecord(ctx context.Context, id int64) (model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	seq, existing, err := findFirst(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE seq = ?`, seq); err != nil {
		s.log.Error("sql delete record failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *Store) Len(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) update(ctx context.Context, id int64, apply func(model.Record) model.Record) (model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	seq, existing, err := findFirst(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	updated := apply(existing)
	body, err := json.Marshal(updated)
	if err != nil {
		return nil, err
	}
	// A record whose id is no longer an integer keeps its row but stops matching lookups.
	var newID sql.NullInt64
	newID.Int64, newID.Valid = updated.ID()
	if _, err := tx.ExecContext(ctx, `UPDATE records SET id = ?, body = ? WHERE seq = ?`, newID, string(body), seq); err != nil {
		s.log.Error("sql update record failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	if newID.Valid && newID.Int64 > s.maxID {
		s.maxID = newID.Int64
	}
	return updated, nil
}

func findFirst(ctx context.Context, q querier, id int64) (int64, model.Record, error) {
	var (
		seq  int64
		body string
	)
	err := q.QueryRowContext(ctx, `SELECT seq, body FROM records WHERE id = ? ORDER BY seq LIMIT 1`, id).Scan(&seq, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return 0, nil, err
	}
	record, err := decodeRecord(body)
	if err != nil {
		return 0, nil, err
	}
	return seq, record, nil
}

func insertRecord(ctx context.Context, q querier, id int64, record model.Record) error {
	body, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if _, err := q.ExecContext(ctx, `INSERT INTO records (id, body) VALUES (?, ?)`, id, string(body)); err != nil {
		return fmt.Errorf("insert record %d: %w", id, err)
	}
	return nil
}

func decodeRecord(body string) (model.Record, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()
	var record model.Record
	if err := dec.Decode(&record); err != nil {
		return nil, fmt.Errorf("decode stored record: %w", err)
	}
	return record, nil
}
