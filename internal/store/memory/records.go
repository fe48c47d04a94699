package memory

import (
	"context"

	"go.uber.org/zap"
	"recordstore/internal/domain"
	"recordstore/internal/model"
)

func (s *Store) ListRecords(_ context.Context) ([]model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]model.Record, 0, len(s.records))
	for _, record := range s.records {
		result = append(result, record.Clone())
	}
	return result, nil
}

func (s *Store) CreateRecord(_ context.Context, record model.Record) (model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID()
	created := record.WithID(id)
	s.records = append(s.records, created)
	if id > s.maxID {
		s.maxID = id
	}
	if s.indexOf(id) != len(s.records)-1 {
		s.log.Warn("assigned id already in use", zap.Int64("id", id), zap.String("policy", string(s.policy)))
	}
	return created.Clone(), nil
}

func (s *Store) ReplaceRecord(_ context.Context, id int64, payload model.Record) (model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, domain.ErrRecordNotFound
	}
	s.records[i] = domain.Replace(id, payload)
	return s.records[i].Clone(), nil
}

func (s *Store) PatchRecord(_ context.Context, id int64, payload model.Record) (model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, domain.ErrRecordNotFound
	}
	s.records[i] = domain.Merge(s.records[i], payload)
	if patched, ok := s.records[i].ID(); ok && patched > s.maxID {
		s.maxID = patched
	}
	return s.records[i].Clone(), nil
}

func (s *Store) DeleteRecord(_ context.Context, id int64) (model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, domain.ErrRecordNotFound
	}
	removed := s.records[i]
	s.records = append(s.records[:i], s.records[i+1:]...)
	return removed, nil
}

func (s *Store) Len(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records), nil
}

func (s *Store) nextID() int64 {
	if s.policy == domain.IDPolicySequence {
		return s.maxID + 1
	}
	return int64(len(s.records)) + 1
}

func (s *Store) indexOf(id int64) int {
	for i, record := range s.records {
		if rid, ok := record.ID(); ok && rid == id {
			return i
		}
	}
	return -1
}
