package memory

import (
	"sync"

	"go.uber.org/zap"
	"recordstore/internal/domain"
	"recordstore/internal/model"
)

type Store struct {
	mu      sync.Mutex
	policy  domain.IDPolicy
	maxID   int64
	records []model.Record
	log     *zap.Logger
}

// New returns a store holding the given seed records in order.
func New(policy domain.IDPolicy, seed []model.Record, logger *zap.Logger) *Store {
	s := &Store{policy: policy, log: logger}
	for _, record := range seed {
		s.records = append(s.records, record.Clone())
		if id, ok := record.ID(); ok && id > s.maxID {
			s.maxID = id
		}
	}
	return s
}
