package store

import (
	"context"
	"database/sql"

	"go.uber.org/zap"
	"recordstore/internal/config"
	"recordstore/internal/domain"
	"recordstore/internal/repository"
	"recordstore/internal/store/memory"
	"recordstore/internal/store/sqlstore"
)

// NewStore picks the backend from config: MySQL, then SQLite, then memory.
// Every backend starts from the seed records.
func NewStore(cfg *config.Config, logger *zap.Logger) (repository.RecordRepository, func(), error) {
	policy := domain.IDPolicy(cfg.IDPolicy)
	if cfg.MySQLDSN == "" && cfg.SQLitePath == "" {
		logger.Info("using in-memory record store", zap.String("id_policy", cfg.IDPolicy))
		return memory.New(policy, domain.SeedRecords(), logger), func() {}, nil
	}

	var (
		db      *sql.DB
		dialect sqlstore.Dialect
		err     error
	)
	if cfg.MySQLDSN != "" {
		dialect = sqlstore.MySQL
		db, err = sqlstore.OpenMySQL(cfg.MySQLDSN)
	} else {
		dialect = sqlstore.SQLite
		db, err = sqlstore.OpenSQLite(cfg.SQLitePath)
	}
	if err != nil {
		logger.Error("record store open failed", zap.String("driver", dialect.Name), zap.Error(err))
		return nil, nil, err
	}

	st := sqlstore.New(db, dialect, policy, logger)
	ctx := context.Background()
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		logger.Error("record store migrate failed", zap.String("driver", dialect.Name), zap.Error(err))
		return nil, nil, err
	}
	if err := st.Reset(ctx, domain.SeedRecords()); err != nil {
		_ = st.Close()
		logger.Error("record store seed failed", zap.String("driver", dialect.Name), zap.Error(err))
		return nil, nil, err
	}
	logger.Info("using sql record store", zap.String("driver", dialect.Name), zap.String("id_policy", cfg.IDPolicy))

	cleanup := func() {
		if err := st.Close(); err != nil {
			logger.Warn("record store close failed", zap.Error(err))
		}
	}
	return st, cleanup, nil
}
