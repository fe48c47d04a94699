package sqlstore

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

var MySQL = Dialect{
	Name: "mysql",
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS records (
			seq BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			id BIGINT NULL,
			body JSON NOT NULL,
			KEY idx_records_id (id, seq)
		)`,
	},
}

func OpenMySQL(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql open: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql ping: %w", err)
	}
	return db, nil
}
