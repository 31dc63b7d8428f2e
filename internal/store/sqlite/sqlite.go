// Package sqlite is the database-backed ExportStore, built on the cgo-free
// modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/example/snapedit/internal/store"
)

const schema = `CREATE TABLE IF NOT EXISTS exports (
	id TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	created_at INTEGER NOT NULL
);`

type exportStore struct {
	db *sql.DB
}

// NewExportStore opens (creating when absent) the database at
// dataSourceName and ensures the exports table exists.
func NewExportStore(dataSourceName string) (store.ExportStore, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", dataSourceName, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: create schema: %w", err)
	}
	return &exportStore{db: db}, nil
}

func (s *exportStore) Create(ctx context.Context, data []byte) (store.Export, error) {
	exp := store.Export{
		ID:        ulid.Make().String(),
		Data:      append([]byte(nil), data...),
		CreatedAt: time.Now().UTC(),
	}
	log := logrus.WithFields(logrus.Fields{
		"export_id":   exp.ID,
		"data_length": len(exp.Data),
	})

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO exports (id, data, created_at) VALUES (?, ?, ?)",
		exp.ID, exp.Data, exp.CreatedAt.UnixMilli())
	if err != nil {
		log.WithError(err).Error("failed to store export")
		return store.Export{}, fmt.Errorf("sqlite: create export: %w", err)
	}
	log.Info("export stored")
	return exp, nil
}

func (s *exportStore) FindID(ctx context.Context, id string) (store.Export, error) {
	log := logrus.WithField("export_id", id)

	var data []byte
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT data, created_at FROM exports WHERE id = ?", id).Scan(&data, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Warn("export not found")
			return store.Export{}, store.ErrNotFound
		}
		log.WithError(err).Error("failed to retrieve export")
		return store.Export{}, fmt.Errorf("sqlite: find export: %w", err)
	}
	return store.Export{
		ID:        id,
		Data:      data,
		CreatedAt: time.UnixMilli(createdAt).UTC(),
	}, nil
}

func (s *exportStore) Close() error { return s.db.Close() }
