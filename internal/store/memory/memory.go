// Package memory is the in-process ExportStore, the default when no
// database path is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/example/snapedit/internal/store"
)

type exportStore struct {
	mu      sync.RWMutex
	exports map[string]store.Export
}

// NewExportStore creates an empty in-memory store.
func NewExportStore() store.ExportStore {
	return &exportStore{exports: make(map[string]store.Export)}
}

func (s *exportStore) Create(ctx context.Context, data []byte) (store.Export, error) {
	exp := store.Export{
		ID:        ulid.Make().String(),
		Data:      append([]byte(nil), data...),
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.exports[exp.ID] = exp
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"export_id":   exp.ID,
		"data_length": len(exp.Data),
	}).Info("export stored")
	return exp, nil
}

func (s *exportStore) FindID(ctx context.Context, id string) (store.Export, error) {
	s.mu.RLock()
	exp, ok := s.exports[id]
	s.mu.RUnlock()

	if !ok {
		logrus.WithField("export_id", id).Warn("export not found")
		return store.Export{}, store.ErrNotFound
	}
	return exp, nil
}

func (s *exportStore) Close() error { return nil }
