// Package memory implementa el RecordStore en memoria (pruebas y STORE_DRIVER=memory).
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

var _ repository.RecordStore = (*Store)(nil)

// Store guarda cada colección como copia independiente; lecturas y escrituras clonan.
type Store struct {
	mu          sync.RWMutex
	collections map[string][]json.RawMessage
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{collections: make(map[string][]json.RawMessage)}
}

// LoadAll devuelve una copia de la colección.
func (s *Store) LoadAll(_ context.Context, collection string) ([]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecords(s.collections[collection]), nil
}

// SaveAll reemplaza todas las colecciones del lote bajo un único lock de escritura.
func (s *Store) SaveAll(_ context.Context, writes ...repository.CollectionWrite) error {
	staged := make(map[string][]json.RawMessage, len(writes))
	for _, w := range writes {
		staged[w.Collection] = cloneRecords(w.Records)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, records := range staged {
		s.collections[name] = records
	}
	return nil
}

func cloneRecords(in []json.RawMessage) []json.RawMessage {
	out := make([]json.RawMessage, len(in))
	for i, r := range in {
		out[i] = append(json.RawMessage(nil), r...)
	}
	return out
}
