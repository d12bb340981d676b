package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jhoicas/inventory-tracker/internal/domain"
)

// Identified registro con id numérico monótono.
type Identified interface {
	RecordID() int64
}

// Load lee y decodifica la colección completa (traducción entre registros tipados y JSON crudo).
func Load[T any](ctx context.Context, store RecordStore, collection string) ([]T, error) {
	raw, err := store.LoadAll(ctx, collection)
	if err != nil {
		return nil, WrapStorage("load "+collection, err)
	}
	out := make([]T, 0, len(raw))
	for i, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			return nil, domain.Storage("decode "+collection, fmt.Errorf("registro %d: %w", i, err))
		}
		out = append(out, v)
	}
	return out, nil
}

// Encode serializa los registros como reemplazo completo de la colección.
func Encode[T any](collection string, records []T) (CollectionWrite, error) {
	raw := make([]json.RawMessage, 0, len(records))
	for _, r := range records {
		b, err := json.Marshal(r)
		if err != nil {
			return CollectionWrite{}, domain.Storage("encode "+collection, err)
		}
		raw = append(raw, b)
	}
	return CollectionWrite{Collection: collection, Records: raw}, nil
}

// Save codifica y reemplaza una sola colección.
func Save[T any](ctx context.Context, store RecordStore, collection string, records []T) error {
	w, err := Encode(collection, records)
	if err != nil {
		return err
	}
	if err := store.SaveAll(ctx, w); err != nil {
		return WrapStorage("save "+collection, err)
	}
	return nil
}

// NextID devuelve un id estrictamente mayor que todos los existentes (1 en colección vacía).
func NextID[T Identified](records []T) int64 {
	var max int64
	for _, r := range records {
		if id := r.RecordID(); id > max {
			max = id
		}
	}
	return max + 1
}

// WrapStorage deja pasar errores ya tipados y envuelve el resto como fallo de almacenamiento.
func WrapStorage(op string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.Storage(op, err)
}
