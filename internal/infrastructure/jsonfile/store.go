// Package jsonfile implementa el RecordStore sobre un archivo JSON por colección.
//
// Cada escritura va a un archivo temporal que se sincroniza y luego se renombra sobre el
// definitivo, de modo que un lector nunca ve una colección a medio escribir.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

var _ repository.RecordStore = (*Store)(nil)

var collectionName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Store persiste colecciones como <dir>/<colección>.json.
// El lock serializa escrituras y evita que un lector del mismo proceso vea un lote parcial.
type Store struct {
	dir string
	mu  sync.RWMutex
}

// NewStore crea el directorio de datos si no existe.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, domain.Storage("crear directorio de datos", err)
	}
	return &Store{dir: dir}, nil
}

// LoadAll lee la colección; si el archivo no existe devuelve una lista vacía.
func (s *Store) LoadAll(_ context.Context, collection string) ([]json.RawMessage, error) {
	path, err := s.path(collection)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []json.RawMessage{}, nil
		}
		return nil, domain.Storage("leer "+collection, err)
	}
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, domain.Storage("decodificar "+collection, err)
	}
	if records == nil {
		records = []json.RawMessage{}
	}
	return records, nil
}

// stagedWrite una colección del lote en curso.
type stagedWrite struct {
	collection string
	final      string
	tmp        string
	backup     string
	hadFile    bool
	swapped    bool
}

// SaveAll escribe primero todos los temporales del lote y luego los renombra.
// Si un rename falla se restauran las versiones previas ya reemplazadas.
func (s *Store) SaveAll(_ context.Context, writes ...repository.CollectionWrite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make([]*stagedWrite, 0, len(writes))
	defer func() {
		for _, st := range batch {
			_ = os.Remove(st.tmp)
			_ = os.Remove(st.backup)
		}
	}()

	for _, w := range writes {
		final, err := s.path(w.Collection)
		if err != nil {
			return err
		}
		records := w.Records
		if records == nil {
			records = []json.RawMessage{}
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return domain.Storage("codificar "+w.Collection, err)
		}
		st := &stagedWrite{collection: w.Collection, final: final, tmp: final + ".tmp", backup: final + ".bak"}
		batch = append(batch, st)
		if err := writeSynced(st.tmp, data); err != nil {
			return domain.Storage("escribir "+w.Collection, err)
		}
	}

	for _, st := range batch {
		if _, err := os.Stat(st.final); err == nil {
			_ = os.Remove(st.backup)
			if err := os.Link(st.final, st.backup); err != nil {
				restore(batch)
				return domain.Storage("respaldar "+st.collection, err)
			}
			st.hadFile = true
		}
		if err := os.Rename(st.tmp, st.final); err != nil {
			restore(batch)
			return domain.Storage("reemplazar "+st.collection, err)
		}
		st.swapped = true
	}
	return nil
}

// restore deshace los renames ya aplicados del lote.
func restore(batch []*stagedWrite) {
	for _, st := range batch {
		if !st.swapped {
			continue
		}
		if st.hadFile {
			_ = os.Rename(st.backup, st.final)
		} else {
			_ = os.Remove(st.final)
		}
	}
}

// path valida el nombre de la colección para no salir del directorio de datos.
func (s *Store) path(collection string) (string, error) {
	if !collectionName.MatchString(collection) {
		return "", domain.Storage("resolver colección", fmt.Errorf("nombre inválido %q", collection))
	}
	return filepath.Join(s.dir, collection+".json"), nil
}

func writeSynced(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
