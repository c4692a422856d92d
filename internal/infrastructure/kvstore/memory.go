// Package kvstore contiene las implementaciones locales del puerto repository.KVStore
// (memoria y archivos) y la fábrica que elige el backend según la configuración.
package kvstore

import (
	"context"
	"sync"

	"github.com/jhoicas/inventory-system/internal/domain/repository"
)

var _ repository.KVStore = (*Memory)(nil)

// Memory almacén en memoria (tests y desarrollo). Seguro para uso concurrente.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string]string
	// FailSave, si no es nil, se devuelve en cada Save (simula fallos del medio).
	FailSave error
}

// NewMemory construye un almacén vacío.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string]string)}
}

// Load devuelve el blob de key.
func (m *Memory) Load(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	blob, ok := m.blobs[key]
	return blob, ok, nil
}

// Save reemplaza el blob de key.
func (m *Memory) Save(_ context.Context, key, blob string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave != nil {
		return m.FailSave
	}
	m.blobs[key] = blob
	return nil
}

// Set escribe un blob sin pasar por FailSave (preparación de tests).
func (m *Memory) Set(key, blob string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = blob
}
