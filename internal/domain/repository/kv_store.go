package repository

import "context"

// KVStore define el puerto de persistencia durable (DIP): blobs serializados por clave.
// Inventario, ledger y sesión nunca hablan con el medio de almacenamiento directamente.
type KVStore interface {
	// Load devuelve el blob guardado bajo key. found es false si la clave no existe.
	Load(ctx context.Context, key string) (blob string, found bool, err error)
	// Save reemplaza el blob completo guardado bajo key.
	Save(ctx context.Context, key, blob string) error
}
