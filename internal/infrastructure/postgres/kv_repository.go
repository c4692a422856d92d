package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-system/internal/domain/repository"
)

var _ repository.KVStore = (*KVRepo)(nil)

const createKVTable = `
	CREATE TABLE IF NOT EXISTS kv_store (
		name       TEXT PRIMARY KEY,
		blob       TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// KVRepo implementación del puerto KVStore sobre PostgreSQL: una fila por clave.
type KVRepo struct {
	pool *pgxpool.Pool
}

// NewKVRepository construye el adaptador y crea la tabla si no existe.
func NewKVRepository(ctx context.Context, pool *pgxpool.Pool) (*KVRepo, error) {
	if _, err := pool.Exec(ctx, createKVTable); err != nil {
		return nil, fmt.Errorf("crear tabla kv_store: %w", err)
	}
	return &KVRepo{pool: pool}, nil
}

// Load obtiene el blob de una clave; ("", false, nil) si no existe.
func (r *KVRepo) Load(ctx context.Context, key string) (string, bool, error) {
	var blob string
	err := r.pool.QueryRow(ctx, `SELECT blob FROM kv_store WHERE name = $1`, key).Scan(&blob)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get kv %q: %w", key, err)
	}
	return blob, true, nil
}

// Save inserta o reemplaza el blob de la clave.
func (r *KVRepo) Save(ctx context.Context, key, blob string) error {
	query := `
		INSERT INTO kv_store (name, blob, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET blob = EXCLUDED.blob, updated_at = EXCLUDED.updated_at`
	if _, err := r.pool.Exec(ctx, query, key, blob); err != nil {
		return fmt.Errorf("upsert kv %q: %w", key, err)
	}
	return nil
}

// StockValue calcula en la base Σ price × quantity sobre el blob de items guardado en key.
// Devuelve cero si la clave no existe.
func (r *KVRepo) StockValue(ctx context.Context, key string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM((e->>'price')::numeric * (e->>'quantity')::numeric), 0)
		FROM kv_store, jsonb_array_elements(blob::jsonb) AS e
		WHERE name = $1`
	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, key).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("stock value %q: %w", key, err)
	}
	return total, nil
}
