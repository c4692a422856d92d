// Package sqlstore implementa el puerto KVStore sobre database/sql vía sqlx, para
// SQLite (archivo local) y MySQL.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/jhoicas/inventory-system/internal/domain/repository"
)

var _ repository.KVStore = (*KVStore)(nil)

// Dialect driver SQL soportado.
type Dialect string

const (
	SQLite Dialect = "sqlite3"
	MySQL  Dialect = "mysql"
)

type dialectSQL struct {
	create string
	load   string
	upsert string
}

var statements = map[Dialect]dialectSQL{
	SQLite: {
		create: `CREATE TABLE IF NOT EXISTS kv_store (
			name       TEXT PRIMARY KEY,
			blob       TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		load: `SELECT blob FROM kv_store WHERE name = ?`,
		upsert: `INSERT INTO kv_store (name, blob, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(name) DO UPDATE SET blob = excluded.blob, updated_at = excluded.updated_at`,
	},
	MySQL: {
		create: "CREATE TABLE IF NOT EXISTS kv_store (" +
			"name VARCHAR(191) PRIMARY KEY, " +
			"`blob` LONGTEXT NOT NULL, " +
			"updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP)",
		load:   "SELECT `blob` FROM kv_store WHERE name = ?",
		upsert: "INSERT INTO kv_store (name, `blob`) VALUES (?, ?) ON DUPLICATE KEY UPDATE `blob` = VALUES(`blob`)",
	},
}

// KVStore adaptador SQL: una fila por clave.
type KVStore struct {
	db  *sqlx.DB
	sql dialectSQL
}

// Open conecta con el driver del dialecto, verifica la conexión y crea la tabla.
func Open(ctx context.Context, dialect Dialect, dsn string) (*KVStore, error) {
	stmts, ok := statements[dialect]
	if !ok {
		return nil, fmt.Errorf("sqlstore: dialecto no soportado %q", dialect)
	}
	db, err := sqlx.ConnectContext(ctx, string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: conectar %s: %w", dialect, err)
	}
	if dialect == SQLite {
		// Un único escritor evita SQLITE_BUSY entre goroutines.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.ExecContext(ctx, stmts.create); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore: crear tabla: %w", err)
	}
	return &KVStore{db: db, sql: stmts}, nil
}

// Load lee el blob de key.
func (s *KVStore) Load(ctx context.Context, key string) (string, bool, error) {
	var blob string
	if err := s.db.GetContext(ctx, &blob, s.sql.load, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("sqlstore: leer %q: %w", key, err)
	}
	return blob, true, nil
}

// Save inserta o reemplaza el blob de key.
func (s *KVStore) Save(ctx context.Context, key, blob string) error {
	if _, err := s.db.ExecContext(ctx, s.sql.upsert, key, blob); err != nil {
		return fmt.Errorf("sqlstore: guardar %q: %w", key, err)
	}
	return nil
}

// Close cierra la conexión.
func (s *KVStore) Close() error {
	return s.db.Close()
}
