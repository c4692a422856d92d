package sqlstore_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-system/internal/infrastructure/sqlstore"
)

func openSQLite(t *testing.T) *sqlstore.KVStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kv.db")
	store, err := sqlstore.Open(context.Background(), sqlstore.SQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLite_LoadSave(t *testing.T) {
	store := openSQLite(t)
	ctx := context.Background()

	_, found, err := store.Load(ctx, "inventory")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Save(ctx, "inventory", `[]`))
	require.NoError(t, store.Save(ctx, "inventory", `[{"id":"x"}]`))
	blob, found, err := store.Load(ctx, "inventory")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"x"}]`, blob)
}

func TestSQLite_PersisteEntreAperturas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	ctx := context.Background()

	first, err := sqlstore.Open(ctx, sqlstore.SQLite, path)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, "user", `{"id":"1"}`))
	require.NoError(t, first.Close())

	second, err := sqlstore.Open(ctx, sqlstore.SQLite, path)
	require.NoError(t, err)
	defer second.Close()
	blob, found, err := second.Load(ctx, "user")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"id":"1"}`, blob)
}

func TestSQLite_EscriturasConcurrentes(t *testing.T) {
	store := openSQLite(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Save(ctx, "transactions", `[]`))
		}()
	}
	wg.Wait()
}

func TestOpen_DialectoDesconocido(t *testing.T) {
	_, err := sqlstore.Open(context.Background(), "oracle", "x")
	assert.Error(t, err)
}

func TestMySQL_LoadSave(t *testing.T) {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/inventory?parseTime=true"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	store, err := sqlstore.Open(ctx, sqlstore.MySQL, dsn)
	if err != nil {
		t.Skipf("MySQL no disponible: %v", err)
	}
	defer store.Close()

	key := "test-" + time.Now().Format("150405.000000")
	require.NoError(t, store.Save(context.Background(), key, `[1]`))
	require.NoError(t, store.Save(context.Background(), key, `[1,2]`))
	blob, found, err := store.Load(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[1,2]`, blob)
}
