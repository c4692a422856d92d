package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-system/internal/application/ledger"
	"github.com/jhoicas/inventory-system/internal/domain"
	"github.com/jhoicas/inventory-system/internal/domain/entity"
	"github.com/jhoicas/inventory-system/internal/infrastructure/kvstore"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var baseTime = time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC)

// fixedClock avanza un minuto por llamada salvo que step sea 0.
func fixedClock(step time.Duration) func() time.Time {
	current := baseTime
	return func() time.Time {
		t := current
		current = current.Add(step)
		return t
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("tx-%d", n)
	}
}

func newLedger(t *testing.T, kv *kvstore.Memory, step time.Duration) *ledger.Ledger {
	t.Helper()
	l := ledger.New(kv, zerolog.Nop(), ledger.WithClock(fixedClock(step)), ledger.WithIDGenerator(sequentialIDs()))
	require.NoError(t, l.Init(context.Background()))
	return l
}

func appendN(t *testing.T, l *ledger.Ledger, inputs ...entity.TransactionInput) {
	t.Helper()
	for _, in := range inputs {
		_, err := l.Append(context.Background(), in)
		require.NoError(t, err)
	}
}

func ids(txs []entity.Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, t := range txs {
		out = append(out, t.ID)
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Append / lecturas
// ──────────────────────────────────────────────────────────────────────────────

func TestAppend_AsignaIDYFechaYPersiste(t *testing.T) {
	kv := kvstore.NewMemory()
	l := newLedger(t, kv, time.Minute)

	tx, err := l.Append(context.Background(), entity.TransactionInput{
		ItemID: "i1", ItemName: "Laptop", Type: entity.TransactionAdd, Quantity: 3, User: "Admin", Notes: "alta",
	})
	require.NoError(t, err)
	assert.Equal(t, "tx-1", tx.ID)
	assert.True(t, baseTime.Equal(tx.Date))
	assert.Nil(t, tx.PreviousQuantity)

	blob, found, _ := kv.Load(context.Background(), ledger.DefaultKey)
	require.True(t, found, "Append debe persistir la secuencia completa")
	assert.Contains(t, blob, `"itemName":"Laptop"`)
	assert.NotContains(t, blob, "previousQuantity", "previousQuantity se omite si no aplica")
}

func TestAppend_TipoInvalido(t *testing.T) {
	l := newLedger(t, kvstore.NewMemory(), time.Minute)
	_, err := l.Append(context.Background(), entity.TransactionInput{Type: "transfer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, l.Len())
}

func TestAppend_FalloDelAlmacenNoDejaLaEntrada(t *testing.T) {
	kv := kvstore.NewMemory()
	l := newLedger(t, kv, time.Minute)
	kv.FailSave = errors.New("disco lleno")

	_, err := l.Append(context.Background(), entity.TransactionInput{Type: entity.TransactionAdd})
	require.Error(t, err)
	assert.Zero(t, l.Len(), "memoria y almacén no deben divergir")
}

func TestGetRecent_OrdenYLimite(t *testing.T) {
	l := newLedger(t, kvstore.NewMemory(), time.Minute)
	for i := 0; i < 12; i++ {
		appendN(t, l, entity.TransactionInput{ItemID: "i", Type: entity.TransactionAdd, Quantity: i})
	}
	recent := l.GetRecent(0)
	require.Len(t, recent, 10, "límite por defecto 10")
	assert.Equal(t, "tx-12", recent[0].ID)
	assert.Equal(t, "tx-3", recent[9].ID)

	assert.Equal(t, []string{"tx-12", "tx-11"}, ids(l.GetRecent(2)))
}

func TestGetRecent_EmpateDeFechas(t *testing.T) {
	l := newLedger(t, kvstore.NewMemory(), 0)
	appendN(t, l,
		entity.TransactionInput{Type: entity.TransactionAdd},
		entity.TransactionInput{Type: entity.TransactionAdd},
		entity.TransactionInput{Type: entity.TransactionAdd},
	)
	assert.Equal(t, []string{"tx-3", "tx-2", "tx-1"}, ids(l.GetRecent(10)),
		"con la misma fecha el último agregado va primero")
}

func TestGetByItemYGetByType_OrdenDeInsercion(t *testing.T) {
	l := newLedger(t, kvstore.NewMemory(), time.Minute)
	appendN(t, l,
		entity.TransactionInput{ItemID: "a", Type: entity.TransactionAdd},
		entity.TransactionInput{ItemID: "b", Type: entity.TransactionAdd},
		entity.TransactionInput{ItemID: "a", Type: entity.TransactionRemove},
		entity.TransactionInput{ItemID: "a", Type: entity.TransactionDelete},
	)
	assert.Equal(t, []string{"tx-1", "tx-3", "tx-4"}, ids(l.GetByItem("a")))
	assert.Equal(t, []string{"tx-1", "tx-2"}, ids(l.GetByType(entity.TransactionAdd)))
	assert.Empty(t, l.GetByItem("zzz"))
}

func TestAll_DevuelveCopia(t *testing.T) {
	l := newLedger(t, kvstore.NewMemory(), time.Minute)
	prev := 1
	appendN(t, l, entity.TransactionInput{Type: entity.TransactionUpdate, Quantity: 2, PreviousQuantity: &prev})

	snapshot := l.All()
	snapshot[0].ItemName = "modificado"
	*snapshot[0].PreviousQuantity = 99

	again := l.All()
	assert.Empty(t, again[0].ItemName, "el ledger no se modifica desde afuera")
	assert.Equal(t, 1, *again[0].PreviousQuantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Clear / ciclo de vida
// ──────────────────────────────────────────────────────────────────────────────

func TestClear_VaciaYPersiste(t *testing.T) {
	kv := kvstore.NewMemory()
	l := newLedger(t, kv, time.Minute)
	appendN(t, l, entity.TransactionInput{Type: entity.TransactionAdd})

	require.NoError(t, l.Clear(context.Background()))
	assert.Zero(t, l.Len())
	blob, _, _ := kv.Load(context.Background(), ledger.DefaultKey)
	assert.Equal(t, "[]", blob)
}

func TestInit_RecargaLoPersistido(t *testing.T) {
	kv := kvstore.NewMemory()
	l := newLedger(t, kv, time.Minute)
	prev := 4
	appendN(t, l,
		entity.TransactionInput{ItemID: "a", ItemName: "A", Type: entity.TransactionAdd, Quantity: 4, User: "Admin"},
		entity.TransactionInput{ItemID: "a", ItemName: "A", Type: entity.TransactionUpdate, Quantity: 6, PreviousQuantity: &prev, User: "Admin"},
	)

	reloaded := ledger.New(kv, zerolog.Nop())
	require.NoError(t, reloaded.Init(context.Background()))
	before, after := l.All(), reloaded.All()
	require.Len(t, after, 2)
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.Equal(t, before[i].Type, after[i].Type)
		assert.True(t, before[i].Date.Equal(after[i].Date))
		assert.Equal(t, before[i].PreviousQuantity, after[i].PreviousQuantity)
	}
}

func TestInit_BlobCorruptoArrancaVacio(t *testing.T) {
	kv := kvstore.NewMemory()
	kv.Set(ledger.DefaultKey, "{no es json")

	l := ledger.New(kv, zerolog.Nop())
	require.NoError(t, l.Init(context.Background()), "la corrupción no es fatal")
	assert.Zero(t, l.Len())
}

func TestWithKey_UsaLaClaveConfigurada(t *testing.T) {
	kv := kvstore.NewMemory()
	l := ledger.New(kv, zerolog.Nop(), ledger.WithKey("movs"))
	require.NoError(t, l.Init(context.Background()))
	appendN(t, l, entity.TransactionInput{Type: entity.TransactionAdd})

	_, found, _ := kv.Load(context.Background(), "movs")
	assert.True(t, found)
	_, found, _ = kv.Load(context.Background(), ledger.DefaultKey)
	assert.False(t, found)
}
