// Package ledger implementa el registro append-only de movimientos de inventario.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventory-system/internal/domain"
	"github.com/jhoicas/inventory-system/internal/domain/entity"
	"github.com/jhoicas/inventory-system/internal/domain/repository"
	"github.com/jhoicas/inventory-system/internal/domain/stock"
)

// DefaultKey clave del almacén bajo la cual se persiste la secuencia completa.
const DefaultKey = "transactions"

// Ledger es el único dueño de la secuencia de movimientos. Las entradas nunca se
// editan ni se reordenan; solo se agregan o se borran todas con Clear.
// La secuencia interna está en orden de inserción.
type Ledger struct {
	mu    sync.RWMutex
	txs   []entity.Transaction
	kv    repository.KVStore
	key   string
	log   zerolog.Logger
	now   func() time.Time
	newID func() string
}

// Option configura el Ledger.
type Option func(*Ledger)

// WithKey cambia la clave de persistencia.
func WithKey(key string) Option {
	return func(l *Ledger) { l.key = key }
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator reemplaza el generador de IDs (tests).
func WithIDGenerator(gen func() string) Option {
	return func(l *Ledger) { l.newID = gen }
}

// New construye el ledger vacío. Llamar Init para cargar el estado persistido.
func New(kv repository.KVStore, log zerolog.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		txs:   make([]entity.Transaction, 0),
		kv:    kv,
		key:   DefaultKey,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.Must(uuid.NewV7()).String() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Init carga la secuencia desde el almacén. Un blob ilegible se descarta y el ledger
// arranca vacío; solo los errores de I/O del almacén se devuelven.
func (l *Ledger) Init(ctx context.Context) error {
	blob, found, err := l.kv.Load(ctx, l.key)
	if err != nil {
		return fmt.Errorf("ledger: cargar %q: %w", l.key, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.txs = make([]entity.Transaction, 0)
	if !found {
		return nil
	}
	var loaded []entity.Transaction
	if err := json.Unmarshal([]byte(blob), &loaded); err != nil {
		l.log.Warn().Err(err).Str("key", l.key).Msg("ledger: blob corrupto, se inicia vacío")
		return nil
	}
	if loaded != nil {
		l.txs = loaded
	}
	l.log.Debug().Int("entries", len(l.txs)).Msg("ledger cargado")
	return nil
}

// Flush persiste la secuencia actual (teardown).
func (l *Ledger) Flush(ctx context.Context) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.persist(ctx, l.txs)
}

// Append asigna ID y fecha, agrega la entrada y persiste la secuencia completa.
// Si el almacén rechaza la escritura la entrada no queda en memoria.
func (l *Ledger) Append(ctx context.Context, in entity.TransactionInput) (entity.Transaction, error) {
	if !in.Type.Valid() {
		return entity.Transaction{}, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, in.Type)
	}
	tx := entity.Transaction{
		ID:               l.newID(),
		ItemID:           in.ItemID,
		ItemName:         in.ItemName,
		Type:             in.Type,
		Quantity:         in.Quantity,
		PreviousQuantity: copyInt(in.PreviousQuantity),
		Date:             l.now(),
		User:             in.User,
		Notes:            in.Notes,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	next := make([]entity.Transaction, len(l.txs), len(l.txs)+1)
	copy(next, l.txs)
	next = append(next, tx)
	if err := l.persist(ctx, next); err != nil {
		return entity.Transaction{}, err
	}
	l.txs = next
	return tx, nil
}

// Record implementa el puerto inventory.LedgerSink.
func (l *Ledger) Record(ctx context.Context, in entity.TransactionInput) (entity.Transaction, error) {
	return l.Append(ctx, in)
}

// GetRecent movimientos más recientes primero, truncado a limit (10 si limit <= 0).
func (l *Ledger) GetRecent(limit int) []entity.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return stock.Recent(l.txs, limit)
}

// GetByItem movimientos de un item en orden de inserción.
func (l *Ledger) GetByItem(itemID string) []entity.Transaction {
	return l.filter(func(t entity.Transaction) bool { return t.ItemID == itemID })
}

// GetByType movimientos de un tipo en orden de inserción.
func (l *Ledger) GetByType(typ entity.TransactionType) []entity.Transaction {
	return l.filter(func(t entity.Transaction) bool { return t.Type == typ })
}

// All copia de la secuencia completa, en orden de inserción.
func (l *Ledger) All() []entity.Transaction {
	return l.filter(func(entity.Transaction) bool { return true })
}

// Len cantidad de entradas.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.txs)
}

// Clear vacía el ledger y persiste.
func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	empty := make([]entity.Transaction, 0)
	if err := l.persist(ctx, empty); err != nil {
		return err
	}
	l.txs = empty
	return nil
}

func (l *Ledger) filter(keep func(entity.Transaction) bool) []entity.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]entity.Transaction, 0)
	for _, t := range l.txs {
		if keep(t) {
			t.PreviousQuantity = copyInt(t.PreviousQuantity)
			out = append(out, t)
		}
	}
	return out
}

func (l *Ledger) persist(ctx context.Context, txs []entity.Transaction) error {
	blob, err := json.Marshal(txs)
	if err != nil {
		return fmt.Errorf("ledger: serializar: %w", err)
	}
	if err := l.kv.Save(ctx, l.key, string(blob)); err != nil {
		l.log.Error().Err(err).Str("key", l.key).Msg("ledger: persistir")
		return fmt.Errorf("ledger: guardar %q: %w", l.key, err)
	}
	return nil
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
