// Package inventory contiene el Inventory Store: dueño de la colección de items,
// la persiste completa en cada mutación y emite los movimientos al ledger.
package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventory-system/internal/application/dto"
	"github.com/jhoicas/inventory-system/internal/domain/entity"
	"github.com/jhoicas/inventory-system/internal/domain/repository"
	"github.com/jhoicas/inventory-system/internal/domain/stock"
)

// DefaultKey clave del almacén para la colección de items.
const DefaultKey = "inventory"

// SystemActor etiqueta usada cuando la operación no tiene usuario.
const SystemActor = "Sistema"

// Notas de los movimientos emitidos por el Store.
const (
	noteAdded   = "Item agregado al inventario"
	noteUpdated = "Cantidad actualizada de %d a %d"
	noteDeleted = "Item eliminado del inventario"
)

// Store colección de items en orden de inserción. Seguro para uso concurrente;
// el orden de locks es Store → ledger.
type Store struct {
	mu    sync.RWMutex
	items []entity.Item
	kv    repository.KVStore
	sink  LedgerSink
	key   string
	log   zerolog.Logger
	now   func() time.Time
	newID func() string
}

// Option configura el Store.
type Option func(*Store)

// WithKey cambia la clave de persistencia.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator reemplaza el generador de IDs (tests).
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// New construye el Store vacío. Llamar Init para cargar el estado persistido.
func New(kv repository.KVStore, sink LedgerSink, log zerolog.Logger, opts ...Option) *Store {
	s := &Store{
		items: make([]entity.Item, 0),
		kv:    kv,
		sink:  sink,
		key:   DefaultKey,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.Must(uuid.NewV7()).String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init carga la colección. Un blob corrupto se descarta y el Store arranca vacío.
func (s *Store) Init(ctx context.Context) error {
	blob, found, err := s.kv.Load(ctx, s.key)
	if err != nil {
		return fmt.Errorf("inventory: cargar %q: %w", s.key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make([]entity.Item, 0)
	if !found {
		return nil
	}
	var loaded []entity.Item
	if err := json.Unmarshal([]byte(blob), &loaded); err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("inventory: blob corrupto, se inicia vacío")
		return nil
	}
	if loaded != nil {
		s.items = loaded
	}
	s.log.Debug().Int("items", len(s.items)).Msg("inventario cargado")
	return nil
}

// Flush persiste la colección actual (teardown).
func (s *Store) Flush(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persist(ctx, s.items)
}

// AddItem valida, asigna ID y fechas, persiste y emite un movimiento "add" con la cantidad inicial.
func (s *Store) AddItem(ctx context.Context, actor string, in dto.CreateItemRequest) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}
	now := s.now()
	it := entity.Item{
		ID:          s.newID(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Category:    strings.TrimSpace(in.Category),
		Supplier:    strings.TrimSpace(in.Supplier),
		Quantity:    in.Quantity,
		MinQuantity: in.MinQuantity,
		Price:       in.Price,
		Image:       in.Image,
		Location:    in.Location,
		CreatedAt:   now,
		LastUpdated: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]entity.Item, len(s.items), len(s.items)+1)
	copy(next, s.items)
	next = append(next, it)
	if err := s.persist(ctx, next); err != nil {
		return "", err
	}
	s.items = next

	s.record(ctx, entity.TransactionInput{
		ItemID:   it.ID,
		ItemName: it.Name,
		Type:     entity.TransactionAdd,
		Quantity: it.Quantity,
		User:     actorOrSystem(actor),
		Notes:    noteAdded,
	})
	return it.ID, nil
}

// UpdateItem aplica los campos presentes. Devuelve false sin efectos si id no existe.
// Emite un único movimiento "update" solo si quantity viene y cambia.
func (s *Store) UpdateItem(ctx context.Context, actor, id string, in dto.UpdateItemRequest) (bool, error) {
	if err := in.Validate(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	old := s.items[idx]
	updated := applyUpdate(old, in)
	updated.LastUpdated = s.now()

	next := make([]entity.Item, len(s.items))
	copy(next, s.items)
	next[idx] = updated
	if err := s.persist(ctx, next); err != nil {
		return false, err
	}
	s.items = next

	if in.Quantity != nil && *in.Quantity != old.Quantity {
		prev := old.Quantity
		s.record(ctx, entity.TransactionInput{
			ItemID:           updated.ID,
			ItemName:         updated.Name,
			Type:             entity.TransactionUpdate,
			Quantity:         updated.Quantity,
			PreviousQuantity: &prev,
			User:             actorOrSystem(actor),
			Notes:            fmt.Sprintf(noteUpdated, prev, updated.Quantity),
		})
	}
	return true, nil
}

// DeleteItem quita el item y emite un movimiento "delete" con la cantidad al momento de la baja.
func (s *Store) DeleteItem(ctx context.Context, actor, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	removed := s.items[idx]
	next := make([]entity.Item, 0, len(s.items)-1)
	next = append(next, s.items[:idx]...)
	next = append(next, s.items[idx+1:]...)
	if err := s.persist(ctx, next); err != nil {
		return false, err
	}
	s.items = next

	s.record(ctx, entity.TransactionInput{
		ItemID:   removed.ID,
		ItemName: removed.Name,
		Type:     entity.TransactionDelete,
		Quantity: removed.Quantity,
		User:     actorOrSystem(actor),
		Notes:    noteDeleted,
	})
	return true, nil
}

// GetItem busca por ID.
func (s *Store) GetItem(id string) (entity.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.items[idx], true
	}
	return entity.Item{}, false
}

// GetLowStockItems items con quantity <= minQuantity.
func (s *Store) GetLowStockItems() []entity.Item {
	return stock.LowStock(s.Items())
}

// GetItemsByCategory items de la categoría exacta.
func (s *Store) GetItemsByCategory(category string) []entity.Item {
	return stock.ItemsByCategory(s.Items(), category)
}

// SearchItems búsqueda sin distinguir mayúsculas en nombre, categoría y descripción.
func (s *Store) SearchItems(query string) []entity.Item {
	return stock.SearchItems(s.Items(), query)
}

// Items copia de la colección en orden de inserción.
func (s *Store) Items() []entity.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Len cantidad de items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// ClearInventory vacía la colección y persiste. El ledger no se toca.
func (s *Store) ClearInventory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	empty := make([]entity.Item, 0)
	if err := s.persist(ctx, empty); err != nil {
		return err
	}
	s.items = empty
	return nil
}

func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// record emite al ledger. La mutación del inventario ya es durable en este punto,
// así que un fallo del ledger se registra y no revierte la operación.
func (s *Store) record(ctx context.Context, in entity.TransactionInput) {
	if _, err := s.sink.Record(ctx, in); err != nil {
		s.log.Error().Err(err).
			Str("item_id", in.ItemID).
			Str("type", string(in.Type)).
			Msg("inventory: no se pudo registrar el movimiento")
	}
}

func (s *Store) persist(ctx context.Context, items []entity.Item) error {
	blob, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("inventory: serializar: %w", err)
	}
	if err := s.kv.Save(ctx, s.key, string(blob)); err != nil {
		s.log.Error().Err(err).Str("key", s.key).Msg("inventory: persistir")
		return fmt.Errorf("inventory: guardar %q: %w", s.key, err)
	}
	return nil
}

func applyUpdate(it entity.Item, in dto.UpdateItemRequest) entity.Item {
	if in.Name != nil {
		it.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		it.Description = *in.Description
	}
	if in.Category != nil {
		it.Category = strings.TrimSpace(*in.Category)
	}
	if in.Supplier != nil {
		it.Supplier = strings.TrimSpace(*in.Supplier)
	}
	if in.Quantity != nil {
		it.Quantity = *in.Quantity
	}
	if in.MinQuantity != nil {
		it.MinQuantity = *in.MinQuantity
	}
	if in.Price != nil {
		it.Price = *in.Price
	}
	if in.Image != nil {
		it.Image = *in.Image
	}
	if in.Location != nil {
		it.Location = *in.Location
	}
	return it
}

func actorOrSystem(actor string) string {
	if strings.TrimSpace(actor) == "" {
		return SystemActor
	}
	return actor
}
