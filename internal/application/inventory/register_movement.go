package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventory-system/internal/application/dto"
	"github.com/jhoicas/inventory-system/internal/domain"
	"github.com/jhoicas/inventory-system/internal/domain/entity"
)

// RegisterMovement registra una entrada ("add") o salida ("remove") de stock sobre un item
// existente. La cantidad debe ser positiva; una salida mayor al stock devuelve
// domain.ErrInsufficientStock. Devuelve domain.ErrNotFound si el item no existe.
func (s *Store) RegisterMovement(ctx context.Context, actor, id string, in dto.RegisterMovementRequest) (entity.Item, error) {
	typ := entity.TransactionType(in.Type)
	if typ != entity.TransactionAdd && typ != entity.TransactionRemove {
		return entity.Item{}, fmt.Errorf("%w: tipo de movimiento %q (add|remove)", domain.ErrInvalidInput, in.Type)
	}
	if in.Quantity <= 0 {
		return entity.Item{}, fmt.Errorf("%w: quantity debe ser mayor que cero", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return entity.Item{}, domain.ErrNotFound
	}
	it := s.items[idx]
	switch typ {
	case entity.TransactionAdd:
		it.Quantity += in.Quantity
	case entity.TransactionRemove:
		if in.Quantity > it.Quantity {
			return entity.Item{}, fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, it.Quantity, in.Quantity)
		}
		it.Quantity -= in.Quantity
	}
	it.LastUpdated = s.now()

	next := make([]entity.Item, len(s.items))
	copy(next, s.items)
	next[idx] = it
	if err := s.persist(ctx, next); err != nil {
		return entity.Item{}, err
	}
	s.items = next

	notes := in.Notes
	if notes == "" {
		notes = defaultMovementNote(typ, in.Quantity)
	}
	s.record(ctx, entity.TransactionInput{
		ItemID:   it.ID,
		ItemName: it.Name,
		Type:     typ,
		Quantity: in.Quantity,
		User:     actorOrSystem(actor),
		Notes:    notes,
	})
	return it, nil
}

func defaultMovementNote(typ entity.TransactionType, qty int) string {
	if typ == entity.TransactionAdd {
		return fmt.Sprintf("Entrada de %d unidades", qty)
	}
	return fmt.Sprintf("Salida de %d unidades", qty)
}
