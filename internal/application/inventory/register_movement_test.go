package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-system/internal/application/dto"
	"github.com/jhoicas/inventory-system/internal/domain"
	"github.com/jhoicas/inventory-system/internal/domain/entity"
	"github.com/jhoicas/inventory-system/internal/infrastructure/kvstore"
)

func TestRegisterMovement_EntradaYSalida(t *testing.T) {
	sink := &sinkStub{}
	s := newStore(t, kvstore.NewMemory(), sink)
	id, _ := s.AddItem(context.Background(), "", laptop())

	it, err := s.RegisterMovement(context.Background(), "Administrador", id, dto.RegisterMovementRequest{Type: "add", Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 8, it.Quantity)

	it, err = s.RegisterMovement(context.Background(), "Administrador", id, dto.RegisterMovementRequest{Type: "remove", Quantity: 6, Notes: "Venta mostrador"})
	require.NoError(t, err)
	assert.Equal(t, 2, it.Quantity)
	assert.True(t, it.IsLowStock())

	entries := sink.all()
	require.Len(t, entries, 3)
	assert.Equal(t, entity.TransactionAdd, entries[1].Type)
	assert.Equal(t, 3, entries[1].Quantity, "la cantidad del movimiento es el delta")
	assert.Nil(t, entries[1].PreviousQuantity, "solo update lleva cantidad previa")
	assert.Equal(t, "Entrada de 3 unidades", entries[1].Notes)
	assert.Equal(t, entity.TransactionRemove, entries[2].Type)
	assert.Equal(t, "Venta mostrador", entries[2].Notes)
	assert.Nil(t, entries[2].PreviousQuantity)
}

func TestRegisterMovement_StockInsuficiente(t *testing.T) {
	sink := &sinkStub{}
	s := newStore(t, kvstore.NewMemory(), sink)
	id, _ := s.AddItem(context.Background(), "", laptop())

	_, err := s.RegisterMovement(context.Background(), "", id, dto.RegisterMovementRequest{Type: "remove", Quantity: 6})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	got, _ := s.GetItem(id)
	assert.Equal(t, 5, got.Quantity)
	assert.Len(t, sink.all(), 1)
}

func TestRegisterMovement_Errores(t *testing.T) {
	s := newStore(t, kvstore.NewMemory(), &sinkStub{})
	id, _ := s.AddItem(context.Background(), "", laptop())

	_, err := s.RegisterMovement(context.Background(), "", "nope", dto.RegisterMovementRequest{Type: "add", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.RegisterMovement(context.Background(), "", id, dto.RegisterMovementRequest{Type: "update", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = s.RegisterMovement(context.Background(), "", id, dto.RegisterMovementRequest{Type: "add", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
