package repository

import (
	"context"

	"github.com/jhoicas/inventory-system/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para las cuentas registradas (DIP).
// Los usuarios demo no pasan por aquí.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	// FindByEmail devuelve (nil, nil) si el email no está registrado.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
