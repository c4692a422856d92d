package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventory-system/internal/domain"
	"github.com/jhoicas/inventory-system/internal/domain/entity"
	"github.com/jhoicas/inventory-system/internal/domain/repository"
)

// UsersKey clave bajo la que se guardan las cuentas registradas.
const UsersKey = "users"

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo cuentas registradas como un único blob JSON sobre cualquier KVStore.
type UserRepo struct {
	mu  sync.Mutex
	kv  repository.KVStore
	log zerolog.Logger
}

// NewUserRepository construye el repositorio sobre kv.
func NewUserRepository(kv repository.KVStore, log zerolog.Logger) *UserRepo {
	return &UserRepo{kv: kv, log: log}
}

// Create agrega la cuenta; ErrEmailAlreadyExists si el email ya está (sin distinguir mayúsculas).
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	users, err := r.load(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	users = append(users, *user)
	blob, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("serializar usuarios: %w", err)
	}
	if err := r.kv.Save(ctx, UsersKey, string(blob)); err != nil {
		return fmt.Errorf("guardar usuarios: %w", err)
	}
	return nil
}

// FindByEmail devuelve (nil, nil) si no existe.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			u := users[i]
			return &u, nil
		}
	}
	return nil, nil
}

// load un blob de usuarios ilegible cuenta como vacío, igual que los demás blobs.
// El próximo Create lo reemplaza.
func (r *UserRepo) load(ctx context.Context) ([]entity.User, error) {
	blob, found, err := r.kv.Load(ctx, UsersKey)
	if err != nil {
		return nil, fmt.Errorf("cargar usuarios: %w", err)
	}
	if !found {
		return nil, nil
	}
	var users []entity.User
	if err := json.Unmarshal([]byte(blob), &users); err != nil {
		r.log.Warn().Err(err).Str("key", UsersKey).Msg("users: blob corrupto, se descarta")
		return nil, nil
	}
	return users, nil
}
