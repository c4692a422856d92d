package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventory-system/internal/domain"
	"github.com/jhoicas/inventory-system/internal/domain/entity"
	"github.com/jhoicas/inventory-system/internal/domain/repository"
)

// SessionKey clave del almacén con el usuario de la sesión actual.
const SessionKey = "user"

// Session usuario autenticado de un proceso (CLI o worker), persistido entre ejecuciones.
type Session struct {
	mu   sync.RWMutex
	user *entity.User
	auth *AuthUseCase
	kv   repository.KVStore
	log  zerolog.Logger
}

// NewSession construye la sesión vacía. Llamar Init para restaurar la persistida.
func NewSession(auth *AuthUseCase, kv repository.KVStore, log zerolog.Logger) *Session {
	return &Session{auth: auth, kv: kv, log: log}
}

// Init restaura la sesión guardada; un blob ilegible se descarta.
func (s *Session) Init(ctx context.Context) error {
	blob, found, err := s.kv.Load(ctx, SessionKey)
	if err != nil {
		return fmt.Errorf("session: cargar: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	if !found || blob == "" {
		return nil
	}
	var u *entity.User
	if err := json.Unmarshal([]byte(blob), &u); err != nil {
		s.log.Warn().Err(err).Msg("session: blob corrupto, se descarta")
		return s.kv.Save(ctx, SessionKey, "null")
	}
	s.user = u
	return nil
}

// Login autentica y persiste la sesión. Devuelve false (sin error) si las credenciales
// no corresponden a ningún usuario.
func (s *Session) Login(ctx context.Context, email, password string) (bool, error) {
	user, err := s.auth.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrUnauthorized) {
			return false, nil
		}
		return false, err
	}
	stored := *user
	stored.PasswordHash = ""
	blob, err := json.Marshal(stored)
	if err != nil {
		return false, fmt.Errorf("session: serializar: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Save(ctx, SessionKey, string(blob)); err != nil {
		return false, fmt.Errorf("session: guardar: %w", err)
	}
	s.user = &stored
	return true, nil
}

// CurrentUser usuario de la sesión, si hay.
func (s *Session) CurrentUser() (entity.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return entity.User{}, false
	}
	return *s.user, true
}

// ActorName etiqueta de atribución para los movimientos ("" si no hay sesión).
func (s *Session) ActorName() string {
	if u, ok := s.CurrentUser(); ok {
		return u.Name
	}
	return ""
}

// Logout borra la sesión en memoria y en el almacén.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Save(ctx, SessionKey, "null"); err != nil {
		return fmt.Errorf("session: borrar: %w", err)
	}
	s.user = nil
	return nil
}
