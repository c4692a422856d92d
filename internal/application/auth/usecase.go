// Package auth resuelve login, registro y la sesión persistida del usuario.
package auth

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventory-system/internal/application/dto"
	"github.com/jhoicas/inventory-system/internal/domain"
	"github.com/jhoicas/inventory-system/internal/domain/entity"
	"github.com/jhoicas/inventory-system/internal/domain/repository"
	"github.com/jhoicas/inventory-system/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// DemoUsers cuentas de demostración; aceptan cualquier contraseña.
var DemoUsers = []entity.User{
	{ID: "1", Name: "Administrador", Email: "admin@example.com", Role: entity.RoleAdmin},
	{ID: "2", Name: "Usuário Comum", Email: "user@example.com", Role: entity.RoleUser},
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	delay    time.Duration
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. delay simula la latencia de red del login.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, delay time.Duration) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
		delay:    delay,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Authenticate espera el delay simulado y resuelve el usuario. Los demo aceptan cualquier
// contraseña; las cuentas registradas se verifican con bcrypt.
func (uc *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	if err := uc.wait(ctx); err != nil {
		return nil, err
	}
	email = normalizeEmail(email)
	if demo, ok := findDemo(email); ok {
		return &demo, nil
	}
	user, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// RegisterUser crea una cuenta con rol "user": hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email es demo o ya está registrado.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	if err := uc.wait(ctx); err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	if len(in.Password) < 6 {
		return nil, fmt.Errorf("%w: la contraseña debe tener al menos 6 caracteres", domain.ErrInvalidInput)
	}
	if _, ok := findDemo(email); ok {
		return nil, domain.ErrEmailAlreadyExists
	}
	existing, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Name:         name,
		Email:        email,
		Role:         entity.RoleUser,
		PasswordHash: string(hash),
		CreatedAt:    uc.now(),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login autentica, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Name, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
		User:      *toUserResponse(user),
	}, nil
}

func (uc *AuthUseCase) wait(ctx context.Context) error {
	if uc.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(uc.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func findDemo(email string) (entity.User, bool) {
	for _, u := range DemoUsers {
		if u.Email == email {
			return u, true
		}
	}
	return entity.User{}, false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}
