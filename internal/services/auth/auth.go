// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/skyline-trips/internal/config"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/apperr"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/jwt"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/password"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/sl"
	"github.com/magabrotheeeer/skyline-trips/internal/models"
	"github.com/magabrotheeeer/skyline-trips/internal/storage/mongodb"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (string, error)
	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// PasswordHasher хеширует и проверяет пароли.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// AuthService отвечает за регистрацию, вход и проверку JWT.
type AuthService struct {
	users    UserRepository
	hasher   PasswordHasher
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, hasher PasswordHasher, jwtMaker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register создает пользователя с ролью User и сразу выдаёт ему токен.
func (s *AuthService) Register(ctx context.Context, in models.RegisterInput) (string, error) {
	const op = "services.auth.Register"

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}
	user := models.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hashed,
		Role:         models.RoleUser,
	}
	id, err := s.users.CreateUser(ctx, user)
	if errors.Is(err, mongodb.ErrDuplicate) {
		return "", apperr.Validation("email already exists")
	}
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}

	token, err := s.jwtMaker.GenerateToken(id, user.Role)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}
	s.log.Info("user registered", slog.String("user_id", id))
	return token, nil
}

// Login проверяет email и пароль и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, in models.LoginInput) (string, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, mongodb.ErrNotFound) {
		return "", apperr.Unauthorized("incorrect email or password")
	}
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}
	if err := s.hasher.Compare(user.PasswordHash, in.Password); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return "", apperr.Unauthorized("incorrect email or password")
		}
		return "", apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}

	token, err := s.jwtMaker.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}
	return token, nil
}

// Authenticate проверяет токен и возвращает данные вызывающего.
func (s *AuthService) Authenticate(_ context.Context, token string) (models.Identity, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		s.log.Debug("token rejected", sl.Err(err))
		return models.Identity{}, apperr.Unauthorized("invalid or expired token")
	}
	return claims.Identity(), nil
}

// EnsureAdmin создаёт учётную запись администратора, если её ещё нет.
// Пустой email в настройках отключает создание.
func (s *AuthService) EnsureAdmin(ctx context.Context, admin config.Admin) error {
	const op = "services.auth.EnsureAdmin"

	if admin.Email == "" {
		return nil
	}
	_, err := s.users.GetUserByEmail(ctx, admin.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongodb.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if admin.Password == "" {
		return fmt.Errorf("%s: admin password is empty", op)
	}

	hashed, err := s.hasher.Hash(admin.Password)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	id, err := s.users.CreateUser(ctx, models.User{
		FirstName:    admin.FirstName,
		LastName:     admin.LastName,
		Email:        strings.ToLower(admin.Email),
		PasswordHash: hashed,
		Role:         models.RoleAdmin,
	})
	if errors.Is(err, mongodb.ErrDuplicate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("admin account created", slog.String("user_id", id))
	return nil
}
