package jwt

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/magabrotheeeer/skyline-trips/internal/models"
)

// CustomClaims описывает данные, хранящиеся в JWT: только id и роль.
type CustomClaims struct {
	UserID               string      `json:"user_id"`
	Role                 models.Role `json:"role"`
	jwt.RegisteredClaims             // ExpiresAt, IssuedAt и пр.
}

// Identity возвращает минимальный набор данных для авторизации.
func (c *CustomClaims) Identity() models.Identity {
	return models.Identity{UserID: c.UserID, Role: c.Role}
}

// GenerateToken создает JWT токен с заданными userID и role, подписывая его секретным ключом.
func (j *MakerImpl) GenerateToken(userID string, role models.Role) (string, error) {
	now := j.now()
	claims := CustomClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken парсит JWT токен, проверяет подпись, алгоритм и срок действия.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	if claims.UserID == "" || (claims.Role != models.RoleAdmin && claims.Role != models.RoleUser) {
		return nil, fmt.Errorf("%s: incomplete claims", op)
	}
	return claims, nil
}

// ParseUnverified читает claims без проверки подписи.
// Нужен клиенту, у которого нет секрета: сервер всё равно проверяет токен на каждом запросе.
func ParseUnverified(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseUnverified"
	var claims CustomClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, &claims); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%s: %w", op, errors.New("token has no user id"))
	}
	return &claims, nil
}
