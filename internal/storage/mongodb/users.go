package mongodb

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/magabrotheeeer/skyline-trips/internal/models"
)

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	FirstName    string             `bson:"firstName"`
	LastName     string             `bson:"lastName"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"passwordHash"`
	Role         string             `bson:"role"`
}

// CreateUser сохраняет пользователя. Email приводится к нижнему регистру,
// при совпадении email возвращается ErrDuplicate.
func (s *Storage) CreateUser(ctx context.Context, u models.User) (string, error) {
	const op = "storage.mongodb.CreateUser"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	doc := userDoc{
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        strings.ToLower(u.Email),
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
	}
	res, err := s.users().InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, translateErr(err))
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("%s: unexpected id type %T", op, res.InsertedID)
	}
	return id.Hex(), nil
}

// GetUserByEmail возвращает пользователя по email или ErrNotFound.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.mongodb.GetUserByEmail"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var doc userDoc
	err := s.users().FindOne(ctx, bson.D{{Key: "email", Value: strings.ToLower(email)}}).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateErr(err))
	}
	return &models.User{
		ID:           doc.ID.Hex(),
		FirstName:    doc.FirstName,
		LastName:     doc.LastName,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		Role:         models.Role(doc.Role),
	}, nil
}
