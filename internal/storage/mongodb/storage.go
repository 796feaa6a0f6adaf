// Package mongodb реализует хранилище отпусков и пользователей на MongoDB.
// Все операции ограничены таймаутом opTimeout, так как драйвер по умолчанию ждёт бесконечно.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	vacationsCollection = "vacations"
	usersCollection     = "users"
)

// ErrNotFound документ не найден.
var ErrNotFound = errors.New("document not found")

// ErrDuplicate нарушен уникальный индекс.
var ErrDuplicate = errors.New("duplicate key")

// Storage инкапсулирует подключение к MongoDB.
type Storage struct {
	client    *mongo.Client
	db        *mongo.Database
	opTimeout time.Duration
}

// New подключается к MongoDB по uri и проверяет соединение.
func New(ctx context.Context, uri, database string, opTimeout time.Duration) (*Storage, error) {
	const op = "storage.mongodb.New"

	clientOptions := options.Client().
		ApplyURI(uri).
		SetTimeout(opTimeout).
		SetConnectTimeout(opTimeout).
		SetServerSelectionTimeout(opTimeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s := &Storage{
		client:    client,
		db:        client.Database(database),
		opTimeout: opTimeout,
	}
	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// Client возвращает клиента драйвера, нужен для миграций.
func (s *Storage) Client() *mongo.Client {
	return s.client
}

// Ping проверяет доступность primary.
func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

// Close закрывает соединения.
func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Storage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

func (s *Storage) vacations() *mongo.Collection {
	return s.db.Collection(vacationsCollection)
}

func (s *Storage) users() *mongo.Collection {
	return s.db.Collection(usersCollection)
}

func translateErr(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	}
	return err
}
