// Package imagestore хранит картинки отпусков в S3-совместимом хранилище.
// Вызовы к хранилищу идут через circuit breaker и ограничены таймаутом.
package imagestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/magabrotheeeer/skyline-trips/internal/config"
	"github.com/magabrotheeeer/skyline-trips/internal/models"
)

const keyPrefix = "vacations/"

// ErrUnavailable хранилище временно недоступно, breaker разомкнут.
var ErrUnavailable = errors.New("image store unavailable")

// ObjectAPI часть клиента s3, которой пользуется Store.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Store загружает и удаляет картинки.
type Store struct {
	client        ObjectAPI
	bucket        string
	publicBaseURL string
	opTimeout     time.Duration
	cb            *gobreaker.CircuitBreaker
}

// New создаёт клиента S3 по настройкам. Если задан Endpoint, используется path-style адресация.
func New(ctx context.Context, cfg config.ImageStore) (*Store, error) {
	const op = "imagestore.New"

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	return NewWithClient(client, cfg), nil
}

// NewWithClient собирает Store поверх готового клиента.
func NewWithClient(client ObjectAPI, cfg config.ImageStore) *Store {
	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" && cfg.Endpoint != "" {
		base = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return &Store{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: base,
		opTimeout:     cfg.OpTimeout,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "imagestore",
			MaxRequests: 1,
			Interval:    30 * time.Second,
			Timeout:     10 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
		}),
	}
}

// Upload сохраняет картинку под новым ключем и возвращает ссылку на неё.
func (s *Store) Upload(ctx context.Context, img models.ImageUpload) (models.Image, error) {
	const op = "imagestore.Upload"

	key := keyPrefix + uuid.NewString()
	_, err := s.execute(ctx, func(ctx context.Context) error {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(s.bucket),
			Key:           aws.String(key),
			Body:          bytes.NewReader(img.Data),
			ContentLength: aws.Int64(int64(len(img.Data))),
			ContentType:   aws.String(img.ContentType),
		})
		return err
	})
	if err != nil {
		return models.Image{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.Image{URL: s.publicBaseURL + "/" + key, Key: key}, nil
}

// Delete удаляет картинку по ключу. Пустой ключ ничего не делает.
func (s *Store) Delete(ctx context.Context, key string) error {
	const op = "imagestore.Delete"

	if key == "" {
		return nil
	}
	_, err := s.execute(ctx, func(ctx context.Context) error {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) execute(ctx context.Context, fn func(ctx context.Context) error) (any, error) {
	res, err := s.cb.Execute(func() (any, error) {
		if s.opTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.opTimeout)
			defer cancel()
		}
		return nil, fn(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return res, err
}
