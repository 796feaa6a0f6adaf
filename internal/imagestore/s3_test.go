package imagestore

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/skyline-trips/internal/config"
	"github.com/magabrotheeeer/skyline-trips/internal/models"
)

const testBucket = "vacations"

func setupFakeS3(t *testing.T) (*Store, *s3mem.Backend) {
	backend := s3mem.New()
	require.NoError(t, backend.CreateBucket(testBucket))

	faker := gofakes3.New(backend)
	ts := httptest.NewServer(faker.Server())
	t.Cleanup(ts.Close)

	store, err := New(context.Background(), config.ImageStore{
		Endpoint:      ts.URL,
		Region:        "us-east-1",
		Bucket:        testBucket,
		AccessKey:     "test",
		SecretKey:     "test",
		PublicBaseURL: "https://cdn.example.com/",
		OpTimeout:     5 * time.Second,
	})
	require.NoError(t, err)
	return store, backend
}

func TestUploadAndDelete(t *testing.T) {
	store, backend := setupFakeS3(t)
	ctx := context.Background()

	img, err := store.Upload(ctx, models.ImageUpload{
		Data:        []byte("\x89PNG\r\n\x1a\nfake"),
		ContentType: "image/png",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(img.Key, keyPrefix))
	assert.Equal(t, "https://cdn.example.com/"+img.Key, img.URL)

	obj, err := backend.HeadObject(testBucket, img.Key)
	require.NoError(t, err)
	assert.Equal(t, int64(12), obj.Size)

	require.NoError(t, store.Delete(ctx, img.Key))

	_, err = backend.HeadObject(testBucket, img.Key)
	assert.Error(t, err)
}

func TestUploadGeneratesUniqueKeys(t *testing.T) {
	store, _ := setupFakeS3(t)
	ctx := context.Background()

	a, err := store.Upload(ctx, models.ImageUpload{Data: []byte("a"), ContentType: "image/png"})
	require.NoError(t, err)
	b, err := store.Upload(ctx, models.ImageUpload{Data: []byte("b"), ContentType: "image/png"})
	require.NoError(t, err)

	assert.NotEqual(t, a.Key, b.Key)
}

func TestDeleteEmptyKey(t *testing.T) {
	store := NewWithClient(&ObjectAPIMock{}, config.ImageStore{Bucket: testBucket})
	assert.NoError(t, store.Delete(context.Background(), ""))
}

type ObjectAPIMock struct {
	mock.Mock
}

func (m *ObjectAPIMock) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func (m *ObjectAPIMock) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.DeleteObjectOutput)
	return out, args.Error(1)
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	client := &ObjectAPIMock{}
	client.On("DeleteObject", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	store := NewWithClient(client, config.ImageStore{Bucket: testBucket})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := store.Delete(ctx, "vacations/x")
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrUnavailable))
	}

	err := store.Delete(ctx, "vacations/x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	client.AssertNumberOfCalls(t, "DeleteObject", 3)
}

func TestPublicURLFallsBackToEndpoint(t *testing.T) {
	client := &ObjectAPIMock{}
	client.On("PutObject", mock.Anything, mock.Anything).Return(&s3.PutObjectOutput{}, nil)

	store := NewWithClient(client, config.ImageStore{
		Endpoint: "http://localhost:9000",
		Bucket:   testBucket,
	})

	img, err := store.Upload(context.Background(), models.ImageUpload{Data: []byte("x"), ContentType: "image/jpeg"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/vacations/"+img.Key, img.URL)
}
