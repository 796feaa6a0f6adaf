package form

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/skyline-trips/internal/lib/apperr"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newRequest(t *testing.T, fields map[string]string, image []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		fw, err := mw.CreateFormFile(ImageField, "photo.png")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/vacations", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

var validFields = map[string]string{
	"destination": "Paris",
	"description": "Five nights in Paris",
	"startDate":   "2030-06-16",
	"endDate":     "2030-06-21",
	"price":       "500",
}

func TestParse(t *testing.T) {
	in, img, err := Parse(newRequest(t, validFields, pngHeader), 1024)
	require.NoError(t, err)

	assert.Equal(t, "Paris", in.Destination)
	assert.Equal(t, "2030-06-16", in.StartDate)
	require.NotNil(t, in.Price)
	assert.Equal(t, 500.0, *in.Price)
	require.NotNil(t, img)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, pngHeader, img.Data)
}

func TestParse_NoImage(t *testing.T) {
	_, img, err := Parse(newRequest(t, validFields, nil), 1024)
	require.NoError(t, err)
	assert.Nil(t, img)
}

func TestParse_NotAnImage(t *testing.T) {
	_, _, err := Parse(newRequest(t, validFields, []byte("just some text")), 1024)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.EqualError(t, err, "file must be an image")
}

func TestParse_ImageTooLarge(t *testing.T) {
	big := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 2048)...)
	_, _, err := Parse(newRequest(t, validFields, big), 1024)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestParse_BadPrice(t *testing.T) {
	fields := map[string]string{"price": "cheap"}
	_, _, err := Parse(newRequest(t, fields, nil), 1024)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestParse_NotMultipart(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/vacations", bytes.NewBufferString(`{"destination":"Paris"}`))
	req.Header.Set("Content-Type", "application/json")
	_, _, err := Parse(req, 1024)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestParse_RemovesSpilledFiles(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	image := append(append([]byte{}, pngHeader...), make([]byte, 4*memoryLimit)...)
	_, img, err := Parse(newRequest(t, validFields, image), 1<<20)
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Len(t, img.Data, len(image))

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
