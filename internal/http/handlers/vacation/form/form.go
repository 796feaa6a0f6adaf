// Package form разбирает multipart-форму создания и изменения отпуска.
package form

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/skyline-trips/internal/lib/apperr"
	"github.com/magabrotheeeer/skyline-trips/internal/models"
)

// ImageField имя поля с файлом картинки.
const ImageField = "image"

// memoryLimit часть формы, которая держится в памяти, остальное уходит во временные файлы.
const memoryLimit = 32 << 10

// Parse читает поля формы и необязательную картинку. Картинка больше maxSize
// или не похожая на изображение отклоняется с ошибкой вида Validation.
func Parse(r *http.Request, maxSize int64) (models.VacationInput, *models.ImageUpload, error) {
	var in models.VacationInput

	// запас на текстовые поля формы
	r.Body = http.MaxBytesReader(nil, r.Body, maxSize+1<<20)
	if err := r.ParseMultipartForm(min(maxSize, memoryLimit)); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return in, nil, apperr.Validation("request body is too large")
		}
		return in, nil, apperr.Validation("invalid multipart form")
	}
	// запрос мог быть скопирован middleware, сервер сам эти файлы не удалит
	defer r.MultipartForm.RemoveAll()

	in.Destination = r.FormValue("destination")
	in.Description = r.FormValue("description")
	in.StartDate = strings.TrimSpace(r.FormValue("startDate"))
	in.EndDate = strings.TrimSpace(r.FormValue("endDate"))
	if raw := strings.TrimSpace(r.FormValue("price")); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return in, nil, apperr.Validation("field price must be a number")
		}
		in.Price = &price
	}

	file, _, err := r.FormFile(ImageField)
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil, nil
	}
	if err != nil {
		return in, nil, apperr.Validation("invalid image")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return in, nil, apperr.Internal(fmt.Errorf("read image: %w", err))
	}
	if int64(len(data)) > maxSize {
		return in, nil, apperr.Validation(fmt.Sprintf("image is larger than %d bytes", maxSize))
	}
	if len(data) == 0 {
		return in, nil, nil
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return in, nil, apperr.Validation("file must be an image")
	}
	return in, &models.ImageUpload{Data: data, ContentType: contentType}, nil
}
