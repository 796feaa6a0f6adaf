// Package models содержит доменные структуры отпусков и пользователей,
// а также вспомогательные типы для приёма данных из запросов и выдачи ответов.
package models

import (
	"time"
)

// Vacation представляет отпуск в том виде, в котором он хранится в базе.
// LikedUserIDs множество пользователей, поставивших лайк; наружу не отдаётся.
type Vacation struct {
	ID           string
	Destination  string
	Description  string
	StartDate    time.Time
	EndDate      time.Time
	Price        float64
	Image        Image
	LikedUserIDs []string
}

// Image ссылка на картинку во внешнем хранилище.
// Key идентификатор объекта у провайдера, нужен для удаления.
type Image struct {
	URL string
	Key string
}

// VacationView отпуск с точки зрения конкретного пользователя.
type VacationView struct {
	ID          string  `json:"id"`
	Destination string  `json:"destination"`
	Description string  `json:"description"`
	StartDate   Date    `json:"startDate"`
	EndDate     Date    `json:"endDate"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
	LikesCount  int     `json:"likesCount"`
	LikedByMe   bool    `json:"likedByMe"`
}

// View строит представление отпуска для пользователя userID.
// likesCount всегда равен мощности множества лайков.
func (v *Vacation) View(userID string) VacationView {
	liked := false
	for _, id := range v.LikedUserIDs {
		if id == userID && userID != "" {
			liked = true
			break
		}
	}
	return VacationView{
		ID:          v.ID,
		Destination: v.Destination,
		Description: v.Description,
		StartDate:   Date{v.StartDate},
		EndDate:     Date{v.EndDate},
		Price:       v.Price,
		ImageURL:    v.Image.URL,
		LikesCount:  len(v.LikedUserIDs),
		LikedByMe:   liked,
	}
}

// VacationInput используется для приёма полей формы создания и изменения отпуска
// до их валидации. Даты приходят строками в формате 2006-01-02.
type VacationInput struct {
	Destination string   `json:"destination" validate:"required,min=2,max=100"`
	Description string   `json:"description" validate:"required,min=10,max=1000"`
	StartDate   string   `json:"startDate" validate:"required"`
	EndDate     string   `json:"endDate" validate:"required"`
	Price       *float64 `json:"price" validate:"required,gte=0,lte=10000"`
}

// ImageUpload содержимое загружаемой картинки.
type ImageUpload struct {
	Data        []byte
	ContentType string
}

// LikesReportRow строка отчёта: направление и количество лайков.
type LikesReportRow struct {
	Destination string `json:"destination" bson:"destination"`
	Likes       int    `json:"likes" bson:"likes"`
}
