package models

import (
	"math"
	"time"
)

// Filter тег фильтра списка отпусков.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterLiked    Filter = "liked"
	FilterActive   Filter = "active"
	FilterUpcoming Filter = "upcoming"
)

// ParseFilter возвращает фильтр по строке из запроса; пустая строка означает отсутствие ограничений.
func ParseFilter(s string) (Filter, bool) {
	switch Filter(s) {
	case "", FilterAll:
		return FilterAll, true
	case FilterLiked, FilterActive, FilterUpcoming:
		return Filter(s), true
	}
	return "", false
}

// ListQuery параметры выборки страницы отпусков.
type ListQuery struct {
	Filter   Filter
	UserID   string    // может быть пустым
	Page     int       // с единицы
	PageSize int
	Now      time.Time // момент запроса по часам сервера
}

// Skip смещение окна выборки.
func (q ListQuery) Skip() int64 {
	return int64(q.Page-1) * int64(q.PageSize)
}

// VacationPage страница отпусков с метаданными пагинации.
type VacationPage struct {
	Vacations  []VacationView `json:"vacations"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalCount int64          `json:"totalCount"`
	TotalPages int            `json:"totalPages"`
}

// TotalPages ceil(total/pageSize).
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(pageSize)))
}
