// Package store хранит состояние клиента: загруженные отпуска, пагинацию и сессию.
// Состояние меняется только через методы Store.
package store

import (
	"sync"

	"github.com/magabrotheeeer/skyline-trips/internal/models"
)

// DefaultPageSize размер страницы для пустого состояния.
const DefaultPageSize = 9

// Pagination метаданные текущей страницы.
type Pagination struct {
	Page       int
	PageSize   int
	TotalCount int64
	TotalPages int
}

// Session текущий пользователь и его токен.
type Session struct {
	Token    string
	Identity models.Identity
}

// Store потокобезопасное хранилище состояния клиента.
type Store struct {
	mu         sync.RWMutex
	vacations  []models.VacationView
	pagination Pagination
	session    *Session
}

// New создаёт Store в пустом состоянии.
func New() *Store {
	return &Store{pagination: emptyPagination()}
}

func emptyPagination() Pagination {
	return Pagination{Page: 1, PageSize: DefaultPageSize}
}

// SetPage заменяет список и пагинацию ответом сервера.
func (s *Store) SetPage(p models.VacationPage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vacations = append([]models.VacationView(nil), p.Vacations...)
	s.pagination = Pagination{
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalCount: p.TotalCount,
		TotalPages: p.TotalPages,
	}
}

// ResetPage очищает список и возвращает пагинацию в пустое состояние.
func (s *Store) ResetPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vacations = nil
	s.pagination = emptyPagination()
}

// Upsert заменяет отпуск с тем же id или добавляет его в конец.
func (s *Store) Upsert(v models.VacationView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(v.ID); i >= 0 {
		s.vacations[i] = v
		return
	}
	s.vacations = append(s.vacations, v)
}

// Remove удаляет отпуск из списка.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.vacations = append(s.vacations[:i], s.vacations[i+1:]...)
	}
}

// Vacation возвращает копию отпуска по id.
func (s *Store) Vacation(id string) (models.VacationView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.vacations[i], true
	}
	return models.VacationView{}, false
}

// Vacations возвращает копию текущего списка.
func (s *Store) Vacations() []models.VacationView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.VacationView(nil), s.vacations...)
}

// Pagination текущая пагинация.
func (s *Store) Pagination() Pagination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pagination
}

// SetSession запоминает вошедшего пользователя.
func (s *Store) SetSession(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = &sess
}

// Logout забывает сессию и очищает загруженные данные.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	s.vacations = nil
	s.pagination = emptyPagination()
}

// Session текущая сессия, если пользователь вошёл.
func (s *Store) Session() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return Session{}, false
	}
	return *s.session, true
}

// toggle переворачивает likedByMe и сдвигает счётчик, не опуская его ниже нуля.
// Возвращает состояние до изменения.
func (s *Store) toggle(id string) (models.VacationView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.VacationView{}, false
	}
	snapshot := s.vacations[i]
	v := &s.vacations[i]
	if v.LikedByMe {
		v.LikedByMe = false
		if v.LikesCount > 0 {
			v.LikesCount--
		}
	} else {
		v.LikedByMe = true
		v.LikesCount++
	}
	return snapshot, true
}

// restore возвращает снимок на место, если отпуск всё ещё в списке.
func (s *Store) restore(snapshot models.VacationView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(snapshot.ID); i >= 0 {
		s.vacations[i] = snapshot
	}
}

// replace подменяет отпуск ответом сервера, если он всё ещё в списке.
func (s *Store) replace(v models.VacationView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(v.ID); i >= 0 {
		s.vacations[i] = v
	}
}

func (s *Store) indexOf(id string) int {
	for i := range s.vacations {
		if s.vacations[i].ID == id {
			return i
		}
	}
	return -1
}
