package store

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/skyline-trips/internal/client/api"
	"github.com/magabrotheeeer/skyline-trips/internal/models"
)

// ListAPI загрузка страницы отпусков.
type ListAPI interface {
	ListVacations(ctx context.Context, p api.ListParams) (*models.VacationPage, error)
}

// Loader загружает страницы в Store.
type Loader struct {
	store *Store
	api   ListAPI
}

// NewLoader создаёт Loader.
func NewLoader(store *Store, list ListAPI) *Loader {
	return &Loader{store: store, api: list}
}

// Load запрашивает страницу и кладёт её в Store.
// При ошибке список очищается, а пагинация сбрасывается в пустое состояние.
func (l *Loader) Load(ctx context.Context, p api.ListParams) error {
	const op = "client.store.Load"

	page, err := l.api.ListVacations(ctx, p)
	if err != nil {
		if api.IsUnauthorized(err) {
			l.store.Logout()
		} else {
			l.store.ResetPage()
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	l.store.SetPage(*page)
	return nil
}
