package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/magabrotheeeer/skyline-trips/internal/client/api"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/sl"
	"github.com/magabrotheeeer/skyline-trips/internal/models"
)

var (
	// ErrToggleInFlight по этому отпуску уже идёт запрос лайка.
	ErrToggleInFlight = errors.New("like toggle already in flight")
	// ErrUnknownVacation отпуска нет в загруженном списке.
	ErrUnknownVacation = errors.New("vacation is not loaded")
)

// LikeAPI сетевые операции лайка.
type LikeAPI interface {
	Like(ctx context.Context, id string) (*models.VacationView, error)
	Unlike(ctx context.Context, id string) (*models.VacationView, error)
}

// Reconciler переключает лайк оптимистично: сначала меняет локальное состояние,
// затем подтверждает его ответом сервера или откатывает.
type Reconciler struct {
	store *Store
	api   LikeAPI
	log   *slog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewReconciler создаёт Reconciler поверх store.
func NewReconciler(store *Store, likes LikeAPI, log *slog.Logger) *Reconciler {
	return &Reconciler{
		store:    store,
		api:      likes,
		log:      log,
		inFlight: make(map[string]struct{}),
	}
}

// ToggleLike переключает лайк вызывающего для отпуска id.
// Пока запрос по id не завершился, повторный вызов возвращает ErrToggleInFlight и ничего не меняет.
// При ошибке состояние отпуска восстанавливается из снимка, при 401 сессия закрывается.
func (r *Reconciler) ToggleLike(ctx context.Context, id string) (*models.VacationView, error) {
	const op = "client.store.ToggleLike"

	if !r.acquire(id) {
		return nil, ErrToggleInFlight
	}
	defer r.release(id)

	snapshot, ok := r.store.toggle(id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrUnknownVacation)
	}

	var (
		confirmed *models.VacationView
		err       error
	)
	if snapshot.LikedByMe {
		confirmed, err = r.api.Unlike(ctx, id)
	} else {
		confirmed, err = r.api.Like(ctx, id)
	}
	if err != nil {
		r.store.restore(snapshot)
		if api.IsUnauthorized(err) {
			r.store.Logout()
		}
		r.log.Debug("like toggle rolled back", slog.String("vacation_id", id), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.store.replace(*confirmed)
	return confirmed, nil
}

func (r *Reconciler) acquire(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.inFlight[id]; busy {
		return false
	}
	r.inFlight[id] = struct{}{}
	return true
}

func (r *Reconciler) release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inFlight, id)
}
