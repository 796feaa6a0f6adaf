// Package services содержит бизнес-логику отпусков: выборку с фильтрами,
// лайки, управление отпусками администратором и отчёт по лайкам.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/skyline-trips/internal/events"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/apperr"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/sl"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/validation"
	"github.com/magabrotheeeer/skyline-trips/internal/models"
	"github.com/magabrotheeeer/skyline-trips/internal/storage/mongodb"
)

// ReportCacheKey ключ кэша отчёта по лайкам.
const ReportCacheKey = "vacations:report"

// VacationRepository определяет методы для работы с отпусками в хранилище.
type VacationRepository interface {
	CreateVacation(ctx context.Context, v models.Vacation) (string, error)
	GetVacation(ctx context.Context, id string) (*models.Vacation, error)
	GetVacationView(ctx context.Context, id, userID string) (*models.VacationView, error)
	ListVacations(ctx context.Context, q models.ListQuery) ([]models.VacationView, int64, error)
	UpdateVacation(ctx context.Context, v models.Vacation) error
	DeleteVacation(ctx context.Context, id string) error
	AddLike(ctx context.Context, id, userID string) error
	RemoveLike(ctx context.Context, id, userID string) error
	LikesReport(ctx context.Context) ([]models.LikesReportRow, error)
}

// ImageStore внешнее хранилище картинок.
type ImageStore interface {
	Upload(ctx context.Context, img models.ImageUpload) (models.Image, error)
	Delete(ctx context.Context, key string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Generation возвращает поколение ключа, которое сдвигает каждая инвалидация.
	Generation(ctx context.Context, key string) (int64, error)
	// SetIfGeneration сохраняет значение, если поколение ключа не изменилось.
	SetIfGeneration(ctx context.Context, key string, gen int64, value any, expiration time.Duration) (bool, error)
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// LikeCounter учитывает лайки в метриках.
type LikeCounter interface {
	IncLike()
	IncUnlike()
}

// Settings параметры сервиса из конфига.
type Settings struct {
	ReportTTL       time.Duration
	DefaultPageSize int
	MaxPageSize     int
}

// VacationService реализует бизнес-логику работы с отпусками.
type VacationService struct {
	repo      VacationRepository
	images    ImageStore
	cache     Cache
	publisher events.Publisher
	likes     LikeCounter
	log       *slog.Logger
	validate  *validator.Validate
	settings  Settings
	now       func() time.Time
}

// NewVacationService создает новый экземпляр VacationService.
func NewVacationService(
	repo VacationRepository,
	images ImageStore,
	cache Cache,
	publisher events.Publisher,
	likes LikeCounter,
	log *slog.Logger,
	settings Settings,
) *VacationService {
	if settings.DefaultPageSize <= 0 {
		settings.DefaultPageSize = 9
	}
	if settings.MaxPageSize < settings.DefaultPageSize {
		settings.MaxPageSize = settings.DefaultPageSize
	}
	return &VacationService{
		repo:      repo,
		images:    images,
		cache:     cache,
		publisher: publisher,
		likes:     likes,
		log:       log,
		validate:  validation.New(),
		settings:  settings,
		now:       time.Now,
	}
}

// ListParams параметры списка в том виде, в котором они пришли в запросе.
type ListParams struct {
	Filter   string
	Page     string
	PageSize string
}

// List возвращает страницу отпусков по фильтру. Некорректные page и pageSize
// заменяются значениями по умолчанию, неизвестный фильтр считается ошибкой.
// Страница за пределами данных возвращается пустой.
func (s *VacationService) List(ctx context.Context, caller models.Identity, p ListParams) (*models.VacationPage, error) {
	const op = "services.vacation.List"

	filter, ok := models.ParseFilter(p.Filter)
	if !ok {
		return nil, apperr.Validation(fmt.Sprintf("unknown filter %q", p.Filter))
	}
	page := positiveOr(p.Page, 1)
	q := models.ListQuery{
		Filter:   filter,
		UserID:   caller.UserID,
		PageSize: positiveOr(p.PageSize, s.settings.DefaultPageSize),
		Now:      s.now().UTC(),
	}
	if q.PageSize > s.settings.MaxPageSize {
		q.PageSize = s.settings.MaxPageSize
	}
	// (page-1)*pageSize не должно переполнять смещение
	q.Page = min(page, math.MaxInt/q.PageSize)

	items, total, err := s.repo.ListVacations(ctx, q)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}
	return &models.VacationPage{
		Vacations:  items,
		Page:       page,
		PageSize:   q.PageSize,
		TotalCount: total,
		TotalPages: models.TotalPages(total, q.PageSize),
	}, nil
}

// Get возвращает отпуск с точки зрения вызывающего.
func (s *VacationService) Get(ctx context.Context, caller models.Identity, id string) (*models.VacationView, error) {
	const op = "services.vacation.Get"

	view, err := s.repo.GetVacationView(ctx, id, caller.UserID)
	if err != nil {
		return nil, mapRepoErr(op, id, err)
	}
	return view, nil
}

// Like добавляет вызывающего в множество лайков. Администратору запрещено.
func (s *VacationService) Like(ctx context.Context, caller models.Identity, id string) (*models.VacationView, error) {
	return s.changeLike(ctx, caller, id, true)
}

// Unlike убирает вызывающего из множества лайков. Администратору запрещено.
func (s *VacationService) Unlike(ctx context.Context, caller models.Identity, id string) (*models.VacationView, error) {
	return s.changeLike(ctx, caller, id, false)
}

func (s *VacationService) changeLike(ctx context.Context, caller models.Identity, id string, like bool) (*models.VacationView, error) {
	op := "services.vacation.Unlike"
	if like {
		op = "services.vacation.Like"
	}
	if caller.IsAdmin() {
		return nil, apperr.Forbidden("admin cannot like vacations")
	}
	if caller.UserID == "" {
		return nil, apperr.Unauthorized("unauthorized")
	}

	var err error
	if like {
		err = s.repo.AddLike(ctx, id, caller.UserID)
	} else {
		err = s.repo.RemoveLike(ctx, id, caller.UserID)
	}
	if err != nil {
		return nil, mapRepoErr(op, id, err)
	}

	view, err := s.repo.GetVacationView(ctx, id, caller.UserID)
	if err != nil {
		return nil, mapRepoErr(op, id, err)
	}

	evType := events.VacationUnliked
	if like {
		s.likes.IncLike()
		evType = events.VacationLiked
	} else {
		s.likes.IncUnlike()
	}
	s.invalidateReport(ctx)
	likesCount := view.LikesCount
	s.publish(ctx, events.Event{
		Type:        evType,
		VacationID:  id,
		Destination: view.Destination,
		UserID:      caller.UserID,
		LikesCount:  &likesCount,
	})
	return view, nil
}

// Create проверяет данные, загружает картинку и сохраняет отпуск.
// Запись в базу происходит только после успешной загрузки картинки.
func (s *VacationService) Create(ctx context.Context, in models.VacationInput, img *models.ImageUpload) (*models.VacationView, error) {
	const op = "services.vacation.Create"

	draft, err := s.parseInput(in)
	if err != nil {
		return nil, err
	}
	if err := checkDates(draft.StartDate, draft.EndDate, s.now(), true); err != nil {
		return nil, err
	}
	if img == nil || len(img.Data) == 0 {
		return nil, apperr.Validation("field image is a required field")
	}

	image, err := s.images.Upload(ctx, *img)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}
	draft.Image = image

	id, err := s.repo.CreateVacation(ctx, draft)
	if err != nil {
		if delErr := s.images.Delete(ctx, image.Key); delErr != nil {
			s.log.Error("failed to release uploaded image", slog.String("key", image.Key), sl.Err(delErr))
		}
		return nil, apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}
	draft.ID = id

	s.invalidateReport(ctx)
	s.publish(ctx, events.Event{Type: events.VacationCreated, VacationID: id, Destination: draft.Destination})
	s.log.Info("vacation created", slog.String("id", id))

	view := draft.View("")
	return &view, nil
}

// Update перезаписывает поля отпуска. Картинка меняется, только если передана новая:
// сначала удаляется старая, затем загружается новая. Лайки не меняются.
func (s *VacationService) Update(ctx context.Context, caller models.Identity, id string, in models.VacationInput, img *models.ImageUpload) (*models.VacationView, error) {
	const op = "services.vacation.Update"

	existing, err := s.repo.GetVacation(ctx, id)
	if err != nil {
		return nil, mapRepoErr(op, id, err)
	}

	draft, err := s.parseInput(in)
	if err != nil {
		return nil, err
	}
	if err := checkDates(draft.StartDate, draft.EndDate, s.now(), false); err != nil {
		return nil, err
	}

	merged := *existing
	merged.Destination = draft.Destination
	merged.Description = draft.Description
	merged.StartDate = draft.StartDate
	merged.EndDate = draft.EndDate
	merged.Price = draft.Price

	if img != nil && len(img.Data) > 0 {
		if err := s.images.Delete(ctx, existing.Image.Key); err != nil {
			return nil, apperr.Internal(fmt.Errorf("%s: %w", op, err))
		}
		image, err := s.images.Upload(ctx, *img)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("%s: %w", op, err))
		}
		merged.Image = image
	}

	if err := s.repo.UpdateVacation(ctx, merged); err != nil {
		return nil, mapRepoErr(op, id, err)
	}

	s.invalidateReport(ctx)
	s.publish(ctx, events.Event{Type: events.VacationUpdated, VacationID: id, Destination: merged.Destination})
	s.log.Info("vacation updated", slog.String("id", id))

	view := merged.View(caller.UserID)
	return &view, nil
}

// Delete удаляет картинку отпуска, затем сам отпуск.
func (s *VacationService) Delete(ctx context.Context, id string) error {
	const op = "services.vacation.Delete"

	existing, err := s.repo.GetVacation(ctx, id)
	if err != nil {
		return mapRepoErr(op, id, err)
	}
	if err := s.images.Delete(ctx, existing.Image.Key); err != nil {
		return apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}
	if err := s.repo.DeleteVacation(ctx, id); err != nil {
		return mapRepoErr(op, id, err)
	}

	s.invalidateReport(ctx)
	s.publish(ctx, events.Event{Type: events.VacationDeleted, VacationID: id, Destination: existing.Destination})
	s.log.Info("vacation deleted", slog.String("id", id))
	return nil
}

// Report возвращает строки отчёта по лайкам. Результат кэшируется,
// ошибки кэша только логируются. Отчёт, посчитанный до параллельной
// инвалидации, в кэш не попадает.
func (s *VacationService) Report(ctx context.Context) ([]models.LikesReportRow, error) {
	const op = "services.vacation.Report"

	var rows []models.LikesReportRow
	found, err := s.cache.Get(ctx, ReportCacheKey, &rows)
	if err != nil {
		s.log.Warn("failed to read report from cache", sl.Err(err))
	}
	if found {
		return rows, nil
	}

	gen, genErr := s.cache.Generation(ctx, ReportCacheKey)
	if genErr != nil {
		s.log.Warn("failed to read report cache generation", sl.Err(genErr))
	}

	rows, err = s.repo.LikesReport(ctx)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}
	if genErr != nil {
		return rows, nil
	}
	stored, err := s.cache.SetIfGeneration(ctx, ReportCacheKey, gen, rows, s.settings.ReportTTL)
	switch {
	case err != nil:
		s.log.Warn("failed to cache report", sl.Err(err))
	case !stored:
		s.log.Debug("report changed while reading, not cached")
	}
	return rows, nil
}

// WarmReport пересчитывает отчёт по событию и кладёт его в кэш,
// чтобы первый запрос администратора после изменения не ходил в базу.
func (s *VacationService) WarmReport(ctx context.Context, ev events.Event) error {
	s.log.Debug("warming report cache", slog.String("type", string(ev.Type)), slog.String("vacation_id", ev.VacationID))
	s.invalidateReport(ctx)
	_, err := s.Report(ctx)
	return err
}

// ReportCSV отчёт в CSV с BOM.
func (s *VacationService) ReportCSV(ctx context.Context) ([]byte, error) {
	rows, err := s.Report(ctx)
	if err != nil {
		return nil, err
	}
	return RenderCSV(rows), nil
}

// parseInput структурная проверка и разбор дат.
func (s *VacationService) parseInput(in models.VacationInput) (models.Vacation, error) {
	in.Destination = strings.TrimSpace(in.Destination)
	in.Description = strings.TrimSpace(in.Description)
	if err := validation.Struct(s.validate, in); err != nil {
		return models.Vacation{}, err
	}
	start, err := models.ParseDate(in.StartDate)
	if err != nil {
		return models.Vacation{}, apperr.Validation("field startDate: " + err.Error())
	}
	end, err := models.ParseDate(in.EndDate)
	if err != nil {
		return models.Vacation{}, apperr.Validation("field endDate: " + err.Error())
	}
	return models.Vacation{
		Destination: in.Destination,
		Description: in.Description,
		StartDate:   start,
		EndDate:     end,
		Price:       *in.Price,
	}, nil
}

// checkDates бизнес-правила дат. Прошедшая дата начала запрещена только при создании,
// сравнение идёт по календарным дням.
func checkDates(start, end, now time.Time, creating bool) error {
	if creating && models.StartOfDay(start).Before(models.StartOfDay(now)) {
		return apperr.Validation("start date cannot be in the past")
	}
	if end.Before(start) {
		return apperr.Validation("end date must be on or after start date")
	}
	return nil
}

func (s *VacationService) invalidateReport(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, ReportCacheKey); err != nil {
		s.log.Warn("failed to invalidate report cache", sl.Err(err))
	}
}

func (s *VacationService) publish(ctx context.Context, ev events.Event) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Error("failed to publish event", slog.String("type", string(ev.Type)), sl.Err(err))
	}
}

func mapRepoErr(op, id string, err error) error {
	if errors.Is(err, mongodb.ErrNotFound) {
		return apperr.NotFound(id)
	}
	return apperr.Internal(fmt.Errorf("%s: %w", op, err))
}

func positiveOr(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
