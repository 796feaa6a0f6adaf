package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/magabrotheeeer/skyline-trips/internal/models"
)

type imageDoc struct {
	URL string `bson:"url"`
	Key string `bson:"key"`
}

type vacationDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Destination  string             `bson:"destination"`
	Description  string             `bson:"description"`
	StartDate    time.Time          `bson:"startDate"`
	EndDate      time.Time          `bson:"endDate"`
	Price        float64            `bson:"price"`
	Image        imageDoc           `bson:"image"`
	LikedUserIDs []string           `bson:"likedUserIds"`
}

func (d vacationDoc) model() *models.Vacation {
	return &models.Vacation{
		ID:           d.ID.Hex(),
		Destination:  d.Destination,
		Description:  d.Description,
		StartDate:    d.StartDate.UTC(),
		EndDate:      d.EndDate.UTC(),
		Price:        d.Price,
		Image:        models.Image{URL: d.Image.URL, Key: d.Image.Key},
		LikedUserIDs: d.LikedUserIDs,
	}
}

// viewDoc результат viewProjection.
type viewDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Destination string             `bson:"destination"`
	Description string             `bson:"description"`
	StartDate   time.Time          `bson:"startDate"`
	EndDate     time.Time          `bson:"endDate"`
	Price       float64            `bson:"price"`
	ImageURL    string             `bson:"imageUrl"`
	LikesCount  int                `bson:"likesCount"`
	LikedByMe   bool               `bson:"likedByMe"`
}

func (d viewDoc) view() models.VacationView {
	return models.VacationView{
		ID:          d.ID.Hex(),
		Destination: d.Destination,
		Description: d.Description,
		StartDate:   models.Date{Time: d.StartDate.UTC()},
		EndDate:     models.Date{Time: d.EndDate.UTC()},
		Price:       d.Price,
		ImageURL:    d.ImageURL,
		LikesCount:  d.LikesCount,
		LikedByMe:   d.LikedByMe,
	}
}

// CreateVacation вставляет новый отпуск с пустым множеством лайков и возвращает его id.
func (s *Storage) CreateVacation(ctx context.Context, v models.Vacation) (string, error) {
	const op = "storage.mongodb.CreateVacation"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	doc := vacationDoc{
		Destination:  v.Destination,
		Description:  v.Description,
		StartDate:    v.StartDate,
		EndDate:      v.EndDate,
		Price:        v.Price,
		Image:        imageDoc{URL: v.Image.URL, Key: v.Image.Key},
		LikedUserIDs: []string{},
	}
	res, err := s.vacations().InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("%s: unexpected id type %T", op, res.InsertedID)
	}
	return id.Hex(), nil
}

// GetVacation возвращает отпуск целиком, включая ключ картинки и множество лайков.
func (s *Storage) GetVacation(ctx context.Context, id string) (*models.Vacation, error) {
	const op = "storage.mongodb.GetVacation"
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var doc vacationDoc
	if err := s.vacations().FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateErr(err))
	}
	return doc.model(), nil
}

// GetVacationView возвращает отпуск глазами пользователя userID.
func (s *Storage) GetVacationView(ctx context.Context, id, userID string) (*models.VacationView, error) {
	const op = "storage.mongodb.GetVacationView"
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	pipeline := bson.A{
		bson.D{{Key: "$match", Value: bson.D{{Key: "_id", Value: oid}}}},
		bson.D{{Key: "$project", Value: viewProjection(userID)}},
	}
	cursor, err := s.vacations().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var doc viewDoc
	if err := cursor.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	view := doc.view()
	return &view, nil
}

// ListVacations возвращает страницу отпусков и общее число подходящих под фильтр.
// Количество считается независимо от окна страницы.
func (s *Storage) ListVacations(ctx context.Context, q models.ListQuery) ([]models.VacationView, int64, error) {
	const op = "storage.mongodb.ListVacations"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	total, err := s.vacations().CountDocuments(ctx, buildFilter(q))
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	cursor, err := s.vacations().Aggregate(ctx, listPipeline(q))
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer cursor.Close(ctx)

	var docs []viewDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]models.VacationView, 0, len(docs))
	for _, d := range docs {
		result = append(result, d.view())
	}
	return result, total, nil
}

// UpdateVacation перезаписывает поля отпуска и картинку. Лайки не трогает.
func (s *Storage) UpdateVacation(ctx context.Context, v models.Vacation) error {
	const op = "storage.mongodb.UpdateVacation"
	oid, err := primitive.ObjectIDFromHex(v.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "destination", Value: v.Destination},
		{Key: "description", Value: v.Description},
		{Key: "startDate", Value: v.StartDate},
		{Key: "endDate", Value: v.EndDate},
		{Key: "price", Value: v.Price},
		{Key: "image", Value: imageDoc{URL: v.Image.URL, Key: v.Image.Key}},
	}}}
	res, err := s.vacations().UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// DeleteVacation удаляет отпуск по id.
func (s *Storage) DeleteVacation(ctx context.Context, id string) error {
	const op = "storage.mongodb.DeleteVacation"
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.vacations().DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// AddLike добавляет userID в множество лайков ($addToSet), повторный лайк ничего не меняет.
func (s *Storage) AddLike(ctx context.Context, id, userID string) error {
	return s.changeLikes(ctx, "storage.mongodb.AddLike", id, "$addToSet", userID)
}

// RemoveLike убирает userID из множества лайков ($pull).
func (s *Storage) RemoveLike(ctx context.Context, id, userID string) error {
	return s.changeLikes(ctx, "storage.mongodb.RemoveLike", id, "$pull", userID)
}

// changeLikes атомарная операция над множеством: конкурентные лайки разных
// пользователей коммутируют без блокировок на стороне приложения.
func (s *Storage) changeLikes(ctx context.Context, op, id, operator, userID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	update := bson.D{{Key: operator, Value: bson.D{{Key: "likedUserIds", Value: userID}}}}
	res, err := s.vacations().UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// LikesReport возвращает направление и число лайков для всех отпусков.
func (s *Storage) LikesReport(ctx context.Context) ([]models.LikesReportRow, error) {
	const op = "storage.mongodb.LikesReport"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cursor, err := s.vacations().Aggregate(ctx, reportPipeline())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cursor.Close(ctx)

	rows := make([]models.LikesReportRow, 0)
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}
