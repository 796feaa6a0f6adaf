package mongodb

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/magabrotheeeer/skyline-trips/internal/models"
)

// buildFilter переводит тег фильтра и id пользователя в предикат запроса.
// Для liked без пользователя фильтр не накладывается.
func buildFilter(q models.ListQuery) bson.D {
	switch q.Filter {
	case models.FilterLiked:
		if q.UserID == "" {
			return bson.D{}
		}
		return bson.D{{Key: "likedUserIds", Value: q.UserID}}
	case models.FilterActive:
		return bson.D{
			{Key: "startDate", Value: bson.D{{Key: "$lte", Value: q.Now}}},
			{Key: "endDate", Value: bson.D{{Key: "$gte", Value: q.Now}}},
		}
	case models.FilterUpcoming:
		return bson.D{{Key: "startDate", Value: bson.D{{Key: "$gt", Value: q.Now}}}}
	default:
		return bson.D{}
	}
}

// sortByStartDate порядок выдачи: по дате начала, при равенстве по _id.
var sortByStartDate = bson.D{{Key: "startDate", Value: 1}, {Key: "_id", Value: 1}}

// viewProjection считает likesCount и likedByMe на стороне базы,
// сам массив лайков наружу не попадает.
func viewProjection(userID string) bson.D {
	return bson.D{
		{Key: "destination", Value: 1},
		{Key: "description", Value: 1},
		{Key: "startDate", Value: 1},
		{Key: "endDate", Value: 1},
		{Key: "price", Value: 1},
		{Key: "imageUrl", Value: "$image.url"},
		{Key: "likesCount", Value: bson.D{{Key: "$size", Value: likedIDsOrEmpty}}},
		{Key: "likedByMe", Value: bson.D{{Key: "$in", Value: bson.A{userID, likedIDsOrEmpty}}}},
	}
}

var likedIDsOrEmpty = bson.D{{Key: "$ifNull", Value: bson.A{"$likedUserIds", bson.A{}}}}

// listPipeline агрегация для страницы списка.
func listPipeline(q models.ListQuery) bson.A {
	return bson.A{
		bson.D{{Key: "$match", Value: buildFilter(q)}},
		bson.D{{Key: "$sort", Value: sortByStartDate}},
		bson.D{{Key: "$skip", Value: q.Skip()}},
		bson.D{{Key: "$limit", Value: int64(q.PageSize)}},
		bson.D{{Key: "$project", Value: viewProjection(q.UserID)}},
	}
}

// reportPipeline проекция для отчёта, порядок хранения сохраняется.
func reportPipeline() bson.A {
	return bson.A{
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "destination", Value: 1},
			{Key: "likes", Value: bson.D{{Key: "$size", Value: likedIDsOrEmpty}}},
		}}},
	}
}
