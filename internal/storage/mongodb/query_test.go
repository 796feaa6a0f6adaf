package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/magabrotheeeer/skyline-trips/internal/models"
)

func TestBuildFilter(t *testing.T) {
	now := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		query models.ListQuery
		want  bson.D
	}{
		{
			name:  "unrestricted",
			query: models.ListQuery{Filter: models.FilterAll, UserID: "u1", Now: now},
			want:  bson.D{},
		},
		{
			name:  "liked by user",
			query: models.ListQuery{Filter: models.FilterLiked, UserID: "u1", Now: now},
			want:  bson.D{{Key: "likedUserIds", Value: "u1"}},
		},
		{
			name:  "liked without user falls back to unrestricted",
			query: models.ListQuery{Filter: models.FilterLiked, Now: now},
			want:  bson.D{},
		},
		{
			name:  "active",
			query: models.ListQuery{Filter: models.FilterActive, Now: now},
			want: bson.D{
				{Key: "startDate", Value: bson.D{{Key: "$lte", Value: now}}},
				{Key: "endDate", Value: bson.D{{Key: "$gte", Value: now}}},
			},
		},
		{
			name:  "upcoming",
			query: models.ListQuery{Filter: models.FilterUpcoming, Now: now},
			want:  bson.D{{Key: "startDate", Value: bson.D{{Key: "$gt", Value: now}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildFilter(tt.query))
		})
	}
}

func TestListPipeline_Window(t *testing.T) {
	q := models.ListQuery{Filter: models.FilterAll, UserID: "u1", Page: 3, PageSize: 9}
	pipeline := listPipeline(q)
	require.Len(t, pipeline, 5)

	assert.Equal(t, bson.D{{Key: "$sort", Value: sortByStartDate}}, pipeline[1])
	assert.Equal(t, bson.D{{Key: "$skip", Value: int64(18)}}, pipeline[2])
	assert.Equal(t, bson.D{{Key: "$limit", Value: int64(9)}}, pipeline[3])
}

func TestViewProjection_HidesLikingSet(t *testing.T) {
	projection := viewProjection("u1")
	for _, e := range projection {
		assert.NotEqual(t, "likedUserIds", e.Key)
		assert.NotEqual(t, "image", e.Key)
	}
}

func TestSortIsDeterministic(t *testing.T) {
	require.Len(t, sortByStartDate, 2)
	assert.Equal(t, "startDate", sortByStartDate[0].Key)
	assert.Equal(t, "_id", sortByStartDate[1].Key)
}
