package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeCounters(t *testing.T) {
	m := New()

	m.IncLike()
	m.IncLike()
	m.IncUnlike()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.likes.WithLabelValues("like")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.likes.WithLabelValues("unlike")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/api/vacations", http.StatusOK, 15*time.Millisecond)
	m.IncLike()

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `skyline_http_request_duration_seconds_count{method="GET",route="/api/vacations",status="200"} 1`)
	assert.Contains(t, body, `skyline_vacation_likes_total{action="like"} 1`)
}
