package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestCounters(t *testing.T) {
	m := New()

	m.IdeaSubmitted()
	m.VoteCast(false)
	m.VoteCast(false)
	m.VoteCast(true)

	body := scrape(t, m)
	require.Contains(t, body, "ideaportal_ideas_submitted_total 1")
	require.Contains(t, body, "ideaportal_votes_cast_total 2")
	require.Contains(t, body, "ideaportal_votes_duplicate_total 1")
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/ideas/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ideas/abc", nil))

	body := scrape(t, m)
	require.Contains(t, body, `http_requests_total{method="GET",path="/ideas/{id}",status="404"} 1`)
}
