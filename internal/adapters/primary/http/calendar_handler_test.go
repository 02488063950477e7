package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	httpAdapter "github.com/vivla-tech/vivla-middleware/internal/adapters/primary/http"
	"github.com/vivla-tech/vivla-middleware/internal/core/services"
)

func newCalendarRouter() http.Handler {
	handler := httpAdapter.NewCalendarHandler(services.NewCalendarService())

	r := chi.NewRouter()
	r.Route("/calendar", handler.RegisterRoutes)
	return r
}

func TestCalendarHandler(t *testing.T) {
	type listBody struct {
		Status string                   `json:"status"`
		Data   []services.CalendarEntry `json:"data"`
		Count  int                      `json:"count"`
	}

	get := func(t *testing.T, path string) listBody {
		t.Helper()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		newCalendarRouter().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body listBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return body
	}

	t.Run("returns annual revisions", func(t *testing.T) {
		body := get(t, "/calendar/revisions")

		assert.Equal(t, "success", body.Status)
		assert.Equal(t, len(body.Data), body.Count)
		require.NotEmpty(t, body.Data)
		assert.Equal(t, "Casa Saona", body.Data[0].Home)
		assert.NotEmpty(t, body.Data[0].Date)
	})

	t.Run("returns checkpoints with notes", func(t *testing.T) {
		body := get(t, "/calendar/checkpoints")

		assert.Equal(t, "success", body.Status)
		require.NotEmpty(t, body.Data)
		assert.NotEmpty(t, body.Data[0].Note)
	})

	t.Run("returns inspections", func(t *testing.T) {
		body := get(t, "/calendar/inspections")

		assert.Equal(t, "success", body.Status)
		assert.Equal(t, len(body.Data), body.Count)
		require.NotEmpty(t, body.Data)
	})
}
