package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mw "github.com/vivla-tech/vivla-middleware/internal/adapters/primary/http/middleware"
)

func TestStaticBearerAuth(t *testing.T) {
	protected := mw.StaticBearerAuth("s3cret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	request := func(authHeader string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/homes/stats", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		return rec
	}

	assertUnauthorized := func(t *testing.T, rec *httptest.ResponseRecorder) {
		t.Helper()
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, "UNAUTHORIZED", body["code"])
		assert.NotEmpty(t, body["message"])
	}

	t.Run("missing header", func(t *testing.T) {
		assertUnauthorized(t, request(""))
	})

	t.Run("malformed header", func(t *testing.T) {
		assertUnauthorized(t, request("Token s3cret"))
	})

	t.Run("wrong token", func(t *testing.T) {
		assertUnauthorized(t, request("Bearer nope"))
	})

	t.Run("valid token passes through", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, request("Bearer s3cret").Code)
	})
}
