package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buckeyeguy5511/meal-calendar/internal/domain"
	"github.com/buckeyeguy5511/meal-calendar/internal/handler"
)

// TestGetHealth_returns200WithOKStatus verifies that GET /healthz returns
// HTTP 200 and a JSON body of {"status":"ok"}.
func TestGetHealth_returns200WithOKStatus(t *testing.T) {
	h := handler.NewHealthHandler().Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body handler.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "ok", body.Status)
}

func TestGetOptions(t *testing.T) {
	h := handler.NewHealthHandler().Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/options", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body handler.Options
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Len(t, body.MealTypes, len(domain.MealTypes))
	assert.Contains(t, body.MealTypes, "date night")
	assert.Contains(t, body.Proteins, handler.ProteinOption{Name: "beef", Color: domain.ProteinBeef.Color()})
	assert.Equal(t, domain.PresetTags, body.PresetTags)
	assert.Equal(t, 5, body.MaxRating)
}
