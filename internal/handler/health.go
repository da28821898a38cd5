package handler

import (
	"net/http"

	"github.com/buckeyeguy5511/meal-calendar/internal/domain"
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// ProteinOption is a protein with its display color.
type ProteinOption struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Options lists the choices offered by the event editor.
type Options struct {
	MealTypes  []string        `json:"meal_types"`
	Proteins   []ProteinOption `json:"proteins"`
	PresetTags []string        `json:"preset_tags"`
	MaxRating  int             `json:"max_rating"`
}

// GetOptions handles GET /api/options.
func (s *Server) GetOptions(w http.ResponseWriter, r *http.Request) {
	opts := Options{
		MealTypes:  make([]string, len(domain.MealTypes)),
		Proteins:   make([]ProteinOption, len(domain.Proteins)),
		PresetTags: domain.PresetTags,
		MaxRating:  domain.MaxRating,
	}
	for i, m := range domain.MealTypes {
		opts.MealTypes[i] = string(m)
	}
	for i, p := range domain.Proteins {
		opts.Proteins[i] = ProteinOption{Name: string(p), Color: p.Color()}
	}
	writeJSON(w, http.StatusOK, opts)
}
