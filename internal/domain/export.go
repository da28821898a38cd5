package domain

// ExportRow is a single row in the full-data export.
// It is a flat view of one event: tags are kept as a slice so callers that
// need a joined string (e.g. CSV) choose their own separator.
type ExportRow struct {
	ID           string
	Date         string
	Time         string
	MealName     string
	MealType     string
	Protein      string
	Rating       int
	IsFavorite   bool
	HasLeftovers bool
	Tags         []string
	Notes        string
}
