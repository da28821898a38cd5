// export.go implements GET /api/export.
// Returns every event as a flat table in JSON (default), CSV or iCalendar.
package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/buckeyeguy5511/meal-calendar/internal/domain"
)

// Export formats accepted by ?format=.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatICS  = "ics"
)

// icsEventDuration is the length given to every meal in calendar exports;
// events only carry a start time.
const icsEventDuration = time.Hour

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"id", "date", "time", "meal_name", "meal_type", "protein",
	"rating", "is_favorite", "has_leftovers", "tags", "notes",
}

// ExportRow is the JSON shape of one exported event.
type ExportRow struct {
	Id           string   `json:"id"`
	Date         string   `json:"date"`
	Time         string   `json:"time"`
	MealName     string   `json:"meal_name"`
	MealType     string   `json:"meal_type"`
	Protein      string   `json:"protein"`
	Rating       int      `json:"rating"`
	IsFavorite   bool     `json:"is_favorite"`
	HasLeftovers bool     `json:"has_leftovers"`
	Tags         []string `json:"tags"`
	Notes        string   `json:"notes"`
}

// GetExport handles GET /api/export.
// Use ?format=csv or ?format=ics for a file download; the default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format, ok := queryString(w, r, "format")
	if !ok {
		return
	}
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatCSV && format != FormatICS {
		badRequest(w, "invalid format: must be json, csv or ics")
		return
	}

	rows, err := s.export.Export(r.Context())
	if err != nil {
		s.serviceError(w, r, err, "")
		return
	}

	switch format {
	case FormatCSV:
		writeAttachment(w, "text/csv; charset=utf-8", "meal-calendar.csv", buildCSV(rows))
	case FormatICS:
		writeAttachment(w, "text/calendar; charset=utf-8", "meal-calendar.ics", buildICS(rows, s.loc, time.Now()))
	default:
		writeJSON(w, http.StatusOK, buildJSON(rows))
	}
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// buildJSON converts domain rows to the JSON response.
func buildJSON(rows []domain.ExportRow) []ExportRow {
	out := make([]ExportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, ExportRow{
			Id:           r.ID,
			Date:         r.Date,
			Time:         r.Time,
			MealName:     r.MealName,
			MealType:     r.MealType,
			Protein:      r.Protein,
			Rating:       r.Rating,
			IsFavorite:   r.IsFavorite,
			HasLeftovers: r.HasLeftovers,
			Tags:         r.Tags,
			Notes:        r.Notes,
		})
	}
	return out
}

// buildCSV encodes domain rows as CSV.
// Tags within a row are pipe-separated ("|") to keep each event on a single CSV field.
func buildCSV(rows []domain.ExportRow) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	w.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		w.Write(rowToCSVRecord(r))
	}
	w.Flush()
	return buf.Bytes()
}

func rowToCSVRecord(r domain.ExportRow) []string {
	return []string{
		r.ID,
		r.Date,
		r.Time,
		r.MealName,
		r.MealType,
		r.Protein,
		strconv.Itoa(r.Rating),
		strconv.FormatBool(r.IsFavorite),
		strconv.FormatBool(r.HasLeftovers),
		strings.Join(r.Tags, "|"),
		r.Notes,
	}
}

// buildICS encodes domain rows as an iCalendar feed with one VEVENT per
// event. Dates and times are read in loc. Rows whose date or time cannot be
// parsed are left out.
func buildICS(rows []domain.ExportRow, loc *time.Location, now time.Time) []byte {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//meal-calendar//export//EN")
	cal.SetXWRCalName("Meal Calendar")
	cal.SetXWRTimezone(loc.String())

	for _, r := range rows {
		start, err := time.ParseInLocation(domain.DateLayout+" "+domain.ClockLayout, r.Date+" "+r.Time, loc)
		if err != nil {
			continue
		}
		ev := cal.AddEvent(r.ID + "@meal-calendar")
		ev.SetDtStampTime(now)
		ev.SetStartAt(start)
		ev.SetEndAt(start.Add(icsEventDuration))
		ev.SetSummary(r.MealName)
		if desc := icsDescription(r); desc != "" {
			ev.SetDescription(desc)
		}
		// One CATEGORIES line per value; a joined list would be escaped
		// into a single category.
		for _, c := range append([]string{r.MealType}, r.Tags...) {
			if c != "" {
				ev.AddProperty(ical.ComponentPropertyCategories, c)
			}
		}
	}
	return []byte(cal.Serialize())
}

func icsDescription(r domain.ExportRow) string {
	var lines []string
	if r.Protein != "" {
		lines = append(lines, "Protein: "+r.Protein)
	}
	if r.Rating > 0 {
		lines = append(lines, "Rating: "+strings.Repeat("*", r.Rating))
	}
	if r.HasLeftovers {
		lines = append(lines, "Leftovers")
	}
	if r.Notes != "" {
		lines = append(lines, r.Notes)
	}
	return strings.Join(lines, "\n")
}
