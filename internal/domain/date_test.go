package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buckeyeguy5511/meal-calendar/internal/domain"
)

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.January, 31},
		{2024, time.February, 29},
		{2023, time.February, 28},
		{1900, time.February, 28},
		{2000, time.February, 29},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, domain.DaysInMonth(c.year, c.month), "%d-%02d", c.year, c.month)
	}
}

func TestFirstWeekdayOfMonth(t *testing.T) {
	assert.Equal(t, time.Wednesday, domain.FirstWeekdayOfMonth(2024, time.May))
	assert.Equal(t, time.Sunday, domain.FirstWeekdayOfMonth(2024, time.September))
	assert.Equal(t, time.Thursday, domain.FirstWeekdayOfMonth(2024, time.February))
}

func TestStartOfWeek(t *testing.T) {
	mon := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-05-12", domain.FormatDate(domain.StartOfWeek(mon)))

	sun := time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-05-12", domain.FormatDate(domain.StartOfWeek(sun)))

	// Crosses a month boundary.
	wed := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-04-28", domain.FormatDate(domain.StartOfWeek(wed)))
}

func TestDaysSinceLastMade_NoMatch(t *testing.T) {
	events := []domain.Event{{MealName: "Tacos", Date: "2024-05-01"}}
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	assert.Nil(t, domain.DaysSinceLastMade(events, "Pizza", now))
	assert.Nil(t, domain.DaysSinceLastMade(nil, "Pizza", now))
}

func TestDaysSinceLastMade_CaseSensitive(t *testing.T) {
	events := []domain.Event{{MealName: "Tacos", Date: "2024-05-01"}}
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, domain.DaysSinceLastMade(events, "tacos", now))
}

func TestDaysSinceLastMade_PicksMostRecent(t *testing.T) {
	events := []domain.Event{
		{MealName: "Tacos", Date: "2024-04-01"},
		{MealName: "Tacos", Date: "2024-05-03"},
		{MealName: "Tacos", Date: "2024-04-20"},
		{MealName: "Soup", Date: "2024-05-09"},
	}
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	got := domain.DaysSinceLastMade(events, "Tacos", now)

	require.NotNil(t, got)
	assert.Equal(t, 7, *got)
}

func TestDaysSinceLastMade_RoundsUp(t *testing.T) {
	events := []domain.Event{{MealName: "Tacos", Date: "2024-05-03"}}
	// 7 days and 1 hour after midnight of the event date.
	now := time.Date(2024, 5, 10, 1, 0, 0, 0, time.UTC)

	got := domain.DaysSinceLastMade(events, "Tacos", now)

	require.NotNil(t, got)
	assert.Equal(t, 8, *got)
}

// A future-dated event reports its distance as a positive magnitude rather
// than a negative "days ago". This documents current behaviour.
func TestDaysSinceLastMade_FutureDateIsAbsolute(t *testing.T) {
	events := []domain.Event{{MealName: "Tacos", Date: "2024-05-20"}}
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	got := domain.DaysSinceLastMade(events, "Tacos", now)

	require.NotNil(t, got)
	assert.Equal(t, 10, *got)
}

func TestDaysSinceLastMade_SkipsMalformedDates(t *testing.T) {
	events := []domain.Event{
		{MealName: "Tacos", Date: "not-a-date"},
		{MealName: "Tacos", Date: "2024-05-08"},
	}
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	got := domain.DaysSinceLastMade(events, "Tacos", now)

	require.NotNil(t, got)
	assert.Equal(t, 2, *got)
}
