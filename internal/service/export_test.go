package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buckeyeguy5511/meal-calendar/internal/domain"
	"github.com/buckeyeguy5511/meal-calendar/internal/service"
)

func TestExportService_Export_Ordered(t *testing.T) {
	svc, r := newService(t)
	late := validEvent("Late", "2024-05-13")
	late.Time = "20:00"
	mustCreate(t, svc, late)
	mustCreate(t, svc, validEvent("Earlier day", "2024-05-01"))
	early := validEvent("Early", "2024-05-13")
	early.Time = "07:00"
	early.Tags = nil
	created := mustCreate(t, svc, early)

	rows, err := service.NewExportService(r).Export(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Earlier day", rows[0].MealName)
	assert.Equal(t, "Early", rows[1].MealName)
	assert.Equal(t, "Late", rows[2].MealName)

	assert.Equal(t, domain.ExportRow{
		ID:       created.ID.String(),
		Date:     "2024-05-13",
		Time:     "07:00",
		MealName: "Early",
		MealType: "dinner",
		Protein:  "beef",
		Rating:   3,
		Tags:     []string{},
		Notes:    "with rice",
	}, rows[1])
}

func TestExportService_Export_Empty(t *testing.T) {
	_, r := newService(t)

	rows, err := service.NewExportService(r).Export(context.Background())

	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestExportService_Export_RepoError(t *testing.T) {
	boom := errors.New("boom")
	m := &mockEventRepo{list: func(context.Context) ([]domain.Event, error) { return nil, boom }}

	_, err := service.NewExportService(m).Export(context.Background())

	assert.ErrorIs(t, err, boom)
}
