package mocks

import (
	"context"

	"github.com/metinatakli/hall-designer/internal/domain"
)

type MockScheduleRepo struct {
	domain.ScheduleRepository
	GetHallPreferencesFunc func(ctx context.Context) (domain.FilmHallPreferences, error)
	PutHallPreferencesFunc func(ctx context.Context, prefs domain.FilmHallPreferences) error
	GetCustomSchedulesFunc func(ctx context.Context) (domain.FilmSchedules, error)
	PutCustomSchedulesFunc func(ctx context.Context, schedules domain.FilmSchedules) error
}

func (m *MockScheduleRepo) GetHallPreferences(ctx context.Context) (domain.FilmHallPreferences, error) {
	return m.GetHallPreferencesFunc(ctx)
}

func (m *MockScheduleRepo) PutHallPreferences(ctx context.Context, prefs domain.FilmHallPreferences) error {
	return m.PutHallPreferencesFunc(ctx, prefs)
}

func (m *MockScheduleRepo) GetCustomSchedules(ctx context.Context) (domain.FilmSchedules, error) {
	return m.GetCustomSchedulesFunc(ctx)
}

func (m *MockScheduleRepo) PutCustomSchedules(ctx context.Context, schedules domain.FilmSchedules) error {
	return m.PutCustomSchedulesFunc(ctx, schedules)
}
