package mocks

import (
	"context"

	"github.com/metinatakli/hall-designer/internal/domain"
)

type MockFilmRepo struct {
	domain.FilmRepository
	GetAllFunc  func(ctx context.Context, pagination domain.Pagination) ([]*domain.Film, *domain.Metadata, error)
	GetByIdFunc func(ctx context.Context, id int) (*domain.Film, error)
}

func (m *MockFilmRepo) GetAll(ctx context.Context, pagination domain.Pagination) ([]*domain.Film, *domain.Metadata, error) {
	return m.GetAllFunc(ctx, pagination)
}

func (m *MockFilmRepo) GetById(ctx context.Context, id int) (*domain.Film, error) {
	return m.GetByIdFunc(ctx, id)
}
