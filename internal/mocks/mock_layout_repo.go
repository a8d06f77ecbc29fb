package mocks

import (
	"context"

	"github.com/metinatakli/hall-designer/internal/domain"
)

type MockLayoutRepo struct {
	domain.LayoutRepository
	ListNamesFunc func(ctx context.Context) ([]string, error)
	GetFunc       func(ctx context.Context, name string) (*domain.HallLayout, error)
	CreateFunc    func(ctx context.Context, layout *domain.HallLayout) error
	UpdateFunc    func(ctx context.Context, layout *domain.HallLayout) error
	DeleteFunc    func(ctx context.Context, name string) error
}

func (m *MockLayoutRepo) ListNames(ctx context.Context) ([]string, error) {
	return m.ListNamesFunc(ctx)
}

func (m *MockLayoutRepo) Get(ctx context.Context, name string) (*domain.HallLayout, error) {
	return m.GetFunc(ctx, name)
}

func (m *MockLayoutRepo) Create(ctx context.Context, layout *domain.HallLayout) error {
	return m.CreateFunc(ctx, layout)
}

func (m *MockLayoutRepo) Update(ctx context.Context, layout *domain.HallLayout) error {
	return m.UpdateFunc(ctx, layout)
}

func (m *MockLayoutRepo) Delete(ctx context.Context, name string) error {
	return m.DeleteFunc(ctx, name)
}
