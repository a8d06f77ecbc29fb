package domain

import (
	"context"
	"strings"
	"time"
)

type Film struct {
	ID          int
	Title       string
	Description string
	Genres      []string
	ReleaseDate time.Time
	Duration    int
	PosterUrl   string
}

type Metadata struct {
	CurrentPage  int
	FirstPage    int
	LastPage     int
	PageSize     int
	TotalRecords int
}

func NewMetadata(totalRecords, page, pageSize int) *Metadata {
	return &Metadata{
		CurrentPage:  page,
		FirstPage:    1,
		LastPage:     (totalRecords + pageSize - 1) / pageSize,
		PageSize:     pageSize,
		TotalRecords: totalRecords,
	}
}

type Pagination struct {
	Page     int
	PageSize int
	Term     string
	Sort     string
}

func (p Pagination) SortColumn() string {
	return strings.TrimPrefix(p.Sort, "-")
}

func (p Pagination) SortDirection() string {
	if strings.HasPrefix(p.Sort, "-") {
		return "DESC"
	}

	return "ASC"
}

func (p Pagination) Limit() int {
	return p.PageSize
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type FilmRepository interface {
	GetAll(ctx context.Context, pagination Pagination) ([]*Film, *Metadata, error)
	GetById(ctx context.Context, id int) (*Film, error)
}
