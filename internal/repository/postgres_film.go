package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/hall-designer/internal/domain"
)

type PostgresFilmRepository struct {
	db *pgxpool.Pool
}

func NewPostgresFilmRepository(db *pgxpool.Pool) *PostgresFilmRepository {
	return &PostgresFilmRepository{
		db: db,
	}
}

func (p *PostgresFilmRepository) GetAll(ctx context.Context, pagination domain.Pagination) ([]*domain.Film, *domain.Metadata, error) {
	query := fmt.Sprintf(`SELECT count(*) OVER(), id, title, description, genres, release_date, duration, poster_url
		FROM films
		WHERE (to_tsvector('english', title) @@ plainto_tsquery('english', $1) OR $1 = '')
		ORDER BY %s %s
		LIMIT $2 OFFSET $3`, pagination.SortColumn(), pagination.SortDirection())

	rows, err := p.db.Query(ctx, query, pagination.Term, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	totalRecords := 0
	films := []*domain.Film{}

	for rows.Next() {
		var film domain.Film

		err := rows.Scan(
			&totalRecords,
			&film.ID,
			&film.Title,
			&film.Description,
			&film.Genres,
			&film.ReleaseDate,
			&film.Duration,
			&film.PosterUrl,
		)

		if err != nil {
			return nil, nil, err
		}

		films = append(films, &film)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return films, metadata, nil
}

func (p *PostgresFilmRepository) GetById(ctx context.Context, id int) (*domain.Film, error) {
	query := `SELECT id, title, description, genres, release_date, duration, poster_url
		FROM films
		WHERE id = $1`

	var film domain.Film

	err := p.db.QueryRow(ctx, query, id).Scan(
		&film.ID,
		&film.Title,
		&film.Description,
		&film.Genres,
		&film.ReleaseDate,
		&film.Duration,
		&film.PosterUrl,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &film, nil
}
