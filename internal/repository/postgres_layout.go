package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/hall-designer/internal/domain"
)

// PostgresLayoutRepository stores hall layout templates as jsonb documents
// keyed by their unique name.
type PostgresLayoutRepository struct {
	db *pgxpool.Pool
}

func NewPostgresLayoutRepository(db *pgxpool.Pool) *PostgresLayoutRepository {
	return &PostgresLayoutRepository{
		db: db,
	}
}

func (p *PostgresLayoutRepository) ListNames(ctx context.Context) ([]string, error) {
	query := `SELECT name FROM layouts ORDER BY name`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}

		names = append(names, name)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return names, nil
}

func (p *PostgresLayoutRepository) Get(ctx context.Context, name string) (*domain.HallLayout, error) {
	query := `SELECT definition FROM layouts WHERE name = $1`

	var definition json.RawMessage

	err := p.db.QueryRow(ctx, query, name).Scan(&definition)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	var layout domain.HallLayout
	if err := json.Unmarshal(definition, &layout); err != nil {
		return nil, err
	}

	return &layout, nil
}

func (p *PostgresLayoutRepository) Create(ctx context.Context, layout *domain.HallLayout) error {
	query := `INSERT INTO layouts (name, definition) VALUES ($1, $2)`

	definition, err := json.Marshal(layout)
	if err != nil {
		return err
	}

	_, err = p.db.Exec(ctx, query, layout.Name, definition)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.ErrNameConflict
		}

		return err
	}

	return nil
}

func (p *PostgresLayoutRepository) Update(ctx context.Context, layout *domain.HallLayout) error {
	query := `UPDATE layouts SET definition = $2, updated_at = now() WHERE name = $1`

	definition, err := json.Marshal(layout)
	if err != nil {
		return err
	}

	tag, err := p.db.Exec(ctx, query, layout.Name, definition)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (p *PostgresLayoutRepository) Delete(ctx context.Context, name string) error {
	query := `DELETE FROM layouts WHERE name = $1`

	tag, err := p.db.Exec(ctx, query, name)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
