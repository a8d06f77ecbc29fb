package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/hall-designer/internal/domain"
)

// PostgresScheduleRepository persists per-film hall preferences and
// manager-authored schedule overrides. Both stores are read and written as
// whole mappings, matching how the editor consumes them.
type PostgresScheduleRepository struct {
	db *pgxpool.Pool
}

func NewPostgresScheduleRepository(db *pgxpool.Pool) *PostgresScheduleRepository {
	return &PostgresScheduleRepository{
		db: db,
	}
}

func (p *PostgresScheduleRepository) GetHallPreferences(ctx context.Context) (domain.FilmHallPreferences, error) {
	query := `SELECT film_id, halls FROM film_hall_preferences`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prefs := domain.FilmHallPreferences{}

	for rows.Next() {
		var filmID int
		var halls json.RawMessage

		if err := rows.Scan(&filmID, &halls); err != nil {
			return nil, err
		}

		var hallNames []string
		if err := json.Unmarshal(halls, &hallNames); err != nil {
			return nil, err
		}

		prefs[filmID] = hallNames
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return prefs, nil
}

func (p *PostgresScheduleRepository) PutHallPreferences(ctx context.Context, prefs domain.FilmHallPreferences) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM film_hall_preferences`); err != nil {
		return err
	}

	for filmID, halls := range prefs {
		payload, err := json.Marshal(halls)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO film_hall_preferences (film_id, halls) VALUES ($1, $2)`,
			filmID, payload)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (p *PostgresScheduleRepository) GetCustomSchedules(ctx context.Context) (domain.FilmSchedules, error) {
	query := `SELECT film_id, entries FROM film_custom_schedules`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := domain.FilmSchedules{}

	for rows.Next() {
		var filmID int
		var payload json.RawMessage

		if err := rows.Scan(&filmID, &payload); err != nil {
			return nil, err
		}

		var entries []domain.ScheduleEntry
		if err := json.Unmarshal(payload, &entries); err != nil {
			return nil, err
		}

		schedules[filmID] = entries
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return schedules, nil
}

func (p *PostgresScheduleRepository) PutCustomSchedules(ctx context.Context, schedules domain.FilmSchedules) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM film_custom_schedules`); err != nil {
		return err
	}

	for filmID, entries := range schedules {
		payload, err := json.Marshal(entries)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO film_custom_schedules (film_id, entries) VALUES ($1, $2)`,
			filmID, payload)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
