package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"courtfind/internal/availability"
	"courtfind/internal/domain"
)

type courtRepository struct {
	DB *sql.DB
}

func NewCourtRepository(db *sql.DB) domain.CourtRepository {
	return &courtRepository{DB: db}
}

const courtColumns = `c.id, c.arena_id, a.owner_id, c.name, c.sport, c.size, c.hourly_rate, c.availability, c.created_at, c.updated_at`

func scanCourt(s rowScanner) (*domain.Court, error) {
	c := &domain.Court{}
	var raw []byte
	if err := s.Scan(&c.ID, &c.ArenaID, &c.OwnerID, &c.Name, &c.Sport, &c.Size, &c.HourlyRate, &raw, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	w, err := availability.ParseWeeklyAvailability(raw)
	if err != nil {
		return nil, fmt.Errorf("decode availability of court %s: %w", c.ID, err)
	}
	c.Availability = w
	return c, nil
}

func (r *courtRepository) Create(ctx context.Context, c *domain.Court) error {
	raw, err := json.Marshal(c.Availability)
	if err != nil {
		return fmt.Errorf("encode availability: %w", err)
	}
	query := `
		INSERT INTO courts (arena_id, name, sport, size, hourly_rate, availability, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, c.ArenaID, c.Name, c.Sport, c.Size, c.HourlyRate, raw, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
}

func (r *courtRepository) GetByID(ctx context.Context, id string) (*domain.Court, error) {
	query := `
		SELECT ` + courtColumns + `
		FROM courts c
		JOIN arenas a ON a.id = c.arena_id
		WHERE c.id = $1
	`
	c, err := scanCourt(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *courtRepository) ListByArenaID(ctx context.Context, arenaID string) ([]*domain.Court, error) {
	query := `
		SELECT ` + courtColumns + `
		FROM courts c
		JOIN arenas a ON a.id = c.arena_id
		WHERE c.arena_id = $1
		ORDER BY c.name, c.id
	`
	rows, err := r.DB.QueryContext(ctx, query, arenaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	courts := make([]*domain.Court, 0)
	for rows.Next() {
		c, err := scanCourt(rows)
		if err != nil {
			return nil, err
		}
		courts = append(courts, c)
	}
	return courts, rows.Err()
}

func (r *courtRepository) Update(ctx context.Context, id string, upd domain.CourtUpdate) (*domain.Court, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	if upd.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", n))
		args = append(args, *upd.Name)
		n++
	}
	if upd.HourlyRate != nil {
		setClauses = append(setClauses, fmt.Sprintf("hourly_rate = $%d", n))
		args = append(args, *upd.HourlyRate)
		n++
	}
	if upd.Availability != nil {
		raw, err := json.Marshal(upd.Availability)
		if err != nil {
			return nil, fmt.Errorf("encode availability: %w", err)
		}
		setClauses = append(setClauses, fmt.Sprintf("availability = $%d", n))
		args = append(args, raw)
		n++
	}
	if n == 1 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE courts c SET %s
		FROM arenas a
		WHERE c.id = $%d AND a.id = c.arena_id
		RETURNING `+courtColumns, strings.Join(setClauses, ", "), n)
	c, err := scanCourt(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *courtRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM courts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
