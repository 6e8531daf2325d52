package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"courtfind/internal/domain"
)

type arenaRepository struct {
	DB *sql.DB
}

func NewArenaRepository(db *sql.DB) domain.ArenaRepository {
	return &arenaRepository{DB: db}
}

// arenaColumns includes the distinct sports of the arena's courts.
const arenaColumns = `
	a.id, a.owner_id, a.name, a.location, a.description, a.created_at, a.updated_at,
	ARRAY(SELECT DISTINCT c.sport FROM courts c WHERE c.arena_id = a.id ORDER BY 1)
`

func scanArena(s rowScanner, extra ...any) (*domain.Arena, error) {
	a := &domain.Arena{}
	var sports pq.StringArray
	dest := append([]any{&a.ID, &a.OwnerID, &a.Name, &a.Location, &a.Description, &a.CreatedAt, &a.UpdatedAt, &sports}, extra...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	a.Sports = []string(sports)
	return a, nil
}

func (r *arenaRepository) Create(ctx context.Context, a *domain.Arena) error {
	query := `
		INSERT INTO arenas (owner_id, name, location, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, a.OwnerID, a.Name, a.Location, a.Description, a.CreatedAt, a.UpdatedAt).Scan(&a.ID)
}

func (r *arenaRepository) GetByID(ctx context.Context, id string) (*domain.Arena, error) {
	query := `SELECT ` + arenaColumns + ` FROM arenas a WHERE a.id = $1`
	a, err := scanArena(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *arenaRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Arena, error) {
	query := `SELECT ` + arenaColumns + ` FROM arenas a WHERE a.owner_id = $1 ORDER BY a.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	arenas := make([]*domain.Arena, 0)
	for rows.Next() {
		a, err := scanArena(rows)
		if err != nil {
			return nil, err
		}
		arenas = append(arenas, a)
	}
	return arenas, rows.Err()
}

// Search matches venue as a case-insensitive substring of name or location, and sport
// case-insensitively against any court of the arena.
func (r *arenaRepository) Search(ctx context.Context, filter domain.ArenaSearch, params domain.PaginationParams) ([]*domain.Arena, int, error) {
	query := `SELECT ` + arenaColumns + `, COUNT(*) OVER()
		FROM arenas a
		WHERE ($1 = '' OR EXISTS (SELECT 1 FROM courts c WHERE c.arena_id = a.id AND lower(c.sport) = lower($1)))
		  AND ($2 = '' OR a.name ILIKE '%' || $2 || '%' OR a.location ILIKE '%' || $2 || '%')
		ORDER BY a.name, a.id
		LIMIT $3 OFFSET $4
	`
	sport := strings.TrimSpace(filter.Sport)
	venue := escapeLike(strings.TrimSpace(filter.Venue))
	rows, err := r.DB.QueryContext(ctx, query, sport, venue, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("search arenas: %w", err)
	}
	defer rows.Close()
	arenas := make([]*domain.Arena, 0)
	total := 0
	for rows.Next() {
		a, err := scanArena(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		arenas = append(arenas, a)
	}
	return arenas, total, rows.Err()
}

func (r *arenaRepository) Update(ctx context.Context, id string, name, location, description *string) (*domain.Arena, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	for _, f := range []struct {
		column string
		value  *string
	}{{"name", name}, {"location", location}, {"description", description}} {
		if f.value == nil {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", f.column, n))
		args = append(args, *f.value)
		n++
	}
	if n == 1 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE arenas a SET %s WHERE a.id = $%d RETURNING `+arenaColumns, strings.Join(setClauses, ", "), n)
	a, err := scanArena(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *arenaRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM arenas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
