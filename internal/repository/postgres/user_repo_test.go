package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtfind/internal/domain"
)

var userColumns = []string{"id", "email", "password_hash", "salt", "name", "phone", "role", "created_at", "updated_at"}

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WithArgs("pat@example.com", "hash", "salt", "Pat", "555-0100", "player", now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-1"))
			},
			wantID: "user-1",
		},
		{
			name: "unique violation returns ErrDuplicateEmail",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: true,
			errIs:   domain.ErrDuplicateEmail,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
			errIs:   sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			u := domain.NewUser("pat@example.com", "Pat", "555-0100", domain.RolePlayer, now, now)
			u.PasswordHash, u.Salt = "hash", "salt"
			err = NewUserRepository(db).Create(ctx, u)
			if tt.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, tt.errIs)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, u.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
			WithArgs("owner@example.com").
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow("user-2", "owner@example.com", "hash", "salt", "Olive", "", "owner", now, now))

		u, err := NewUserRepository(db).GetByEmail(ctx, "owner@example.com")
		require.NoError(t, err)
		assert.Equal(t, "user-2", u.ID)
		assert.Equal(t, domain.RoleOwner, u.Role)
		assert.Equal(t, "hash", u.PasswordHash)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		_, err = NewUserRepository(db).GetByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("user-1", "pat@example.com", "hash", "salt", "Pat", "555-0100", "player", now, now))

	u, err := NewUserRepository(db).GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "pat@example.com", u.Email)
	assert.Equal(t, "555-0100", u.Phone)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	u := &domain.User{ID: "user-1", Name: "Patricia", Phone: "555-0100", UpdatedAt: now}

	tests := []struct {
		name     string
		affected int64
		errIs    error
	}{
		{name: "success", affected: 1},
		{name: "not found", affected: 0, errIs: domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectExec(`UPDATE users SET name = \$2, phone = \$3, updated_at = \$4 WHERE id = \$1`).
				WithArgs("user-1", "Patricia", "555-0100", now).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err = NewUserRepository(db).Update(ctx, u)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE users SET password_hash = \$2, salt = \$3`).
		WithArgs("user-1", "new-hash", "new-salt").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users SET password_hash = \$2, salt = \$3`).
		WithArgs("missing", "new-hash", "new-salt").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewUserRepository(db)
	require.NoError(t, repo.UpdatePassword(context.Background(), "user-1", "new-hash", "new-salt"))
	require.ErrorIs(t, repo.UpdatePassword(context.Background(), "missing", "new-hash", "new-salt"), domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
