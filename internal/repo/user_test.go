package repo

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRowColumns = []string{"id", "username", "password_hash"}

func newMockUserRepo(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewUserRepo(db), mock
}

func TestUserRepo_Create(t *testing.T) {
	repo, mock := newMockUserRepo(t)
	mock.ExpectQuery(`INSERT INTO users \(username, password_hash\) VALUES \(\$1, \$2\) RETURNING id, username, password_hash`).
		WithArgs("alice", "$2a$10$hash").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(1, "alice", "$2a$10$hash"))

	user, err := repo.Create(context.Background(), "alice", "$2a$10$hash")
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "$2a$10$hash", user.PasswordHash)
}

func TestUserRepo_Create_Errors(t *testing.T) {
	cases := []struct {
		name    string
		dbErr   error
		wantDup bool
	}{
		{"unique violation", &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}, true},
		{"other pq error", &pq.Error{Code: "23502", Message: "null value"}, false},
		{"connection", sql.ErrConnDone, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newMockUserRepo(t)
			mock.ExpectQuery(`INSERT INTO users`).
				WithArgs("alice", "hash").
				WillReturnError(tc.dbErr)

			_, err := repo.Create(context.Background(), "alice", "hash")
			require.Error(t, err)
			assert.Equal(t, tc.wantDup, errors.Is(err, ErrDuplicate))
			if !tc.wantDup {
				assert.ErrorIs(t, err, tc.dbErr)
			}
		})
	}
}

func TestUserRepo_GetByUsername(t *testing.T) {
	repo, mock := newMockUserRepo(t)
	mock.ExpectQuery(`SELECT id, username, password_hash FROM users WHERE username = \$1`).
		WithArgs("charlie").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(2, "charlie", "h"))

	user, err := repo.GetByUsername(context.Background(), "charlie")
	require.NoError(t, err)
	assert.Equal(t, 2, user.ID)
	assert.Equal(t, "h", user.PasswordHash)
}

func TestUserRepo_Lookup_NotFound(t *testing.T) {
	repo, mock := newMockUserRepo(t)
	mock.ExpectQuery(`WHERE username = \$1`).WithArgs("nobody").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepo_Lookup_DriverError(t *testing.T) {
	repo, mock := newMockUserRepo(t)
	mock.ExpectQuery(`WHERE username = \$1`).WithArgs("dave").WillReturnError(sql.ErrConnDone)

	_, err := repo.GetByUsername(context.Background(), "dave")
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NotErrorIs(t, err, ErrNotFound)
}
