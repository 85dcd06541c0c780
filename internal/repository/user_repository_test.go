package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserRepoMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepo(db), mock
}

func userRow(id uint64, username, email string, isAdmin bool, points uint32) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "username", "email", "phone", "password_hash",
		"is_admin", "points", "profile_picture", "created_at", "updated_at",
	}).AddRow(id, username, email, "", "$2a$10$hash", isAdmin, points, "", now, now)
}

func TestUserCreate(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs("dana", "dana@example.com", "", sqlmock.AnyArg(), false).
		WillReturnResult(sqlmock.NewResult(11, 1))

	id, err := repo.Create(context.Background(), "dana", "Dana@Example.com", "", "secret", false, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Error 1062: Duplicate entry"})

	_, err := repo.Create(context.Background(), "dana", "dana@example.com", "", "secret", false, 4)
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByEmailNormalizes(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectQuery("SELECT .+ FROM users WHERE email=").
		WithArgs("dana@example.com").
		WillReturnRows(userRow(11, "dana", "dana@example.com", false, 0))

	u, err := repo.GetByEmail(context.Background(), "  DANA@example.com ")
	require.NoError(t, err)
	assert.Equal(t, uint64(11), u.ID)
	assert.Equal(t, "dana", u.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByIDNotFound(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectQuery("SELECT .+ FROM users WHERE id=").
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserUpdateNotFound(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectExec("UPDATE users SET").
		WithArgs("dana", "dana@example.com", "", false, uint32(0), 99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM users WHERE id=").
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	err := repo.Update(context.Background(), 99, "dana", "dana@example.com", "", false, 0)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserSetPoints(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectExec("UPDATE users SET points=").
		WithArgs(500, 11).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetPoints(context.Background(), 11, 500))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserListPoints(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	rows := sqlmock.NewRows([]string{"id", "username", "email", "points"}).
		AddRow(1, "dana", "dana@example.com", 500).
		AddRow(2, "omer", "omer@example.com", 0)
	mock.ExpectQuery("SELECT id,username,email,points FROM users").WillReturnRows(rows)

	entries, err := repo.ListPoints(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint32(500), entries[0].Points)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDelete(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectExec("DELETE FROM users WHERE id=").
		WithArgs(11).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), 11))

	mock.ExpectExec("DELETE FROM users WHERE id=").
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), 99), ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
