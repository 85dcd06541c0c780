package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/car-rental-reservation/internal/model"
	"github.com/iliyamo/car-rental-reservation/internal/utils"
)

// UserRepo provides persistence for users. Passwords are hashed here so no
// caller ever passes a plain password further down.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,username,email,phone,password_hash,is_admin,points,profile_picture,created_at,updated_at"

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Phone, &u.PasswordHash,
		&u.IsAdmin, &u.Points, &u.ProfilePicture, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a user and returns its ID. The email is normalized to
// lower case before insertion; a duplicate email maps to ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, username, email, phone, password string, isAdmin bool, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, phone, password_hash, is_admin) VALUES (?,?,?,?,?)",
		username, email, phone, hash, isAdmin)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// List returns all users ordered by id. Password hashes are loaded but
// never serialized (json:"-" on the model).
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update overwrites the mutable admin-editable fields of a user. The
// password is deliberately not touched here. Returns ErrUserNotFound when
// the id matches nothing and ErrEmailExists on a unique-key violation.
func (r *UserRepo) Update(ctx context.Context, id uint64, username, email, phone string, isAdmin bool, points uint32) error {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET username=?, email=?, phone=?, is_admin=?, points=? WHERE id=?",
		username, email, phone, isAdmin, points, id)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Could also be a no-op update of identical values; verify existence.
		var one int
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id=?", id).Scan(&one); err == sql.ErrNoRows {
			return ErrUserNotFound
		}
	}
	return nil
}

// Delete removes a user by id. Returns ErrUserNotFound when nothing was
// deleted.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetPoints persists the recomputed loyalty points for a user. Called by
// the reservation engine after every reservation mutation, even when the
// value did not change.
func (r *UserRepo) SetPoints(ctx context.Context, userID uint64, points int) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET points=? WHERE id=?", points, userID)
	return err
}

// PointsEntry is the reduced projection returned by the admin points list.
type PointsEntry struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Points   uint32 `json:"points"`
}

// ListPoints returns every user's loyalty points balance.
func (r *UserRepo) ListPoints(ctx context.Context) ([]PointsEntry, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,username,email,points FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]PointsEntry, 0)
	for rows.Next() {
		var e PointsEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.Email, &e.Points); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
