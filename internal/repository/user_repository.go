package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/iliyamo/flight-inventory/internal/model"
	"github.com/iliyamo/flight-inventory/internal/utils"
)

// UserRepo reads and writes the users table.  The account methods
// serve the auth handlers; the rest serve the inventory core.
type UserRepo struct{ q querier }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{q: db} }

const userColumns = `id, email, password_hash, role, nums_booking_changed, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }, u *model.User) error {
	return row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.BookingsChanged, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
}

// Create inserts user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.q.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role) VALUES (?,?,?)",
		email, hash, role)
	if err != nil {
		return 0, translate(err, "insert user")
	}
	return lastID(res)
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := scanUser(r.q.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email), &u)
	return u, translate(err, "user by email")
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := r.GetUser(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	return *u, nil
}

func (r *UserRepo) GetUser(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	err := scanUser(r.q.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id), &u)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("user %d", id))
	}
	return &u, nil
}

// ListUsers returns the users with the given ids ordered by id.
// Unknown ids are skipped.
func (r *UserRepo) ListUsers(ctx context.Context, ids []uint64) ([]model.User, error) {
	if len(ids) == 0 {
		return []model.User{}, nil
	}
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id IN ("+placeholders(len(ids))+") ORDER BY id",
		idArgs(ids)...)
	if err != nil {
		return nil, translate(err, "list users")
	}
	defer rows.Close()

	out := []model.User{}
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// IncrementBookingsChanged bumps the schedule-change counter of each user once.
func (r *UserRepo) IncrementBookingsChanged(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.q.ExecContext(ctx,
		"UPDATE users SET nums_booking_changed = nums_booking_changed + 1 WHERE id IN ("+placeholders(len(ids))+")",
		idArgs(ids)...)
	return translate(err, "bump booking change counters")
}
