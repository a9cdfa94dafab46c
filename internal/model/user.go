package model

import "time"

// Role names carried in the users table and in access tokens.
const (
	RoleOwner    = "OWNER"
	RoleCustomer = "CUSTOMER"
)

// User represents an account as stored in the `users` table.
// Owners operate aircraft; customers hold bookings.  The
// BookingsChanged counter tracks how many schedule changes have
// touched the user's bookings.
//
// Fields:
//
//	ID              – primary key identifier of the user.
//	Email           – unique email address.
//	PasswordHash    – bcrypt hashed password.
//	Role            – OWNER or CUSTOMER.
//	BookingsChanged – number of schedule changes that hit the user's bookings.
//	IsActive        – whether the account is active.
//	CreatedAt       – timestamp of creation.
//	UpdatedAt       – timestamp of last update.
type User struct {
	ID              uint64    `json:"id"`                   // users.id
	Email           string    `json:"email"`                // users.email
	PasswordHash    string    `json:"-"`                    // users.password_hash
	Role            string    `json:"role"`                 // users.role
	BookingsChanged int       `json:"nums_booking_changed"` // users.nums_booking_changed
	IsActive        bool      `json:"is_active"`            // users.is_active
	CreatedAt       time.Time `json:"created_at"`           // users.created_at
	UpdatedAt       time.Time `json:"updated_at"`           // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  The
// plain token is never stored; only its SHA-256 hash.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – owner of the token.
//	TokenHash – SHA-256 hex digest of the token value.
//	ExpiresAt – expiration timestamp of the token.
//	RevokedAt – when the token was revoked (null if still active).
//	CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
