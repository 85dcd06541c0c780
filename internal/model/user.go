package model

import "time"

// User represents an application user record as stored in the `users`
// table. Passwords are stored only as bcrypt hashes. The loyalty points
// counter is owned by the reservation engine: it is recomputed from the
// user's total reserved-car count on every reservation mutation and must
// not be edited by other write paths (the admin user update is the one
// sanctioned exception).
//
// Fields:
//
//	ID             - primary key identifier of the user.
//	Username       - display name.
//	Email          - unique email address.
//	Phone          - contact phone number.
//	PasswordHash   - bcrypt hashed password, never serialized.
//	IsAdmin        - whether the account can use the admin endpoints.
//	Points         - loyalty points derived from lifetime reserved cars.
//	ProfilePicture - URL or path of the avatar image.
//	CreatedAt      - timestamp of creation.
//	UpdatedAt      - timestamp of last update.
type User struct {
	ID             uint64    `json:"id"`              // users.id
	Username       string    `json:"username"`        // users.username
	Email          string    `json:"email"`           // users.email
	Phone          string    `json:"phone"`           // users.phone
	PasswordHash   string    `json:"-"`               // users.password_hash
	IsAdmin        bool      `json:"is_admin"`        // users.is_admin
	Points         uint32    `json:"points"`          // users.points
	ProfilePicture string    `json:"profile_picture"` // users.profile_picture
	CreatedAt      time.Time `json:"created_at"`      // users.created_at
	UpdatedAt      time.Time `json:"updated_at"`      // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Each refresh
// token belongs to a user and contains metadata for expiry and revocation.
// The plain token is not stored; only its SHA-256 hash.
//
// Fields:
//
//	ID        - primary key identifier.
//	UserID    - owner of the token.
//	TokenHash - SHA-256 hex digest of the token value.
//	ExpiresAt - expiration timestamp of the token.
//	RevokedAt - when the token was revoked (nil if still active).
//	CreatedAt - timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
