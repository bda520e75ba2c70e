package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the user model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	ClubName      string     `bun:"club_name" json:"club_name,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Roles         []string   `bun:"roles,notnull" json:"roles,omitempty"`
	IsActive      bool       `bun:"is_active,default:true" json:"is_active"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// NormalizeEmail lowercases and trims an email so it can be used as the
// login key. The service applies this before every lookup and every write;
// stored emails are always in normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Normalize applies email normalization to the record.
func (u *User) Normalize() *User {
	if u == nil {
		return u
	}
	u.Email = NormalizeEmail(u.Email)
	return u
}

// EnsureDefaults fills the id, baseline role, and active flag for new
// records. Accounts always start active; deactivation is an explicit
// admin action later.
func (u *User) EnsureDefaults() *User {
	if u == nil {
		return u
	}

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	if len(u.Roles) == 0 {
		u.Roles = DefaultRoles()
	}

	u.IsActive = true

	return u
}

// HasRole reports whether the user carries the given role tag.
func (u *User) HasRole(role string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Sanitized returns a copy of the user safe to cross the system boundary:
// the password hash is stripped. The original record is left untouched.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}

	clone := *u
	clone.PasswordHash = ""
	return &clone
}
