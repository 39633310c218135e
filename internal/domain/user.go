package domain

import (
	"context"
	"time"
)

// AccountKind is the classified kind of a login account string.
type AccountKind int

const (
	KindUnknown AccountKind = iota
	KindEmail
	KindMobile
)

func (k AccountKind) String() string {
	switch k {
	case KindEmail:
		return "email"
	case KindMobile:
		return "mobile"
	default:
		return "unknown"
	}
}

// Closure states of an account.
const (
	ClosureNone   = "none"
	ClosureClosed = "closed"
)

// Rename permission states.
const (
	RenameAllowed = "yes"
	RenameUsed    = "none"
)

// User represents an account in the system.
type User struct {
	ID         int64     `json:"-"`
	UUID       string    `json:"uuid"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Mobile     string    `json:"mobile,omitempty"`
	Password   string    `json:"-"`
	Avatar     string    `json:"avatar,omitempty"`
	Gender     string    `json:"gender,omitempty"`
	Birthday   string    `json:"birthday,omitempty"`
	ResideCity string    `json:"reside_city,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	Closure    string    `json:"-"`
	IsRename   string    `json:"is_rename,omitempty"`
	GithubID   int64     `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"-"`
}

// IsOpen reports whether the account exists in a usable state.
func (u *User) IsOpen() bool {
	return u != nil && u.Closure == ClosureNone
}

// ProfileUpdate carries the mutable profile fields (name excluded, it has
// its own one-shot rename rule).
type ProfileUpdate struct {
	Avatar     string
	Gender     string
	Birthday   string
	ResideCity string
	Bio        string
}

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByMobile finds a user by mobile number
	FindByMobile(ctx context.Context, mobile string) (*User, error)

	// FindByUUID finds a user by its public identifier
	FindByUUID(ctx context.Context, uuid string) (*User, error)

	// FindByGithubID finds a user linked to a GitHub identity
	FindByGithubID(ctx context.Context, githubID int64) (*User, error)

	// UpdatePassword replaces a user's password hash
	UpdatePassword(ctx context.Context, userID int64, hashedPassword string) error

	// UpdateProfile updates a user's profile fields
	UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) error

	// UpdateName renames a user and records that the rename was used
	UpdateName(ctx context.Context, userID int64, name, isRename string) error
}
