package auth

import "context"

// UserUpdate carries optional field rewrites; nil means keep.
type UserUpdate struct {
	FirstName     *string
	LastName      *string
	MiddleInitial *string
	Email         *string
	PasswordHash  *string
	Role          *string
	Status        *string
}

// UserStore manages credential records.
type UserStore interface {
	Create(ctx context.Context, u *User) error
	Find(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id string, upd UserUpdate) (*User, error)
	Count(ctx context.Context) (int, error)

	// RecordFailedAttempt increments the counter and returns the new value.
	RecordFailedAttempt(ctx context.Context, id string) (int, error)
	// MarkSignedIn resets the counter and rewrites status to active.
	MarkSignedIn(ctx context.Context, id string) error
	// Block sets status=blocked and stamps blocked_at.
	Block(ctx context.Context, id string) error
	// Unblock sets status=inactive, resets the counter and stamps restored_at.
	Unblock(ctx context.Context, id string) error
}

// RoleStore manages the role registry.
type RoleStore interface {
	Create(ctx context.Context, r *Role) error
	Find(ctx context.Context, id string) (*Role, error)
	FindByName(ctx context.Context, name string) (*Role, error)
	List(ctx context.Context) ([]Role, error)
	Update(ctx context.Context, id string, name *string, permissionIDs []string) (*Role, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// PermissionStore manages the permission catalog.
type PermissionStore interface {
	Create(ctx context.Context, p *Permission) error
	Find(ctx context.Context, id string) (*Permission, error)
	List(ctx context.Context) ([]Permission, error)
	ListByIDs(ctx context.Context, ids []string) ([]Permission, error)
	Update(ctx context.Context, id string, name, description *string) (*Permission, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// Store bundles the persistence surface the auth subsystem needs.
type Store interface {
	Users() UserStore
	Roles() RoleStore
	Permissions() PermissionStore
}
