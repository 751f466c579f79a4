package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Service provides sign-in, token authentication, principal resolution and
// user/role/permission administration.
type Service struct {
	store  Store
	tokens *TokenIssuer
}

// NewService constructs a Service.
func NewService(store Store, tokens *TokenIssuer) (*Service, error) {
	if store == nil {
		return nil, errors.New("auth: store is required")
	}
	if tokens == nil {
		return nil, errors.New("auth: token issuer is required")
	}
	return &Service{store: store, tokens: tokens}, nil
}

// Tokens exposes the issuer for boundary gates (service token checks).
func (s *Service) Tokens() *TokenIssuer { return s.tokens }

// SignIn verifies credentials and mints a session token. Wrong passwords
// increment the failed-attempt counter; the fifth consecutive failure
// blocks the account. A successful sign-in resets the counter and rewrites
// the status to active.
func (s *Service) SignIn(ctx context.Context, email, password string) (*User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	user, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return nil, "", err
	}
	if user.Status == StatusBlocked {
		return nil, "", ErrBlocked
	}

	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		attempts, recErr := s.store.Users().RecordFailedAttempt(ctx, user.ID)
		if recErr != nil {
			return nil, "", recErr
		}
		if attempts >= FailedAttemptLimit {
			if blockErr := s.store.Users().Block(ctx, user.ID); blockErr != nil {
				return nil, "", blockErr
			}
		}
		return nil, "", fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	if err := s.store.Users().MarkSignedIn(ctx, user.ID); err != nil {
		return nil, "", err
	}
	user, err = s.store.Users().Find(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.MintSession(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate resolves a session token to a principal. Blocked accounts
// are rejected even while their token is still validly signed.
func (s *Service) Authenticate(ctx context.Context, token string) (Principal, error) {
	claims, err := s.tokens.ParseSession(token)
	if err != nil {
		return Principal{}, ErrUnauthorized
	}
	return s.Principal(ctx, claims.UserID)
}

// Principal loads a user and resolves its role to a permission-name set.
// An unresolved role yields an empty set, which denies everything.
func (s *Service) Principal(ctx context.Context, userID string) (Principal, error) {
	user, err := s.store.Users().Find(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Principal{}, ErrUnauthorized
		}
		return Principal{}, err
	}
	if user.Status == StatusBlocked {
		return Principal{}, ErrUnauthorized
	}
	perms, err := s.resolvePermissions(ctx, user.Role)
	if err != nil {
		return Principal{}, err
	}
	return NewPrincipal(user, perms), nil
}

func (s *Service) resolvePermissions(ctx context.Context, roleName string) ([]Permission, error) {
	role, err := s.store.Roles().FindByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if len(role.Permissions) == 0 {
		return nil, nil
	}
	return s.store.Permissions().ListByIDs(ctx, role.Permissions)
}

// BlockUser sets a user's status to blocked.
func (s *Service) BlockUser(ctx context.Context, userID string) (*User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if err := s.store.Users().Block(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.Users().Find(ctx, userID)
}

// UnblockUser lifts a block: status goes back to inactive, the counter
// resets and restored_at is stamped. The user signs in again to activate.
func (s *Service) UnblockUser(ctx context.Context, userID string) (*User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if err := s.store.Users().Unblock(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.Users().Find(ctx, userID)
}

// CreateUserInput carries the admin user-creation payload.
type CreateUserInput struct {
	FirstName     string
	LastName      string
	MiddleInitial string
	Email         string
	Password      string
	Role          string
}

// CreateUser validates and stores a new credential record, status inactive.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Role = strings.TrimSpace(in.Role)

	if in.FirstName == "" || in.LastName == "" {
		return nil, fmt.Errorf("%w: first and last name are required", ErrInvalidInput)
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return nil, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}
	if in.Role == "" {
		in.Role = RoleRegular
	}
	if _, err := s.store.Roles().FindByName(ctx, in.Role); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown role %s", ErrInvalidInput, in.Role)
		}
		return nil, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &User{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		MiddleInitial: strings.TrimSpace(in.MiddleInitial),
		Email:         in.Email,
		PasswordHash:  hash,
		Role:          in.Role,
		Status:        StatusInactive,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUserInput carries optional field rewrites; nil means keep.
type UpdateUserInput struct {
	FirstName     *string
	LastName      *string
	MiddleInitial *string
	Email         *string
	Password      *string
	Role          *string
	Status        *string
}

// UpdateUser validates and applies a partial update.
func (s *Service) UpdateUser(ctx context.Context, userID string, in UpdateUserInput) (*User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	upd := UserUpdate{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		MiddleInitial: in.MiddleInitial,
	}
	if in.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*in.Email))
		if email == "" || !strings.Contains(email, "@") {
			return nil, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
		}
		upd.Email = &email
	}
	if in.Password != nil {
		if len(*in.Password) < 8 {
			return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
		}
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		upd.PasswordHash = &hash
	}
	if in.Role != nil {
		role := strings.TrimSpace(*in.Role)
		if _, err := s.store.Roles().FindByName(ctx, role); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%w: unknown role %s", ErrInvalidInput, role)
			}
			return nil, err
		}
		upd.Role = &role
	}
	if in.Status != nil {
		status := strings.TrimSpace(strings.ToLower(*in.Status))
		if !ValidStatus(status) {
			return nil, fmt.Errorf("%w: unsupported status %s", ErrInvalidInput, status)
		}
		upd.Status = &status
	}
	return s.store.Users().Update(ctx, userID, upd)
}

// ListUsers returns every credential record.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.store.Users().List(ctx)
}

// GetUser returns a single user by id.
func (s *Service) GetUser(ctx context.Context, userID string) (*User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.store.Users().Find(ctx, userID)
}

// CreateRole validates permission ids and stores a new role.
func (s *Service) CreateRole(ctx context.Context, name string, permissionIDs []string) (*Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: role name is required", ErrInvalidInput)
	}
	permissionIDs = dedupeStrings(permissionIDs)
	if err := s.validatePermissionIDs(ctx, permissionIDs); err != nil {
		return nil, err
	}
	role := &Role{Name: name, Permissions: permissionIDs}
	if err := s.store.Roles().Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// UpdateRole rewrites name and/or permission set. A nil permissionIDs
// keeps the existing set; an empty non-nil slice clears it.
func (s *Service) UpdateRole(ctx context.Context, roleID string, name *string, permissionIDs []string) (*Role, error) {
	roleID = strings.TrimSpace(roleID)
	if roleID == "" {
		return nil, fmt.Errorf("%w: role id is required", ErrInvalidInput)
	}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: role name is required", ErrInvalidInput)
		}
		name = &trimmed
	}
	if permissionIDs != nil {
		permissionIDs = dedupeStrings(permissionIDs)
		if err := s.validatePermissionIDs(ctx, permissionIDs); err != nil {
			return nil, err
		}
	}
	return s.store.Roles().Update(ctx, roleID, name, permissionIDs)
}

// DeleteRole removes a role from the registry. Users holding the role name
// keep the dangling name and resolve to an empty permission set.
func (s *Service) DeleteRole(ctx context.Context, roleID string) error {
	roleID = strings.TrimSpace(roleID)
	if roleID == "" {
		return fmt.Errorf("%w: role id is required", ErrInvalidInput)
	}
	return s.store.Roles().Delete(ctx, roleID)
}

// ListRoles returns the role registry.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.store.Roles().List(ctx)
}

// GetRole returns a role by id.
func (s *Service) GetRole(ctx context.Context, roleID string) (*Role, error) {
	roleID = strings.TrimSpace(roleID)
	if roleID == "" {
		return nil, fmt.Errorf("%w: role id is required", ErrInvalidInput)
	}
	return s.store.Roles().Find(ctx, roleID)
}

// CreatePermission adds a catalog row.
func (s *Service) CreatePermission(ctx context.Context, name, description string) (*Permission, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: permission name is required", ErrInvalidInput)
	}
	perm := &Permission{Name: name, Description: strings.TrimSpace(description)}
	if err := s.store.Permissions().Create(ctx, perm); err != nil {
		return nil, err
	}
	return perm, nil
}

// UpdatePermission rewrites description and, for non-builtin rows, the name.
func (s *Service) UpdatePermission(ctx context.Context, permID string, name, description *string) (*Permission, error) {
	permID = strings.TrimSpace(permID)
	if permID == "" {
		return nil, fmt.Errorf("%w: permission id is required", ErrInvalidInput)
	}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: permission name is required", ErrInvalidInput)
		}
		name = &trimmed
	}
	return s.store.Permissions().Update(ctx, permID, name, description)
}

// DeletePermission removes a catalog row. Roles referencing it simply lose
// the capability.
func (s *Service) DeletePermission(ctx context.Context, permID string) error {
	permID = strings.TrimSpace(permID)
	if permID == "" {
		return fmt.Errorf("%w: permission id is required", ErrInvalidInput)
	}
	return s.store.Permissions().Delete(ctx, permID)
}

// ListPermissions returns the catalog.
func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.store.Permissions().List(ctx)
}

// GetPermission returns a catalog row by id.
func (s *Service) GetPermission(ctx context.Context, permID string) (*Permission, error) {
	permID = strings.TrimSpace(permID)
	if permID == "" {
		return nil, fmt.Errorf("%w: permission id is required", ErrInvalidInput)
	}
	return s.store.Permissions().Find(ctx, permID)
}

func (s *Service) validatePermissionIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.store.Permissions().ListByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) != len(ids) {
		return fmt.Errorf("%w: permission list contains unknown ids", ErrInvalidInput)
	}
	return nil
}

func dedupeStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := set[v]; ok {
			continue
		}
		set[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
