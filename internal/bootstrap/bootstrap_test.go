package bootstrap

import (
	"context"
	"fmt"
	"testing"
	"time"

	"systemaide.org/internal/auth"
)

type seedStore struct {
	users map[string]*auth.User
	roles map[string]*auth.Role
	perms map[string]*auth.Permission
	seq   int
}

func newSeedStore() *seedStore {
	return &seedStore{
		users: map[string]*auth.User{},
		roles: map[string]*auth.Role{},
		perms: map[string]*auth.Permission{},
	}
}

func (s *seedStore) id(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *seedStore) Users() auth.UserStore             { return (*seedUsers)(s) }
func (s *seedStore) Roles() auth.RoleStore             { return (*seedRoles)(s) }
func (s *seedStore) Permissions() auth.PermissionStore { return (*seedPerms)(s) }

type seedUsers seedStore

func (s *seedUsers) Create(_ context.Context, u *auth.User) error {
	u.ID = (*seedStore)(s).id("user")
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *seedUsers) Find(_ context.Context, id string) (*auth.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *seedUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (s *seedUsers) List(_ context.Context) ([]auth.User, error) {
	var out []auth.User
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *seedUsers) Update(_ context.Context, id string, _ auth.UserUpdate) (*auth.User, error) {
	return s.Find(context.Background(), id)
}

func (s *seedUsers) Count(_ context.Context) (int, error) { return len(s.users), nil }

func (s *seedUsers) RecordFailedAttempt(_ context.Context, _ string) (int, error) { return 0, nil }
func (s *seedUsers) MarkSignedIn(_ context.Context, _ string) error               { return nil }
func (s *seedUsers) Block(_ context.Context, _ string) error                      { return nil }
func (s *seedUsers) Unblock(_ context.Context, _ string) error                    { return nil }

type seedRoles seedStore

func (s *seedRoles) Create(_ context.Context, r *auth.Role) error {
	r.ID = (*seedStore)(s).id("role")
	r.CreatedAt = time.Now().UTC()
	cp := *r
	s.roles[r.ID] = &cp
	return nil
}

func (s *seedRoles) Find(_ context.Context, id string) (*auth.Role, error) {
	r, ok := s.roles[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *seedRoles) FindByName(_ context.Context, name string) (*auth.Role, error) {
	for _, r := range s.roles {
		if r.Name == name {
			cp := *r
			return &cp, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (s *seedRoles) List(_ context.Context) ([]auth.Role, error) {
	var out []auth.Role
	for _, r := range s.roles {
		out = append(out, *r)
	}
	return out, nil
}

func (s *seedRoles) Update(_ context.Context, id string, _ *string, _ []string) (*auth.Role, error) {
	return s.Find(context.Background(), id)
}

func (s *seedRoles) Delete(_ context.Context, id string) error {
	delete(s.roles, id)
	return nil
}

func (s *seedRoles) Count(_ context.Context) (int, error) { return len(s.roles), nil }

type seedPerms seedStore

func (s *seedPerms) Create(_ context.Context, p *auth.Permission) error {
	p.ID = (*seedStore)(s).id("perm")
	cp := *p
	s.perms[p.ID] = &cp
	return nil
}

func (s *seedPerms) Find(_ context.Context, id string) (*auth.Permission, error) {
	p, ok := s.perms[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *seedPerms) List(_ context.Context) ([]auth.Permission, error) {
	var out []auth.Permission
	for _, p := range s.perms {
		out = append(out, *p)
	}
	return out, nil
}

func (s *seedPerms) ListByIDs(_ context.Context, ids []string) ([]auth.Permission, error) {
	var out []auth.Permission
	for _, id := range ids {
		if p, ok := s.perms[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *seedPerms) Update(_ context.Context, id string, _, _ *string) (*auth.Permission, error) {
	return s.Find(context.Background(), id)
}

func (s *seedPerms) Delete(_ context.Context, id string) error {
	delete(s.perms, id)
	return nil
}

func (s *seedPerms) Count(_ context.Context) (int, error) { return len(s.perms), nil }

func testConfig() Config {
	return Config{
		SysadminEmail:    "sysadmin.systemaide@gmail.com",
		SysadminPassword: "ChangeMe!123",
	}
}

func TestEnsureSeedsEmptyStore(t *testing.T) {
	store := newSeedStore()
	if err := Ensure(context.Background(), store, testConfig()); err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	if len(store.perms) != len(auth.BuiltinPermissions) {
		t.Fatalf("expected %d seeded permissions, got %d", len(auth.BuiltinPermissions), len(store.perms))
	}
	if len(store.roles) != 4 {
		t.Fatalf("expected 4 seeded roles, got %d", len(store.roles))
	}

	sysadmin, err := store.Roles().FindByName(context.Background(), auth.RoleSysadmin)
	if err != nil {
		t.Fatalf("sysadmin role missing: %v", err)
	}
	if len(sysadmin.Permissions) != len(auth.BuiltinPermissions) {
		t.Fatalf("sysadmin must own the whole catalog, got %d of %d",
			len(sysadmin.Permissions), len(auth.BuiltinPermissions))
	}
	regular, err := store.Roles().FindByName(context.Background(), auth.RoleRegular)
	if err != nil {
		t.Fatalf("regular role missing: %v", err)
	}
	if len(regular.Permissions) != 0 {
		t.Fatalf("regular role starts empty, got %d permissions", len(regular.Permissions))
	}

	if len(store.users) != 1 {
		t.Fatalf("expected 1 seeded user, got %d", len(store.users))
	}
	user, err := store.Users().FindByEmail(context.Background(), "sysadmin.systemaide@gmail.com")
	if err != nil {
		t.Fatalf("sysadmin user missing: %v", err)
	}
	if user.Role != auth.RoleSysadmin {
		t.Fatalf("unexpected role %s", user.Role)
	}
	if user.Status != auth.StatusInactive {
		t.Fatalf("sysadmin must start inactive, got %s", user.Status)
	}
	if err := auth.VerifyPassword(user.PasswordHash, "ChangeMe!123"); err != nil {
		t.Fatal("seeded password must verify")
	}
}

func TestEnsureIsIdempotent(t *testing.T) {
	store := newSeedStore()
	ctx := context.Background()
	if err := Ensure(ctx, store, testConfig()); err != nil {
		t.Fatalf("first Ensure: %v", err)
	}
	permCount, roleCount, userCount := len(store.perms), len(store.roles), len(store.users)

	if err := Ensure(ctx, store, testConfig()); err != nil {
		t.Fatalf("second Ensure: %v", err)
	}
	if len(store.perms) != permCount || len(store.roles) != roleCount || len(store.users) != userCount {
		t.Fatal("Ensure on a seeded store must be a no-op")
	}
}

func TestEnsureRequiresSysadminPasswordOnEmptyStore(t *testing.T) {
	store := newSeedStore()
	cfg := testConfig()
	cfg.SysadminPassword = ""
	if err := Ensure(context.Background(), store, cfg); err == nil {
		t.Fatal("expected an error without a sysadmin password")
	}
}
