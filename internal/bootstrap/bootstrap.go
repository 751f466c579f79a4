// Package bootstrap seeds the permission catalog, the role registry
// and the initial sysadmin account on an empty store. Every seed step
// is guarded by a count==0 check, so Ensure is safe to run on every
// start; a concurrent double-seed at worst creates duplicates the
// unique indexes reject.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"systemaide.org/internal/audit"
	"systemaide.org/internal/auth"
)

// Config carries the sysadmin seed identity.
type Config struct {
	SysadminEmail    string
	SysadminPassword string
}

// Ensure seeds an empty store. Seeded roles: sysadmin owns the whole
// catalog, the other three start empty. The seeded sysadmin user is
// inactive until its first sign-in.
func Ensure(ctx context.Context, store auth.Store, cfg Config) error {
	if store == nil {
		return errors.New("bootstrap: store is required")
	}
	if err := ensurePermissions(ctx, store); err != nil {
		return fmt.Errorf("seed permissions: %w", err)
	}
	if err := ensureRoles(ctx, store); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	if err := ensureSysadmin(ctx, store, cfg); err != nil {
		return fmt.Errorf("seed sysadmin: %w", err)
	}
	return nil
}

func ensurePermissions(ctx context.Context, store auth.Store) error {
	n, err := store.Permissions().Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, builtin := range auth.BuiltinPermissions {
		perm := builtin
		if err := store.Permissions().Create(ctx, &perm); err != nil {
			return err
		}
	}
	_ = audit.LogEvent(ctx, "bootstrap.permissions", map[string]any{
		"count": len(auth.BuiltinPermissions),
	})
	return nil
}

func ensureRoles(ctx context.Context, store auth.Store) error {
	n, err := store.Roles().Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	perms, err := store.Permissions().List(ctx)
	if err != nil {
		return err
	}
	allPermIDs := make([]string, 0, len(perms))
	for _, p := range perms {
		allPermIDs = append(allPermIDs, p.ID)
	}
	seeds := []auth.Role{
		{Name: auth.RoleSysadmin, Permissions: allPermIDs},
		{Name: auth.RoleAdmin},
		{Name: auth.RoleManager},
		{Name: auth.RoleRegular},
	}
	for i := range seeds {
		if err := store.Roles().Create(ctx, &seeds[i]); err != nil {
			return err
		}
	}
	_ = audit.LogEvent(ctx, "bootstrap.roles", map[string]any{"count": len(seeds)})
	return nil
}

func ensureSysadmin(ctx context.Context, store auth.Store, cfg Config) error {
	n, err := store.Users().Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	email := strings.TrimSpace(strings.ToLower(cfg.SysadminEmail))
	if email == "" {
		return errors.New("sysadmin email is required on an empty store")
	}
	if len(cfg.SysadminPassword) < 8 {
		return errors.New("sysadmin password of at least 8 characters is required on an empty store")
	}
	hash, err := auth.HashPassword(cfg.SysadminPassword)
	if err != nil {
		return err
	}
	user := &auth.User{
		FirstName:    "System",
		LastName:     "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         auth.RoleSysadmin,
		Status:       auth.StatusInactive,
	}
	if err := store.Users().Create(ctx, user); err != nil {
		return err
	}
	_ = audit.LogEvent(ctx, "bootstrap.sysadmin", map[string]any{"email": email})
	return nil
}
