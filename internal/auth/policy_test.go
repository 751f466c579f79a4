package auth

import (
	"errors"
	"strings"
	"testing"
)

func principalWith(role string, perms ...string) Principal {
	list := make([]Permission, 0, len(perms))
	for _, p := range perms {
		list = append(list, Permission{Name: p})
	}
	return NewPrincipal(&User{ID: "u1", Role: role, Status: StatusActive}, list)
}

func TestRoleAtLeastExactMatch(t *testing.T) {
	if err := RoleAtLeast(RoleManager)(principalWith(RoleManager)); err != nil {
		t.Fatalf("manager should pass manager gate: %v", err)
	}
}

func TestRoleAtLeastSysadminPassesEveryGate(t *testing.T) {
	p := principalWith(RoleSysadmin)
	for _, role := range []string{RoleAdmin, RoleManager, RoleRegular, RoleSysadmin} {
		if err := RoleAtLeast(role)(p); err != nil {
			t.Fatalf("sysadmin should pass %s gate: %v", role, err)
		}
	}
}

func TestRoleAtLeastIsNotRankBased(t *testing.T) {
	// admin outranks manager informally, but the gate is membership.
	err := RoleAtLeast(RoleManager)(principalWith(RoleAdmin))
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("admin must not pass manager gate, got %v", err)
	}
}

func TestHasPermissionReportsMissingCapability(t *testing.T) {
	err := HasPermission(PermDeleteAgent)(principalWith(RoleRegular, PermViewAllAgents))
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if !strings.Contains(err.Error(), PermDeleteAgent) {
		t.Fatalf("denial should name the missing capability: %v", err)
	}
}

func TestAllOfDeniesWhenAnyPredicateFails(t *testing.T) {
	p := principalWith(RoleRegular, PermDeleteTransactionLog)
	policy := AllOf(RoleAtLeast(RoleSysadmin), HasPermission(PermDeleteTransactionLog))
	if err := policy(p); !errors.Is(err, ErrForbidden) {
		t.Fatalf("regular role must fail the sysadmin gate, got %v", err)
	}

	p = principalWith(RoleSysadmin)
	if err := policy(p); !errors.Is(err, ErrForbidden) {
		t.Fatalf("missing permission must still deny, got %v", err)
	}

	p = principalWith(RoleSysadmin, PermDeleteTransactionLog)
	if err := policy(p); err != nil {
		t.Fatalf("both predicates satisfied, got %v", err)
	}
}
