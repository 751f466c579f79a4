package auth

import (
	"context"
	"testing"
)

func TestPrincipalContextRoundTrip(t *testing.T) {
	if _, ok := PrincipalFromContext(context.Background()); ok {
		t.Fatal("empty context yielded a principal")
	}

	user := &User{ID: "user-1", Email: "one@example.com", Role: RoleSysadmin}
	ctx := ContextWithPrincipal(context.Background(), NewPrincipal(user, nil))

	p, ok := PrincipalFromContext(ctx)
	if !ok || p.User == nil || p.User.ID != user.ID {
		t.Fatalf("principal round trip: ok=%v principal=%+v", ok, p)
	}
	id, ok := UserIDFromContext(ctx)
	if !ok || id != user.ID {
		t.Fatalf("UserIDFromContext: ok=%v id=%q", ok, id)
	}
}

func TestTokenContextRoundTrip(t *testing.T) {
	if _, ok := TokenFromContext(context.Background()); ok {
		t.Fatal("empty context yielded a token")
	}

	// Attaching an empty token is a no-op.
	ctx := ContextWithToken(context.Background(), "")
	if _, ok := TokenFromContext(ctx); ok {
		t.Fatal("empty token should not be attached")
	}

	ctx = ContextWithToken(context.Background(), "bearer-value")
	token, ok := TokenFromContext(ctx)
	if !ok || token != "bearer-value" {
		t.Fatalf("token round trip: ok=%v token=%q", ok, token)
	}
}
