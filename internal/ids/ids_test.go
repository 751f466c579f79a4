package ids

import "testing"

func TestNewProducesValidSortedIDs(t *testing.T) {
	a := New()
	b := New()
	if !IsValid(a) || !IsValid(b) {
		t.Fatalf("generated ids must be valid: %q %q", a, b)
	}
	if a >= b {
		t.Fatalf("ids must be monotonically increasing: %q then %q", a, b)
	}
}

func TestIsValidRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "not-an-id", "123", "680abc"} {
		if IsValid(raw) {
			t.Fatalf("expected %q to be invalid", raw)
		}
	}
}
