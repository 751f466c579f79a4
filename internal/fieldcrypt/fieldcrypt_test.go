package fieldcrypt

import "testing"

func TestRoundTrip(t *testing.T) {
	codec, err := NewCodec("test-secret")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	enc, err := codec.Encrypt("123-456-789-000")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if enc == "" || enc == "123-456-789-000" {
		t.Fatalf("ciphertext must differ from plaintext: %q", enc)
	}
	if got := codec.Decrypt(enc); got != "123-456-789-000" {
		t.Fatalf("round trip failed: %q", got)
	}
}

func TestEmptyValuesPassThrough(t *testing.T) {
	codec, _ := NewCodec("test-secret")
	enc, err := codec.Encrypt("")
	if err != nil || enc != "" {
		t.Fatalf("empty plaintext should stay empty: %q %v", enc, err)
	}
	if codec.Decrypt("") != "" {
		t.Fatal("empty ciphertext should stay empty")
	}
}

func TestDecryptFallsBackToEmpty(t *testing.T) {
	codec, _ := NewCodec("test-secret")
	other, _ := NewCodec("rotated-secret")

	enc, _ := codec.Encrypt("987-654-321-000")
	if got := other.Decrypt(enc); got != "" {
		t.Fatalf("wrong key must yield empty string, got %q", got)
	}
	if got := codec.Decrypt("not base64 at all"); got != "" {
		t.Fatalf("garbage must yield empty string, got %q", got)
	}
}

func TestNewCodecRequiresSecret(t *testing.T) {
	if _, err := NewCodec(""); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
