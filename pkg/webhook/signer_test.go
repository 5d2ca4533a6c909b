package webhook

import (
	"strings"
	"testing"
)

func TestSignAndVerify(t *testing.T) {
	secret := "test-secret"
	payload := []byte(`{"type":"recording.completed"}`)

	sig := Sign(secret, payload)
	if !strings.HasPrefix(sig, "sha256=") {
		t.Errorf("signature %q missing sha256= prefix", sig)
	}

	if !Verify(secret, payload, sig) {
		t.Error("Verify should accept a correct signature")
	}
	if Verify("wrong-secret", payload, sig) {
		t.Error("Verify should reject a wrong secret")
	}
	if Verify(secret, []byte("tampered"), sig) {
		t.Error("Verify should reject a tampered payload")
	}
	if Verify(secret, payload, "sha256=deadbeef") {
		t.Error("Verify should reject a forged signature")
	}
}

func TestSignDeterministic(t *testing.T) {
	payload := []byte("same payload")
	if Sign("s", payload) != Sign("s", payload) {
		t.Error("signing the same payload twice should match")
	}
	if Sign("s1", payload) == Sign("s2", payload) {
		t.Error("different secrets should produce different signatures")
	}
}

func TestGenerateSecret(t *testing.T) {
	a, err := GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret: %v", err)
	}
	b, err := GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret: %v", err)
	}
	if len(a) != 64 {
		t.Errorf("secret length = %d, want 64 hex chars", len(a))
	}
	if a == b {
		t.Error("two generated secrets should differ")
	}
}
