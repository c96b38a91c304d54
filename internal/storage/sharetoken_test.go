package storage

import (
	"strings"
	"testing"
)

func TestGenerateShareToken(t *testing.T) {
	token, prefix, hash, err := GenerateShareToken()
	if err != nil {
		t.Fatalf("generate share token: %v", err)
	}

	if !strings.HasPrefix(token, ShareTokenPrefix) {
		t.Fatalf("token %q missing %q prefix", token, ShareTokenPrefix)
	}
	if wantLen := len(ShareTokenPrefix) + ShareTokenLength*2; len(token) != wantLen {
		t.Fatalf("token length = %d, want %d", len(token), wantLen)
	}
	if len(prefix) != shareTokenPrefixChars {
		t.Fatalf("prefix length = %d, want %d", len(prefix), shareTokenPrefixChars)
	}
	if !strings.HasPrefix(token, prefix) {
		t.Fatalf("prefix %q is not a prefix of token", prefix)
	}

	if !ValidateShareTokenHash(token, hash) {
		t.Fatal("hash does not validate its own token")
	}
	if ValidateShareTokenHash(token+"x", hash) {
		t.Fatal("hash validated a tampered token")
	}
}

func TestGenerateShareTokenUnique(t *testing.T) {
	a, _, _, err := GenerateShareToken()
	if err != nil {
		t.Fatal(err)
	}
	b, _, _, err := GenerateShareToken()
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("two generated tokens are identical")
	}
}
