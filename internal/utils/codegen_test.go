package utils

import (
	"strings"
	"testing"
)

func TestGenerateReferralCode(t *testing.T) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := GenerateReferralCode()
		if err != nil {
			t.Fatalf("GenerateReferralCode: %v", err)
		}
		if len(code) != 8 {
			t.Fatalf("code %q, want 8 characters", code)
		}
		for _, r := range code {
			if !strings.ContainsRune(alphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
		seen[code] = true
	}
	// 100 draws from a 36^8 space colliding would mean a broken generator.
	if len(seen) < 100 {
		t.Errorf("got %d distinct codes out of 100", len(seen))
	}
}
