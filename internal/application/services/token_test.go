package services

import (
	"strings"
	"testing"
)

func TestGenerateSubscriptionToken_ShapeAndUniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		token, err := generateSubscriptionToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(token) != tokenLength {
			t.Fatalf("expected %d characters, got %d (%q)", tokenLength, len(token), token)
		}
		for _, ch := range token {
			if !strings.ContainsRune(tokenAlphabet, ch) {
				t.Fatalf("token %q contains %q outside the alphanumeric alphabet", token, ch)
			}
		}
		if _, dup := seen[token]; dup {
			t.Fatalf("duplicate token generated: %q", token)
		}
		seen[token] = struct{}{}
	}
}
