package bookings

import (
	"strings"
	"testing"
)

func TestGenerateRefCode(t *testing.T) {
	code, err := GenerateRefCode(8)
	if err != nil {
		t.Fatalf("GenerateRefCode returned error: %v", err)
	}
	if len(code) != 8 {
		t.Errorf("len = %d, want 8", len(code))
	}
	for _, ch := range code {
		if !strings.ContainsRune(refAlphabet, ch) {
			t.Errorf("code %q contains %q outside the alphabet", code, ch)
		}
	}
}

func TestGenerateRefCodeExcludesAmbiguousChars(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateRefCode(8)
		if err != nil {
			t.Fatalf("GenerateRefCode returned error: %v", err)
		}
		if strings.ContainsAny(code, "01IO") {
			t.Fatalf("code %q contains an ambiguous character", code)
		}
	}
}

func TestGenerateRefCodeInvalidLength(t *testing.T) {
	if _, err := GenerateRefCode(0); err == nil {
		t.Error("expected error for zero length")
	}
	if _, err := GenerateRefCode(-3); err == nil {
		t.Error("expected error for negative length")
	}
}

func TestGenerateRefCodeUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code, err := GenerateRefCode(8)
		if err != nil {
			t.Fatalf("GenerateRefCode returned error: %v", err)
		}
		if seen[code] {
			t.Fatalf("duplicate code %q after %d draws", code, i)
		}
		seen[code] = true
	}
}
