package phone

import "testing"

func TestNormalizeE164Senegal(t *testing.T) {
	got := NormalizeE164("70 123 45 67", "SN")
	if got != "+221701234567" {
		t.Fatalf("expected +221701234567, got %q", got)
	}
}

func TestNormalizeE164DefaultsRegion(t *testing.T) {
	got := NormalizeE164("701234567", "")
	if got != "+221701234567" {
		t.Fatalf("expected +221701234567, got %q", got)
	}
}

func TestNormalizeE164KeepsUnparseableInput(t *testing.T) {
	got := NormalizeE164("  not a number ", "SN")
	if got != "not a number" {
		t.Fatalf("expected trimmed input, got %q", got)
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid("+221 70 123 45 67", "SN") {
		t.Fatalf("expected number to be valid")
	}
	if IsValid("123", "SN") {
		t.Fatalf("expected short number to be invalid")
	}
}
