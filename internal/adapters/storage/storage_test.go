package storage

import "testing"

func TestValidateContentTypeIgnoresParameters(t *testing.T) {
	if err := ValidateContentType("application/PDF; charset=binary"); err != nil {
		t.Fatalf("expected pdf to be allowed, got %v", err)
	}
	if err := ValidateContentType("image/png"); err == nil {
		t.Fatal("expected image/png to be rejected")
	}
}

func TestValidateSize(t *testing.T) {
	if err := validateSize(0, 100); err == nil {
		t.Fatal("expected empty file to be rejected")
	}
	if err := validateSize(101, 100); err == nil {
		t.Fatal("expected oversized file to be rejected")
	}
	if err := validateSize(1<<30, 0); err != nil {
		t.Fatalf("expected unbounded size to pass, got %v", err)
	}
}

func TestObjectKey(t *testing.T) {
	if got := ObjectKey("/reports/2025/", "ab12cd34", "Rapport.pdf"); got != "reports/2025/ab12cd34/Rapport.pdf" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := ObjectKey("", "ab12cd34", "Rapport.pdf"); got != "ab12cd34/Rapport.pdf" {
		t.Fatalf("unexpected key %q", got)
	}
}
