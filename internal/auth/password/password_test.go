package password

import "testing"

func TestHashAndCompare(t *testing.T) {
	hash, err := Hash("S3cure!pass")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "S3cure!pass" {
		t.Fatalf("expected hash to differ from plain text")
	}
	if err := Compare(hash, "S3cure!pass"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := Compare(hash, "wrong"); err == nil {
		t.Fatalf("expected mismatch error")
	}
}
