package format

import (
	"strings"
	"testing"
	"time"
	"unicode"
)

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

func TestFCFAGroupsThousands(t *testing.T) {
	got := FCFA(1250000.4)
	if !strings.HasSuffix(got, " FCFA") {
		t.Fatalf("expected FCFA suffix, got %q", got)
	}
	if digitsOnly(got) != "1250000" {
		t.Fatalf("expected digits 1250000, got %q", got)
	}
	if strings.HasPrefix(got, "1250000") {
		t.Fatalf("expected grouped digits, got %q", got)
	}
}

func TestNumberSmallValuesAreNotGrouped(t *testing.T) {
	if got := Number(999); got != "999" {
		t.Fatalf("expected 999, got %q", got)
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(33.333); got != "33.3%" {
		t.Fatalf("expected 33.3%%, got %q", got)
	}
}

func TestDate(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
	if got := Date(ts); got != "05/03/2024" {
		t.Fatalf("expected 05/03/2024, got %q", got)
	}
	if got := DateString("2024-03-05T10:00:00Z"); got != "05/03/2024" {
		t.Fatalf("expected 05/03/2024, got %q", got)
	}
	if got := DateString("bad"); got != "bad" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestRound(t *testing.T) {
	if got := Round(12.345, 1); got != 12.3 {
		t.Fatalf("expected 12.3, got %v", got)
	}
}
