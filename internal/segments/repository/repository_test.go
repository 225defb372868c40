package repository

import (
	"testing"
	"time"
)

func TestBuildCriteriaWhereEmpty(t *testing.T) {
	where, args, next := BuildCriteriaWhere(Criteria{}, time.Now())
	if where != "1=1" {
		t.Fatalf("expected no filter, got %q", where)
	}
	if len(args) != 0 || next != 1 {
		t.Fatalf("expected no args and next index 1, got %d args and %d", len(args), next)
	}
}

func TestBuildCriteriaWhereAllFields(t *testing.T) {
	minScore := 60
	minBudget := 500000.0
	inactive := 14
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	where, args, next := BuildCriteriaWhere(Criteria{
		MinScore:     &minScore,
		Status:       []string{"new", "contacted"},
		MinBudget:    &minBudget,
		SiteTypes:    []string{"industriel"},
		InactiveDays: &inactive,
	}, now)

	expected := "1=1 AND l.score >= $1 AND l.status = ANY($2) AND COALESCE(l.budget, 0) >= $3 AND l.site_type = ANY($4) AND l.updated_at <= $5"
	if where != expected {
		t.Fatalf("unexpected clause:\n got %s\nwant %s", where, expected)
	}
	if next != 6 {
		t.Fatalf("expected next index 6, got %d", next)
	}
	cutoff, ok := args[4].(time.Time)
	if !ok {
		t.Fatalf("expected time argument, got %T", args[4])
	}
	if want := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC); !cutoff.Equal(want) {
		t.Fatalf("expected cutoff %s, got %s", want, cutoff)
	}
}
