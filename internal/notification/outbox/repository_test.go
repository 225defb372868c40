package outbox

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestBackoffDoublesAndCaps(t *testing.T) {
	cases := map[int]time.Duration{
		0:  time.Minute,
		1:  time.Minute,
		2:  2 * time.Minute,
		3:  4 * time.Minute,
		6:  32 * time.Minute,
		10: 32 * time.Minute,
	}
	for attempts, want := range cases {
		if got := Backoff(attempts); got != want {
			t.Fatalf("Backoff(%d) = %s, want %s", attempts, got, want)
		}
	}
}

func TestRecordDecode(t *testing.T) {
	rec := Record{ID: uuid.New(), Payload: json.RawMessage(`{"to":"admin@sakkanal.sn"}`)}

	var payload struct {
		To string `json:"to"`
	}
	if err := rec.Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.To != "admin@sakkanal.sn" {
		t.Fatalf("unexpected recipient %q", payload.To)
	}

	if err := (Record{ID: uuid.New()}).Decode(&payload); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestNilRepositoryIsNotConfigured(t *testing.T) {
	var repo *Repository
	if _, err := repo.Insert(context.Background(), InsertParams{Kind: KindEmail, Template: "x"}); err == nil {
		t.Fatal("expected error from nil repository")
	}
	if err := repo.MarkSucceeded(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error from nil repository")
	}
}
