package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewWithWriterUsesJSONOutsideDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)
	log.Info("lead created", "id", "abc")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "lead created" || entry["id"] != "abc" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestDevelopmentLoggerEmitsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("development", &buf)
	log.Debug("scoring", "score", 42)

	if !strings.Contains(buf.String(), "score=42") {
		t.Fatalf("expected debug text line, got %q", buf.String())
	}
}

func TestWithContextAddsRequestAndUser(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, UserIDKey, "admin-1")
	log.WithContext(ctx).Info("hello")

	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-1"`) || !strings.Contains(out, `"user_id":"admin-1"`) {
		t.Fatalf("missing context attributes: %s", out)
	}
}

func TestWebhookDeliveryFailureIsWarn(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)
	log.WebhookDelivery("int-1", "https://crm.example.com/hook", 502, errors.New("bad gateway"))

	if !strings.Contains(buf.String(), `"level":"WARN"`) {
		t.Fatalf("expected WARN level, got %s", buf.String())
	}
}
