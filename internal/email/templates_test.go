package email

import (
	"context"
	"strings"
	"testing"
)

func TestRenderHighValueLeadAlert(t *testing.T) {
	html, err := RenderHighValueLeadAlert(HighValueLeadAlert{
		RecipientName:       "Moussa",
		CompanyName:         "Sonatel <Dakar>",
		ContactName:         "Awa Ndiaye",
		Score:               87,
		ElectricityBill:     450000,
		CommercialPotential: 13500000,
		LeadURL:             "https://app.sakkanal.sn/admin/leads/42",
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	for _, want := range []string{"Bonjour Moussa", "Sonatel &lt;Dakar&gt;", "87/100", "FCFA", "https://app.sakkanal.sn/admin/leads/42"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected rendered email to contain %q", want)
		}
	}
}

func TestHighValueLeadSubjectFallsBackToContact(t *testing.T) {
	subject := highValueLeadSubject(HighValueLeadAlert{ContactName: "Awa Ndiaye", Score: 80})
	if !strings.Contains(subject, "Awa Ndiaye") || !strings.Contains(subject, "80") {
		t.Fatalf("unexpected subject %q", subject)
	}
}

func TestNewSenderWithoutSMTPIsNoop(t *testing.T) {
	sender, err := NewSender(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := sender.(NoopSender); !ok {
		t.Fatalf("expected NoopSender, got %T", sender)
	}
	if err := sender.SendHighValueLeadAlert(context.Background(), "admin@example.com", HighValueLeadAlert{}); err != nil {
		t.Fatalf("noop sender returned %v", err)
	}
}
