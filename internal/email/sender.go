package email

import (
	"context"

	"sakkanal_backend/platform/config"
)

// Attachment represents a file attachment for an email.
type Attachment struct {
	Content  []byte // raw file bytes
	FileName string // e.g. "Rapport_Sakkanal_Pack_Premium.pdf"
	MIMEType string // e.g. "application/pdf"
}

// HighValueLeadAlert is the content of the hot lead email sent to admins.
type HighValueLeadAlert struct {
	RecipientName       string
	CompanyName         string
	ContactName         string
	Email               string
	Phone               string
	Score               int
	ElectricityBill     float64
	CommercialPotential float64
	LeadURL             string
}

type Sender interface {
	SendHighValueLeadAlert(ctx context.Context, toEmail string, alert HighValueLeadAlert) error
	SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string, attachments ...Attachment) error
}

type NoopSender struct{}

func (NoopSender) SendHighValueLeadAlert(ctx context.Context, toEmail string, alert HighValueLeadAlert) error {
	return nil
}

func (NoopSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string, attachments ...Attachment) error {
	return nil
}

// NewSender returns an SMTP sender when SMTP is configured, and a no-op sender otherwise.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if cfg == nil || !cfg.IsSMTPEnabled() {
		return NoopSender{}, nil
	}

	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}
