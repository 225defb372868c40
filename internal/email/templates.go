package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"sakkanal_backend/platform/format"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

type highValueLeadEmailData struct {
	baseEmailData
	RecipientName       string
	CompanyName         string
	ContactName         string
	Email               string
	Phone               string
	Score               int
	ElectricityBill     string
	CommercialPotential string
}

// RenderHighValueLeadAlert renders the hot lead email body.
func RenderHighValueLeadAlert(alert HighValueLeadAlert) (string, error) {
	return renderEmailTemplate("high_value_lead.html", highValueLeadEmailData{
		baseEmailData: baseEmailData{
			Title:      "Nouveau lead prioritaire",
			Heading:    "Nouveau lead prioritaire",
			Subheading: "Un prospect à fort potentiel vient de remplir le questionnaire.",
			CTALabel:   "Ouvrir la fiche lead",
			CTAURL:     alert.LeadURL,
		},
		RecipientName:       alert.RecipientName,
		CompanyName:         alert.CompanyName,
		ContactName:         alert.ContactName,
		Email:               alert.Email,
		Phone:               alert.Phone,
		Score:               alert.Score,
		ElectricityBill:     format.FCFA(alert.ElectricityBill),
		CommercialPotential: format.FCFA(alert.CommercialPotential),
	})
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}
