package reports

import (
	"bytes"
	"embed"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"sakkanal_backend/internal/recommendation/engine"
	"sakkanal_backend/platform/format"

	"github.com/skip2/go-qrcode"
)

// Company contact details printed on every report.
const (
	ContactEmail   = "contact@inesic.com"
	ContactPhone   = "+221 78 962 54 39"
	ContactAddress = "Dakar, Sénégal"
	Website        = "www.inesic.com"
)

//go:embed templates/report.html
var templateFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html"))

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

var highlights = []string{
	"Solution adaptée à votre profil énergétique",
	"Installation et maintenance incluses",
	"Garantie constructeur étendue",
	"Accompagnement personnalisé",
}

type labelValue struct {
	Label string
	Value string
}

type productLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type reportView struct {
	FullName      string
	Company       string
	GeneratedOn   string
	GeneratedDate string
	Year          int
	Scenario      engine.Scenario
	Profile       []labelValue
	Highlights    []string
	Savings       []labelValue
	Technical     []labelValue
	Products      []productLine
	Contacts      []labelValue
	Website       string
	QRCode        template.URL
}

// Savings is the projected savings of a scenario for a monthly bill.
type Savings struct {
	Rate    float64 `json:"rate"`
	Monthly float64 `json:"monthly"`
	Annual  float64 `json:"annual"`
	Total   float64 `json:"total"`
	Years   int     `json:"years"`
}

// ComputeSavings applies the scenario savings rate to the bill over the equipment lifespan.
func ComputeSavings(bill float64, sc engine.Scenario) Savings {
	monthly := bill * sc.EstimatedSavings / 100
	annual := monthly * 12
	return Savings{
		Rate:    sc.EstimatedSavings,
		Monthly: math.Round(monthly),
		Annual:  math.Round(annual),
		Total:   math.Round(annual * float64(sc.EquipmentLifespan)),
		Years:   sc.EquipmentLifespan,
	}
}

// FileName builds the download name of a report generated at t.
func FileName(scenarioName string, t time.Time) string {
	name := strings.Join(strings.Fields(scenarioName), "_")
	return fmt.Sprintf("Rapport_Sakkanal_%s_%d.pdf", name, t.UnixMilli())
}

// LongDate renders t as "19 octobre 2026".
func LongDate(t time.Time) string {
	return fmt.Sprintf("%02d %s %d", t.Day(), frenchMonths[t.Month()-1], t.Year())
}

// RenderHTML renders the energy report for input at time now.
func RenderHTML(in Input, sc engine.Scenario, now time.Time) ([]byte, error) {
	view := buildView(in, sc, now)

	qr, err := qrcode.Encode("https://"+Website, qrcode.Medium, 220)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	view.QRCode = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(qr))

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

func buildView(in Input, sc engine.Scenario, now time.Time) reportView {
	q := in.Questionnaire
	savings := ComputeSavings(q.ElectricityBill, sc)

	budget := "À définir"
	if q.Budget > 0 {
		budget = format.FCFA(q.Budget)
	}

	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		fullName = "Client"
	}

	return reportView{
		FullName:      fullName,
		Company:       in.Company,
		GeneratedOn:   LongDate(now),
		GeneratedDate: format.Date(now),
		Year:          now.Year(),
		Scenario:      sc,
		Profile: []labelValue{
			{"Type de site", q.SiteType},
			{"Facture mensuelle", format.FCFA(q.ElectricityBill)},
			{"Puissance installée", format.Number(q.InstallationPower) + " kW"},
			{"Budget disponible", budget},
		},
		Highlights: highlights,
		Savings: []labelValue{
			{"Taux d'économie", fmt.Sprintf("%g%%", savings.Rate)},
			{"Économies mensuelles", format.FCFA(savings.Monthly)},
			{"Économies annuelles", format.FCFA(savings.Annual)},
			{fmt.Sprintf("Total sur %d ans", savings.Years), format.FCFA(savings.Total)},
		},
		Technical: []labelValue{
			{"Durée de vie des équipements", fmt.Sprintf("%d ans", sc.EquipmentLifespan)},
			{"Catégorie de solution", capitalize(sc.Category)},
			{"Budget minimum recommandé", budgetOrUnset(sc.MinBudget)},
			{"Budget maximum recommandé", budgetOrUnset(deref(sc.MaxBudget))},
		},
		Products: decodeProducts(sc.Products),
		Contacts: []labelValue{
			{"Email", ContactEmail},
			{"Téléphone", ContactPhone},
			{"Adresse", ContactAddress},
			{"Web", Website},
		},
		Website: Website,
	}
}

func decodeProducts(raw json.RawMessage) []productLine {
	if len(raw) == 0 {
		return nil
	}
	var lines []productLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil
	}
	out := lines[:0]
	for _, l := range lines {
		if l.Name != "" {
			out = append(out, l)
		}
	}
	return out
}

func budgetOrUnset(v float64) string {
	if v <= 0 {
		return "Non spécifié"
	}
	return format.FCFA(v)
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
