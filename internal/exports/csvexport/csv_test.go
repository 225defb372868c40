package csvexport

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"sakkanal_backend/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteEscapesAndOrdersColumns(t *testing.T) {
	rows := []Row{
		{{"Nom", "Diop, Awa"}, {"Note", `dit "bonjour"`}, {"Montant", 1500.5}, {"Vide", nil}},
		{{"Montant", 10}, {"Nom", "Fall"}, {"Note", "ligne1\nligne2"}},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rows))

	want := BOM + "Nom,Note,Montant,Vide\n" +
		`"Diop, Awa","dit ""bonjour""",1500.5,` + "\n" +
		`Fall,"ligne1` + "\n" + `ligne2",10,`
	assert.Equal(t, want, buf.String())
	assert.False(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestWriteQuotesObjects(t *testing.T) {
	rows := []Row{{
		{"Liste", []string{"a", "b"}},
		{"Objet", map[string]int{"x": 1}},
		{"Brut", json.RawMessage(`{"id":"1"}`)},
		{"Nil", []string(nil)},
	}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rows))

	lines := strings.Split(strings.TrimPrefix(buf.String(), BOM), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"[""a"",""b""]","{""x"":1}","{""id"":""1""}",`, lines[1])
}

func TestWriteRejectsEmpty(t *testing.T) {
	err := Write(&bytes.Buffer{}, nil)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, MsgNoData, err.Error())
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "leads_2026-03-09.csv", Filename("leads", time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC)))
}

func TestLeadRows(t *testing.T) {
	power := 0.0
	points := 12
	created := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	rows := LeadRows([]Lead{{
		CreatedAt:            created,
		CompanyName:          "Sonatel",
		ContactName:          "Awa",
		Email:                "awa@example.sn",
		Phone:                "+221701234567",
		SiteType:             "bureau",
		ElectricityBill:      250000,
		InstallationPower:    &power,
		MeasurementPoints:    &points,
		Status:               "new",
		RecommendedScenarios: json.RawMessage(`["a"]`),
	}})
	require.Len(t, rows, 1)

	assert.Equal(t, []string{
		"Date création", "Entreprise", "Contact", "Email", "Téléphone", "Type de site",
		"Facture électricité (FCFA)", "Puissance installation (kW)", "Points de mesure",
		"Budget (FCFA)", "Statut", "Scénarios recommandés",
	}, rows[0].Headers())

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rows))
	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, `05/01/2026,Sonatel,Awa,awa@example.sn,+221701234567,bureau,250000,,12,,new,"[""a""]"`, lines[1])
}

func TestLeadRowsWithAnalytics(t *testing.T) {
	leads := []Lead{{
		ContactName:    "Awa",
		SpecificNeeds:  []string{"IA prédictive", "Pilotage à distance"},
		ZonesToMonitor: []string{"Atelier"},
		Interactions: []Interaction{
			{Type: "call", CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
			{Type: "email", CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
	}}

	withInteractions := LeadRowsWithAnalytics(leads, true)
	count, _ := withInteractions[0].Get("Nombre interactions")
	last, _ := withInteractions[0].Get("Dernière interaction")
	kind, _ := withInteractions[0].Get("Type dernière interaction")
	needs, _ := withInteractions[0].Get("Besoins")
	assert.Equal(t, 2, count)
	assert.Equal(t, "01/02/2026", last)
	assert.Equal(t, "call", kind)
	assert.Equal(t, "IA prédictive, Pilotage à distance", needs)

	without := LeadRowsWithAnalytics(leads, false)
	_, ok := without[0].Get("Nombre interactions")
	assert.False(t, ok)
}

func TestAnalyticsRows(t *testing.T) {
	rows := AnalyticsRows(Analytics{
		TotalLeads:     40,
		ConvertedLeads: 5,
		ConversionRate: 12.5,
		Sources:        []SourceCount{{Source: "questionnaire", Count: 30}},
		Visits:         &VisitStats{TotalVisits: 900, UniqueVisitors: 300},
	})
	require.Len(t, rows, 3)

	value, _ := rows[0].Get("Valeur")
	details, _ := rows[0].Get("Détails")
	assert.Equal(t, "12.5%", value)
	assert.Equal(t, "5 convertis sur 40 leads", details)

	metric, _ := rows[1].Get("Métrique")
	assert.Equal(t, "Source - questionnaire", metric)

	visits, _ := rows[2].Get("Détails")
	assert.Equal(t, "300 visiteurs uniques", visits)

	noVisits := AnalyticsRows(Analytics{ConversionRate: 10})
	require.Len(t, noVisits, 1)
	value, _ = noVisits[0].Get("Valeur")
	assert.Equal(t, "10%", value)
}

func TestSegmentSummaryRow(t *testing.T) {
	budget := 2_000_000.0
	row := SegmentSummaryRow(Segment{Name: "Industriels", Description: "Usines"}, []SegmentMember{
		{Status: "converted", Budget: &budget, ElectricityBill: 500_000},
		{Status: "new", ElectricityBill: 250_000},
		{Status: "lost", ElectricityBill: 250_000},
	})

	count, _ := row.Get("Nombre de leads")
	rate, _ := row.Get("Taux de conversion")
	total, _ := row.Get("Budget total")
	assert.Equal(t, 3, count)
	assert.Equal(t, "33.3%", rate)
	assert.True(t, strings.HasSuffix(total.(string), " FCFA"))
	assert.Equal(t, "2000000", digitsOnly(total.(string)))

	empty := SegmentSummaryRow(Segment{Name: "Vide"}, nil)
	rate, _ = empty.Get("Taux de conversion")
	assert.Equal(t, "0%", rate)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
