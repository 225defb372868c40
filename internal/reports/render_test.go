package reports

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"sakkanal_backend/internal/recommendation/engine"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performanceScenario() engine.Scenario {
	maxBudget := 10000000.0
	return engine.Scenario{
		ID:                uuid.New(),
		Name:              "Sakkanal  Performance",
		Category:          engine.CategoryStandard,
		MinBudget:         4000000,
		MaxBudget:         &maxBudget,
		EstimatedSavings:  25,
		EquipmentLifespan: 10,
		Description:       "Mesure par zone & pilotage à distance.",
		Products:          json.RawMessage(`[{"name":"Passerelle IoT","quantity":1},{"quantity":3}]`),
	}
}

func TestComputeSavings(t *testing.T) {
	s := ComputeSavings(1000000, performanceScenario())
	assert.Equal(t, 25.0, s.Rate)
	assert.Equal(t, 250000.0, s.Monthly)
	assert.Equal(t, 3000000.0, s.Annual)
	assert.Equal(t, 30000000.0, s.Total)
	assert.Equal(t, 10, s.Years)
}

func TestFileNameUnderscoresScenarioName(t *testing.T) {
	at := time.UnixMilli(1735732800123)
	assert.Equal(t, "Rapport_Sakkanal_Sakkanal_Performance_1735732800123.pdf", FileName("Sakkanal  Performance", at))
}

func TestLongDateIsFrench(t *testing.T) {
	assert.Equal(t, "05 août 2025", LongDate(time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC)))
}

func TestRenderHTMLContainsEverySection(t *testing.T) {
	in := Input{
		FullName: "Fatou Diop",
		Email:    "fatou@teranga.sn",
		Company:  "Hôtel Teranga",
		Questionnaire: engine.Questionnaire{
			SiteType:          "hotel",
			ElectricityBill:   1000000,
			InstallationPower: 120,
		},
	}
	out, err := RenderHTML(in, performanceScenario(), time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	html := string(out)

	for _, want := range []string{
		"RAPPORT ÉNERGÉTIQUE",
		"Bonjour <strong>Fatou Diop</strong>",
		"PROFIL ÉNERGÉTIQUE",
		"À définir",
		"SOLUTION RECOMMANDÉE",
		"Mesure par zone &amp; pilotage à distance.",
		"ÉCONOMIES ESTIMÉES",
		"Total sur 10 ans",
		"CARACTÉRISTIQUES TECHNIQUES",
		"Passerelle IoT",
		ContactEmail,
		ContactPhone,
		"data:image/png;base64,",
		"© 2025 INESIC",
		"14/03/2025",
	} {
		assert.Contains(t, html, want)
	}
	assert.NotContains(t, html, "ZgotmplZ")
}

func TestBuildViewDefaultsName(t *testing.T) {
	view := buildView(Input{FullName: "  "}, performanceScenario(), time.Now())
	assert.Equal(t, "Client", view.FullName)
	assert.Len(t, view.Products, 1)
	assert.Equal(t, "Standard", view.Technical[1].Value)
}

func TestBudgetOrUnset(t *testing.T) {
	assert.Equal(t, "Non spécifié", budgetOrUnset(0))
	assert.True(t, strings.HasSuffix(budgetOrUnset(4000000), " FCFA"))
}
