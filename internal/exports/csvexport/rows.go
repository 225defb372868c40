package csvexport

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"sakkanal_backend/platform/format"
)

// Lead is the lead data needed by the lead exports.
type Lead struct {
	CreatedAt            time.Time
	CompanyName          string
	ContactName          string
	Email                string
	Phone                string
	SiteType             string
	ElectricityBill      float64
	InstallationPower    *float64
	MeasurementPoints    *int
	Budget               *float64
	Status               string
	RecommendedScenarios json.RawMessage
	SpecificNeeds        []string
	ZonesToMonitor       []string
	Interactions         []Interaction
}

// Interaction is one contact of a lead, newest first.
type Interaction struct {
	Type      string
	CreatedAt time.Time
}

// LeadRows formats leads with French column labels.
func LeadRows(leads []Lead) []Row {
	rows := make([]Row, 0, len(leads))
	for _, l := range leads {
		row := baseLeadRow(l)
		row = append(row, Field{"Statut", l.Status})
		var recommended any = ""
		if len(l.RecommendedScenarios) > 0 && string(l.RecommendedScenarios) != "null" {
			recommended = string(l.RecommendedScenarios)
		}
		row = append(row, Field{"Scénarios recommandés", recommended})
		rows = append(rows, row)
	}
	return rows
}

// LeadRowsWithAnalytics adds needs and zones, and interaction stats when requested.
func LeadRowsWithAnalytics(leads []Lead, includeInteractions bool) []Row {
	rows := make([]Row, 0, len(leads))
	for _, l := range leads {
		row := baseLeadRow(l)
		row = append(row,
			Field{"Statut", l.Status},
			Field{"Besoins", strings.Join(l.SpecificNeeds, ", ")},
			Field{"Zones surveillance", strings.Join(l.ZonesToMonitor, ", ")},
		)
		if includeInteractions {
			last, lastType := "", ""
			if len(l.Interactions) > 0 {
				last = format.Date(l.Interactions[0].CreatedAt)
				lastType = l.Interactions[0].Type
			}
			row = append(row,
				Field{"Nombre interactions", len(l.Interactions)},
				Field{"Dernière interaction", last},
				Field{"Type dernière interaction", lastType},
			)
		}
		rows = append(rows, row)
	}
	return rows
}

func baseLeadRow(l Lead) Row {
	return Row{
		{"Date création", format.Date(l.CreatedAt)},
		{"Entreprise", l.CompanyName},
		{"Contact", l.ContactName},
		{"Email", l.Email},
		{"Téléphone", l.Phone},
		{"Type de site", l.SiteType},
		{"Facture électricité (FCFA)", l.ElectricityBill},
		{"Puissance installation (kW)", optionalFloat(l.InstallationPower)},
		{"Points de mesure", optionalInt(l.MeasurementPoints)},
		{"Budget (FCFA)", optionalFloat(l.Budget)},
	}
}

func optionalFloat(v *float64) any {
	if v == nil || *v == 0 {
		return ""
	}
	return *v
}

func optionalInt(v *int) any {
	if v == nil || *v == 0 {
		return ""
	}
	return *v
}

// Analytics is the summary exported from the trends page.
type Analytics struct {
	TotalLeads     int
	ConvertedLeads int
	ConversionRate float64
	Sources        []SourceCount
	Visits         *VisitStats
}

// SourceCount is the number of leads per acquisition source.
type SourceCount struct {
	Source string
	Count  int
}

// VisitStats summarises tracked page visits.
type VisitStats struct {
	TotalVisits    int
	UniqueVisitors int
}

// AnalyticsRows formats the analytics summary as Métrique/Valeur/Détails rows.
func AnalyticsRows(a Analytics) []Row {
	rows := []Row{{
		{"Métrique", "Taux de conversion"},
		{"Valeur", fmt.Sprintf("%s%%", trimFloat(a.ConversionRate))},
		{"Détails", fmt.Sprintf("%d convertis sur %d leads", a.ConvertedLeads, a.TotalLeads)},
	}}
	for _, s := range a.Sources {
		rows = append(rows, Row{
			{"Métrique", "Source - " + s.Source},
			{"Valeur", s.Count},
			{"Détails", "Nombre de leads"},
		})
	}
	if a.Visits != nil {
		rows = append(rows, Row{
			{"Métrique", "Visites totales"},
			{"Valeur", a.Visits.TotalVisits},
			{"Détails", fmt.Sprintf("%d visiteurs uniques", a.Visits.UniqueVisitors)},
		})
	}
	return rows
}

// Segment is the segment data needed by the summary row.
type Segment struct {
	Name        string
	Description string
}

// SegmentMember is the lead data aggregated by the summary row.
type SegmentMember struct {
	Status          string
	Budget          *float64
	ElectricityBill float64
}

// SegmentSummaryRow aggregates the members of a segment into one row.
func SegmentSummaryRow(segment Segment, members []SegmentMember) Row {
	conversion := "0%"
	var budget, bills float64
	converted := 0
	for _, m := range members {
		if m.Status == "converted" {
			converted++
		}
		if m.Budget != nil {
			budget += *m.Budget
		}
		bills += m.ElectricityBill
	}
	if len(members) > 0 {
		conversion = fmt.Sprintf("%.1f%%", float64(converted)/float64(len(members))*100)
	}

	return Row{
		{"Nom du segment", segment.Name},
		{"Description", segment.Description},
		{"Nombre de leads", len(members)},
		{"Taux de conversion", conversion},
		{"Budget total", format.FCFA(budget)},
		{"Facture électricité totale", format.FCFA(bills)},
	}
}

func trimFloat(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", v), "0"), ".")
}
