package analytics

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SourceCount is the number of leads per acquisition source.
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// VisitStats summarises the tracked page visits.
type VisitStats struct {
	TotalVisits    int `json:"totalVisits"`
	UniqueVisitors int `json:"uniqueVisitors"`
}

// Visit is one tracked page view from the public site.
type Visit struct {
	Path      string
	VisitorID string
	Referrer  *string
}

// Store is the read model the analytics service aggregates.
type Store interface {
	MonthlyTrends(ctx context.Context, months int) ([]MonthlyTrend, error)
	LeadTotals(ctx context.Context) (total int, converted int, err error)
	LeadsBySource(ctx context.Context) ([]SourceCount, error)
	LeadsByStatus(ctx context.Context) (map[string]int, error)
	VisitStats(ctx context.Context) (VisitStats, error)
	RecordVisit(ctx context.Context, v Visit) error
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// MonthlyTrends returns the latest months that have leads, oldest first.
// Months without any lead are not buckets, so a quiet period does not shorten the series.
func (r *Repository) MonthlyTrends(ctx context.Context, months int) ([]MonthlyTrend, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT period, new_leads, contacted, qualified, converted
		FROM (
			SELECT to_char(date_trunc('month', created_at), 'YYYY-MM') AS period,
				COUNT(*) AS new_leads,
				COUNT(*) FILTER (WHERE status = 'contacted') AS contacted,
				COUNT(*) FILTER (WHERE status = 'qualified') AS qualified,
				COUNT(*) FILTER (WHERE status = 'converted') AS converted
			FROM leads
			GROUP BY period
			ORDER BY period DESC
			LIMIT $1
		) latest
		ORDER BY period ASC`, months)
	if err != nil {
		return nil, fmt.Errorf("monthly trends: %w", err)
	}
	defer rows.Close()

	var trends []MonthlyTrend
	for rows.Next() {
		var t MonthlyTrend
		if err := rows.Scan(&t.Period, &t.NewLeads, &t.Contacted, &t.Qualified, &t.Converted); err != nil {
			return nil, fmt.Errorf("scan monthly trend: %w", err)
		}
		trends = append(trends, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly trends: %w", err)
	}
	return trends, nil
}

func (r *Repository) LeadTotals(ctx context.Context) (int, int, error) {
	var total, converted int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'converted')
		FROM leads`).Scan(&total, &converted)
	if err != nil {
		return 0, 0, fmt.Errorf("lead totals: %w", err)
	}
	return total, converted, nil
}

func (r *Repository) LeadsBySource(ctx context.Context) ([]SourceCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT source, COUNT(*)
		FROM leads
		GROUP BY source
		ORDER BY COUNT(*) DESC, source ASC`)
	if err != nil {
		return nil, fmt.Errorf("leads by source: %w", err)
	}
	defer rows.Close()

	var out []SourceCount
	for rows.Next() {
		var s SourceCount
		if err := rows.Scan(&s.Source, &s.Count); err != nil {
			return nil, fmt.Errorf("scan leads by source: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads by source: %w", err)
	}
	return out, nil
}

func (r *Repository) LeadsByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM leads GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("leads by status: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan leads by status: %w", err)
		}
		out[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads by status: %w", err)
	}
	return out, nil
}

func (r *Repository) VisitStats(ctx context.Context) (VisitStats, error) {
	var stats VisitStats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT visitor_id)
		FROM page_visits`).Scan(&stats.TotalVisits, &stats.UniqueVisitors)
	if err != nil {
		return VisitStats{}, fmt.Errorf("visit stats: %w", err)
	}
	return stats, nil
}

func (r *Repository) RecordVisit(ctx context.Context, v Visit) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO page_visits (path, visitor_id, referrer)
		VALUES ($1, $2, $3)`, v.Path, v.VisitorID, v.Referrer)
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

var _ Store = (*Repository)(nil)
