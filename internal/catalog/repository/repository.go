package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"sakkanal_backend/platform/apperr"
)

const (
	productNotFoundMessage  = "product not found"
	scenarioNotFoundMessage = "scenario not found"
	// ScenarioInUseMessage is returned when leads still point at a scenario.
	ScenarioInUseMessage = "ce scénario est utilisé par des leads"

	productColumns  = `id, name, category, description, price, technical_specs, performance_data, created_at, updated_at`
	scenarioColumns = `id, name, category, site_types, min_budget, max_budget, products, estimated_savings, equipment_lifespan, description, created_at, updated_at`

	// scenarioOrder keeps economique, standard, premium in offer order.
	scenarioOrder = `CASE category WHEN 'economique' THEN 1 WHEN 'standard' THEN 2 ELSE 3 END, min_budget ASC, name ASC`
)

// Repo implements the catalog repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	var createdAt, updatedAt time.Time
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Description, &p.Price,
		&p.TechnicalSpecs, &p.PerformanceData, &createdAt, &updatedAt); err != nil {
		return Product{}, err
	}
	p.CreatedAt = createdAt.Format(time.RFC3339)
	p.UpdatedAt = updatedAt.Format(time.RFC3339)
	return p, nil
}

func scanScenario(row pgx.Row) (Scenario, error) {
	var s Scenario
	var createdAt, updatedAt time.Time
	if err := row.Scan(&s.ID, &s.Name, &s.Category, &s.SiteTypes, &s.MinBudget, &s.MaxBudget,
		&s.Products, &s.EstimatedSavings, &s.EquipmentLifespan, &s.Description, &createdAt, &updatedAt); err != nil {
		return Scenario{}, err
	}
	if s.SiteTypes == nil {
		s.SiteTypes = []string{}
	}
	s.CreatedAt = createdAt.Format(time.RFC3339)
	s.UpdatedAt = updatedAt.Format(time.RFC3339)
	return s, nil
}

func jsonOrDefault(raw json.RawMessage, fallback string) []byte {
	if len(raw) == 0 {
		return []byte(fallback)
	}
	return raw
}

// CreateProduct creates a product.
func (r *Repo) CreateProduct(ctx context.Context, params CreateProductParams) (Product, error) {
	query := `
		INSERT INTO products (name, category, description, price, technical_specs, performance_data)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + productColumns

	product, err := scanProduct(r.pool.QueryRow(ctx, query,
		params.Name, params.Category, params.Description, params.Price,
		jsonOrDefault(params.TechnicalSpecs, "{}"), jsonOrDefault(params.PerformanceData, "{}"),
	))
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

// UpdateProduct updates a product.
func (r *Repo) UpdateProduct(ctx context.Context, params UpdateProductParams) (Product, error) {
	var specs, perf []byte
	if len(params.TechnicalSpecs) > 0 {
		specs = params.TechnicalSpecs
	}
	if len(params.PerformanceData) > 0 {
		perf = params.PerformanceData
	}

	query := `
		UPDATE products
		SET name = COALESCE($2, name),
			category = COALESCE($3, category),
			description = COALESCE($4, description),
			price = COALESCE($5, price),
			technical_specs = COALESCE($6, technical_specs),
			performance_data = COALESCE($7, performance_data),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + productColumns

	product, err := scanProduct(r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.Category, params.Description, params.Price, specs, perf,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, apperr.NotFound(productNotFoundMessage)
		}
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

// DeleteProduct deletes a product.
func (r *Repo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(productNotFoundMessage)
	}
	return nil
}

// GetProductByID retrieves a product by ID.
func (r *Repo) GetProductByID(ctx context.Context, id uuid.UUID) (Product, error) {
	product, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, apperr.NotFound(productNotFoundMessage)
		}
		return Product{}, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// ListProducts lists products with filters and pagination.
func (r *Repo) ListProducts(ctx context.Context, params ListProductsParams) ([]Product, int, error) {
	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if params.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}
	if params.Category != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, params.Category)
		argIdx++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	sortColumn := "name"
	switch params.SortBy {
	case "price":
		sortColumn = "price"
	case "category":
		sortColumn = "category"
	case "createdAt":
		sortColumn = "created_at"
	}

	sortOrder := "ASC"
	if params.SortOrder == "desc" {
		sortOrder = "DESC"
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE %s
		ORDER BY %s %s, name ASC
		LIMIT $%d OFFSET $%d
	`, productColumns, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	items := make([]Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, product)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("iterate products: %w", rows.Err())
	}

	return items, total, nil
}

// CreateScenario creates a scenario.
func (r *Repo) CreateScenario(ctx context.Context, params ScenarioParams) (Scenario, error) {
	query := `
		INSERT INTO scenarios (
			name, category, site_types, min_budget, max_budget, products, estimated_savings, equipment_lifespan, description
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + scenarioColumns

	scenario, err := scanScenario(r.pool.QueryRow(ctx, query,
		params.Name, params.Category, params.SiteTypes, params.MinBudget, params.MaxBudget,
		jsonOrDefault(params.Products, "[]"), params.EstimatedSavings, params.EquipmentLifespan, params.Description,
	))
	if err != nil {
		return Scenario{}, fmt.Errorf("create scenario: %w", err)
	}
	return scenario, nil
}

// UpdateScenario replaces every editable column of a scenario.
func (r *Repo) UpdateScenario(ctx context.Context, id uuid.UUID, params ScenarioParams) (Scenario, error) {
	query := `
		UPDATE scenarios
		SET name = $2,
			category = $3,
			site_types = $4,
			min_budget = $5,
			max_budget = $6,
			products = $7,
			estimated_savings = $8,
			equipment_lifespan = $9,
			description = $10,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + scenarioColumns

	scenario, err := scanScenario(r.pool.QueryRow(ctx, query, id,
		params.Name, params.Category, params.SiteTypes, params.MinBudget, params.MaxBudget,
		jsonOrDefault(params.Products, "[]"), params.EstimatedSavings, params.EquipmentLifespan, params.Description,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Scenario{}, apperr.NotFound(scenarioNotFoundMessage)
		}
		return Scenario{}, fmt.Errorf("update scenario: %w", err)
	}
	return scenario, nil
}

// DeleteScenario deletes a scenario.
func (r *Repo) DeleteScenario(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM scenarios WHERE id = $1`, id)
	if err != nil {
		return deleteScenarioError(err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(scenarioNotFoundMessage)
	}
	return nil
}

// deleteScenarioError turns the leads.scenario_id RESTRICT violation into a conflict.
// It covers leads attached between the usage check and the delete.
func deleteScenarioError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return apperr.Conflict(ScenarioInUseMessage)
	}
	return fmt.Errorf("delete scenario: %w", err)
}

// GetScenarioByID retrieves a scenario by ID.
func (r *Repo) GetScenarioByID(ctx context.Context, id uuid.UUID) (Scenario, error) {
	scenario, err := scanScenario(r.pool.QueryRow(ctx, `SELECT `+scenarioColumns+` FROM scenarios WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Scenario{}, apperr.NotFound(scenarioNotFoundMessage)
		}
		return Scenario{}, fmt.Errorf("get scenario by id: %w", err)
	}
	return scenario, nil
}

// GetScenariosByIDs returns the scenarios matching ids in catalog order.
func (r *Repo) GetScenariosByIDs(ctx context.Context, ids []uuid.UUID) ([]Scenario, error) {
	if len(ids) == 0 {
		return []Scenario{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+scenarioColumns+`
		FROM scenarios
		WHERE id = ANY($1)
		ORDER BY `+scenarioOrder, ids)
	if err != nil {
		return nil, fmt.Errorf("get scenarios by ids: %w", err)
	}
	return collectScenarios(rows)
}

// ListScenarios lists every scenario, optionally restricted to one category.
func (r *Repo) ListScenarios(ctx context.Context, category string) ([]Scenario, error) {
	query := `SELECT ` + scenarioColumns + ` FROM scenarios`
	args := []interface{}{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY ` + scenarioOrder

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	return collectScenarios(rows)
}

func collectScenarios(rows pgx.Rows) ([]Scenario, error) {
	defer rows.Close()
	items := make([]Scenario, 0)
	for rows.Next() {
		scenario, err := scanScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scenario: %w", err)
		}
		items = append(items, scenario)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate scenarios: %w", rows.Err())
	}
	return items, nil
}

// CountScenarios returns the number of scenarios in the catalog.
func (r *Repo) CountScenarios(ctx context.Context) (int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM scenarios`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count scenarios: %w", err)
	}
	return total, nil
}

// IsScenarioReferenced checks if any lead points at the scenario.
func (r *Repo) IsScenarioReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM leads WHERE scenario_id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check scenario usage: %w", err)
	}
	return exists, nil
}
