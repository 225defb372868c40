package exports

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"sakkanal_backend/internal/exports/csvexport"
	"sakkanal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrAPIKeyNotFound = errors.New("export API key not found")

const apiKeyPrefix = "skx_"

// APIKey represents an export API key stored in the database.
type APIKey struct {
	ID         uuid.UUID
	Name       string
	KeyHash    string
	KeyPrefix  string
	IsActive   bool
	CreatedBy  *uuid.UUID
	CreatedAt  time.Time
	LastUsedAt *time.Time
}

// LeadFilter narrows the lead export.
type LeadFilter struct {
	Status string
	From   *time.Time
	To     *time.Time
	Limit  int
}

// Repository provides data access for export operations.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GenerateAPIKey creates a new random API key and returns the plaintext key and its hash.
func GenerateAPIKey() (plaintext string, hash string, prefix string, err error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", "", err
	}
	plaintext = apiKeyPrefix + hex.EncodeToString(bytes)
	hash = HashKey(plaintext)
	prefix = plaintext[:12]
	return plaintext, hash, prefix, nil
}

// HashKey hashes a plaintext API key for lookup.
func HashKey(plaintext string) string {
	h := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(h[:])
}

const apiKeyColumns = `id, name, key_hash, key_prefix, is_active, created_by, created_at, last_used_at`

func scanAPIKey(row pgx.Row) (APIKey, error) {
	var key APIKey
	err := row.Scan(&key.ID, &key.Name, &key.KeyHash, &key.KeyPrefix, &key.IsActive, &key.CreatedBy, &key.CreatedAt, &key.LastUsedAt)
	return key, err
}

// CreateAPIKey creates a new export API key record.
func (r *Repository) CreateAPIKey(ctx context.Context, name string, keyHash string, keyPrefix string, createdBy *uuid.UUID) (APIKey, error) {
	key, err := scanAPIKey(r.pool.QueryRow(ctx, `
		INSERT INTO export_api_keys (name, key_hash, key_prefix, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING `+apiKeyColumns, name, keyHash, keyPrefix, createdBy))
	if err != nil {
		return APIKey{}, fmt.Errorf("create api key: %w", err)
	}
	return key, nil
}

// GetAPIKeyByHash retrieves an active API key by its hash.
func (r *Repository) GetAPIKeyByHash(ctx context.Context, keyHash string) (APIKey, error) {
	key, err := scanAPIKey(r.pool.QueryRow(ctx, `
		SELECT `+apiKeyColumns+`
		FROM export_api_keys
		WHERE key_hash = $1 AND is_active = true
	`, keyHash))
	if errors.Is(err, pgx.ErrNoRows) {
		return APIKey{}, ErrAPIKeyNotFound
	}
	if err != nil {
		return APIKey{}, fmt.Errorf("get api key: %w", err)
	}
	return key, nil
}

// ListAPIKeys returns all export API keys, newest first.
func (r *Repository) ListAPIKeys(ctx context.Context) ([]APIKey, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+apiKeyColumns+` FROM export_api_keys ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	keys := make([]APIKey, 0)
	for rows.Next() {
		key, err := scanAPIKey(rows)
		if err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// RevokeAPIKey deactivates an export API key.
func (r *Repository) RevokeAPIKey(ctx context.Context, keyID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE export_api_keys SET is_active = false WHERE id = $1`, keyID)
	if err != nil {
		return fmt.Errorf("revoke api key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("clé API introuvable")
	}
	return nil
}

// TouchAPIKey updates the last_used_at timestamp for the key.
func (r *Repository) TouchAPIKey(ctx context.Context, keyID uuid.UUID) {
	_, _ = r.pool.Exec(ctx, `UPDATE export_api_keys SET last_used_at = now() WHERE id = $1`, keyID)
}

// ListLeadsForExport returns leads newest first with their interactions, newest first.
func (r *Repository) ListLeadsForExport(ctx context.Context, filter LeadFilter) ([]csvexport.Lead, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("l.status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.From != nil {
		where = append(where, fmt.Sprintf("l.created_at >= $%d", argIdx))
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		where = append(where, fmt.Sprintf("l.created_at <= $%d", argIdx))
		args = append(args, *filter.To)
		argIdx++
	}
	args = append(args, filter.Limit)

	query := fmt.Sprintf(`
		SELECT l.id, l.created_at, l.company_name, l.contact_name, l.email, l.phone, l.site_type,
			l.electricity_bill::float8, l.installation_power::float8, l.measurement_points, l.budget::float8,
			l.status, l.recommended_scenarios, l.specific_needs, l.zones_to_monitor
		FROM leads l
		WHERE %s
		ORDER BY l.created_at DESC
		LIMIT $%d`, strings.Join(where, " AND "), argIdx)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list export leads: %w", err)
	}
	defer rows.Close()

	leads := make([]csvexport.Lead, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		var l csvexport.Lead
		if err := rows.Scan(
			&id, &l.CreatedAt, &l.CompanyName, &l.ContactName, &l.Email, &l.Phone, &l.SiteType,
			&l.ElectricityBill, &l.InstallationPower, &l.MeasurementPoints, &l.Budget,
			&l.Status, &l.RecommendedScenarios, &l.SpecificNeeds, &l.ZonesToMonitor,
		); err != nil {
			return nil, fmt.Errorf("scan export lead: %w", err)
		}
		leads = append(leads, l)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate export leads: %w", err)
	}

	interactions, err := r.listInteractions(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i, id := range ids {
		leads[i].Interactions = interactions[id]
	}
	return leads, nil
}

func (r *Repository) listInteractions(ctx context.Context, leadIDs []uuid.UUID) (map[uuid.UUID][]csvexport.Interaction, error) {
	result := make(map[uuid.UUID][]csvexport.Interaction, len(leadIDs))
	if len(leadIDs) == 0 {
		return result, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT lead_id, interaction_type, created_at
		FROM lead_interactions
		WHERE lead_id = ANY($1)
		ORDER BY created_at DESC
	`, leadIDs)
	if err != nil {
		return nil, fmt.Errorf("list export interactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var leadID uuid.UUID
		var item csvexport.Interaction
		if err := rows.Scan(&leadID, &item.Type, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan export interaction: %w", err)
		}
		result[leadID] = append(result[leadID], item)
	}
	return result, rows.Err()
}
