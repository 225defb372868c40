package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"sakkanal_backend/internal/catalog/repository"
)

// SeedFile is the YAML layout accepted by SeedFromFile.
type SeedFile struct {
	Products  []SeedProduct  `yaml:"products"`
	Scenarios []SeedScenario `yaml:"scenarios"`
}

// SeedProduct is one product entry of the seed file.
type SeedProduct struct {
	Name            string         `yaml:"name"`
	Category        string         `yaml:"category"`
	Description     string         `yaml:"description"`
	Price           float64        `yaml:"price"`
	TechnicalSpecs  map[string]any `yaml:"technical_specs"`
	PerformanceData map[string]any `yaml:"performance_data"`
}

// SeedScenario is one scenario entry of the seed file.
type SeedScenario struct {
	Name              string   `yaml:"name"`
	Category          string   `yaml:"category"`
	SiteTypes         []string `yaml:"site_types"`
	MinBudget         float64  `yaml:"min_budget"`
	MaxBudget         *float64 `yaml:"max_budget"`
	Products          []any    `yaml:"products"`
	EstimatedSavings  float64  `yaml:"estimated_savings"`
	EquipmentLifespan int      `yaml:"equipment_lifespan"`
	Description       string   `yaml:"description"`
}

// ParseSeed decodes and validates a seed document.
func ParseSeed(data []byte) (SeedFile, error) {
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return SeedFile{}, fmt.Errorf("parse catalog seed: %w", err)
	}
	for i, sc := range seed.Scenarios {
		params, err := sc.params()
		if err != nil {
			return SeedFile{}, err
		}
		if err := ValidateScenario(params); err != nil {
			return SeedFile{}, fmt.Errorf("scenario %d (%s): %w", i, sc.Name, err)
		}
	}
	return seed, nil
}

func (sc SeedScenario) params() (repository.ScenarioParams, error) {
	products, err := json.Marshal(nonNil(sc.Products))
	if err != nil {
		return repository.ScenarioParams{}, fmt.Errorf("encode products of %s: %w", sc.Name, err)
	}
	siteTypes := make([]string, 0, len(sc.SiteTypes))
	for _, st := range sc.SiteTypes {
		siteTypes = append(siteTypes, strings.ToLower(strings.TrimSpace(st)))
	}
	lifespan := sc.EquipmentLifespan
	if lifespan == 0 {
		lifespan = 10
	}
	return repository.ScenarioParams{
		Name:              strings.TrimSpace(sc.Name),
		Category:          sc.Category,
		SiteTypes:         siteTypes,
		MinBudget:         sc.MinBudget,
		MaxBudget:         sc.MaxBudget,
		Products:          products,
		EstimatedSavings:  sc.EstimatedSavings,
		EquipmentLifespan: lifespan,
		Description:       sc.Description,
	}, nil
}

func marshalObject(m map[string]any) (json.RawMessage, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

func nonNil(v []any) []any {
	if v == nil {
		return []any{}
	}
	return v
}

// SeedFromFile loads the catalog from a YAML file when the scenarios table is empty.
// It returns the number of scenarios inserted.
func (s *Service) SeedFromFile(ctx context.Context, path string) (int, error) {
	if path == "" {
		return 0, nil
	}

	count, err := s.repo.CountScenarios(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.log.Debug("catalog already populated, skipping seed", "scenarios", count)
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read catalog seed: %w", err)
	}
	seed, err := ParseSeed(data)
	if err != nil {
		return 0, err
	}

	for _, p := range seed.Products {
		specs, err := marshalObject(p.TechnicalSpecs)
		if err != nil {
			return 0, err
		}
		perf, err := marshalObject(p.PerformanceData)
		if err != nil {
			return 0, err
		}
		desc := p.Description
		if _, err := s.repo.CreateProduct(ctx, repository.CreateProductParams{
			Name:            p.Name,
			Category:        p.Category,
			Description:     &desc,
			Price:           p.Price,
			TechnicalSpecs:  specs,
			PerformanceData: perf,
		}); err != nil {
			return 0, err
		}
	}

	inserted := 0
	for _, sc := range seed.Scenarios {
		params, err := sc.params()
		if err != nil {
			return inserted, err
		}
		if _, err := s.repo.CreateScenario(ctx, params); err != nil {
			return inserted, err
		}
		inserted++
	}

	s.log.Info("catalog seeded", "file", path, "products", len(seed.Products), "scenarios", inserted)
	return inserted, nil
}
