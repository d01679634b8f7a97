package seed

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"printshop/m/domain"
	"printshop/m/internal/storefront"
)

type catalogFile struct {
	Products []domain.Product `yaml:"products"`
}

// LoadCatalog upserts the storefront products listed in a YAML file.
func LoadCatalog(ctx context.Context, store *storefront.Store, yamlPath string, logger *zap.Logger) (int, error) {
	data, err := os.ReadFile(yamlPath)
	if err != nil {
		return 0, fmt.Errorf("unable to read catalog %s: %w", yamlPath, err)
	}

	var catalog catalogFile
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return 0, fmt.Errorf("unable to parse catalog %s: %w", yamlPath, err)
	}

	rows := 0
	for _, p := range catalog.Products {
		p.Slug = strings.TrimSpace(p.Slug)
		if p.Slug == "" || p.Name == "" {
			logger.Warn("skipping catalog entry without slug or name", zap.String("slug", p.Slug))
			continue
		}
		if p.Price.IsNegative() {
			logger.Warn("skipping catalog entry with negative price", zap.String("slug", p.Slug))
			continue
		}
		if err := store.UpsertProduct(ctx, p); err != nil {
			return rows, err
		}
		rows++
	}

	logger.Info("seeded product catalog", zap.Int("rows", rows))
	return rows, nil
}
