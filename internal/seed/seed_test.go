package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"printshop/m/internal/database"
	"printshop/m/internal/inventory"
	"printshop/m/internal/migrations"
	"printshop/m/internal/storefront"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Connect("sqlite", filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db))
	return db
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadInventoryOnlyOnce(t *testing.T) {
	svc := inventory.NewService(inventory.NewStore(newTestDB(t)))
	ctx := context.Background()
	path := writeFile(t, "inventory.csv", "name,quantity,measurement_unit,provider\n"+
		"PLA,12,kg,Prusament\n"+
		"Broken,lots,kg,\n"+
		"Resin,1.5,l\n")

	rows, err := LoadInventory(ctx, svc, path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, rows)

	rows, err = LoadInventory(ctx, svc, path, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, rows)

	page, err := svc.Search(ctx, inventory.ListQuery{Filter: inventory.Filter{Search: "resin"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 1.5, page.Items[0].Quantity)
	assert.Nil(t, page.Items[0].Provider)
}

func TestLoadCatalogUpserts(t *testing.T) {
	store := storefront.NewStore(newTestDB(t))
	ctx := context.Background()
	path := writeFile(t, "catalog.yaml", `products:
  - slug: benchy
    name: 3DBenchy
    category: figures
    price: "4.50"
  - slug: ""
    name: nameless
    price: "1"
`)

	rows, err := LoadCatalog(ctx, store, path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	path = writeFile(t, "catalog.yaml", `products:
  - slug: benchy
    name: 3DBenchy v2
    category: figures
    price: "5.00"
`)
	_, err = LoadCatalog(ctx, store, path, zap.NewNop())
	require.NoError(t, err)

	p, err := store.ProductBySlug(ctx, "benchy")
	require.NoError(t, err)
	assert.Equal(t, "3DBenchy v2", p.Name)
	assert.True(t, decimal.NewFromInt(5).Equal(p.Price))
}

func TestSampleAssetsParse(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	rows, err := LoadCatalog(ctx, storefront.NewStore(db), "../../assets/catalog.yaml", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 4, rows)

	rows, err = LoadInventory(ctx, inventory.NewService(inventory.NewStore(db)), "../../assets/inventory.csv", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 7, rows)
}
