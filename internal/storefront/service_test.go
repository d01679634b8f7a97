package storefront

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printshop/m/domain"
	"printshop/m/internal/apperr"
	"printshop/m/internal/database"
	"printshop/m/internal/migrations"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := database.Connect("sqlite", filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db))

	store := NewStore(db)
	ctx := context.Background()
	for _, p := range []domain.Product{
		{Slug: "benchy", Name: "3DBenchy", Category: "figures", Price: decimal.RequireFromString("4.50")},
		{Slug: "planter", Name: "Low-poly planter", Category: "home", Price: decimal.RequireFromString("19.99")},
		{Slug: "hook", Name: "Wall hook", Category: "home", Price: decimal.RequireFromString("2.25")},
	} {
		require.NoError(t, store.UpsertProduct(ctx, p))
	}

	return NewService(store, Shipping{Flat: decimal.NewFromInt(5), FreeOver: decimal.NewFromInt(50)})
}

func TestProducts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	all, err := svc.ListProducts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	home, err := svc.ListProducts(ctx, "HOME")
	require.NoError(t, err)
	require.Len(t, home, 2)
	assert.Equal(t, "Low-poly planter", home[0].Name)

	p, err := svc.GetProduct(ctx, "planter")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("19.99").Equal(p.Price))

	_, err = svc.GetProduct(ctx, "missing")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestQuoteCart(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	quote, err := svc.QuoteCart(ctx, CartRequest{Items: []CartItem{{Slug: "benchy", Quantity: 2}, {Slug: "hook", Quantity: 3}}})
	require.NoError(t, err)
	require.Len(t, quote.Lines, 2)
	assert.Equal(t, "9", quote.Lines[0].LineTotal.String())
	assert.Equal(t, "15.75", quote.Subtotal.String())
	assert.Equal(t, "5", quote.Shipping.String())
	assert.Equal(t, "20.75", quote.Total.String())

	free, err := svc.QuoteCart(ctx, CartRequest{Items: []CartItem{{Slug: "planter", Quantity: 3}}})
	require.NoError(t, err)
	assert.True(t, free.Shipping.IsZero())
	assert.Equal(t, "59.97", free.Total.String())
}

func TestQuoteCartRejects(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.QuoteCart(ctx, CartRequest{})
	assert.True(t, errors.Is(err, apperr.ErrInvalid))
	_, err = svc.QuoteCart(ctx, CartRequest{Items: []CartItem{{Slug: "benchy", Quantity: 0}}})
	assert.True(t, errors.Is(err, apperr.ErrInvalid))
	_, err = svc.QuoteCart(ctx, CartRequest{Items: []CartItem{{Slug: "nope", Quantity: 1}}})
	assert.True(t, errors.Is(err, apperr.ErrInvalid))
}

func TestPrintOrders(t *testing.T) {
	svc := newTestService(t)
	svc.newRef = func() string { return "ref-1" }
	ctx := context.Background()

	order, err := svc.SubmitPrintOrder(ctx, PrintOrderRequest{
		CustomerName:  " Grace ",
		CustomerEmail: "Grace@Example.com",
		Material:      "PETG",
		Quantity:      4,
	})
	require.NoError(t, err)
	assert.Equal(t, "ref-1", order.Reference)
	assert.Equal(t, "Grace", order.CustomerName)
	assert.Equal(t, "grace@example.com", order.CustomerEmail)
	assert.Equal(t, domain.PrintOrderReceived, order.Status)

	_, err = svc.SubmitPrintOrder(ctx, PrintOrderRequest{CustomerName: "X", CustomerEmail: "x@example.com", Material: "chocolate", Quantity: 1})
	assert.True(t, errors.Is(err, apperr.ErrInvalid))

	require.NoError(t, svc.SetPrintOrderStatus(ctx, order.ID, "printing"))
	assert.True(t, errors.Is(svc.SetPrintOrderStatus(ctx, order.ID, "lost"), apperr.ErrInvalid))
	assert.True(t, errors.Is(svc.SetPrintOrderStatus(ctx, 404, "printing"), apperr.ErrNotFound))

	printing, err := svc.ListPrintOrders(ctx, "printing")
	require.NoError(t, err)
	require.Len(t, printing, 1)
	received, err := svc.ListPrintOrders(ctx, "received")
	require.NoError(t, err)
	assert.Empty(t, received)
	_, err = svc.ListPrintOrders(ctx, "bogus")
	assert.True(t, errors.Is(err, apperr.ErrInvalid))
}
