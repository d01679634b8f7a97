package storefront

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"printshop/m/domain"
	"printshop/m/internal/apperr"
)

const (
	productColumns = `id, slug, name, description, category, price, image_url`
	orderColumns   = `id, reference, customer_name, customer_email, customer_phone, material, color, quantity, dimensions, file_url, notes, status, created_at`
)

type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	products := []domain.Product{}
	query := `SELECT ` + productColumns + ` FROM products`
	var args []any
	if category != "" {
		query += ` WHERE LOWER(category) = LOWER($1)`
		args = append(args, category)
	}
	query += ` ORDER BY name`
	if err := s.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *Store) ProductsBySlug(ctx context.Context, slugs []string) (map[string]domain.Product, error) {
	found := make(map[string]domain.Product, len(slugs))
	for _, slug := range slugs {
		if _, ok := found[slug]; ok {
			continue
		}
		p, err := s.ProductBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		found[slug] = p
	}
	return found, nil
}

func (s *Store) ProductBySlug(ctx context.Context, slug string) (domain.Product, error) {
	var p domain.Product
	err := s.db.GetContext(ctx, &p, `SELECT `+productColumns+` FROM products WHERE slug = $1`, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return p, apperr.NotFound("product %q not found", slug)
	}
	if err != nil {
		return p, fmt.Errorf("get product %q: %w", slug, err)
	}
	return p, nil
}

// UpsertProduct inserts the product or refreshes the row with the same slug.
func (s *Store) UpsertProduct(ctx context.Context, p domain.Product) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO products (slug, name, description, category, price, image_url) VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description,
            category = EXCLUDED.category, price = EXCLUDED.price, image_url = EXCLUDED.image_url`,
		p.Slug, p.Name, p.Description, p.Category, p.Price.StringFixed(2), p.ImageURL)
	if err != nil {
		return fmt.Errorf("upsert product %q: %w", p.Slug, err)
	}
	return nil
}

func (s *Store) CreateOrder(ctx context.Context, o domain.PrintOrder) (domain.PrintOrder, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO print_orders (reference, customer_name, customer_email, customer_phone, material, color, quantity, dimensions, file_url, notes, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`,
		o.Reference, o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.Material, o.Color, o.Quantity, o.Dimensions, o.FileURL, o.Notes, o.Status).Scan(&id)
	if err != nil {
		return o, fmt.Errorf("insert print order: %w", err)
	}
	return s.OrderByID(ctx, id)
}

func (s *Store) OrderByID(ctx context.Context, id int64) (domain.PrintOrder, error) {
	var o domain.PrintOrder
	err := s.db.GetContext(ctx, &o, `SELECT `+orderColumns+` FROM print_orders WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return o, apperr.NotFound("print order %d not found", id)
	}
	if err != nil {
		return o, fmt.Errorf("get print order %d: %w", id, err)
	}
	return o, nil
}

func (s *Store) ListOrders(ctx context.Context, status domain.PrintOrderStatus) ([]domain.PrintOrder, error) {
	orders := []domain.PrintOrder{}
	query := `SELECT ` + orderColumns + ` FROM print_orders`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if err := s.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("list print orders: %w", err)
	}
	return orders, nil
}

func (s *Store) SetOrderStatus(ctx context.Context, id int64, status domain.PrintOrderStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE print_orders SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update print order %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("print order %d not found", id)
	}
	return nil
}
