package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID          int64           `db:"id" json:"id" yaml:"-"`
	Slug        string          `db:"slug" json:"slug" yaml:"slug"`
	Name        string          `db:"name" json:"name" yaml:"name"`
	Description string          `db:"description" json:"description" yaml:"description"`
	Category    string          `db:"category" json:"category" yaml:"category"`
	Price       decimal.Decimal `db:"price" json:"price" yaml:"price"`
	ImageURL    string          `db:"image_url" json:"image_url" yaml:"image_url"`
}
