package storefront

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"printshop/m/domain"
	"printshop/m/internal/apperr"
	"printshop/m/internal/validate"
)

// Shipping prices a cart: a flat fee that is waived from FreeOver upwards.
type Shipping struct {
	Flat     decimal.Decimal
	FreeOver decimal.Decimal
}

type Service struct {
	store    *Store
	shipping Shipping
	newRef   func() string
}

func NewService(store *Store, shipping Shipping) *Service {
	return &Service{
		store:    store,
		shipping: shipping,
		newRef:   func() string { return uuid.NewString() },
	}
}

func (s *Service) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	return s.store.ListProducts(ctx, strings.TrimSpace(category))
}

func (s *Service) GetProduct(ctx context.Context, slug string) (domain.Product, error) {
	return s.store.ProductBySlug(ctx, slug)
}

type CartItem struct {
	Slug     string `json:"slug" validate:"required"`
	Quantity int64  `json:"quantity" validate:"gte=1"`
}

type CartRequest struct {
	Items []CartItem `json:"items" validate:"required,min=1,dive"`
}

type QuoteLine struct {
	Slug      string          `json:"slug"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type Quote struct {
	Lines    []QuoteLine     `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// QuoteCart prices a cart against the current catalog. Unknown products are
// a client error.
func (s *Service) QuoteCart(ctx context.Context, req CartRequest) (Quote, error) {
	if err := validate.Struct(req); err != nil {
		return Quote{}, err
	}
	slugs := make([]string, len(req.Items))
	for i, it := range req.Items {
		slugs[i] = it.Slug
	}
	products, err := s.store.ProductsBySlug(ctx, slugs)
	if errors.Is(err, apperr.ErrNotFound) {
		return Quote{}, apperr.Invalid("%s", apperr.Message(err, "unknown product"))
	}
	if err != nil {
		return Quote{}, err
	}

	quote := Quote{Lines: make([]QuoteLine, 0, len(req.Items)), Subtotal: decimal.Zero}
	for _, it := range req.Items {
		p := products[it.Slug]
		line := p.Price.Mul(decimal.NewFromInt(it.Quantity))
		quote.Lines = append(quote.Lines, QuoteLine{
			Slug:      p.Slug,
			Name:      p.Name,
			Quantity:  it.Quantity,
			UnitPrice: p.Price,
			LineTotal: line,
		})
		quote.Subtotal = quote.Subtotal.Add(line)
	}

	quote.Shipping = s.shipping.Flat
	if quote.Subtotal.GreaterThanOrEqual(s.shipping.FreeOver) {
		quote.Shipping = decimal.Zero
	}
	quote.Total = quote.Subtotal.Add(quote.Shipping)
	return quote, nil
}

type PrintOrderRequest struct {
	CustomerName  string  `json:"customer_name" validate:"required"`
	CustomerEmail string  `json:"customer_email" validate:"required,email"`
	CustomerPhone *string `json:"customer_phone"`
	Material      string  `json:"material" validate:"required,oneof=PLA PETG ABS TPU ASA resin nylon"`
	Color         *string `json:"color"`
	Quantity      int64   `json:"quantity" validate:"gte=1,lte=1000"`
	Dimensions    *string `json:"dimensions"`
	FileURL       *string `json:"file_url" validate:"omitempty,url"`
	Notes         *string `json:"notes" validate:"omitempty,max=2000"`
}

// SubmitPrintOrder records a custom print request and assigns its reference.
func (s *Service) SubmitPrintOrder(ctx context.Context, req PrintOrderRequest) (domain.PrintOrder, error) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerEmail = strings.ToLower(strings.TrimSpace(req.CustomerEmail))
	if err := validate.Struct(req); err != nil {
		return domain.PrintOrder{}, err
	}
	return s.store.CreateOrder(ctx, domain.PrintOrder{
		Reference:     s.newRef(),
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Material:      req.Material,
		Color:         req.Color,
		Quantity:      req.Quantity,
		Dimensions:    req.Dimensions,
		FileURL:       req.FileURL,
		Notes:         req.Notes,
		Status:        domain.PrintOrderReceived,
	})
}

func (s *Service) ListPrintOrders(ctx context.Context, status string) ([]domain.PrintOrder, error) {
	st := domain.PrintOrderStatus(status)
	if status != "" && !st.Valid() {
		return nil, apperr.Invalid("unknown print order status %q", status)
	}
	return s.store.ListOrders(ctx, st)
}

func (s *Service) SetPrintOrderStatus(ctx context.Context, id int64, status string) error {
	st := domain.PrintOrderStatus(status)
	if !st.Valid() {
		return apperr.Invalid("status must be one of received, quoted, printing, completed, cancelled")
	}
	return s.store.SetOrderStatus(ctx, id, st)
}
