package inventory

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"

	"printshop/m/domain"
	"printshop/m/internal/apperr"
)

// Service validates inventory requests and keeps the stats cache coherent
// with writes.
type Service struct {
	store     *Store
	cache     StatsCache
	threshold float64
	logger    *zap.Logger
}

type Option func(*Service)

// WithCache enables stats caching.
func WithCache(cache StatsCache) Option {
	return func(s *Service) {
		if cache != nil {
			s.cache = cache
		}
	}
}

func WithLowStockThreshold(threshold float64) Option {
	return func(s *Service) {
		s.threshold = threshold
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(store *Store, opts ...Option) *Service {
	s := &Service{
		store:     store,
		cache:     noopCache{},
		threshold: 5,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LowStockThreshold is the threshold used when a request does not name one.
func (s *Service) LowStockThreshold() float64 {
	return s.threshold
}

type Page struct {
	Items      []domain.InventoryItem
	Pagination Pagination
}

func (s *Service) List(ctx context.Context, q ListQuery) (Page, error) {
	if err := q.Normalize(); err != nil {
		return Page{}, err
	}
	items, total, err := s.store.List(ctx, q)
	if err != nil {
		return Page{}, err
	}
	return Page{Items: items, Pagination: newPagination(q.Page, total)}, nil
}

// Search is List constrained to a non-empty text query.
func (s *Service) Search(ctx context.Context, q ListQuery) (Page, error) {
	q.Filter.Search = strings.TrimSpace(q.Filter.Search)
	if q.Filter.Search == "" {
		return Page{}, apperr.Invalid("search query q is required")
	}
	return s.List(ctx, q)
}

func (s *Service) Get(ctx context.Context, id int64) (domain.InventoryItem, error) {
	return s.store.Get(ctx, id)
}

type CreateRequest struct {
	Name            string   `json:"name" validate:"required"`
	Quantity        *float64 `json:"quantity" validate:"required"`
	MeasurementUnit string   `json:"measurement_unit" validate:"required"`
	Provider        *string  `json:"provider"`
}

func (s *Service) Create(ctx context.Context, req CreateRequest, createdBy *int64) (domain.InventoryItem, error) {
	name := strings.TrimSpace(req.Name)
	unit := strings.TrimSpace(req.MeasurementUnit)
	if name == "" || req.Quantity == nil || unit == "" {
		return domain.InventoryItem{}, apperr.Invalid("name, quantity and measurement_unit are required")
	}
	item := domain.InventoryItem{
		Name:            name,
		Quantity:        *req.Quantity,
		MeasurementUnit: unit,
		Provider:        trimmedOrNil(req.Provider),
	}
	created, err := s.store.Create(ctx, item, createdBy)
	if err != nil {
		return created, err
	}
	s.invalidate(ctx)
	return created, nil
}

// AdjustQuantity applies a single set/add/subtract to an item.
func (s *Service) AdjustQuantity(ctx context.Context, id int64, quantity *float64, operation string, createdBy *int64) (domain.InventoryItem, error) {
	if quantity == nil || operation == "" {
		return domain.InventoryItem{}, apperr.Invalid("quantity and operation are required")
	}
	op := domain.QuantityOperation(operation)
	if !op.Valid() {
		return domain.InventoryItem{}, apperr.Invalid("operation must be one of set, add, subtract")
	}
	updated, err := s.store.Adjust(ctx, []Adjustment{{InventoryID: id, Quantity: *quantity, Operation: op}}, createdBy)
	if err != nil {
		return domain.InventoryItem{}, err
	}
	s.invalidate(ctx)
	return updated[0], nil
}

type BatchItem struct {
	InventoryID *int64   `json:"inventory_id"`
	Quantity    *float64 `json:"quantity"`
	Operation   string   `json:"operation,omitempty"`
}

// BatchAdjust applies every item or none of them. Items without an operation
// are treated as "set".
func (s *Service) BatchAdjust(ctx context.Context, items []BatchItem, createdBy *int64) ([]domain.InventoryItem, error) {
	if len(items) == 0 {
		return nil, apperr.Invalid("items must be a non-empty array")
	}
	adjustments := make([]Adjustment, 0, len(items))
	for i, item := range items {
		if item.InventoryID == nil || item.Quantity == nil {
			return nil, apperr.Invalid("item %d: inventory_id and quantity are required", i)
		}
		op := domain.OperationSet
		if item.Operation != "" {
			op = domain.QuantityOperation(item.Operation)
		}
		if !op.Valid() {
			return nil, apperr.Invalid("item %d: operation must be one of set, add, subtract", i)
		}
		adjustments = append(adjustments, Adjustment{InventoryID: *item.InventoryID, Quantity: *item.Quantity, Operation: op})
	}

	updated, err := s.store.Adjust(ctx, adjustments, createdBy)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// LowStock lists items below threshold; a non-positive threshold uses the
// configured default.
func (s *Service) LowStock(ctx context.Context, threshold float64) ([]domain.InventoryItem, error) {
	if threshold <= 0 || math.IsNaN(threshold) {
		threshold = s.threshold
	}
	return s.store.LowStock(ctx, threshold)
}

func (s *Service) Stats(ctx context.Context) (domain.InventoryStats, error) {
	if stats, ok := s.cache.Get(ctx, s.threshold); ok {
		return stats, nil
	}
	stats, err := s.store.Stats(ctx, s.threshold)
	if err != nil {
		return stats, err
	}
	if err := s.cache.Set(ctx, stats); err != nil {
		s.logger.Warn("caching inventory stats failed", zap.Error(err))
	}
	return stats, nil
}

// History returns the recorded movements of an item, newest first. Items
// created before movements were recorded get one synthetic entry.
func (s *Service) History(ctx context.Context, id int64) ([]domain.InventoryMovement, error) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	movements, err := s.store.Movements(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(movements) == 0 {
		movements = append(movements, domain.InventoryMovement{
			InventoryID:    item.ID,
			Operation:      "create",
			QuantityChange: item.Quantity,
			QuantityAfter:  item.Quantity,
			CreatedAt:      item.CreatedAt,
		})
	}
	return movements, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("invalidating inventory stats failed", zap.Error(err))
	}
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
