package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"printshop/m/domain"
	"printshop/m/internal/apperr"
)

const itemColumns = `id, name, quantity, measurement_unit, provider, created_at, updated_at`

// Store is the SQL data access for inventory items and their movements.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) List(ctx context.Context, q ListQuery) ([]domain.InventoryItem, int, error) {
	query, countQuery, params := q.build()

	var total int
	if err := s.db.GetContext(ctx, &total, countQuery, params[:len(params)-2]...); err != nil {
		return nil, 0, fmt.Errorf("count inventory: %w", err)
	}

	items := []domain.InventoryItem{}
	if err := s.db.SelectContext(ctx, &items, query, params...); err != nil {
		return nil, 0, fmt.Errorf("list inventory: %w", err)
	}
	return items, total, nil
}

func (s *Store) Get(ctx context.Context, id int64) (domain.InventoryItem, error) {
	return getItem(ctx, s.db, id)
}

func getItem(ctx context.Context, q sqlx.QueryerContext, id int64) (domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := sqlx.GetContext(ctx, q, &item, `SELECT `+itemColumns+` FROM inventory WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return item, apperr.NotFound("inventory item %d not found", id)
	}
	if err != nil {
		return item, fmt.Errorf("get inventory item %d: %w", id, err)
	}
	return item, nil
}

func (s *Store) Create(ctx context.Context, item domain.InventoryItem, createdBy *int64) (domain.InventoryItem, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return item, fmt.Errorf("begin create inventory: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO inventory (name, quantity, measurement_unit, provider) VALUES ($1, $2, $3, $4) RETURNING id`,
		item.Name, item.Quantity, item.MeasurementUnit, item.Provider).Scan(&id)
	if err != nil {
		return item, fmt.Errorf("insert inventory: %w", err)
	}
	if err := recordMovement(ctx, tx, domain.InventoryMovement{
		InventoryID:    id,
		Operation:      "create",
		QuantityChange: item.Quantity,
		QuantityAfter:  item.Quantity,
		CreatedBy:      createdBy,
	}); err != nil {
		return item, err
	}

	created, err := getItem(ctx, tx, id)
	if err != nil {
		return item, err
	}
	if err := tx.Commit(); err != nil {
		return item, fmt.Errorf("commit create inventory: %w", err)
	}
	return created, nil
}

// Adjustment is one quantity change to apply.
type Adjustment struct {
	InventoryID int64
	Quantity    float64
	Operation   domain.QuantityOperation
}

// Adjust applies every adjustment inside a single transaction. A missing item
// rolls back all of them.
func (s *Store) Adjust(ctx context.Context, adjustments []Adjustment, createdBy *int64) ([]domain.InventoryItem, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin adjust inventory: %w", err)
	}
	defer tx.Rollback()

	updated := make([]domain.InventoryItem, 0, len(adjustments))
	for _, adj := range adjustments {
		item, err := adjustOne(ctx, tx, adj, createdBy)
		if err != nil {
			return nil, err
		}
		updated = append(updated, item)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit adjust inventory: %w", err)
	}
	return updated, nil
}

func adjustOne(ctx context.Context, tx *sqlx.Tx, adj Adjustment, createdBy *int64) (domain.InventoryItem, error) {
	var before float64
	err := tx.GetContext(ctx, &before, `SELECT quantity FROM inventory WHERE id = $1`, adj.InventoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.InventoryItem{}, apperr.NotFound("inventory item %d not found", adj.InventoryID)
	}
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("read quantity of item %d: %w", adj.InventoryID, err)
	}

	var expr string
	switch adj.Operation {
	case domain.OperationAdd:
		expr = "quantity + $1"
	case domain.OperationSubtract:
		expr = "quantity - $1"
	default:
		expr = "$1"
	}
	var after float64
	err = tx.GetContext(ctx, &after,
		`UPDATE inventory SET quantity = `+expr+`, updated_at = CURRENT_TIMESTAMP WHERE id = $2 RETURNING quantity`,
		adj.Quantity, adj.InventoryID)
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("update quantity of item %d: %w", adj.InventoryID, err)
	}

	if err := recordMovement(ctx, tx, domain.InventoryMovement{
		InventoryID:    adj.InventoryID,
		Operation:      string(adj.Operation),
		QuantityChange: after - before,
		QuantityBefore: before,
		QuantityAfter:  after,
		CreatedBy:      createdBy,
	}); err != nil {
		return domain.InventoryItem{}, err
	}
	return getItem(ctx, tx, adj.InventoryID)
}

func recordMovement(ctx context.Context, tx *sqlx.Tx, m domain.InventoryMovement) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO inventory_movements (inventory_id, operation, quantity_change, quantity_before, quantity_after, created_by) VALUES ($1, $2, $3, $4, $5, $6)`,
		m.InventoryID, m.Operation, m.QuantityChange, m.QuantityBefore, m.QuantityAfter, m.CreatedBy)
	if err != nil {
		return fmt.Errorf("record movement for item %d: %w", m.InventoryID, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete inventory: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory_movements WHERE inventory_id = $1`, id); err != nil {
		return fmt.Errorf("delete movements of item %d: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM inventory WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inventory item %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("inventory item %d not found", id)
	}
	return tx.Commit()
}

// LowStock returns items whose quantity is below threshold, lowest first.
func (s *Store) LowStock(ctx context.Context, threshold float64) ([]domain.InventoryItem, error) {
	items := []domain.InventoryItem{}
	err := s.db.SelectContext(ctx, &items,
		`SELECT `+itemColumns+` FROM inventory WHERE quantity < $1 ORDER BY quantity ASC, name ASC`, threshold)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return items, nil
}

func (s *Store) Stats(ctx context.Context, threshold float64) (domain.InventoryStats, error) {
	stats := domain.InventoryStats{LowStockBoundary: threshold}
	row := s.db.QueryRowxContext(ctx, `SELECT
            COUNT(*),
            COALESCE(SUM(quantity), 0),
            COALESCE(SUM(CASE WHEN quantity < $1 THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN quantity <= 0 THEN 1 ELSE 0 END), 0),
            COUNT(DISTINCT provider)
        FROM inventory`, threshold)
	if err := row.Scan(&stats.TotalItems, &stats.TotalQuantity, &stats.LowStockCount, &stats.OutOfStockCount, &stats.Providers); err != nil {
		return stats, fmt.Errorf("aggregate inventory: %w", err)
	}

	stats.ByUnit = []domain.UnitBreakdown{}
	err := s.db.SelectContext(ctx, &stats.ByUnit, `SELECT measurement_unit, COUNT(*) AS items, COALESCE(SUM(quantity), 0) AS quantity
        FROM inventory GROUP BY measurement_unit ORDER BY measurement_unit`)
	if err != nil {
		return stats, fmt.Errorf("aggregate inventory by unit: %w", err)
	}
	return stats, nil
}

func (s *Store) Movements(ctx context.Context, id int64) ([]domain.InventoryMovement, error) {
	movements := []domain.InventoryMovement{}
	err := s.db.SelectContext(ctx, &movements, `SELECT id, inventory_id, operation, quantity_change, quantity_before, quantity_after, created_by, created_at
        FROM inventory_movements WHERE inventory_id = $1 ORDER BY id DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("list movements of item %d: %w", id, err)
	}
	return movements, nil
}
