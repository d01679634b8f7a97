package domain

// QuantityOperation is how a quantity delta is applied to a stored item.
type QuantityOperation string

const (
	OperationSet      QuantityOperation = "set"
	OperationAdd      QuantityOperation = "add"
	OperationSubtract QuantityOperation = "subtract"
)

func (op QuantityOperation) Valid() bool {
	switch op {
	case OperationSet, OperationAdd, OperationSubtract:
		return true
	}
	return false
}

// Apply returns the quantity that results from applying op with value to current.
func (op QuantityOperation) Apply(current, value float64) float64 {
	switch op {
	case OperationAdd:
		return current + value
	case OperationSubtract:
		return current - value
	default:
		return value
	}
}

type InventoryItem struct {
	ID              int64   `db:"id" json:"id"`
	Name            string  `db:"name" json:"name"`
	Quantity        float64 `db:"quantity" json:"quantity"`
	MeasurementUnit string  `db:"measurement_unit" json:"measurement_unit"`
	Provider        *string `db:"provider" json:"provider"`
	CreatedAt       string  `db:"created_at" json:"created_at"`
	UpdatedAt       string  `db:"updated_at" json:"updated_at"`
}

// InventoryMovement is one recorded quantity change of an item.
type InventoryMovement struct {
	ID             int64   `db:"id" json:"id"`
	InventoryID    int64   `db:"inventory_id" json:"inventory_id"`
	Operation      string  `db:"operation" json:"operation"`
	QuantityChange float64 `db:"quantity_change" json:"quantity_change"`
	QuantityBefore float64 `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  float64 `db:"quantity_after" json:"quantity_after"`
	CreatedBy      *int64  `db:"created_by" json:"created_by,omitempty"`
	CreatedAt      string  `db:"created_at" json:"created_at"`
}

type UnitBreakdown struct {
	Unit     string  `db:"measurement_unit" json:"unit"`
	Items    int64   `db:"items" json:"items"`
	Quantity float64 `db:"quantity" json:"quantity"`
}

type InventoryStats struct {
	TotalItems       int64           `json:"total_items"`
	TotalQuantity    float64         `json:"total_quantity"`
	LowStockCount    int64           `json:"low_stock_count"`
	OutOfStockCount  int64           `json:"out_of_stock_count"`
	Providers        int64           `json:"providers"`
	LowStockBoundary float64         `json:"low_stock_threshold"`
	ByUnit           []UnitBreakdown `json:"by_unit"`
}
