package domain

type PrintOrderStatus string

const (
	PrintOrderReceived  PrintOrderStatus = "received"
	PrintOrderQuoted    PrintOrderStatus = "quoted"
	PrintOrderPrinting  PrintOrderStatus = "printing"
	PrintOrderCompleted PrintOrderStatus = "completed"
	PrintOrderCancelled PrintOrderStatus = "cancelled"
)

func (s PrintOrderStatus) Valid() bool {
	switch s {
	case PrintOrderReceived, PrintOrderQuoted, PrintOrderPrinting, PrintOrderCompleted, PrintOrderCancelled:
		return true
	}
	return false
}

// PrintOrder is a custom 3D-print request submitted from the storefront.
type PrintOrder struct {
	ID            int64            `db:"id" json:"id"`
	Reference     string           `db:"reference" json:"reference"`
	CustomerName  string           `db:"customer_name" json:"customer_name"`
	CustomerEmail string           `db:"customer_email" json:"customer_email"`
	CustomerPhone *string          `db:"customer_phone" json:"customer_phone,omitempty"`
	Material      string           `db:"material" json:"material"`
	Color         *string          `db:"color" json:"color,omitempty"`
	Quantity      int64            `db:"quantity" json:"quantity"`
	Dimensions    *string          `db:"dimensions" json:"dimensions,omitempty"`
	FileURL       *string          `db:"file_url" json:"file_url,omitempty"`
	Notes         *string          `db:"notes" json:"notes,omitempty"`
	Status        PrintOrderStatus `db:"status" json:"status"`
	CreatedAt     string           `db:"created_at" json:"created_at"`
}
