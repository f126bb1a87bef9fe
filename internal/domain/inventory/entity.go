package inventory

import "time"

// Transaction types
const (
	TypeImport = "import"
	TypeExport = "export"
	TypeAdjust = "adjust"
)

// Transaction is a stock movement with the product and employee names joined.
type Transaction struct {
	ID           int64     `db:"id"`
	ProductID    int64     `db:"product_id"`
	ProductName  string    `db:"product_name"`
	EmployeeID   *int64    `db:"employee_id"`
	EmployeeName *string   `db:"employee_name"`
	Type         string    `db:"type"`
	Quantity     int       `db:"quantity"`
	Note         *string   `db:"note"`
	CreatedAt    time.Time `db:"created_at"`
}
