package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

// Reader reads inventory transactions. Writes belong to the inventory module.
type Reader struct {
	db *sqlx.DB
}

func NewReader(db *sqlx.DB) *Reader {
	return &Reader{db: db}
}

// Recent returns the latest limit transactions, newest first.
func (r *Reader) Recent(ctx context.Context, limit int) ([]Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT it.id, it.product_id, p.name AS product_name,
		       it.employee_id, u.full_name AS employee_name,
		       it.type, it.quantity, it.note, it.created_at
		FROM inventory_transactions it
		JOIN products p ON p.id = it.product_id
		LEFT JOIN users u ON u.id = it.employee_id
		ORDER BY it.created_at DESC, it.id DESC
		LIMIT $1
	`

	var txs []Transaction
	if err := r.db.SelectContext(ctx, &txs, query, limit); err != nil {
		return nil, fmt.Errorf("select recent inventory transactions: %w", err)
	}
	return txs, nil
}
