package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

// StockTransactionRepo historial de movimientos (solo inserción).
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador. Acepta pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

func (r *StockTransactionRepo) Create(ctx context.Context, t *entity.StockTransaction) error {
	query := `
		INSERT INTO stock_transactions (id, company_id, record_id, warehouse_id, product_id, type, quantity, stock_before, stock_after, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.CompanyID, t.RecordID, t.WarehouseID, t.ProductID, t.Type,
		t.Quantity, t.StockBefore, t.StockAfter, t.CreatedBy, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock transaction: %w", err)
	}
	return nil
}

func (r *StockTransactionRepo) ListByRecord(ctx context.Context, recordID string, limit, offset int) ([]*entity.StockTransaction, error) {
	query := `
		SELECT id, company_id, record_id, warehouse_id, product_id, type, quantity, stock_before, stock_after, COALESCE(created_by, ''), created_at
		FROM stock_transactions WHERE record_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, recordID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockTransaction
	for rows.Next() {
		var t entity.StockTransaction
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.RecordID, &t.WarehouseID, &t.ProductID, &t.Type,
			&t.Quantity, &t.StockBefore, &t.StockAfter, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock transaction: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
