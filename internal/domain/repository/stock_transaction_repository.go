package repository

import (
	"context"

	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
)

// StockTransactionRepository puerto del historial append-only de movimientos de stock.
type StockTransactionRepository interface {
	Create(ctx context.Context, tx *entity.StockTransaction) error
	ListByRecord(ctx context.Context, recordID string, limit, offset int) ([]*entity.StockTransaction, error)
}
