package memory

import (
	"context"

	"github.com/jhoicas/tienda-inventario/internal/application/inventory"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner serializa las transacciones con el lock de escritura del Store.
// Equivale a bloquear cada fila leída con FOR UPDATE.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el Store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

func (r *TxRunner) Run(ctx context.Context, fn func(
	records repository.InventoryRecordRepository,
	movements repository.StockTransactionRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	work := r.s.state.clone()
	a := txAccess{st: work}
	if err := fn(&InventoryRecordRepo{a: a}, &StockTransactionRepo{a: a}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.state = work
	return nil
}
