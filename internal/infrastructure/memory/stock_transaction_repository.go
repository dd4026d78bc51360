package memory

import (
	"context"

	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

type StockTransactionRepo struct {
	a access
}

func (r *StockTransactionRepo) Create(_ context.Context, t *entity.StockTransaction) error {
	return r.a.write(func(st *state) error {
		st.movements = append(st.movements, *t)
		return nil
	})
}

// ListByRecord más recientes primero.
func (r *StockTransactionRepo) ListByRecord(_ context.Context, recordID string, limit, offset int) ([]*entity.StockTransaction, error) {
	var list []*entity.StockTransaction
	err := r.a.read(func(st *state) error {
		for i := len(st.movements) - 1; i >= 0; i-- {
			if st.movements[i].RecordID == recordID {
				t := st.movements[i]
				list = append(list, &t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paginate(list, limit, offset), nil
}
