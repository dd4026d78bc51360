package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/tienda-inventario/internal/domain"
	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
	"github.com/jhoicas/tienda-inventario/internal/domain/stock"
)

var _ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)

// InventoryRecordRepo devuelve copias: modificar el registro leído no altera el Store hasta Update.
type InventoryRecordRepo struct {
	a access
}

func (r *InventoryRecordRepo) GetByID(_ context.Context, id string) (*entity.InventoryRecord, error) {
	var out *entity.InventoryRecord
	err := r.a.read(func(st *state) error {
		if rec, ok := st.records[id]; ok {
			out = copyRecord(rec)
		}
		return nil
	})
	return out, err
}

func (r *InventoryRecordRepo) Find(_ context.Context, warehouseID, productID string) (*entity.InventoryRecord, error) {
	var out *entity.InventoryRecord
	err := r.a.read(func(st *state) error {
		if id, ok := st.pairs[pairKey{warehouseID, productID}]; ok {
			out = copyRecord(st.records[id])
		}
		return nil
	})
	return out, err
}

// FindForUpdate dentro de TxRunner.Run el Store ya está bloqueado.
func (r *InventoryRecordRepo) FindForUpdate(ctx context.Context, warehouseID, productID string) (*entity.InventoryRecord, error) {
	return r.Find(ctx, warehouseID, productID)
}

func (r *InventoryRecordRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.InventoryRecord, error) {
	return r.GetByID(ctx, id)
}

func (r *InventoryRecordRepo) Insert(_ context.Context, record *entity.InventoryRecord) error {
	return r.a.write(func(st *state) error {
		key := pairKey{record.WarehouseID, record.ProductID}
		if _, ok := st.pairs[key]; ok {
			return domain.ErrDuplicate
		}
		if _, ok := st.records[record.ID]; ok {
			return domain.ErrDuplicate
		}
		st.records[record.ID] = *copyRecord(*record)
		st.pairs[key] = record.ID
		return nil
	})
}

func (r *InventoryRecordRepo) Update(_ context.Context, record *entity.InventoryRecord) error {
	return r.a.write(func(st *state) error {
		current, ok := st.records[record.ID]
		if !ok {
			return domain.ErrNotFound
		}
		// El par (bodega, producto) es la identidad natural: no cambia en una actualización.
		updated := *copyRecord(*record)
		updated.WarehouseID = current.WarehouseID
		updated.ProductID = current.ProductID
		updated.CompanyID = current.CompanyID
		st.records[record.ID] = updated
		return nil
	})
}

func (r *InventoryRecordRepo) DeleteMany(_ context.Context, companyID string, ids []string) (int64, error) {
	var n int64
	err := r.a.write(func(st *state) error {
		for _, id := range ids {
			rec, ok := st.records[id]
			if !ok || rec.CompanyID != companyID {
				continue
			}
			delete(st.records, id)
			delete(st.pairs, pairKey{rec.WarehouseID, rec.ProductID})
			n++
		}
		return nil
	})
	return n, err
}

func (r *InventoryRecordRepo) List(_ context.Context, f repository.InventoryRecordFilter) ([]*entity.InventoryRecord, error) {
	var list []*entity.InventoryRecord
	err := r.a.read(func(st *state) error {
		for _, rec := range st.records {
			if rec.CompanyID != f.CompanyID {
				continue
			}
			if f.WarehouseID != "" && rec.WarehouseID != f.WarehouseID {
				continue
			}
			if f.ProductID != "" && rec.ProductID != f.ProductID {
				continue
			}
			if f.State != "" && stock.ClassifyThreshold(rec) != f.State {
				continue
			}
			if f.ByID && f.AfterID != "" && rec.ID <= f.AfterID {
				continue
			}
			list = append(list, copyRecord(rec))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if f.ByID {
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
		return paginate(list, f.Limit, 0), nil
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].LastUpdated.Equal(list[j].LastUpdated) {
			return list[i].LastUpdated.After(list[j].LastUpdated)
		}
		return list[i].ID < list[j].ID
	})
	return paginate(list, f.Limit, f.Offset), nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
