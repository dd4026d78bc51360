package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/tienda-inventario/internal/domain"
	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
)

var (
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
)

type ProductRepo struct {
	a access
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, existing := range st.products {
			if existing.CompanyID == p.CompanyID && existing.SKU == p.SKU {
				return domain.ErrDuplicate
			}
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.read(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetByCompanyAndSKU(_ context.Context, companyID, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.read(func(st *state) error {
		for _, p := range st.products {
			if p.CompanyID == companyID && p.SKU == sku {
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.a.write(func(st *state) error {
		current, ok := st.products[p.ID]
		if !ok {
			return domain.ErrNotFound
		}
		current.Name = p.Name
		current.Description = p.Description
		current.Price = p.Price
		current.ImageURL = p.ImageURL
		current.UpdatedAt = p.UpdatedAt
		st.products[p.ID] = current
		return nil
	})
}

func (r *ProductRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	var list []*entity.Product
	err := r.a.read(func(st *state) error {
		for _, p := range st.products {
			if p.CompanyID == companyID {
				list = append(list, &p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return paginate(list, limit, offset), nil
}

// Delete igual que la FK en PostgreSQL: no se borra un producto con inventario registrado.
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.a.write(func(st *state) error {
		for _, rec := range st.records {
			if rec.ProductID == id {
				return fmt.Errorf("%w: el producto tiene inventario registrado", domain.ErrConflict)
			}
		}
		delete(st.products, id)
		return nil
	})
}

type WarehouseRepo struct {
	a access
}

func (r *WarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.warehouses[w.ID]; ok {
			return domain.ErrDuplicate
		}
		st.warehouses[w.ID] = *w
		return nil
	})
}

func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.a.read(func(st *state) error {
		if w, ok := st.warehouses[id]; ok {
			out = &w
		}
		return nil
	})
	return out, err
}

func (r *WarehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	return r.a.write(func(st *state) error {
		current, ok := st.warehouses[w.ID]
		if !ok {
			return domain.ErrNotFound
		}
		current.Name = w.Name
		current.Address = w.Address
		current.UpdatedAt = w.UpdatedAt
		st.warehouses[w.ID] = current
		return nil
	})
}

func (r *WarehouseRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	var list []*entity.Warehouse
	err := r.a.read(func(st *state) error {
		for _, w := range st.warehouses {
			if w.CompanyID == companyID {
				list = append(list, &w)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return paginate(list, limit, offset), nil
}

// Delete borra la bodega y sus registros de inventario (ON DELETE CASCADE).
func (r *WarehouseRepo) Delete(_ context.Context, id string) error {
	return r.a.write(func(st *state) error {
		delete(st.warehouses, id)
		for recID, rec := range st.records {
			if rec.WarehouseID == id {
				delete(st.records, recID)
				delete(st.pairs, pairKey{rec.WarehouseID, rec.ProductID})
			}
		}
		return nil
	})
}
