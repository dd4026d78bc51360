package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-inventario/internal/application/dto"
	"github.com/jhoicas/tienda-inventario/internal/application/usecase"
	"github.com/jhoicas/tienda-inventario/internal/domain"
	"github.com/jhoicas/tienda-inventario/internal/infrastructure/memory"
)

func TestProductUseCase_CRUD(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewProductUseCase(memory.NewStore().Products())

	created, err := uc.Create(ctx, "c1", dto.CreateProductRequest{SKU: " CAM-01 ", Name: "Camiseta", Price: decimal.RequireFromString("39900.50")})
	require.NoError(t, err)
	assert.Equal(t, "CAM-01", created.SKU)
	assert.True(t, created.Price.Equal(decimal.RequireFromString("39900.5")))

	_, err = uc.Create(ctx, "c1", dto.CreateProductRequest{SKU: "CAM-01", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	name := "Camiseta azul"
	updated, err := uc.Update(ctx, "c1", created.ID, dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	_, err = uc.GetByID(ctx, "c2", created.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	list, err := uc.List(ctx, "c1", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, dto.DefaultLimit, list.Page.Limit)

	require.NoError(t, uc.Delete(ctx, "c1", created.ID))
	_, err = uc.GetByID(ctx, "c1", created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_Validaciones(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Products())
	_, err := uc.Create(context.Background(), "c1", dto.CreateProductRequest{Name: "Sin SKU"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), "c1", dto.CreateProductRequest{SKU: "X", Name: "Neg", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWarehouseUseCase_CRUD(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewWarehouseUseCase(memory.NewStore().Warehouses())

	_, err := uc.Create(ctx, "c1", dto.CreateWarehouseRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	wh, err := uc.Create(ctx, "c1", dto.CreateWarehouseRequest{Name: "Principal", Address: "Cra 1"})
	require.NoError(t, err)

	addr := "Calle 2"
	updated, err := uc.Update(ctx, "c1", wh.ID, dto.UpdateWarehouseRequest{Address: &addr})
	require.NoError(t, err)
	assert.Equal(t, "Principal", updated.Name)
	assert.Equal(t, addr, updated.Address)

	_, err = uc.GetByID(ctx, "c2", wh.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, uc.Delete(ctx, "c1", wh.ID))
	list, err := uc.List(ctx, "c1", dto.PageRequest{Limit: 500})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	assert.Equal(t, dto.MaxLimit, list.Page.Limit)
}
