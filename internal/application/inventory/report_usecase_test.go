package inventory_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/tienda-inventario/internal/application/dto"
	"github.com/jhoicas/tienda-inventario/internal/application/inventory"
	"github.com/jhoicas/tienda-inventario/internal/domain"
	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
	"github.com/jhoicas/tienda-inventario/internal/infrastructure/xlsx"
)

type stubPDF struct{ got *dto.InventoryReport }

func (s *stubPDF) GenerateInventoryPDF(_ context.Context, r *dto.InventoryReport) ([]byte, error) {
	s.got = r
	return []byte("%PDF-stub"), nil
}

func TestWarehouseReport_CuentaPorEstado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedRecord(t, 3, 5, nil)
	_, err := f.uc.AddToInventory(ctx, inventory.AddItemInput{
		CompanyID: companyID, WarehouseID: warehouseID, ProductID: "prod-11",
		Stock: 20, MinStockLevel: 2, MaxStockLevel: intPtr(15),
	})
	require.NoError(t, err)

	pdf := &stubPDF{}
	reports := inventory.NewReportUseCase(f.store.Records(), f.store.Products(), f.store.Warehouses(), pdf, xlsx.NewInventorySheet())

	report, err := reports.WarehouseReport(ctx, companyID, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, "Principal", report.WarehouseName)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, 1, report.LowCount)
	assert.Equal(t, 1, report.HighCount)
	assert.Equal(t, 0, report.NormalCount)

	skus := map[string]string{}
	for _, r := range report.Rows {
		skus[r.SKU] = r.Threshold
	}
	assert.Equal(t, map[string]string{"SKU-10": "LOW", "SKU-11": "HIGH"}, skus)

	out, err := reports.ExportPDF(ctx, companyID, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-stub"), out)
	require.NotNil(t, pdf.got)
	assert.Len(t, pdf.got.Rows, 2)

	sheet, err := reports.ExportXLSX(ctx, companyID, warehouseID)
	require.NoError(t, err)
	book, err := excelize.OpenReader(bytes.NewReader(sheet))
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows("Inventario")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

// touchingRecords actualiza un registro después de servir la primera página.
type touchingRecords struct {
	repository.InventoryRecordRepository
	touchID string
	calls   int
}

func (r *touchingRecords) List(ctx context.Context, f repository.InventoryRecordFilter) ([]*entity.InventoryRecord, error) {
	page, err := r.InventoryRecordRepository.List(ctx, f)
	r.calls++
	if err == nil && r.calls == 1 {
		rec, gerr := r.GetByID(ctx, r.touchID)
		if gerr != nil {
			return nil, gerr
		}
		rec.Stock++
		rec.LastUpdated = time.Now().Add(time.Hour)
		if uerr := r.Update(ctx, rec); uerr != nil {
			return nil, uerr
		}
	}
	return page, err
}

func TestWarehouseReport_PaginasEstablesConMovimientos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const total = 501
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < total; i++ {
		require.NoError(t, f.store.Records().Insert(ctx, &entity.InventoryRecord{
			ID:          fmt.Sprintf("rec-%03d", i),
			CompanyID:   companyID,
			WarehouseID: warehouseID,
			ProductID:   fmt.Sprintf("prod-%03d", i),
			Stock:       10,
			LastUpdated: base.Add(time.Duration(i) * time.Second),
		}))
	}

	// rec-500 cae en la segunda página; al tocarlo pasaría a ser el más reciente.
	records := &touchingRecords{InventoryRecordRepository: f.store.Records(), touchID: "rec-500"}
	reports := inventory.NewReportUseCase(records, f.store.Products(), f.store.Warehouses(), nil, nil)

	report, err := reports.WarehouseReport(ctx, companyID, warehouseID)
	require.NoError(t, err)
	require.Len(t, report.Rows, total)
	seen := map[string]bool{}
	for _, row := range report.Rows {
		assert.False(t, seen[row.RecordID], "fila repetida %s", row.RecordID)
		seen[row.RecordID] = true
	}
	assert.True(t, seen["rec-500"])
	assert.Equal(t, total, report.NormalCount)
	assert.GreaterOrEqual(t, records.calls, 2)
}

func TestWarehouseReport_BodegaAjena(t *testing.T) {
	f := newFixture(t)
	reports := inventory.NewReportUseCase(f.store.Records(), f.store.Products(), f.store.Warehouses(), nil, nil)

	_, err := reports.WarehouseReport(context.Background(), companyID, "wh-other")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = reports.ExportPDF(context.Background(), companyID, warehouseID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImportItems_FilasIndependientes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedRecord(t, 1, 0, nil) // SKU-10 ya está en la bodega

	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	for i, r := range [][]any{
		{"sku", "stock", "min", "max"},
		{"SKU-11", 8, 2, 10},
		{"SKU-10", 5, 0, ""},
		{"NO-EXISTE", 1, 0, ""},
		{"SKU-X", 1, 0, ""},
	} {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := r
		require.NoError(t, book.SetSheetRow(sheet, cell, &values))
	}
	buf, err := book.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, book.Close())

	importer := inventory.NewImportUseCase(xlsx.NewInventorySheet(), f.store.Products(), f.uc)
	res, err := importer.ImportItems(ctx, companyID, userID, warehouseID, buf)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 3, res.Failed)
	require.Len(t, res.Rows, 4)

	assert.NotEmpty(t, res.Rows[0].RecordID)
	assert.Empty(t, res.Rows[0].Error)
	assert.NotEmpty(t, res.Rows[1].Error, "SKU-10 ya existe en la bodega")
	assert.NotEmpty(t, res.Rows[2].Error)
	assert.NotEmpty(t, res.Rows[3].Error, "SKU-X es de otra empresa")

	created, err := f.store.Records().Find(ctx, warehouseID, "prod-11")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, 8, created.Stock)
}

func TestImportItems_SinBodega(t *testing.T) {
	f := newFixture(t)
	importer := inventory.NewImportUseCase(xlsx.NewInventorySheet(), f.store.Products(), f.uc)
	_, err := importer.ImportItems(context.Background(), companyID, userID, "", bytes.NewReader(nil))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
