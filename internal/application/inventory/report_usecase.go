package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/tienda-inventario/internal/application/dto"
	"github.com/jhoicas/tienda-inventario/internal/domain"
	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
	"github.com/jhoicas/tienda-inventario/internal/domain/stock"
)

const reportPageSize = 500

// ReportUseCase arma el reporte de inventario de una bodega y lo exporta a PDF o XLSX.
type ReportUseCase struct {
	records       repository.InventoryRecordRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	pdf           ReportPDFGenerator
	xlsx          SpreadsheetExporter
	now           func() time.Time
}

// NewReportUseCase construye el caso de uso. pdf y xlsx pueden ser nil si el formato no se ofrece.
func NewReportUseCase(
	records repository.InventoryRecordRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	pdf ReportPDFGenerator,
	xlsx SpreadsheetExporter,
) *ReportUseCase {
	return &ReportUseCase{
		records:       records,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		pdf:           pdf,
		xlsx:          xlsx,
		now:           time.Now,
	}
}

// WarehouseReport recorre todos los registros de la bodega y cuenta cuántos hay en cada estado.
func (uc *ReportUseCase) WarehouseReport(ctx context.Context, companyID, warehouseID string) (*dto.InventoryReport, error) {
	wh, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	if !wh.BelongsTo(companyID) {
		return nil, fmt.Errorf("%w: bodega %s", domain.ErrNotFound, warehouseID)
	}

	report := &dto.InventoryReport{
		WarehouseID:   wh.ID,
		WarehouseName: wh.Name,
		GeneratedAt:   uc.now(),
		Rows:          []dto.InventoryReportRow{},
	}
	products := map[string]*entity.Product{}
	// Cursor por id: las entradas y salidas concurrentes no reordenan el recorrido.
	afterID := ""
	for {
		page, err := uc.records.List(ctx, repository.InventoryRecordFilter{
			CompanyID:   companyID,
			WarehouseID: warehouseID,
			Limit:       reportPageSize,
			ByID:        true,
			AfterID:     afterID,
		})
		if err != nil {
			return nil, domain.Persistence(err)
		}
		for _, r := range page {
			p, ok := products[r.ProductID]
			if !ok {
				p, err = uc.productRepo.GetByID(ctx, r.ProductID)
				if err != nil {
					return nil, domain.Persistence(err)
				}
				products[r.ProductID] = p
			}
			row := dto.InventoryReportRow{
				RecordID:      r.ID,
				ProductID:     r.ProductID,
				Stock:         r.Stock,
				MinStockLevel: r.MinStockLevel,
				MaxStockLevel: r.MaxStockLevel,
				Threshold:     string(stock.ClassifyThreshold(*r)),
				LastUpdated:   r.LastUpdated,
			}
			if p != nil {
				row.SKU = p.SKU
				row.ProductName = p.Name
			}
			switch entity.ThresholdState(row.Threshold) {
			case entity.ThresholdLow:
				report.LowCount++
			case entity.ThresholdHigh:
				report.HighCount++
			default:
				report.NormalCount++
			}
			report.Rows = append(report.Rows, row)
		}
		if len(page) < reportPageSize {
			break
		}
		afterID = page[len(page)-1].ID
	}
	return report, nil
}

// ExportPDF genera el reporte de la bodega en PDF.
func (uc *ReportUseCase) ExportPDF(ctx context.Context, companyID, warehouseID string) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("%w: exportación PDF no disponible", domain.ErrInvalidInput)
	}
	report, err := uc.WarehouseReport(ctx, companyID, warehouseID)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateInventoryPDF(ctx, report)
}

// ExportXLSX genera el reporte de la bodega como hoja de cálculo.
func (uc *ReportUseCase) ExportXLSX(ctx context.Context, companyID, warehouseID string) ([]byte, error) {
	if uc.xlsx == nil {
		return nil, fmt.Errorf("%w: exportación XLSX no disponible", domain.ErrInvalidInput)
	}
	report, err := uc.WarehouseReport(ctx, companyID, warehouseID)
	if err != nil {
		return nil, err
	}
	return uc.xlsx.ExportInventory(ctx, report)
}
