package inventory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/tienda-inventario/internal/application/dto"
	"github.com/jhoicas/tienda-inventario/internal/domain"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
)

// ImportUseCase carga registros de inventario desde una hoja de cálculo (sku | stock | mínimo | máximo).
type ImportUseCase struct {
	parser      SpreadsheetParser
	productRepo repository.ProductRepository
	stock       *StockAdjustmentUseCase
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(parser SpreadsheetParser, productRepo repository.ProductRepository, stock *StockAdjustmentUseCase) *ImportUseCase {
	return &ImportUseCase{parser: parser, productRepo: productRepo, stock: stock}
}

// ImportItems da de alta cada fila en la bodega. Una fila con error no detiene las demás;
// solo un archivo ilegible o un fallo de persistencia aborta la importación.
func (uc *ImportUseCase) ImportItems(ctx context.Context, companyID, userID, warehouseID string, r io.Reader) (*dto.ImportResult, error) {
	if warehouseID == "" {
		return nil, domain.NewValidationError("warehouse_id", "la bodega es obligatoria")
	}
	rows, err := uc.parser.ParseInventoryRows(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	result := &dto.ImportResult{Rows: make([]dto.ImportRowResult, 0, len(rows))}
	for _, row := range rows {
		out := dto.ImportRowResult{Row: row.Row, SKU: row.SKU}
		recordID, err := uc.importRow(ctx, companyID, userID, warehouseID, row)
		switch {
		case err == nil:
			out.RecordID = recordID
			result.Created++
		case errors.Is(err, domain.ErrPersistence):
			return nil, err
		default:
			out.Error = err.Error()
			result.Failed++
		}
		result.Rows = append(result.Rows, out)
	}

	log.Info().
		Str("company_id", companyID).
		Str("warehouse_id", warehouseID).
		Int("created", result.Created).
		Int("failed", result.Failed).
		Msg("importación de inventario finalizada")
	return result, nil
}

func (uc *ImportUseCase) importRow(ctx context.Context, companyID, userID, warehouseID string, row ImportRow) (string, error) {
	if row.Err != nil {
		return "", row.Err
	}
	sku := strings.TrimSpace(row.SKU)
	if sku == "" {
		return "", domain.NewValidationError("sku", "el SKU es obligatorio")
	}
	product, err := uc.productRepo.GetByCompanyAndSKU(ctx, companyID, sku)
	if err != nil {
		return "", domain.Persistence(err)
	}
	if product == nil {
		return "", fmt.Errorf("%w: no existe un producto con SKU %s", domain.ErrNotFound, sku)
	}
	res, err := uc.stock.AddToInventory(ctx, AddItemInput{
		CompanyID:     companyID,
		UserID:        userID,
		WarehouseID:   warehouseID,
		ProductID:     product.ID,
		Stock:         row.Stock,
		MinStockLevel: row.MinStockLevel,
		MaxStockLevel: row.MaxStockLevel,
	})
	if err != nil {
		return "", err
	}
	return res.Item.ID, nil
}
