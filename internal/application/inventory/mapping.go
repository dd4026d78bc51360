package inventory

import (
	"github.com/jhoicas/tienda-inventario/internal/application/dto"
	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/internal/domain/stock"
)

func toItemResponse(r *entity.InventoryRecord) dto.InventoryItemResponse {
	return dto.InventoryItemResponse{
		ID:            r.ID,
		CompanyID:     r.CompanyID,
		WarehouseID:   r.WarehouseID,
		ProductID:     r.ProductID,
		Stock:         r.Stock,
		MinStockLevel: r.MinStockLevel,
		MaxStockLevel: r.MaxStockLevel,
		Threshold:     string(stock.ClassifyThreshold(*r)),
		LastUpdated:   r.LastUpdated,
	}
}

func toStockResult(r *entity.InventoryRecord, warning bool) *dto.StockResult {
	item := toItemResponse(r)
	return &dto.StockResult{
		Item:      item,
		Threshold: item.Threshold,
		Warning:   warning,
	}
}

func toTransactionResponse(t *entity.StockTransaction) dto.StockTransactionResponse {
	return dto.StockTransactionResponse{
		ID:          t.ID,
		Type:        t.Type,
		Quantity:    t.Quantity,
		StockBefore: t.StockBefore,
		StockAfter:  t.StockAfter,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
	}
}
