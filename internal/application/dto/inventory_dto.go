package dto

import "time"

// StockMovementRequest body para POST /api/inventory/entries y /api/inventory/exits.
type StockMovementRequest struct {
	WarehouseID string `json:"warehouse_id"`
	ProductID   string `json:"product_id"`
	Quantity    int    `json:"quantity"`
}

// AddInventoryItemRequest body para POST /api/inventory/items (alta de producto en bodega).
type AddInventoryItemRequest struct {
	WarehouseID   string `json:"warehouse_id"`
	ProductID     string `json:"product_id"`
	Stock         int    `json:"stock"`
	MinStockLevel int    `json:"min_stock_level"`
	MaxStockLevel *int   `json:"max_stock_level"`
}

// EditInventoryItemRequest body para PUT /api/inventory/items/:id.
type EditInventoryItemRequest struct {
	Stock         int  `json:"stock"`
	MinStockLevel int  `json:"min_stock_level"`
	MaxStockLevel *int `json:"max_stock_level"`
}

// DeleteInventoryItemsRequest body para DELETE /api/inventory/items (borrado por selección).
type DeleteInventoryItemsRequest struct {
	IDs []string `json:"ids"`
}

// InventoryItemResponse registro de inventario con su clasificación de umbral.
type InventoryItemResponse struct {
	ID            string    `json:"id"`
	CompanyID     string    `json:"company_id"`
	WarehouseID   string    `json:"warehouse_id"`
	ProductID     string    `json:"product_id"`
	Stock         int       `json:"stock"`
	MinStockLevel int       `json:"min_stock_level"`
	MaxStockLevel *int      `json:"max_stock_level"`
	Threshold     string    `json:"threshold"` // LOW | HIGH | NORMAL
	LastUpdated   time.Time `json:"last_updated"`
}

// StockResult resultado de una operación del motor de inventario.
// Warning solo aplica a salidas: stock resultante menor a 5 unidades.
type StockResult struct {
	Item      InventoryItemResponse `json:"item"`
	Threshold string                `json:"threshold"`
	Warning   bool                  `json:"warning"`
	Created   bool                  `json:"created,omitempty"`
}

// InventoryItemListResponse lista paginada de registros de inventario.
type InventoryItemListResponse struct {
	Items []InventoryItemResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// DeleteInventoryItemsResponse cantidad de registros eliminados.
type DeleteInventoryItemsResponse struct {
	Deleted int64 `json:"deleted"`
}

// StockTransactionResponse movimiento del historial de un registro.
type StockTransactionResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Quantity    int       `json:"quantity"`
	StockBefore int       `json:"stock_before"`
	StockAfter  int       `json:"stock_after"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// StockTransactionListResponse historial paginado.
type StockTransactionListResponse struct {
	Items []StockTransactionResponse `json:"items"`
	Page  PageResponse               `json:"page"`
}

// InventoryReportRow fila del reporte de inventario por bodega.
type InventoryReportRow struct {
	RecordID      string    `json:"record_id"`
	ProductID     string    `json:"product_id"`
	SKU           string    `json:"sku"`
	ProductName   string    `json:"product_name"`
	Stock         int       `json:"stock"`
	MinStockLevel int       `json:"min_stock_level"`
	MaxStockLevel *int      `json:"max_stock_level"`
	Threshold     string    `json:"threshold"`
	LastUpdated   time.Time `json:"last_updated"`
}

// InventoryReport reporte de una bodega con conteos por estado de umbral.
type InventoryReport struct {
	WarehouseID   string               `json:"warehouse_id"`
	WarehouseName string               `json:"warehouse_name"`
	GeneratedAt   time.Time            `json:"generated_at"`
	Rows          []InventoryReportRow `json:"rows"`
	LowCount      int                  `json:"low_count"`
	HighCount     int                  `json:"high_count"`
	NormalCount   int                  `json:"normal_count"`
}

// ImportRowResult resultado de una fila de la importación xlsx.
type ImportRowResult struct {
	Row      int    `json:"row"`
	SKU      string `json:"sku"`
	RecordID string `json:"record_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ImportResult resumen de la importación.
type ImportResult struct {
	Created int               `json:"created"`
	Failed  int               `json:"failed"`
	Rows    []ImportRowResult `json:"rows"`
}
