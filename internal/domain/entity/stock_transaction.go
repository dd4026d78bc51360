package entity

import "time"

// Tipos de transacción de stock.
const (
	TransactionEntry  = "ENTRY"  // entrada
	TransactionExit   = "EXIT"   // salida
	TransactionCreate = "CREATE" // alta del producto en la bodega
	TransactionEdit   = "EDIT"   // edición directa de stock/umbrales
)

// StockTransaction registro append-only de cada mutación de un InventoryRecord.
type StockTransaction struct {
	ID          string
	CompanyID   string
	RecordID    string
	WarehouseID string
	ProductID   string
	Type        string
	Quantity    int // delta con signo
	StockBefore int
	StockAfter  int
	CreatedBy   string
	CreatedAt   time.Time
}
