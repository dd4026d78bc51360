package inventory

import (
	"context"
	"io"
	"time"

	"github.com/jhoicas/tienda-inventario/internal/application/dto"
	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y no queda ninguna escritura parcial.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		records repository.InventoryRecordRepository,
		movements repository.StockTransactionRepository,
	) error) error
}

// StockAlert evento emitido cuando una mutación deja un registro en LOW o HIGH.
type StockAlert struct {
	CompanyID     string                `json:"company_id"`
	WarehouseID   string                `json:"warehouse_id"`
	ProductID     string                `json:"product_id"`
	RecordID      string                `json:"record_id"`
	State         entity.ThresholdState `json:"state"`
	Stock         int                   `json:"stock"`
	MinStockLevel int                   `json:"min_stock_level"`
	MaxStockLevel *int                  `json:"max_stock_level"`
	OccurredAt    time.Time             `json:"occurred_at"`
}

// AlertPublisher publica alertas de umbral hacia otros servicios (p. ej. RabbitMQ).
type AlertPublisher interface {
	PublishStockAlert(ctx context.Context, alert StockAlert) error
}

// ReportPDFGenerator genera la representación PDF de un reporte de inventario.
type ReportPDFGenerator interface {
	GenerateInventoryPDF(ctx context.Context, report *dto.InventoryReport) ([]byte, error)
}

// SpreadsheetExporter genera el reporte como hoja de cálculo (.xlsx).
type SpreadsheetExporter interface {
	ExportInventory(ctx context.Context, report *dto.InventoryReport) ([]byte, error)
}

// ImportRow fila leída de un archivo de importación. Err describe un valor ilegible en la fila.
type ImportRow struct {
	Row           int
	SKU           string
	Stock         int
	MinStockLevel int
	MaxStockLevel *int
	Err           error
}

// SpreadsheetParser lee las filas sku | stock | mínimo | máximo de una hoja de cálculo.
type SpreadsheetParser interface {
	ParseInventoryRows(r io.Reader) ([]ImportRow, error)
}
