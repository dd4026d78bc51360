package repository

import (
	"context"

	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
)

// InventoryRecordFilter criterios de listado de registros de inventario.
// State vacío no filtra; LOW/HIGH/NORMAL se resuelven en la consulta.
// Por defecto ordena por last_updated desc con Limit/Offset. Con ByID ordena por id y
// pagina por cursor (id > AfterID, Offset se ignora): un recorrido completo no repite ni
// salta filas aunque cambie el stock entre páginas.
type InventoryRecordFilter struct {
	CompanyID   string
	WarehouseID string
	ProductID   string
	State       entity.ThresholdState
	Limit       int
	Offset      int
	ByID        bool
	AfterID     string
}

// InventoryRecordRepository puerto de persistencia para InventoryRecord.
// Las lecturas devuelven (nil, nil) cuando el registro no existe.
type InventoryRecordRepository interface {
	GetByID(ctx context.Context, id string) (*entity.InventoryRecord, error)
	Find(ctx context.Context, warehouseID, productID string) (*entity.InventoryRecord, error)
	// FindForUpdate y GetByIDForUpdate bloquean la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	FindForUpdate(ctx context.Context, warehouseID, productID string) (*entity.InventoryRecord, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.InventoryRecord, error)
	// Insert devuelve domain.ErrDuplicate si ya existe un registro para el par (bodega, producto).
	Insert(ctx context.Context, record *entity.InventoryRecord) error
	// Update devuelve domain.ErrNotFound si el registro ya no existe.
	Update(ctx context.Context, record *entity.InventoryRecord) error
	DeleteMany(ctx context.Context, companyID string, ids []string) (int64, error)
	List(ctx context.Context, filter InventoryRecordFilter) ([]*entity.InventoryRecord, error)
}
