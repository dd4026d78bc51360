package stock

import (
	"fmt"
	"math"
	"time"

	"github.com/jhoicas/tienda-inventario/internal/domain"
	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
)

// MaxStock límite de stock y umbrales; coincide con la columna INTEGER de inventory_records.
const MaxStock = math.MaxInt32

// Mensajes de validación (uno por regla).
const (
	MsgQuantityPositive  = "la cantidad debe ser mayor que cero"
	MsgQuantityTooLarge  = "la cantidad deja el stock por encima del máximo permitido"
	MsgLevelTooLarge     = "el valor supera el máximo permitido"
	MsgProductRequired   = "el producto es obligatorio"
	MsgRecordRequired    = "el registro de inventario es obligatorio"
	MsgStockNegative     = "el stock no puede ser negativo"
	MsgMinStockNegative  = "el stock mínimo no puede ser negativo"
	MsgMaxBelowMin       = "el stock máximo no puede ser menor que el stock mínimo"
	MsgWarehouseRequired = "la bodega es obligatoria"
	MsgNoRecordsSelected = "debe seleccionar al menos un registro"
)

// ValidateQuantity exige una cantidad positiva y no mayor que MaxStock para entradas y salidas.
func ValidateQuantity(quantity int) error {
	if quantity <= 0 {
		return domain.NewValidationError("quantity", MsgQuantityPositive)
	}
	if quantity > MaxStock {
		return domain.NewValidationError("quantity", MsgQuantityTooLarge)
	}
	return nil
}

// Levels valores absolutos para alta o edición de un registro.
type Levels struct {
	Stock         int
	MinStockLevel int
	MaxStockLevel *int
}

// ValidateLevels aplica las reglas en orden; la primera que falla determina el error:
// (1) referencia presente, (2) stock >= 0, (3) mínimo >= 0, (4) máximo >= mínimo si existe.
// Stock, mínimo y máximo tampoco pueden superar MaxStock.
// refField/refMsg identifican la referencia exigida (producto en altas, registro en ediciones).
func ValidateLevels(ref, refField, refMsg string, l Levels) error {
	if ref == "" {
		return domain.NewValidationError(refField, refMsg)
	}
	if l.Stock < 0 {
		return domain.NewValidationError("stock", MsgStockNegative)
	}
	if l.Stock > MaxStock {
		return domain.NewValidationError("stock", MsgLevelTooLarge)
	}
	if l.MinStockLevel < 0 {
		return domain.NewValidationError("min_stock_level", MsgMinStockNegative)
	}
	if l.MinStockLevel > MaxStock {
		return domain.NewValidationError("min_stock_level", MsgLevelTooLarge)
	}
	if l.MaxStockLevel != nil {
		if *l.MaxStockLevel < l.MinStockLevel {
			return domain.NewValidationError("max_stock_level", MsgMaxBelowMin)
		}
		if *l.MaxStockLevel > MaxStock {
			return domain.NewValidationError("max_stock_level", MsgLevelTooLarge)
		}
	}
	return nil
}

// NewRecord crea el registro implícito de una primera entrada: mínimo 0 y sin máximo.
func NewRecord(id, companyID, warehouseID, productID string, quantity int, now time.Time) *entity.InventoryRecord {
	return &entity.InventoryRecord{
		ID:            id,
		CompanyID:     companyID,
		WarehouseID:   warehouseID,
		ProductID:     productID,
		Stock:         quantity,
		MinStockLevel: 0,
		MaxStockLevel: nil,
		LastUpdated:   now,
	}
}

// ApplyEntry suma la cantidad al stock. El máximo del registro no es tope (solo se refleja como HIGH);
// el único límite es MaxStock.
func ApplyEntry(r *entity.InventoryRecord, quantity int, now time.Time) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}
	if quantity > MaxStock-r.Stock {
		return domain.NewValidationError("quantity", MsgQuantityTooLarge)
	}
	r.Stock += quantity
	r.LastUpdated = now
	return nil
}

// ApplyExit descuenta la cantidad. Si supera el stock actual devuelve ErrInsufficientStock
// y el registro queda intacto. warning es verdadero cuando el stock resultante es menor a 5.
func ApplyExit(r *entity.InventoryRecord, quantity int, now time.Time) (warning bool, err error) {
	if err := ValidateQuantity(quantity); err != nil {
		return false, err
	}
	if quantity > r.Stock {
		return false, fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, r.Stock, quantity)
	}
	r.Stock -= quantity
	r.LastUpdated = now
	return NeedsWarning(r.Stock), nil
}

// SetLevels sobrescribe stock y umbrales con valores absolutos ya validados.
func SetLevels(r *entity.InventoryRecord, l Levels, now time.Time) {
	r.Stock = l.Stock
	r.MinStockLevel = l.MinStockLevel
	r.MaxStockLevel = l.MaxStockLevel
	r.LastUpdated = now
}
