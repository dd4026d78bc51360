// Package stock contiene las reglas puras del motor de ajuste de inventario:
// validación de cantidades y umbrales, mutación del stock y clasificación
// frente a los niveles mínimo y máximo. No accede a persistencia.
package stock

import "github.com/jhoicas/tienda-inventario/internal/domain/entity"

// LowStockWarningLevel stock por debajo del cual una salida exitosa devuelve advertencia.
const LowStockWarningLevel = 5

// ClassifyThreshold clasifica el registro: LOW si stock < mínimo; HIGH si hay máximo
// y stock > máximo; NORMAL en otro caso. Con máximo >= mínimo LOW y HIGH son excluyentes.
func ClassifyThreshold(r entity.InventoryRecord) entity.ThresholdState {
	if r.Stock < r.MinStockLevel {
		return entity.ThresholdLow
	}
	if r.MaxStockLevel != nil && r.Stock > *r.MaxStockLevel {
		return entity.ThresholdHigh
	}
	return entity.ThresholdNormal
}

// NeedsWarning indica si el stock posterior a una salida amerita advertencia.
func NeedsWarning(stockAfter int) bool {
	return stockAfter >= 0 && stockAfter < LowStockWarningLevel
}
