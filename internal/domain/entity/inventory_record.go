package entity

import (
	"strings"
	"time"
)

// InventoryRecord representa la cantidad de un producto en una bodega.
// Existe a lo sumo un registro por par (WarehouseID, ProductID).
type InventoryRecord struct {
	ID            string
	CompanyID     string
	WarehouseID   string
	ProductID     string
	Stock         int
	MinStockLevel int
	MaxStockLevel *int // nil = sin tope de capacidad
	LastUpdated   time.Time
}

// ThresholdState clasificación derivada del stock frente a los umbrales (no se persiste).
type ThresholdState string

const (
	ThresholdLow    ThresholdState = "LOW"
	ThresholdHigh   ThresholdState = "HIGH"
	ThresholdNormal ThresholdState = "NORMAL"
)

// ParseThresholdState acepta low/high/normal sin distinguir mayúsculas.
func ParseThresholdState(s string) (ThresholdState, bool) {
	switch ThresholdState(strings.ToUpper(strings.TrimSpace(s))) {
	case ThresholdLow:
		return ThresholdLow, true
	case ThresholdHigh:
		return ThresholdHigh, true
	case ThresholdNormal:
		return ThresholdNormal, true
	}
	return "", false
}
