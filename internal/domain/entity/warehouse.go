package entity

import "time"

// Warehouse bodega de una empresa; cada InventoryRecord pertenece a una.
type Warehouse struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BelongsTo indica si la bodega es de la empresa dada.
func (w *Warehouse) BelongsTo(companyID string) bool {
	return w != nil && w.CompanyID == companyID
}
