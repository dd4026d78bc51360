package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o servicio del catálogo de una empresa.
// El stock no vive aquí: se maneja por bodega en InventoryRecord.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BelongsTo indica si el producto es del catálogo de la empresa dada.
func (p *Product) BelongsTo(companyID string) bool {
	return p != nil && p.CompanyID == companyID
}
