package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo del catálogo de la tienda (fertilizante, pesticida o semilla).
// StockQuantity admite fracciones (kg, litros) y no se valida contra negativos en el almacén.
type Product struct {
	ID            int64
	Name          string
	Type          ProductType
	Brand         string
	Unit          string          // kg, liter, packet, bag...
	PricePerUnit  decimal.Decimal // NUMERIC(10,2)
	StockQuantity decimal.Decimal
	MinimumStock  decimal.Decimal // umbral de reposición
	Description   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLowStock indica si el stock está por debajo del umbral de reposición.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity.LessThan(p.MinimumStock)
}
