package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto del catálogo.
type CreateProductRequest struct {
	Name          string          `json:"name"`
	Type          string          `json:"type"` // fertilizer | pesticide | seed
	Brand         string          `json:"brand"`
	Unit          string          `json:"unit"`
	PricePerUnit  decimal.Decimal `json:"price_per_unit"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	MinimumStock  decimal.Decimal `json:"minimum_stock"`
	Description   string          `json:"description"`
}

// UpdateProductRequest actualización parcial: sólo se aplican los campos no nil.
// El stock no se edita aquí; se usa UpdateStockRequest.
type UpdateProductRequest struct {
	Name         *string          `json:"name,omitempty"`
	Type         *string          `json:"type,omitempty"`
	Brand        *string          `json:"brand,omitempty"`
	Unit         *string          `json:"unit,omitempty"`
	PricePerUnit *decimal.Decimal `json:"price_per_unit,omitempty"`
	MinimumStock *decimal.Decimal `json:"minimum_stock,omitempty"`
	Description  *string          `json:"description,omitempty"`
}

// Operaciones de UpdateStockRequest.
const (
	StockOpAdd      = "add"
	StockOpSubtract = "subtract"
)

// UpdateStockRequest ajuste manual de stock.
type UpdateStockRequest struct {
	Quantity  decimal.Decimal `json:"quantity"`
	Operation string          `json:"operation"` // add | subtract
}

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	Type   string `json:"type"`
	Search string `json:"search"`
	PageRequest
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	Brand         string          `json:"brand"`
	Unit          string          `json:"unit"`
	PricePerUnit  decimal.Decimal `json:"price_per_unit"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	MinimumStock  decimal.Decimal `json:"minimum_stock"`
	LowStock      bool            `json:"low_stock"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
