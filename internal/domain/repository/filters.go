package repository

import (
	"time"

	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
)

// ProductFilter criterios de listado de productos.
type ProductFilter struct {
	Type   entity.ProductType // vacío = todos
	Search string             // coincide con name o brand (ILIKE)
	Limit  int
	Offset int
}

// LedgerFilter criterios de listado de ventas o compras.
// Party se compara contra customer_name o supplier_name según la tabla.
type LedgerFilter struct {
	From   *time.Time
	To     *time.Time
	Status entity.PaymentStatus
	Party  string
	Limit  int
	Offset int
}

// DebtFilter criterios de listado de deudas.
type DebtFilter struct {
	Status       entity.PaymentStatus
	CustomerName string
	OverdueOnly  bool
	Limit        int
	Offset       int
}
