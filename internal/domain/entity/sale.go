package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale cabecera de una venta a cliente.
// PaidAmount no debe superar TotalAmount; el almacén no lo impone, lo hace el caso de uso.
type Sale struct {
	ID              int64
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	TotalAmount     decimal.Decimal
	PaidAmount      decimal.Decimal
	PaymentStatus   PaymentStatus
	Notes           string
	SaleDate        time.Time
	Items           []SaleItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SaleItem línea de venta. Se elimina en cascada con su Sale; el Product referenciado
// no puede borrarse mientras existan líneas.
type SaleItem struct {
	ID          int64
	SaleID      int64
	ProductID   int64
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal // quantity × unit_price, calculado por el llamador
	// Datos de lectura (JOIN con products).
	ProductName string
	ProductUnit string
}

// Balance devuelve el saldo pendiente de la venta.
func (s *Sale) Balance() decimal.Decimal {
	return s.TotalAmount.Sub(s.PaidAmount)
}
