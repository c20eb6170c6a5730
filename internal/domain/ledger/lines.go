package ledger

import (
	"github.com/jhoicas/fertilizer-shop/internal/domain"
	"github.com/shopspring/decimal"
)

// MoneyPlaces escala de las columnas NUMERIC(10,2).
const MoneyPlaces = 2

// Line entrada mínima para calcular una línea de venta o compra.
type Line struct {
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal // opcional: cero = calcular
}

// LineTotal calcula quantity × unit_price redondeado a centavos.
func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Round(MoneyPlaces)
}

// FitsColumn indica si v se almacena sin redondeo en una columna NUMERIC(10,2).
func FitsColumn(v decimal.Decimal) bool {
	return v.Round(MoneyPlaces).Equal(v)
}

// ResolveLine valida la línea y devuelve su total.
// Cantidad debe ser positiva y precio no negativo, ambos con a lo sumo dos decimales
// para que lo guardado cumpla total_price = quantity × unit_price. Si el llamador
// envía total_price, debe coincidir con ese producto.
func ResolveLine(l Line) (decimal.Decimal, error) {
	if !l.Quantity.GreaterThan(decimal.Zero) || l.UnitPrice.LessThan(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidInput
	}
	if !FitsColumn(l.Quantity) || !FitsColumn(l.UnitPrice) || !FitsColumn(l.TotalPrice) {
		return decimal.Zero, domain.ErrInvalidInput
	}
	computed := LineTotal(l.Quantity, l.UnitPrice)
	if l.TotalPrice.IsZero() {
		return computed, nil
	}
	if !l.TotalPrice.Equal(computed) {
		return decimal.Zero, domain.ErrInvalidInput
	}
	return computed, nil
}

// SumTotals suma los totales de línea para obtener total_amount.
func SumTotals(totals ...decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t)
	}
	return sum
}
