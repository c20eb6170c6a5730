package inventory

import "github.com/shopspring/decimal"

// SaleDelta variación de stock que produce vender quantity unidades.
func SaleDelta(quantity decimal.Decimal) decimal.Decimal {
	return quantity.Neg()
}

// PurchaseDelta variación de stock que produce comprar quantity unidades.
func PurchaseDelta(quantity decimal.Decimal) decimal.Decimal {
	return quantity
}

// Projected devuelve el stock resultante de aplicar delta (puede ser negativo).
func Projected(current, delta decimal.Decimal) decimal.Decimal {
	return current.Add(delta)
}

// Sufficient indica si aplicar delta deja el stock en cero o más.
func Sufficient(current, delta decimal.Decimal) bool {
	return !Projected(current, delta).LessThan(decimal.Zero)
}
