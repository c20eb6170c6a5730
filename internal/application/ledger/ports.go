package ledger

import (
	"context"

	"github.com/jhoicas/fertilizer-shop/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// La línea insertada y su ajuste de stock siempre comparten transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		purchaseRepo repository.PurchaseRepository,
	) error) error
}

// Options reglas configurables del libro de ventas y compras.
type Options struct {
	// GuardNegativeStock rechaza disminuciones de stock que lo dejarían negativo.
	GuardNegativeStock bool
}
