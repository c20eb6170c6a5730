package ledger

import (
	"context"
	"fmt"

	"github.com/jhoicas/fertilizer-shop/internal/domain"
	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/jhoicas/fertilizer-shop/internal/domain/inventory"
	"github.com/jhoicas/fertilizer-shop/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// AdjustStock aplica delta al stock del producto con productRepo (atado a la tx del llamador).
// Con guard activo y delta negativo bloquea la fila (SELECT FOR UPDATE) y devuelve
// ErrInsufficientStock si el stock quedaría por debajo de cero. Sin guard la rutina es permisiva.
func AdjustStock(
	ctx context.Context,
	productRepo repository.ProductRepository,
	productID int64,
	delta decimal.Decimal,
	guard bool,
) (*entity.Product, error) {
	if guard && delta.IsNegative() {
		product, err := productRepo.GetForUpdate(ctx, productID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("producto %d: %w", productID, domain.ErrNotFound)
		}
		if !inventory.Sufficient(product.StockQuantity, delta) {
			return nil, fmt.Errorf("producto %d (stock %s, cambio %s): %w",
				productID, product.StockQuantity, delta, domain.ErrInsufficientStock)
		}
	}
	return productRepo.AdjustStock(ctx, productID, delta)
}
