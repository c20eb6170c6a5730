package repository

import (
	"context"

	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); sólo tiene sentido dentro de una tx.
	GetForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	ListLowStock(ctx context.Context) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id int64) error
	// AdjustStock suma delta (con signo) a stock_quantity mediante update_product_stock.
	AdjustStock(ctx context.Context, id int64, delta decimal.Decimal) (*entity.Product, error)
}
