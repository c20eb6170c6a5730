package repository

import (
	"context"

	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SaleRepository define el puerto de persistencia para Sale y sus líneas.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	AddItem(ctx context.Context, item *entity.SaleItem) error
	GetByID(ctx context.Context, id int64) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.Sale, error)
	List(ctx context.Context, filter LedgerFilter) ([]*entity.Sale, error)
	ItemsBySale(ctx context.Context, saleIDs ...int64) (map[int64][]entity.SaleItem, error)
	UpdatePayment(ctx context.Context, id int64, paid decimal.Decimal, status entity.PaymentStatus) error
	// Delete elimina la venta; sus líneas se borran en cascada.
	Delete(ctx context.Context, id int64) error
}
