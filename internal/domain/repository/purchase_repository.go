package repository

import (
	"context"

	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PurchaseRepository define el puerto de persistencia para Purchase y sus líneas.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	AddItem(ctx context.Context, item *entity.PurchaseItem) error
	GetByID(ctx context.Context, id int64) (*entity.Purchase, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.Purchase, error)
	List(ctx context.Context, filter LedgerFilter) ([]*entity.Purchase, error)
	ItemsByPurchase(ctx context.Context, purchaseIDs ...int64) (map[int64][]entity.PurchaseItem, error)
	UpdatePayment(ctx context.Context, id int64, paid decimal.Decimal, status entity.PaymentStatus) error
	Delete(ctx context.Context, id int64) error
}
