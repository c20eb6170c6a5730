package ledger

import (
	"context"

	"github.com/jhoicas/fertilizer-shop/internal/application/dto"
	"github.com/jhoicas/fertilizer-shop/internal/domain"
	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/jhoicas/fertilizer-shop/internal/domain/inventory"
	"github.com/jhoicas/fertilizer-shop/internal/domain/ledger"
	"github.com/jhoicas/fertilizer-shop/internal/domain/repository"
	"github.com/jhoicas/fertilizer-shop/pkg/logger"
	"github.com/shopspring/decimal"
)

// PurchaseUseCase registra compras a proveedores: cabecera, líneas y entrada de stock.
type PurchaseUseCase struct {
	txRunner     TxRunner
	purchaseRepo repository.PurchaseRepository
	log          *logger.Logger
	opts         Options
}

// NewPurchaseUseCase construye el caso de uso de compras.
func NewPurchaseUseCase(txRunner TxRunner, purchaseRepo repository.PurchaseRepository, log *logger.Logger, opts Options) *PurchaseUseCase {
	return &PurchaseUseCase{
		txRunner:     txRunner,
		purchaseRepo: purchaseRepo,
		log:          log.Component("purchases"),
		opts:         opts,
	}
}

// CreatePurchase inserta la compra y suma al stock las cantidades recibidas.
func (uc *PurchaseUseCase) CreatePurchase(ctx context.Context, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	supplier := ledger.NormalizeParty(in.SupplierName)
	if supplier == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	items, total, err := resolveLines(in.Items)
	if err != nil {
		return nil, err
	}
	if in.PaidAmount.IsNegative() || in.PaidAmount.GreaterThan(total) || !ledger.FitsColumn(in.PaidAmount) {
		return nil, domain.ErrInvalidInput
	}

	purchase := &entity.Purchase{
		SupplierName:    supplier,
		SupplierPhone:   in.SupplierPhone,
		SupplierAddress: in.SupplierAddress,
		TotalAmount:     total,
		PaidAmount:      in.PaidAmount,
		PaymentStatus:   ledger.ResolvePaymentStatus(total, in.PaidAmount),
		Notes:           in.Notes,
	}
	if in.PurchaseDate != nil {
		purchase.PurchaseDate = *in.PurchaseDate
	}

	var created *entity.Purchase
	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.SaleRepository,
		purchaseRepo repository.PurchaseRepository,
	) error {
		if err := purchaseRepo.Create(ctx, purchase); err != nil {
			return err
		}
		for _, line := range items {
			item := &entity.PurchaseItem{
				PurchaseID: purchase.ID,
				ProductID:  line.ProductID,
				Quantity:   line.Quantity,
				UnitPrice:  line.UnitPrice,
				TotalPrice: line.TotalPrice,
			}
			if err := purchaseRepo.AddItem(ctx, item); err != nil {
				return productNotFound(line.ProductID, err)
			}
			if _, err := productRepo.AdjustStock(ctx, line.ProductID, inventory.PurchaseDelta(line.Quantity)); err != nil {
				return err
			}
		}
		got, err := purchaseRepo.GetByID(ctx, purchase.ID)
		if err != nil {
			return err
		}
		created = got
		return nil
	})
	if err != nil {
		uc.log.Error().Err(err).Str("supplier", supplier).Msg("no se pudo registrar la compra")
		return nil, err
	}
	uc.log.Info().Int64("purchase_id", created.ID).Str("total", total.String()).
		Str("status", string(created.PaymentStatus)).Msg("compra registrada")
	out := dto.FromPurchase(created)
	return &out, nil
}

// RecordPayment suma un pago al proveedor. Lo pagado se topa en el total.
func (uc *PurchaseUseCase) RecordPayment(ctx context.Context, id int64, in dto.PaymentRequest) (*dto.PurchaseResponse, error) {
	if !in.Amount.GreaterThan(decimal.Zero) || !ledger.FitsColumn(in.Amount) {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Purchase
	err := uc.txRunner.Run(ctx, func(
		_ repository.ProductRepository,
		_ repository.SaleRepository,
		purchaseRepo repository.PurchaseRepository,
	) error {
		purchase, err := purchaseRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		paid, status := ledger.ApplyPayment(purchase.TotalAmount, purchase.PaidAmount, in.Amount)
		if err := purchaseRepo.UpdatePayment(ctx, id, paid, status); err != nil {
			return err
		}
		purchase.PaidAmount, purchase.PaymentStatus = paid, status
		updated = purchase
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("purchase_id", id).Str("amount", in.Amount.String()).
		Str("status", string(updated.PaymentStatus)).Msg("pago a proveedor registrado")
	out := dto.FromPurchase(updated)
	return &out, nil
}

// DeletePurchase retira del stock lo recibido y elimina la compra (líneas en cascada).
// Con guard activo falla con ErrInsufficientStock si ya se vendió parte de lo comprado.
func (uc *PurchaseUseCase) DeletePurchase(ctx context.Context, id int64) error {
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.SaleRepository,
		purchaseRepo repository.PurchaseRepository,
	) error {
		purchase, err := purchaseRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		for _, it := range purchase.Items {
			if _, err := AdjustStock(ctx, productRepo, it.ProductID, inventory.PurchaseDelta(it.Quantity).Neg(), uc.opts.GuardNegativeStock); err != nil {
				return err
			}
		}
		return purchaseRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Int64("purchase_id", id).Msg("compra eliminada, stock retirado")
	return nil
}

// GetPurchase obtiene una compra con sus líneas.
func (uc *PurchaseUseCase) GetPurchase(ctx context.Context, id int64) (*dto.PurchaseResponse, error) {
	purchase, err := uc.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.FromPurchase(purchase)
	return &out, nil
}

// ListPurchases lista compras con filtros de fecha, estado y proveedor.
func (uc *PurchaseUseCase) ListPurchases(ctx context.Context, f dto.LedgerFilter) ([]dto.PurchaseResponse, error) {
	filter, err := toLedgerFilter(f)
	if err != nil {
		return nil, err
	}
	purchases, err := uc.purchaseRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, dto.FromPurchase(p))
	}
	return out, nil
}
