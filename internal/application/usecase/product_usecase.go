package usecase

import (
	"context"

	"github.com/jhoicas/fertilizer-shop/internal/application/dto"
	"github.com/jhoicas/fertilizer-shop/internal/application/ledger"
	"github.com/jhoicas/fertilizer-shop/internal/domain"
	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/jhoicas/fertilizer-shop/internal/domain/inventory"
	"github.com/jhoicas/fertilizer-shop/internal/domain/repository"
	"github.com/jhoicas/fertilizer-shop/pkg/logger"
	"github.com/shopspring/decimal"
)

// ProductUseCase casos de uso del catálogo. El stock sólo cambia vía UpdateStock o el libro de ventas/compras.
type ProductUseCase struct {
	repo     repository.ProductRepository
	txRunner ledger.TxRunner
	log      *logger.Logger
	opts     ledger.Options
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, txRunner ledger.TxRunner, log *logger.Logger, opts ledger.Options) *ProductUseCase {
	return &ProductUseCase{repo: repo, txRunner: txRunner, log: log.Component("products"), opts: opts}
}

// Create crea un producto. Stock y mínimo no pueden ser negativos al darlo de alta.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product := &entity.Product{
		Name:          in.Name,
		Type:          entity.ProductType(in.Type),
		Brand:         in.Brand,
		Unit:          in.Unit,
		PricePerUnit:  in.PricePerUnit,
		StockQuantity: in.StockQuantity,
		MinimumStock:  in.MinimumStock,
		Description:   in.Description,
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if product.StockQuantity.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("product_id", product.ID).Str("name", product.Name).Msg("producto creado")
	out := dto.FromProduct(product)
	return &out, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.FromProduct(product)
	return &out, nil
}

// List lista productos por tipo y texto.
func (uc *ProductUseCase) List(ctx context.Context, f dto.ProductFilter) ([]dto.ProductResponse, error) {
	typ := entity.ProductType(f.Type)
	if typ != "" && !typ.Valid() {
		return nil, domain.ErrInvalidInput
	}
	f.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ProductFilter{Type: typ, Search: f.Search, Limit: f.Limit, Offset: f.Offset})
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// LowStock productos por debajo de su mínimo.
func (uc *ProductUseCase) LowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// Update aplica los campos presentes. No modifica el stock.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Type != nil {
		product.Type = entity.ProductType(*in.Type)
	}
	if in.Brand != nil {
		product.Brand = *in.Brand
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.PricePerUnit != nil {
		product.PricePerUnit = *in.PricePerUnit
	}
	if in.MinimumStock != nil {
		product.MinimumStock = *in.MinimumStock
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	out := dto.FromProduct(product)
	return &out, nil
}

// Delete elimina el producto. Falla con ErrReferenceViolation si tiene ventas o compras.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Int64("product_id", id).Msg("producto eliminado")
	return nil
}

// UpdateStock suma o resta quantity al stock mediante la rutina de ajuste.
func (uc *ProductUseCase) UpdateStock(ctx context.Context, id int64, in dto.UpdateStockRequest) (*dto.ProductResponse, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	var delta decimal.Decimal
	switch in.Operation {
	case dto.StockOpAdd:
		delta = inventory.PurchaseDelta(in.Quantity)
	case dto.StockOpSubtract:
		delta = inventory.SaleDelta(in.Quantity)
	default:
		return nil, domain.ErrInvalidInput
	}
	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.SaleRepository,
		_ repository.PurchaseRepository,
	) error {
		p, err := ledger.AdjustStock(ctx, productRepo, id, delta, uc.opts.GuardNegativeStock)
		if err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("product_id", id).Str("delta", delta.String()).
		Str("stock", product.StockQuantity.String()).Msg("stock ajustado")
	out := dto.FromProduct(product)
	return &out, nil
}

func validateProduct(p *entity.Product) error {
	if p.Name == "" || p.Brand == "" || p.Unit == "" || !p.Type.Valid() {
		return domain.ErrInvalidInput
	}
	if p.PricePerUnit.IsNegative() || p.MinimumStock.IsNegative() {
		return domain.ErrInvalidInput
	}
	return nil
}

func toProductResponses(list []*entity.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.FromProduct(p))
	}
	return out
}
