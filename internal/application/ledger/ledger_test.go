package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fertilizer-shop/internal/application/dto"
	"github.com/jhoicas/fertilizer-shop/internal/application/ledger"
	"github.com/jhoicas/fertilizer-shop/internal/domain"
	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/jhoicas/fertilizer-shop/internal/infrastructure/memory"
	"github.com/jhoicas/fertilizer-shop/pkg/logger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// seedProduct crea un producto con el stock indicado.
func seedProduct(t *testing.T, store *memory.Store, name, stock string) *entity.Product {
	t.Helper()
	p := &entity.Product{
		Name:          name,
		Type:          entity.ProductTypeFertilizer,
		Brand:         "Yara",
		Unit:          "bag",
		PricePerUnit:  dec("10.00"),
		StockQuantity: dec(stock),
		MinimumStock:  dec("5"),
	}
	require.NoError(t, store.Products().Create(context.Background(), p))
	return p
}

func stockOf(t *testing.T, store *memory.Store, id int64) decimal.Decimal {
	t.Helper()
	p, err := store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.StockQuantity
}

func newSales(store *memory.Store, guard bool) *ledger.SaleUseCase {
	return ledger.NewSaleUseCase(store, store.Sales(), logger.Nop(), ledger.Options{GuardNegativeStock: guard})
}

func newPurchases(store *memory.Store, guard bool) *ledger.PurchaseUseCase {
	return ledger.NewPurchaseUseCase(store, store.Purchases(), logger.Nop(), ledger.Options{GuardNegativeStock: guard})
}

func TestCreateSale_CalculaTotalesYDescuentaStock(t *testing.T) {
	store := memory.NewStore()
	urea := seedProduct(t, store, "Urea 46%", "100")
	uc := newSales(store, false)

	out, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerName: "  Juan   Pérez ",
		Items: []dto.LineRequest{
			{ProductID: urea.ID, Quantity: dec("3"), UnitPrice: dec("12.50")},
			{ProductID: urea.ID, Quantity: dec("0.5"), UnitPrice: dec("12.50"), TotalPrice: dec("6.25")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Juan Pérez", out.CustomerName, "el nombre del cliente se normaliza")
	assert.True(t, out.TotalAmount.Equal(dec("43.75")), "total = Σ quantity × unit_price")
	assert.Equal(t, string(entity.PaymentStatusPending), out.PaymentStatus)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "Urea 46%", out.Items[0].ProductName)
	assert.True(t, stockOf(t, store, urea.ID).Equal(dec("96.5")), "el stock baja en la cantidad vendida")
}

func TestCreateSale_PagoInicialResuelveEstado(t *testing.T) {
	store := memory.NewStore()
	p := seedProduct(t, store, "DAP", "10")
	uc := newSales(store, false)
	line := []dto.LineRequest{{ProductID: p.ID, Quantity: dec("2"), UnitPrice: dec("50")}}

	partial, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{CustomerName: "Ana", PaidAmount: dec("40"), Items: line})
	require.NoError(t, err)
	assert.Equal(t, "partial", partial.PaymentStatus)

	paid, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{CustomerName: "Ana", PaidAmount: dec("100"), Items: line})
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.PaymentStatus)

	_, err = uc.CreateSale(context.Background(), dto.CreateSaleRequest{CustomerName: "Ana", PaidAmount: dec("100.01"), Items: line})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "lo pagado no puede superar el total")
}

func TestCreateSale_LineaInconsistente_Error(t *testing.T) {
	store := memory.NewStore()
	p := seedProduct(t, store, "NPK", "10")
	uc := newSales(store, false)

	_, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerName: "Ana",
		Items:        []dto.LineRequest{{ProductID: p.ID, Quantity: dec("2"), UnitPrice: dec("5"), TotalPrice: dec("11")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, stockOf(t, store, p.ID).Equal(dec("10")))
}

func TestCreateSale_EntradaVacia_Error(t *testing.T) {
	uc := newSales(memory.NewStore(), false)

	_, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{CustomerName: "Ana"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "una venta sin líneas es inválida")

	_, err = uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerName: "   ",
		Items:        []dto.LineRequest{{ProductID: 1, Quantity: dec("1"), UnitPrice: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el cliente es obligatorio")
}

func TestCreateSale_ProductoInexistenteRevierte(t *testing.T) {
	store := memory.NewStore()
	p := seedProduct(t, store, "Urea", "10")
	uc := newSales(store, false)

	_, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerName: "Ana",
		Items: []dto.LineRequest{
			{ProductID: p.ID, Quantity: dec("1"), UnitPrice: dec("1")},
			{ProductID: 9999, Quantity: dec("1"), UnitPrice: dec("1")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.True(t, stockOf(t, store, p.ID).Equal(dec("10")), "el ajuste de la primera línea se revierte")
	sales, err := uc.ListSales(context.Background(), dto.LedgerFilter{})
	require.NoError(t, err)
	assert.Empty(t, sales, "la cabecera no queda persistida")
}

func TestCreateSale_ModoPermisivoDejaStockNegativo(t *testing.T) {
	store := memory.NewStore()
	p := seedProduct(t, store, "Urea", "1")
	uc := newSales(store, false)

	_, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerName: "Ana",
		Items:        []dto.LineRequest{{ProductID: p.ID, Quantity: dec("3"), UnitPrice: dec("1")}},
	})
	require.NoError(t, err)
	assert.True(t, stockOf(t, store, p.ID).Equal(dec("-2")), "sin guard el stock puede quedar negativo")
}

func TestCreateSale_GuardRechazaStockNegativo(t *testing.T) {
	store := memory.NewStore()
	p := seedProduct(t, store, "Urea", "2")
	uc := newSales(store, true)

	_, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerName: "Ana",
		Items: []dto.LineRequest{
			{ProductID: p.ID, Quantity: dec("2"), UnitPrice: dec("1")},
			{ProductID: p.ID, Quantity: dec("1"), UnitPrice: dec("1")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "la segunda línea dejaría el stock en -1")
	assert.True(t, stockOf(t, store, p.ID).Equal(dec("2")))
}

func TestRecordPayment_TopaEnTotal(t *testing.T) {
	store := memory.NewStore()
	p := seedProduct(t, store, "Urea", "10")
	uc := newSales(store, false)
	sale, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerName: "Ana",
		Items:        []dto.LineRequest{{ProductID: p.ID, Quantity: dec("1"), UnitPrice: dec("100")}},
	})
	require.NoError(t, err)

	out, err := uc.RecordPayment(context.Background(), sale.ID, dto.PaymentRequest{Amount: dec("30")})
	require.NoError(t, err)
	assert.Equal(t, "partial", out.PaymentStatus)
	assert.True(t, out.PaidAmount.Equal(dec("30")))

	out, err = uc.RecordPayment(context.Background(), sale.ID, dto.PaymentRequest{Amount: dec("500")})
	require.NoError(t, err)
	assert.Equal(t, "paid", out.PaymentStatus)
	assert.True(t, out.PaidAmount.Equal(dec("100")), "lo pagado se topa en el total")
	assert.True(t, out.Balance.IsZero())

	_, err = uc.RecordPayment(context.Background(), sale.ID, dto.PaymentRequest{Amount: dec("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RecordPayment(context.Background(), 9999, dto.PaymentRequest{Amount: dec("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteSale_RestauraStock(t *testing.T) {
	store := memory.NewStore()
	p := seedProduct(t, store, "Urea", "10")
	uc := newSales(store, false)
	sale, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerName: "Ana",
		Items:        []dto.LineRequest{{ProductID: p.ID, Quantity: dec("4"), UnitPrice: dec("1")}},
	})
	require.NoError(t, err)
	require.True(t, stockOf(t, store, p.ID).Equal(dec("6")))

	require.NoError(t, uc.DeleteSale(context.Background(), sale.ID))
	assert.True(t, stockOf(t, store, p.ID).Equal(dec("10")))

	_, err = uc.GetSale(context.Background(), sale.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.DeleteSale(context.Background(), sale.ID), domain.ErrNotFound)
}

func TestListSales_EstadoDesconocido_Error(t *testing.T) {
	uc := newSales(memory.NewStore(), false)
	_, err := uc.ListSales(context.Background(), dto.LedgerFilter{Status: "cancelled"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDailyStats_SoloElDiaPedido(t *testing.T) {
	store := memory.NewStore()
	p := seedProduct(t, store, "Urea", "100")
	uc := newSales(store, false)
	day := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	yesterday := day.AddDate(0, 0, -1)
	line := []dto.LineRequest{{ProductID: p.ID, Quantity: dec("1"), UnitPrice: dec("100")}}

	_, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{CustomerName: "A", PaidAmount: dec("100"), SaleDate: &day, Items: line})
	require.NoError(t, err)
	_, err = uc.CreateSale(context.Background(), dto.CreateSaleRequest{CustomerName: "B", PaidAmount: dec("10"), SaleDate: &day, Items: line})
	require.NoError(t, err)
	_, err = uc.CreateSale(context.Background(), dto.CreateSaleRequest{CustomerName: "C", SaleDate: &yesterday, Items: line})
	require.NoError(t, err)

	stats, err := uc.DailyStats(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.SalesCount)
	assert.True(t, stats.TotalSales.Equal(dec("200")))
	assert.True(t, stats.PaidSales.Equal(dec("100")))
	assert.True(t, stats.PendingSales.Equal(dec("100")), "pending incluye las ventas parciales")
}

func TestCreatePurchase_IncrementaStock(t *testing.T) {
	store := memory.NewStore()
	p := seedProduct(t, store, "Glifosato", "5")
	uc := newPurchases(store, false)

	out, err := uc.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		SupplierName: "Agroinsumos SA",
		PaidAmount:   dec("80"),
		Items:        []dto.LineRequest{{ProductID: p.ID, Quantity: dec("20"), UnitPrice: dec("4")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", out.PaymentStatus)
	assert.True(t, stockOf(t, store, p.ID).Equal(dec("25")))

	got, err := uc.RecordPayment(context.Background(), out.ID, dto.PaymentRequest{Amount: dec("1")})
	require.NoError(t, err)
	assert.True(t, got.PaidAmount.Equal(dec("80")), "un pago extra no supera el total")
}

func TestDeletePurchase_RetiraStockYRespetaGuard(t *testing.T) {
	store := memory.NewStore()
	p := seedProduct(t, store, "Semilla maíz", "0")
	purchases := newPurchases(store, true)
	sales := newSales(store, true)

	purchase, err := purchases.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		SupplierName: "Semillas del Valle",
		Items:        []dto.LineRequest{{ProductID: p.ID, Quantity: dec("10"), UnitPrice: dec("3")}},
	})
	require.NoError(t, err)
	_, err = sales.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerName: "Ana",
		Items:        []dto.LineRequest{{ProductID: p.ID, Quantity: dec("4"), UnitPrice: dec("5")}},
	})
	require.NoError(t, err)

	err = purchases.DeletePurchase(context.Background(), purchase.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "ya se vendió parte de lo comprado")
	assert.True(t, stockOf(t, store, p.ID).Equal(dec("6")))

	unguarded := newPurchases(store, false)
	require.NoError(t, unguarded.DeletePurchase(context.Background(), purchase.ID))
	assert.True(t, stockOf(t, store, p.ID).Equal(dec("-4")))
}
