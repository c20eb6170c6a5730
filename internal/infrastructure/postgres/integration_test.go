package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fertilizer-shop/internal/domain"
	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/jhoicas/fertilizer-shop/internal/domain/repository"
	"github.com/jhoicas/fertilizer-shop/internal/infrastructure/postgres"
	"github.com/jhoicas/fertilizer-shop/internal/infrastructure/postgres/migrations"
	"github.com/jhoicas/fertilizer-shop/pkg/config"
	"github.com/jhoicas/fertilizer-shop/pkg/logger"
)

// testPool abre TEST_DATABASE_URL, aplica migraciones y deja las tablas vacías.
// Sin la variable los tests de integración se omiten.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = migrations.NewMigrator(pool, logger.Nop()).Up(ctx)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `TRUNCATE sale_items, sales, purchase_items, purchases, debts,
		refresh_tokens, users, products RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return pool
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newProduct(t *testing.T, repo *postgres.ProductRepo, stock string) *entity.Product {
	t.Helper()
	p := &entity.Product{
		Name:          "Urea 46%",
		Type:          entity.ProductTypeFertilizer,
		Brand:         "Yara",
		Unit:          "bag",
		PricePerUnit:  dec("1350.00"),
		StockQuantity: dec(stock),
		MinimumStock:  dec("5"),
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestMigrator_Idempotente(t *testing.T) {
	pool := testPool(t)
	m := migrations.NewMigrator(pool, logger.Nop())

	applied, err := m.Up(context.Background())
	require.NoError(t, err)
	assert.Empty(t, applied, "una segunda ejecución no aplica nada")

	pending, err := m.Pending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestProductRepo_CheckYTrigger(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := postgres.NewProductRepository(pool)

	bad := &entity.Product{Name: "X", Type: "herbicide", Brand: "Y", Unit: "kg"}
	assert.ErrorIs(t, repo.Create(ctx, bad), domain.ErrConstraintViolation)

	p := newProduct(t, repo, "10")
	created := p.UpdatedAt
	time.Sleep(10 * time.Millisecond)

	p.Description = "Bolsa de 50 kg"
	require.NoError(t, repo.Update(ctx, p))
	assert.True(t, p.UpdatedAt.After(created), "el trigger reescribe updated_at")

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bolsa de 50 kg", got.Description)

	missing, err := repo.GetByID(ctx, p.ID+1000)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProductRepo_AdjustStockPermiteNegativo(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := postgres.NewProductRepository(pool)
	p := newProduct(t, repo, "3")

	got, err := repo.AdjustStock(ctx, p.ID, dec("-5"))
	require.NoError(t, err)
	assert.True(t, got.StockQuantity.Equal(dec("-2")), "update_product_stock no valida negativos")

	low, err := repo.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)

	_, err = repo.AdjustStock(ctx, p.ID+1000, dec("1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaleRepo_CascadaYRestrict(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	products := postgres.NewProductRepository(pool)
	sales := postgres.NewSaleRepository(pool)
	p := newProduct(t, products, "10")

	sale := &entity.Sale{
		CustomerName:  "José Pérez",
		TotalAmount:   dec("2700.00"),
		PaidAmount:    dec("1000.00"),
		PaymentStatus: entity.PaymentStatusPartial,
	}
	require.NoError(t, sales.Create(ctx, sale))
	require.NoError(t, sales.AddItem(ctx, &entity.SaleItem{
		SaleID: sale.ID, ProductID: p.ID, Quantity: dec("2"), UnitPrice: dec("1350.00"), TotalPrice: dec("2700.00"),
	}))

	err := sales.AddItem(ctx, &entity.SaleItem{
		SaleID: sale.ID, ProductID: p.ID + 1000, Quantity: dec("1"), UnitPrice: dec("1"), TotalPrice: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrReferenceViolation)

	got, err := sales.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Urea 46%", got.Items[0].ProductName)
	assert.True(t, got.Balance().Equal(dec("1700")))

	assert.ErrorIs(t, products.Delete(ctx, p.ID), domain.ErrReferenceViolation,
		"un producto con líneas no puede borrarse")

	list, err := sales.List(ctx, repository.LedgerFilter{Party: "pérez"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, sales.Delete(ctx, sale.ID))
	var items int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM sale_items`).Scan(&items))
	assert.Zero(t, items, "las líneas se borran en cascada")

	require.NoError(t, products.Delete(ctx, p.ID))
}

func TestTxRunner_Rollback(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	products := postgres.NewProductRepository(pool)
	p := newProduct(t, products, "10")

	err := postgres.NewTxRunner(pool).Run(ctx, func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		_ repository.PurchaseRepository,
	) error {
		if _, err := productRepo.AdjustStock(ctx, p.ID, dec("-4")); err != nil {
			return err
		}
		sale := &entity.Sale{CustomerName: "Ana", TotalAmount: dec("1"), PaymentStatus: entity.PaymentStatusPending}
		if err := saleRepo.Create(ctx, sale); err != nil {
			return err
		}
		return saleRepo.AddItem(ctx, &entity.SaleItem{
			SaleID: sale.ID, ProductID: p.ID + 1000, Quantity: dec("1"), UnitPrice: dec("1"), TotalPrice: dec("1"),
		})
	})
	assert.ErrorIs(t, err, domain.ErrReferenceViolation)

	got, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.StockQuantity.Equal(dec("10")), "el ajuste se revierte con la transacción")
	var n int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM sales`).Scan(&n))
	assert.Zero(t, n)
}

func TestUserRepo_UnicosYCascada(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := postgres.NewUserRepository(pool)
	tokens := postgres.NewRefreshTokenRepository(pool)

	u := entity.NewUser("admin@tienda.com", "$2a$10$hash", "")
	require.NoError(t, users.Create(ctx, u))
	assert.Equal(t, entity.RoleUser, u.Role)

	dup := entity.NewUser("admin@tienda.com", "$2a$10$hash", "")
	assert.ErrorIs(t, users.Create(ctx, dup), domain.ErrEmailAlreadyExists)

	tok := &entity.RefreshToken{UserID: u.ID, JTI: "jti-1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, tokens.Create(ctx, tok))
	again := &entity.RefreshToken{UserID: u.ID, JTI: "jti-1", ExpiresAt: time.Now().Add(time.Hour)}
	assert.ErrorIs(t, tokens.Create(ctx, again), domain.ErrDuplicate)

	require.NoError(t, tokens.Revoke(ctx, "jti-1"))
	got, err := tokens.GetByJTI(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, got.Revoked)

	require.NoError(t, users.Delete(ctx, u.ID))
	got, err = tokens.GetByJTI(ctx, "jti-1")
	require.NoError(t, err)
	assert.Nil(t, got, "los refresh tokens se borran con el usuario")
}

func TestDebtRepo_MarkOverdueYSummary(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	debts := postgres.NewDebtRepository(pool)

	past := time.Now().AddDate(0, 0, -3)
	future := time.Now().AddDate(0, 0, 3)
	for _, d := range []*entity.Debt{
		{CustomerName: "Finca A", Amount: dec("100"), DueDate: &past},
		{CustomerName: "Finca B", Amount: dec("50"), DueDate: &future},
		{CustomerName: "Finca C", Amount: dec("0"), DueDate: &past, Status: entity.PaymentStatusPaid},
	} {
		require.NoError(t, debts.Create(ctx, d))
	}

	n, err := debts.MarkOverdue(ctx, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	overdue, err := debts.List(ctx, repository.DebtFilter{OverdueOnly: true})
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "Finca A", overdue[0].CustomerName)

	s, err := debts.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, s.TotalRecords)
	assert.True(t, s.Overdue.Equal(dec("100")))
	assert.True(t, s.Pending.Equal(dec("50")))

	bad := &entity.Debt{CustomerName: "X", Amount: dec("1"), Status: "cancelled"}
	assert.ErrorIs(t, debts.Create(ctx, bad), domain.ErrConstraintViolation)
}

func TestLedgerRepos_RechazanEstadoDesconocido(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	sale := &entity.Sale{CustomerName: "Ana", TotalAmount: dec("10"), PaymentStatus: "refunded"}
	assert.ErrorIs(t, postgres.NewSaleRepository(pool).Create(ctx, sale), domain.ErrConstraintViolation)

	purchase := &entity.Purchase{SupplierName: "Agroinsumos", TotalAmount: dec("10"), PaymentStatus: "refunded"}
	assert.ErrorIs(t, postgres.NewPurchaseRepository(pool).Create(ctx, purchase), domain.ErrConstraintViolation)
}

func TestPurchaseRepo_RestrictYCascada(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	products := postgres.NewProductRepository(pool)
	purchases := postgres.NewPurchaseRepository(pool)
	p := newProduct(t, products, "0")

	purchase := &entity.Purchase{
		SupplierName:  "Agroinsumos del Valle",
		TotalAmount:   dec("500.00"),
		PaymentStatus: entity.PaymentStatusPending,
	}
	require.NoError(t, purchases.Create(ctx, purchase))
	require.NoError(t, purchases.AddItem(ctx, &entity.PurchaseItem{
		PurchaseID: purchase.ID, ProductID: p.ID, Quantity: dec("10"), UnitPrice: dec("50.00"), TotalPrice: dec("500.00"),
	}))

	assert.ErrorIs(t, products.Delete(ctx, p.ID), domain.ErrReferenceViolation)

	require.NoError(t, purchases.Delete(ctx, purchase.ID))
	var items int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM purchase_items`).Scan(&items))
	assert.Zero(t, items)

	got, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.NotNil(t, got, "el producto referenciado no se toca")
}

func TestProductRepo_AjusteDeStockRefrescaUpdatedAt(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := postgres.NewProductRepository(pool)
	p := newProduct(t, repo, "500")
	time.Sleep(10 * time.Millisecond)

	got, err := repo.AdjustStock(ctx, p.ID, dec("-25"))
	require.NoError(t, err)
	assert.True(t, got.StockQuantity.Equal(dec("475")))
	assert.True(t, got.UpdatedAt.After(p.UpdatedAt))
}

func TestUserRepo_DefaultsDeColumna(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	u := &entity.User{Email: "vendedor@tienda.com", HashedPassword: "$2a$10$hash", IsActive: true}
	require.NoError(t, postgres.NewUserRepository(pool).Create(ctx, u))
	assert.Equal(t, entity.RoleUser, u.Role, "role omitido toma el DEFAULT 'user'")

	var active bool
	_, err := pool.Exec(ctx, `INSERT INTO users (email, hashed_password) VALUES ('raw@tienda.com', 'x')`)
	require.NoError(t, err)
	require.NoError(t, pool.QueryRow(ctx, `SELECT is_active FROM users WHERE email = 'raw@tienda.com'`).Scan(&active))
	assert.True(t, active)
}

func TestEscenarioVentaPagadaConAjusteDeStock(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	products := postgres.NewProductRepository(pool)
	p := newProduct(t, products, "20")

	var saleID int64
	err := postgres.NewTxRunner(pool).Run(ctx, func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		_ repository.PurchaseRepository,
	) error {
		sale := &entity.Sale{
			CustomerName:  "Test",
			TotalAmount:   dec("100.00"),
			PaidAmount:    dec("100.00"),
			PaymentStatus: entity.PaymentStatusPaid,
		}
		if err := saleRepo.Create(ctx, sale); err != nil {
			return err
		}
		saleID = sale.ID
		if err := saleRepo.AddItem(ctx, &entity.SaleItem{
			SaleID: sale.ID, ProductID: p.ID, Quantity: dec("2"), UnitPrice: dec("50.00"), TotalPrice: dec("100.00"),
		}); err != nil {
			return err
		}
		_, err := productRepo.AdjustStock(ctx, p.ID, dec("-2"))
		return err
	})
	require.NoError(t, err)

	got, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.StockQuantity.Equal(dec("18")))

	sale, err := postgres.NewSaleRepository(pool).GetByID(ctx, saleID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, sale.PaymentStatus)
}

func TestProductRepo_UpdateNoPisaAjusteConcurrente(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := postgres.NewProductRepository(pool)
	p := newProduct(t, repo, "10")

	stale, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)

	// Otra sesión vende mientras el operador edita la ficha.
	_, err = repo.AdjustStock(ctx, p.ID, dec("-4"))
	require.NoError(t, err)

	stale.PricePerUnit = dec("1400.00")
	require.NoError(t, repo.Update(ctx, stale))
	assert.True(t, stale.StockQuantity.Equal(dec("6")), "Update devuelve el stock vigente")

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.StockQuantity.Equal(dec("6")), "el ajuste concurrente sobrevive a la edición")
	assert.True(t, got.PricePerUnit.Equal(dec("1400.00")))
}

func TestDebtRepo_ApplyPaymentConcurrente(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	debts := postgres.NewDebtRepository(pool)
	d := &entity.Debt{CustomerName: "Finca A", Amount: dec("200"), Description: "Abono a crédito"}
	require.NoError(t, debts.Create(ctx, d))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := debts.ApplyPayment(ctx, d.ID, dec("25"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := debts.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(dec("100")), "ningún abono se pierde: %s", got.Amount)
	assert.Equal(t, entity.PaymentStatusPartial, got.Status)

	paid, err := debts.ApplyPayment(ctx, d.ID, dec("150"))
	require.NoError(t, err)
	assert.True(t, paid.Amount.IsZero(), "el saldo no baja de cero")
	assert.Equal(t, entity.PaymentStatusPaid, paid.Status)

	again, err := debts.ApplyPayment(ctx, d.ID, dec("1"))
	require.NoError(t, err)
	assert.Nil(t, again, "una deuda saldada no acepta más abonos")
}

func TestRefreshTokenRepo_RevokeActiveUnaSolaVez(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	u := entity.NewUser("cajero@tienda.com", "$2a$10$hash", "")
	require.NoError(t, postgres.NewUserRepository(pool).Create(ctx, u))
	tokens := postgres.NewRefreshTokenRepository(pool)

	now := time.Now()
	require.NoError(t, tokens.Create(ctx, &entity.RefreshToken{UserID: u.ID, JTI: "vigente", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, tokens.Create(ctx, &entity.RefreshToken{UserID: u.ID, JTI: "vencido", ExpiresAt: now.Add(-time.Hour)}))

	ok, err := tokens.RevokeActive(ctx, "vigente", now)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = tokens.RevokeActive(ctx, "vigente", now)
	require.NoError(t, err)
	assert.False(t, ok, "la segunda rotación con el mismo jti pierde")

	ok, err = tokens.RevokeActive(ctx, "vencido", now)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = tokens.RevokeActive(ctx, "inexistente", now)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAnalyticsRepo_SalesByDayEnZonaDeLaTienda(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	// 20:30 del 10 de abril en Bogotá.
	_, err := pool.Exec(ctx, `INSERT INTO sales (customer_name, total_amount, paid_amount, payment_status, sale_date)
		VALUES ('Ana', 80, 80, 'paid', '2024-04-11 01:30:00+00')`)
	require.NoError(t, err)
	repo := postgres.NewAnalyticsRepository(pool)

	from := time.Date(2024, 4, 9, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 4, 13, 0, 0, 0, 0, time.UTC)

	rows, err := repo.SalesByDay(ctx, from, to, "America/Bogota")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-04-10", rows[0].Day.Format(time.DateOnly))
	assert.True(t, rows[0].Paid.Equal(dec("80")))

	rows, err = repo.SalesByDay(ctx, from, to, "UTC")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-04-11", rows[0].Day.Format(time.DateOnly))
}

func TestTriggers_UpdatedAtIgnoraValorDelLlamador(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	p := newProduct(t, postgres.NewProductRepository(pool), "10")
	sale := &entity.Sale{CustomerName: "Ana", TotalAmount: dec("10"), PaymentStatus: entity.PaymentStatusPending}
	require.NoError(t, postgres.NewSaleRepository(pool).Create(ctx, sale))
	purchase := &entity.Purchase{SupplierName: "Agroinsumos", TotalAmount: dec("10"), PaymentStatus: entity.PaymentStatusPending}
	require.NoError(t, postgres.NewPurchaseRepository(pool).Create(ctx, purchase))
	debt := &entity.Debt{CustomerName: "Finca A", Amount: dec("10"), Description: "Saldo"}
	require.NoError(t, postgres.NewDebtRepository(pool).Create(ctx, debt))
	u := entity.NewUser("vendedor@tienda.com", "$2a$10$hash", "")
	require.NoError(t, postgres.NewUserRepository(pool).Create(ctx, u))

	cases := []struct {
		table, set string
		id         int64
	}{
		{"products", "name = 'Urea granulada'", p.ID},
		{"sales", "notes = 'entregar el lunes'", sale.ID},
		{"purchases", "notes = 'factura 118'", purchase.ID},
		{"debts", "notes = 'llamar el viernes'", debt.ID},
		{"users", "full_name = 'Vendedor'", u.ID},
	}
	for _, tc := range cases {
		t.Run(tc.table, func(t *testing.T) {
			var before, after time.Time
			require.NoError(t, pool.QueryRow(ctx, `SELECT updated_at FROM `+tc.table+` WHERE id = $1`, tc.id).Scan(&before))
			err := pool.QueryRow(ctx,
				`UPDATE `+tc.table+` SET updated_at = '2000-01-01', `+tc.set+` WHERE id = $1 RETURNING updated_at`,
				tc.id).Scan(&after)
			require.NoError(t, err)
			assert.False(t, after.Before(before), "updated_at no retrocede: %s < %s", after, before)
			assert.True(t, after.After(time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)))
		})
	}
}
