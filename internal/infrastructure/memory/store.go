// Package memory implementa los puertos de repositorio en memoria para pruebas de casos de uso.
// Replica las reglas declarativas del esquema (FK, cascadas, unicidad, triggers de updated_at)
// y la atomicidad de las transacciones mediante snapshot y restauración.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/jhoicas/fertilizer-shop/internal/domain/repository"
)

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	now  func() time.Time
	data state
}

type state struct {
	seq           int64
	products      map[int64]entity.Product
	sales         map[int64]entity.Sale
	saleItems     map[int64]entity.SaleItem
	purchases     map[int64]entity.Purchase
	purchaseItems map[int64]entity.PurchaseItem
	debts         map[int64]entity.Debt
	users         map[int64]entity.User
	tokens        map[int64]entity.RefreshToken
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{now: time.Now, data: newState()}
}

// SetClock fija el reloj usado para created_at/updated_at.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func newState() state {
	return state{
		products:      map[int64]entity.Product{},
		sales:         map[int64]entity.Sale{},
		saleItems:     map[int64]entity.SaleItem{},
		purchases:     map[int64]entity.Purchase{},
		purchaseItems: map[int64]entity.PurchaseItem{},
		debts:         map[int64]entity.Debt{},
		users:         map[int64]entity.User{},
		tokens:        map[int64]entity.RefreshToken{},
	}
}

func (st state) clone() state {
	c := newState()
	c.seq = st.seq
	for k, v := range st.products {
		c.products[k] = v
	}
	for k, v := range st.sales {
		c.sales[k] = v
	}
	for k, v := range st.saleItems {
		c.saleItems[k] = v
	}
	for k, v := range st.purchases {
		c.purchases[k] = v
	}
	for k, v := range st.purchaseItems {
		c.purchaseItems[k] = v
	}
	for k, v := range st.debts {
		c.debts[k] = v
	}
	for k, v := range st.users {
		c.users[k] = v
	}
	for k, v := range st.tokens {
		c.tokens[k] = v
	}
	return c
}

func (s *Store) nextID() int64 {
	s.data.seq++
	return s.data.seq
}

// Products repositorio de productos sobre el almacén.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Sales repositorio de ventas sobre el almacén.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{s: s} }

// Purchases repositorio de compras sobre el almacén.
func (s *Store) Purchases() *PurchaseRepo { return &PurchaseRepo{s: s} }

// Debts repositorio de deudas sobre el almacén.
func (s *Store) Debts() *DebtRepo { return &DebtRepo{s: s} }

// Users repositorio de usuarios sobre el almacén.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// RefreshTokens repositorio de sesiones sobre el almacén.
func (s *Store) RefreshTokens() *RefreshTokenRepo { return &RefreshTokenRepo{s: s} }

// Run ejecuta fn como una transacción: si fn falla el estado vuelve al snapshot previo.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	purchaseRepo repository.PurchaseRepository,
) error) error {
	return s.inTx(func() error { return fn(s.Products(), s.Sales(), s.Purchases()) })
}

// RunSession transacción con repos de usuarios y refresh tokens.
func (s *Store) RunSession(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	tokenRepo repository.RefreshTokenRepository,
) error) error {
	return s.inTx(func() error { return fn(s.Users(), s.RefreshTokens()) })
}

func (s *Store) inTx(fn func() error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}
