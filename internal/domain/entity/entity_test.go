package entity_test

import (
	"testing"
	"time"

	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEnums_Validos(t *testing.T) {
	for _, pt := range []entity.ProductType{"fertilizer", "pesticide", "seed"} {
		assert.True(t, pt.Valid(), "%s debe ser válido", pt)
	}
	assert.False(t, entity.ProductType("tool").Valid())

	for _, st := range []entity.PaymentStatus{"paid", "pending", "partial", "overdue"} {
		assert.True(t, st.Valid(), "%s debe ser válido", st)
	}
	assert.False(t, entity.PaymentStatus("cancelled").Valid())
	assert.False(t, entity.PaymentStatus("").Valid())

	assert.True(t, entity.RoleAdmin.Valid())
	assert.False(t, entity.Role("superuser").Valid())
}

func TestNewUser_ValoresPorDefecto(t *testing.T) {
	u := entity.NewUser("ana@tienda.com", "hash", "Ana")
	assert.Equal(t, entity.RoleUser, u.Role)
	assert.True(t, u.IsActive)
	assert.False(t, u.IsAdmin())
}

func TestDebt_IsPastDue(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, -1)
	debt := entity.Debt{Status: entity.PaymentStatusPending, DueDate: &due}
	assert.True(t, debt.IsPastDue(now))

	debt.Status = entity.PaymentStatusPaid
	assert.False(t, debt.IsPastDue(now), "una deuda pagada no vence")

	debt.Status = entity.PaymentStatusPartial
	debt.DueDate = nil
	assert.False(t, debt.IsPastDue(now), "sin fecha de vencimiento no vence")
}

func TestProduct_IsLowStock(t *testing.T) {
	p := entity.Product{StockQuantity: decimal.NewFromInt(4), MinimumStock: decimal.NewFromInt(5)}
	assert.True(t, p.IsLowStock())
	p.StockQuantity = decimal.NewFromInt(5)
	assert.False(t, p.IsLowStock())
}

func TestRefreshToken_Usable(t *testing.T) {
	now := time.Now()
	tok := entity.RefreshToken{ExpiresAt: now.Add(time.Hour)}
	assert.True(t, tok.Usable(now))
	tok.Revoked = true
	assert.False(t, tok.Usable(now))
	tok.Revoked = false
	assert.False(t, tok.Usable(now.Add(2*time.Hour)))
}
