package entity

// ProductType categoría cerrada de producto (CHECK en products.type).
type ProductType string

const (
	ProductTypeFertilizer ProductType = "fertilizer"
	ProductTypePesticide  ProductType = "pesticide"
	ProductTypeSeed       ProductType = "seed"
)

// Valid indica si el valor pertenece a la enumeración.
func (t ProductType) Valid() bool {
	switch t {
	case ProductTypeFertilizer, ProductTypePesticide, ProductTypeSeed:
		return true
	}
	return false
}

// PaymentStatus estado de cobro/pago compartido por sales, purchases y debts.
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

// Valid indica si el valor pertenece a la enumeración.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusPending, PaymentStatusPartial, PaymentStatusOverdue:
		return true
	}
	return false
}

// Open indica si el estado representa un saldo todavía exigible.
func (s PaymentStatus) Open() bool {
	return s == PaymentStatusPending || s == PaymentStatusPartial || s == PaymentStatusOverdue
}

// Role rol de un usuario autenticado.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid indica si el valor pertenece a la enumeración.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}
