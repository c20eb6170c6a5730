package dto

import "github.com/jhoicas/fertilizer-shop/internal/domain/entity"

// FromProduct mapea la entidad a su salida.
func FromProduct(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Type:          string(p.Type),
		Brand:         p.Brand,
		Unit:          p.Unit,
		PricePerUnit:  p.PricePerUnit,
		StockQuantity: p.StockQuantity,
		MinimumStock:  p.MinimumStock,
		LowStock:      p.IsLowStock(),
		Description:   p.Description,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// FromSale mapea la venta y sus líneas.
func FromSale(s *entity.Sale) SaleResponse {
	items := make([]LineResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, LineResponse{
			ID: it.ID, ProductID: it.ProductID, ProductName: it.ProductName, ProductUnit: it.ProductUnit,
			Quantity: it.Quantity, UnitPrice: it.UnitPrice, TotalPrice: it.TotalPrice,
		})
	}
	return SaleResponse{
		ID:              s.ID,
		CustomerName:    s.CustomerName,
		CustomerPhone:   s.CustomerPhone,
		CustomerAddress: s.CustomerAddress,
		TotalAmount:     s.TotalAmount,
		PaidAmount:      s.PaidAmount,
		Balance:         s.Balance(),
		PaymentStatus:   string(s.PaymentStatus),
		Notes:           s.Notes,
		SaleDate:        s.SaleDate,
		Items:           items,
	}
}

// FromPurchase mapea la compra y sus líneas.
func FromPurchase(p *entity.Purchase) PurchaseResponse {
	items := make([]LineResponse, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, LineResponse{
			ID: it.ID, ProductID: it.ProductID, ProductName: it.ProductName, ProductUnit: it.ProductUnit,
			Quantity: it.Quantity, UnitPrice: it.UnitPrice, TotalPrice: it.TotalPrice,
		})
	}
	return PurchaseResponse{
		ID:              p.ID,
		SupplierName:    p.SupplierName,
		SupplierPhone:   p.SupplierPhone,
		SupplierAddress: p.SupplierAddress,
		TotalAmount:     p.TotalAmount,
		PaidAmount:      p.PaidAmount,
		Balance:         p.Balance(),
		PaymentStatus:   string(p.PaymentStatus),
		Notes:           p.Notes,
		PurchaseDate:    p.PurchaseDate,
		Items:           items,
	}
}

// FromDebt mapea la deuda.
func FromDebt(d *entity.Debt) DebtResponse {
	return DebtResponse{
		ID:            d.ID,
		CustomerName:  d.CustomerName,
		CustomerPhone: d.CustomerPhone,
		Amount:        d.Amount,
		Description:   d.Description,
		DueDate:       d.DueDate,
		Status:        string(d.Status),
		Notes:         d.Notes,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// FromUser mapea el usuario sin su hash.
func FromUser(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
