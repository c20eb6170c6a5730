package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/fertilizer-shop/internal/application/dto"
	"github.com/shopspring/decimal"
)

func parseID(name, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s inválido %q", name, s)
	}
	return id, nil
}

func parseAmount(name, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s inválido %q: %w", name, s, err)
	}
	return d, nil
}

// parseLines lee líneas "producto:cantidad:precio[:total]".
func parseLines(raws []string) ([]dto.LineRequest, error) {
	lines := make([]dto.LineRequest, 0, len(raws))
	for _, raw := range raws {
		parts := strings.Split(raw, ":")
		if len(parts) != 3 && len(parts) != 4 {
			return nil, fmt.Errorf("línea %q: se espera producto:cantidad:precio[:total]", raw)
		}
		id, err := parseID("producto", parts[0])
		if err != nil {
			return nil, fmt.Errorf("línea %q: %w", raw, err)
		}
		line := dto.LineRequest{ProductID: id}
		if line.Quantity, err = parseAmount("cantidad", parts[1]); err != nil {
			return nil, fmt.Errorf("línea %q: %w", raw, err)
		}
		if line.UnitPrice, err = parseAmount("precio", parts[2]); err != nil {
			return nil, fmt.Errorf("línea %q: %w", raw, err)
		}
		if len(parts) == 4 {
			if line.TotalPrice, err = parseAmount("total", parts[3]); err != nil {
				return nil, fmt.Errorf("línea %q: %w", raw, err)
			}
		}
		lines = append(lines, line)
	}
	return lines, nil
}
