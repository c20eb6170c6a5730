package ledger

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeParty limpia el nombre de un cliente o proveedor: forma NFC y espacios colapsados,
// para que "José  Pérez" escrito con acentos combinados y con acento compuesto coincidan en los filtros.
func NormalizeParty(name string) string {
	return strings.Join(strings.Fields(norm.NFC.String(name)), " ")
}
