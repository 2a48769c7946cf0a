// Package docnumber genera los números visibles de documentos (órdenes, pagos, entradas).
package docnumber

import (
	"strings"

	"github.com/google/uuid"
)

// Prefijos de documento.
const (
	OrderPrefix   = "ORD"
	PaymentPrefix = "PAY"
	EntryPrefix   = "INV"
)

// New devuelve PREFIJO-XXXXXXXX con 8 hexadecimales en mayúscula tomados de un UUID v4.
func New(prefix string) string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return prefix + "-" + strings.ToUpper(hex[:8])
}
