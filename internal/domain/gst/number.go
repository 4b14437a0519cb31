package gst

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// InvoicePrefix encabeza todos los números de factura.
const InvoicePrefix = "INV"

// DayPrefix devuelve el prefijo común a todas las facturas de un día: "INV-20240315-".
func DayPrefix(issuedAt time.Time) string {
	return fmt.Sprintf("%s-%s-", InvoicePrefix, issuedAt.Format("20060102"))
}

// FormatInvoiceNumber construye INV-YYYYMMDD-NNNN; la secuencia se reinicia cada día.
func FormatInvoiceNumber(issuedAt time.Time, seq int) (string, error) {
	if seq <= 0 {
		return "", fmt.Errorf("gst: secuencia de factura inválida: %d", seq)
	}
	return fmt.Sprintf("%s%04d", DayPrefix(issuedAt), seq), nil
}

// NextSequence devuelve la secuencia siguiente a partir del último número emitido con prefix.
// Un último número vacío o ajeno al prefijo empieza en 1.
func NextSequence(prefix, last string) int {
	if last == "" || !strings.HasPrefix(last, prefix) {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
	if err != nil || n < 0 {
		return 1
	}
	return n + 1
}
