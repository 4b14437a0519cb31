// Package gstin valida el GSTIN (Goods and Services Tax Identification Number, India).
//
// Estructura de 15 caracteres:
//
//	27 AAPFU0939F 1 Z V
//	│  │          │ │ └ carácter de control (módulo 36)
//	│  │          │ └── literal "Z"
//	│  │          └──── número de registro de la entidad dentro del PAN
//	│  └─────────────── PAN del contribuyente
//	└────────────────── código de estado
package gstin

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Length es la longitud fija de un GSTIN.
const Length = 15

const charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var (
	ErrInvalidFormat    = errors.New("gstin: formato inválido")
	ErrInvalidCheckChar = errors.New("gstin: carácter de control inválido")
)

var pattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// Normalize elimina espacios y pasa a mayúsculas.
func Normalize(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

// ValidateFormat comprueba longitud, estructura y código de estado, sin verificar el carácter de control.
func ValidateFormat(s string) error {
	if len(s) != Length {
		return fmt.Errorf("%w: se esperaban %d caracteres, se recibieron %d", ErrInvalidFormat, Length, len(s))
	}
	if !pattern.MatchString(s) {
		return fmt.Errorf("%w: %q no sigue la estructura estado+PAN+entidad+Z+control", ErrInvalidFormat, s)
	}
	if !validStateCode(s[:2]) {
		return fmt.Errorf("%w: código de estado desconocido %q", ErrInvalidFormat, s[:2])
	}
	return nil
}

// Validate comprueba formato y carácter de control.
func Validate(s string) error {
	if err := ValidateFormat(s); err != nil {
		return err
	}
	expected, err := ComputeCheckChar(s[:Length-1])
	if err != nil {
		return err
	}
	if s[Length-1] != expected {
		return fmt.Errorf("%w: esperado %c, recibido %c", ErrInvalidCheckChar, expected, s[Length-1])
	}
	return nil
}

// ComputeCheckChar calcula el carácter de control para los 14 primeros caracteres.
// Cada posición impar (base 0) pesa 2; el producto se reduce como cociente + resto en base 36.
func ComputeCheckChar(first14 string) (byte, error) {
	if len(first14) < Length-1 {
		return 0, fmt.Errorf("%w: se requieren %d caracteres para calcular el control", ErrInvalidFormat, Length-1)
	}
	sum := 0
	for i := 0; i < Length-1; i++ {
		idx := strings.IndexByte(charset, first14[i])
		if idx < 0 {
			return 0, fmt.Errorf("%w: carácter %q no permitido", ErrInvalidFormat, first14[i])
		}
		factor := 1
		if i%2 == 1 {
			factor = 2
		}
		p := idx * factor
		sum += p/len(charset) + p%len(charset)
	}
	return charset[(len(charset)-sum%len(charset))%len(charset)], nil
}

// StateCode devuelve los dos primeros dígitos (código de estado).
func StateCode(s string) string {
	if len(s) < 2 {
		return ""
	}
	return s[:2]
}

// 01-38 son estados y territorios; 97 "otros territorios"; 99 centro de jurisdicción.
func validStateCode(code string) bool {
	n, err := strconv.Atoi(code)
	if err != nil {
		return false
	}
	return (n >= 1 && n <= 38) || n == 97 || n == 99
}

// Check aplica ValidateFormat y, si strict, también el carácter de control.
func Check(s string, strict bool) error {
	if strict {
		return Validate(s)
	}
	return ValidateFormat(s)
}
