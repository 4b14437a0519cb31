package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrDuplicate        = errors.New("recurso duplicado")
	ErrReferenced       = errors.New("recurso referenciado por una factura")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrSignatureMissing = errors.New("imagen de firma no disponible")
)
