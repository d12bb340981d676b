package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidState      = errors.New("transición de estado inválida")
	ErrStorage           = errors.New("fallo de almacenamiento")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
)

// Códigos legibles por máquina que viajan hasta la respuesta HTTP.
const (
	CodeValidation        = "VALIDATION"
	CodeNotFound          = "NOT_FOUND"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeInvalidState      = "INVALID_STATE"
	CodeStorage           = "STORAGE"
)

// Error es un fallo tipado: Code para el cliente, Message legible, Err para errors.Is.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Code == CodeStorage && e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation entrada mal formada o semánticamente inválida.
func Validation(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...), Err: ErrInvalidInput}
}

// NotFound la entidad referenciada no existe.
func NotFound(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...), Err: ErrNotFound}
}

// InsufficientStock la operación dejaría la bodega origen en negativo.
func InsufficientStock(format string, args ...any) *Error {
	return &Error{Code: CodeInsufficientStock, Message: fmt.Sprintf(format, args...), Err: ErrInsufficientStock}
}

// InvalidState transición de ciclo de vida no permitida (ej. recibir dos veces una orden).
func InvalidState(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidState, Message: fmt.Sprintf(format, args...), Err: ErrInvalidState}
}

// Storage envuelve un fallo de persistencia. No es recuperable localmente.
func Storage(op string, err error) *Error {
	return &Error{Code: CodeStorage, Message: "fallo de almacenamiento en " + op, Err: fmt.Errorf("%w: %w", ErrStorage, err)}
}

// CodeOf devuelve el código del error tipado, o "" si err no es un *Error.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
