package guard

import (
	"errors"
	"fmt"
)

// DomainError is the single error taxonomy of the core: blank required
// fields, empty identifiers, negative or out-of-range values, invalid enum
// symbols, duplicate codes on creation and references to nonexistent codes.
// Callers distinguish it from infrastructure failures via IsDomainError.
type DomainError struct {
	msg string
}

func (e *DomainError) Error() string { return e.msg }

func NewDomainError(format string, args ...any) *DomainError {
	return &DomainError{msg: fmt.Sprintf(format, args...)}
}

// IsDomainError reports whether err is (or wraps) a DomainError.
func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// ErrCodigoDuplicado reports a creation aimed at an already-used code.
func ErrCodigoDuplicado(codigo string) *DomainError {
	return NewDomainError("ya existe un registro con el código %s", codigo)
}

// ErrCodigoNoEncontrado reports an update referencing a nonexistent code.
func ErrCodigoNoEncontrado(codigo string) *DomainError {
	return NewDomainError("no existe un registro con el código %s", codigo)
}
