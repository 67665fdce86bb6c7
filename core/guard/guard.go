// Package guard holds the stateless validation primitives run before any
// command raises events. Every violation is reported as a *DomainError with a
// deterministic, user-facing message; Apply functions never call guards.
package guard

import (
	"cmp"
	"strings"

	"github.com/google/uuid"

	"github.com/mantenix/mantenix-go/core/enum"
)

// RequireNonBlank fails when value is empty or whitespace-only.
func RequireNonBlank(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return NewDomainError("%s es requerido", field)
	}
	return nil
}

// RequireNonEmptyID fails when id is the zero identifier.
func RequireNonEmptyID(id uuid.UUID, field string) error {
	if id == uuid.Nil {
		return NewDomainError("%s es requerido", field)
	}
	return nil
}

// RequireNonNegative fails when value is negative; zero is allowed.
func RequireNonNegative[T cmp.Ordered](value T, field string) error {
	var zero T
	if value < zero {
		return NewDomainError("%s no puede ser negativo", field)
	}
	return nil
}

// RequireInRange fails when value lies outside [min, max]. Both bounds are
// inclusive; min == max is a valid single-value range.
func RequireInRange[T cmp.Ordered](value, min, max T, field string) error {
	if value < min || value > max {
		return NewDomainError("%s debe estar entre %v y %v", field, min, max)
	}
	return nil
}

// RequireValidEnum fails when text does not match any symbol of T,
// case-insensitively. The message lists the valid symbols in declaration
// order.
func RequireValidEnum[T enum.Symbol[T]](text, field string) error {
	if enum.IsValid[T](text) {
		return nil
	}
	return NewDomainError(
		"%s no es un valor válido para %s. Valores válidos: %s",
		text, field, enum.List[T](),
	)
}
