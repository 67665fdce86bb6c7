// Package enum resolves free-text input into closed, string-backed enumerated
// types. Each enum type declares its own symbol table via a Values method, so
// lookup needs no reflection and the "valid values" listing is stable.
package enum

import (
	"fmt"
	"strings"
)

// Symbol constrains an enumerated type: a defined string type listing its own
// symbols in declaration order.
type Symbol[T any] interface {
	~string
	Values() []T
}

// Values returns all symbols of T in declaration order.
func Values[T Symbol[T]]() []T {
	var zero T
	return zero.Values()
}

// Names returns all symbol names of T in declaration order.
func Names[T Symbol[T]]() []string {
	vals := Values[T]()
	names := make([]string, len(vals))
	for i, v := range vals {
		names[i] = string(v)
	}
	return names
}

// List returns the comma-separated symbol names of T, as used in error
// messages.
func List[T Symbol[T]]() string {
	return strings.Join(Names[T](), ", ")
}

// Parse matches text case-insensitively against the symbols of T and returns
// the canonical symbol. The error message lists all valid symbols.
func Parse[T Symbol[T]](text string) (T, error) {
	for _, v := range Values[T]() {
		if strings.EqualFold(text, string(v)) {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf(
		"%s no es un valor válido para %T. Valores válidos: %s",
		text, zero, List[T](),
	)
}

// IsValid reports whether text matches any symbol of T, case-insensitively.
func IsValid[T Symbol[T]](text string) bool {
	_, err := Parse[T](text)
	return err == nil
}
