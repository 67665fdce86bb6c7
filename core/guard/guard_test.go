package guard_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mantenix/mantenix-go/core/guard"
)

type nivel string

const (
	nivelBajo nivel = "Bajo"
	nivelAlto nivel = "Alto"
)

func (nivel) Values() []nivel { return []nivel{nivelBajo, nivelAlto} }

func TestRequireNonBlank(t *testing.T) {
	require.NoError(t, guard.RequireNonBlank("x", "nombre"))

	for _, in := range []string{"", "   ", "\t\n"} {
		err := guard.RequireNonBlank(in, "nombre")
		require.Error(t, err)
		require.EqualError(t, err, "nombre es requerido")
		require.True(t, guard.IsDomainError(err))
	}
}

func TestRequireNonEmptyID(t *testing.T) {
	require.NoError(t, guard.RequireNonEmptyID(uuid.New(), "equipo"))

	err := guard.RequireNonEmptyID(uuid.Nil, "equipo")
	require.EqualError(t, err, "equipo es requerido")
}

func TestRequireNonNegative(t *testing.T) {
	require.NoError(t, guard.RequireNonNegative(0, "tarifa"))
	require.NoError(t, guard.RequireNonNegative(25000.0, "tarifa"))

	err := guard.RequireNonNegative(-1, "tarifa")
	require.EqualError(t, err, "tarifa no puede ser negativo")
}

func TestRequireInRange(t *testing.T) {
	// both bounds are inclusive
	require.NoError(t, guard.RequireInRange(0, 0, 100, "avance"))
	require.NoError(t, guard.RequireInRange(100, 0, 100, "avance"))
	require.NoError(t, guard.RequireInRange(5, 5, 5, "avance"))

	require.Error(t, guard.RequireInRange(-1, 0, 100, "avance"))
	err := guard.RequireInRange(101, 0, 100, "Field")
	require.EqualError(t, err, "Field debe estar entre 0 y 100")
}

func TestRequireValidEnum(t *testing.T) {
	require.NoError(t, guard.RequireValidEnum[nivel]("alto", "nivel"))

	err := guard.RequireValidEnum[nivel]("Medio", "nivel")
	require.Error(t, err)
	require.True(t, guard.IsDomainError(err))
	require.Contains(t, err.Error(), "no es un valor válido")
	require.Contains(t, err.Error(), "Valores válidos: Bajo, Alto")
}

func TestDomainError_wrapped(t *testing.T) {
	err := fmt.Errorf("handling command: %w", guard.NewDomainError("boom"))
	require.True(t, guard.IsDomainError(err))
	require.False(t, guard.IsDomainError(fmt.Errorf("plain")))
	require.False(t, guard.IsDomainError(nil))
}

func TestCodigoErrors(t *testing.T) {
	require.Contains(t, guard.ErrCodigoDuplicado("CAUSA-001").Error(), "CAUSA-001")
	require.Contains(t, guard.ErrCodigoNoEncontrado("TM-9").Error(), "TM-9")
}
