package empleado_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mantenix/mantenix-go/core/es"
	"github.com/mantenix/mantenix-go/core/guard"
	"github.com/mantenix/mantenix-go/domain/empleado"
)

var admin = empleado.Actor{ActorID: "u1", ActorNombre: "admin"}

func TestCrear(t *testing.T) {
	e := empleado.NewWithID("e1")
	err := e.Crear("Juan Pérez", "123", "Mecanico", "Motores", 25000, "Activo", admin)
	require.NoError(t, err)

	require.Equal(t, "Juan Pérez", e.Nombre)
	require.Equal(t, "123", e.Identificacion)
	require.Equal(t, empleado.CargoMecanico, e.Cargo)
	require.Equal(t, "Motores", e.Especialidad)
	require.Equal(t, 25000.0, e.Tarifa)
	require.Equal(t, empleado.EstadoActivo, e.Estado)
}

func TestCrear_cargoCaseInsensitive(t *testing.T) {
	e := empleado.NewWithID("e1")
	require.NoError(t, e.Crear("Juan Pérez", "123", "mecanico", "", 0, "activo", admin))
	require.Equal(t, empleado.CargoMecanico, e.Cargo)
	require.Equal(t, empleado.EstadoActivo, e.Estado)
}

func TestCrear_guards(t *testing.T) {
	for _, tc := range []struct {
		name           string
		nombre         string
		identificacion string
		cargo          string
		tarifa         float64
		estado         string
		wantErr        string
	}{
		{"nombre vacío", "", "123", "Obrero", 0, "Activo", "nombre es requerido"},
		{"identificación vacía", "Juan", " ", "Obrero", 0, "Activo", "identificación es requerido"},
		{"cargo inválido", "Juan", "123", "Gerente", 0, "Activo", "Valores válidos: Conductor, Obrero, Mecanico"},
		{"estado inválido", "Juan", "123", "Obrero", 0, "Suspendido", "Valores válidos: Activo, Inactivo"},
		{"tarifa negativa", "Juan", "123", "Obrero", -1, "Activo", "tarifa no puede ser negativo"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e := empleado.NewWithID("e1")
			err := e.Crear(tc.nombre, tc.identificacion, tc.cargo, "", tc.tarifa, tc.estado, admin)
			require.Error(t, err)
			require.True(t, guard.IsDomainError(err))
			require.Contains(t, err.Error(), tc.wantErr)
			require.Empty(t, e.Uncommitted())
		})
	}
}

func TestCrear_especialidadNormalizada(t *testing.T) {
	e := empleado.NewWithID("e1")
	require.NoError(t, e.Crear("Juan", "123", "Obrero", "  ", 0, "Activo", admin))
	require.Equal(t, "", e.Especialidad)
}

func TestActualizar_reemplazaTodo(t *testing.T) {
	e := empleado.NewWithID("e1")
	require.NoError(t, e.Crear("Juan Pérez", "123", "Mecanico", "Motores", 25000, "Activo", admin))

	// the update has no partial-patch semantics: omitted fields are cleared
	require.NoError(t, e.Actualizar("Juan Pérez", "123", "Conductor", "", 30000, "Inactivo", admin))
	require.Equal(t, empleado.CargoConductor, e.Cargo)
	require.Equal(t, "", e.Especialidad)
	require.Equal(t, 30000.0, e.Tarifa)
	require.Equal(t, empleado.EstadoInactivo, e.Estado)
}

func TestActualizar_noExiste(t *testing.T) {
	e := empleado.NewWithID("e1")
	err := e.Actualizar("Juan", "123", "Obrero", "", 0, "Activo", admin)
	require.EqualError(t, err, "el empleado no existe")
}

func TestCrear_yaExiste(t *testing.T) {
	e := empleado.NewWithID("e1")
	require.NoError(t, e.Crear("Juan", "123", "Obrero", "", 0, "Activo", admin))
	err := e.Crear("Otro", "456", "Obrero", "", 0, "Activo", admin)
	require.EqualError(t, err, "el empleado ya existe")
}

func TestReplay(t *testing.T) {
	ctx := context.Background()
	env := es.StartTestEnv(t, es.WithAggregates(&empleado.Empleado{}))
	repo := es.NewTypedRepository(slog.Default(), env.Repository(), empleado.New)

	e := empleado.NewWithID("e1")
	require.NoError(t, e.Crear("Juan Pérez", "123", "Mecanico", "Motores", 25000, "Activo", admin))
	require.NoError(t, e.Actualizar("Juan Pérez", "123", "Mecanico", "Hidráulica", 27000, "Activo", admin))
	require.NoError(t, repo.Save(ctx, e))

	loaded, err := repo.GetByID(ctx, "e1")
	require.NoError(t, err)
	require.Equal(t, "Hidráulica", loaded.Especialidad)
	require.Equal(t, 27000.0, loaded.Tarifa)
	require.EqualValues(t, 2, loaded.GetVersion())
}
