package rutina_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mantenix/mantenix-go/core/es"
	"github.com/mantenix/mantenix-go/core/guard"
	"github.com/mantenix/mantenix-go/domain/rutina"
)

var (
	admin    = rutina.Actor{ActorID: "u1", ActorNombre: "admin"}
	migrada  = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	cada250h = rutina.Actividad{
		ID:           "a1",
		Descripcion:  "Cambio de aceite",
		Clase:        "Preventivo",
		Frecuencia:   250,
		Unidad:       "h",
		Medidor:      "HOR",
		UmbralAlerta: 20,
		Consumible:   "Aceite 15W40",
		Cantidad:     12,
	}
)

func nuevaRutina(t *testing.T) *rutina.Rutina {
	r := rutina.NewWithID("r1")
	require.NoError(t, r.Migrar("Rutina retroexcavadora", "GM-01", migrada, admin))
	return r
}

func TestMigrar(t *testing.T) {
	r := nuevaRutina(t)
	require.Equal(t, "Rutina retroexcavadora", r.Descripcion)
	require.Equal(t, "GM-01", r.Grupo)
	require.Empty(t, r.Partes)

	require.EqualError(t, r.Migrar("Otra", "", migrada, admin), "la rutina ya existe")
}

func TestMigrar_descripcionRequerida(t *testing.T) {
	r := rutina.NewWithID("r1")
	require.EqualError(t, r.Migrar(" ", "", migrada, admin), "descripción es requerido")
}

func TestMigrarParte(t *testing.T) {
	r := nuevaRutina(t)
	require.NoError(t, r.MigrarParte("p1", "Motor", admin))
	require.NoError(t, r.MigrarParte("p2", "Tren de rodaje", admin))

	require.Len(t, r.Partes, 2)
	require.Equal(t, "Motor", r.Partes[0].Descripcion)
	require.Equal(t, "p2", r.Partes[1].ID)
}

func TestMigrarParte_duplicada(t *testing.T) {
	r := nuevaRutina(t)
	require.NoError(t, r.MigrarParte("p1", "Motor", admin))

	err := r.MigrarParte("p1", "Otra", admin)
	require.True(t, guard.IsDomainError(err))
	require.EqualError(t, err, "ya existe un registro con el código p1")
}

func TestMigrarActividad(t *testing.T) {
	r := nuevaRutina(t)
	require.NoError(t, r.MigrarParte("p1", "Motor", admin))
	require.NoError(t, r.MigrarActividad("p1", cada250h, admin))

	require.Len(t, r.Partes[0].Actividades, 1)
	a := r.Partes[0].Actividades[0]
	require.Equal(t, 250.0, a.Frecuencia)
	require.Equal(t, "Aceite 15W40", a.Consumible)
	require.Equal(t, 12.0, a.Cantidad)
}

func TestMigrarActividad_parteInexistente(t *testing.T) {
	r := nuevaRutina(t)
	err := r.MigrarActividad("p9", cada250h, admin)
	require.EqualError(t, err, "no existe la parte p9")
}

func TestMigrarActividad_guards(t *testing.T) {
	r := nuevaRutina(t)
	require.NoError(t, r.MigrarParte("p1", "Motor", admin))

	sinDescripcion := cada250h
	sinDescripcion.Descripcion = ""
	require.EqualError(t, r.MigrarActividad("p1", sinDescripcion, admin), "descripción es requerido")

	negativa := cada250h
	negativa.Frecuencia = -1
	require.EqualError(t, r.MigrarActividad("p1", negativa, admin), "frecuencia no puede ser negativo")
}

func TestComandosSobreRutinaInexistente(t *testing.T) {
	r := rutina.NewWithID("r1")
	require.EqualError(t, r.MigrarParte("p1", "Motor", admin), "la rutina no existe")
	require.EqualError(t, r.MigrarActividad("p1", cada250h, admin), "la rutina no existe")
}

func TestReplay(t *testing.T) {
	ctx := context.Background()
	env := es.StartTestEnv(t, es.WithAggregates(&rutina.Rutina{}))
	repo := es.NewTypedRepository(slog.Default(), env.Repository(), rutina.New)

	r := rutina.NewWithID("r1")
	require.NoError(t, r.Migrar("Rutina retroexcavadora", "GM-01", migrada, admin))
	require.NoError(t, r.MigrarParte("p1", "Motor", admin))
	require.NoError(t, r.MigrarActividad("p1", cada250h, admin))
	require.NoError(t, repo.Save(ctx, r))

	loaded, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, loaded.Partes, 1)
	require.Len(t, loaded.Partes[0].Actividades, 1)
	require.Equal(t, "Cambio de aceite", loaded.Partes[0].Actividades[0].Descripcion)
	require.EqualValues(t, 3, loaded.GetVersion())
}
