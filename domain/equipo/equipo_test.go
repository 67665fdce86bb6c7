package equipo_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mantenix/mantenix-go/core/es"
	"github.com/mantenix/mantenix-go/domain/equipo"
)

var admin = equipo.Actor{ActorID: "u1", ActorNombre: "admin"}

func TestMigrar(t *testing.T) {
	e := equipo.NewWithID("eq1")
	err := e.Migrar(equipo.Migrado{
		Placa:       "MAQ-017",
		Descripcion: "Retroexcavadora",
		Marca:       "CAT",
		Modelo:      "416F",
		Actor:       admin,
	})
	require.NoError(t, err)

	require.Equal(t, "MAQ-017", e.Placa)
	require.Equal(t, "Retroexcavadora", e.Descripcion)
	require.Equal(t, equipo.EstadoActivo, e.Estado)
}

func TestMigrar_estadoSiempreActivo(t *testing.T) {
	// even a near-empty import row lands active
	e := equipo.NewWithID("eq1")
	require.NoError(t, e.Migrar(equipo.Migrado{Placa: "MAQ-001"}))
	require.Equal(t, equipo.EstadoActivo, e.Estado)
}

func TestMigrar_placaRequerida(t *testing.T) {
	e := equipo.NewWithID("eq1")
	err := e.Migrar(equipo.Migrado{Descripcion: "Sin placa"})
	require.EqualError(t, err, "placa es requerido")
	require.Empty(t, e.Uncommitted())
}

func TestMigrar_yaExiste(t *testing.T) {
	e := equipo.NewWithID("eq1")
	require.NoError(t, e.Migrar(equipo.Migrado{Placa: "MAQ-001"}))
	err := e.Migrar(equipo.Migrado{Placa: "MAQ-002"})
	require.EqualError(t, err, "el equipo ya existe")
}

func TestActualizar_noTocaPlacaNiEstado(t *testing.T) {
	e := equipo.NewWithID("eq1")
	require.NoError(t, e.Migrar(equipo.Migrado{Placa: "MAQ-017", Marca: "CAT"}))

	require.NoError(t, e.Actualizar(equipo.Actualizado{
		Descripcion: "Retroexcavadora",
		Marca:       "Komatsu",
		Grupo:       "GM-01",
		Actor:       admin,
	}))

	require.Equal(t, "MAQ-017", e.Placa)
	require.Equal(t, equipo.EstadoActivo, e.Estado)
	require.Equal(t, "Komatsu", e.Marca)
	require.Equal(t, "GM-01", e.Grupo)
}

func TestActualizar_noExiste(t *testing.T) {
	e := equipo.NewWithID("eq1")
	err := e.Actualizar(equipo.Actualizado{Descripcion: "x"})
	require.EqualError(t, err, "el equipo no existe")
}

func TestReplay(t *testing.T) {
	ctx := context.Background()
	env := es.StartTestEnv(t, es.WithAggregates(&equipo.Equipo{}))
	repo := es.NewTypedRepository(slog.Default(), env.Repository(), equipo.New)

	e := equipo.NewWithID("eq1")
	require.NoError(t, e.Migrar(equipo.Migrado{Placa: "MAQ-017", Marca: "CAT", Actor: admin}))
	require.NoError(t, e.Actualizar(equipo.Actualizado{Marca: "CAT", Modelo: "416F", Actor: admin}))
	require.NoError(t, repo.Save(ctx, e))

	loaded, err := repo.GetByID(ctx, "eq1")
	require.NoError(t, err)
	require.Equal(t, "MAQ-017", loaded.Placa)
	require.Equal(t, "416F", loaded.Modelo)
	require.Equal(t, equipo.EstadoActivo, loaded.Estado)
}
