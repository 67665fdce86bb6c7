package catalogo_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mantenix/mantenix-go/core/es"
	"github.com/mantenix/mantenix-go/core/guard"
	"github.com/mantenix/mantenix-go/domain/catalogo"
)

var admin = catalogo.Actor{ActorID: "u1", ActorNombre: "admin"}

func newRepo(t *testing.T) es.TypedRepository[*catalogo.Catalogo] {
	env := es.StartTestEnv(t, es.WithAggregates(&catalogo.Catalogo{}))
	return es.NewTypedRepository(slog.Default(), env.Repository(), catalogo.New)
}

func TestCrearCausa(t *testing.T) {
	c := catalogo.New()
	require.NoError(t, c.CrearCausa("CAUSA-001", "Desgaste", admin))

	require.Len(t, c.Causas, 1)
	require.Equal(t, "CAUSA-001", c.Causas[0].Codigo)
	require.Equal(t, "Desgaste", c.Causas[0].Descripcion)
	require.True(t, c.Causas[0].Activo)
}

func TestCrearCausa_codigoDuplicado(t *testing.T) {
	c := catalogo.New()
	require.NoError(t, c.CrearCausa("CAUSA-001", "Desgaste", admin))

	err := c.CrearCausa("CAUSA-001", "Otra descripción", admin)
	require.Error(t, err)
	require.True(t, guard.IsDomainError(err))
	require.EqualError(t, err, "ya existe un registro con el código CAUSA-001")

	// the rejected command raised nothing
	require.Len(t, c.Uncommitted(), 1)
	require.Len(t, c.Causas, 1)
	require.Equal(t, "Desgaste", c.Causas[0].Descripcion)
}

func TestCrearCausa_guards(t *testing.T) {
	c := catalogo.New()

	require.EqualError(t, c.CrearCausa("", "Desgaste", admin), "código es requerido")
	require.EqualError(t, c.CrearCausa("CAUSA-001", "  ", admin), "descripción es requerido")
	require.Empty(t, c.Uncommitted())
}

func TestActualizarCausa(t *testing.T) {
	c := catalogo.New()
	require.NoError(t, c.CrearCausa("CAUSA-001", "Desgaste", admin))

	inactivo := false
	require.NoError(t, c.ActualizarCausa("CAUSA-001", "Desgaste prematuro", &inactivo, admin))
	require.Equal(t, "Desgaste prematuro", c.Causas[0].Descripcion)
	require.False(t, c.Causas[0].Activo)

	// empty fields keep the current value
	require.NoError(t, c.ActualizarCausa("CAUSA-001", "", nil, admin))
	require.Equal(t, "Desgaste prematuro", c.Causas[0].Descripcion)
	require.False(t, c.Causas[0].Activo)
}

func TestApply_causaDuplicadaConservaLaPrimera(t *testing.T) {
	// replaying a duplicate creation fails and keeps the first entry intact
	c := catalogo.New()
	require.NoError(t, c.Apply(&catalogo.CausaCreada{Codigo: "CAUSA-001", Descripcion: "Desgaste"}))

	err := c.Apply(&catalogo.CausaCreada{Codigo: "CAUSA-001", Descripcion: "Otra descripción"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "CAUSA-001")
	require.Len(t, c.Causas, 1)
	require.Equal(t, "Desgaste", c.Causas[0].Descripcion)
}

func TestActualizarCausa_noEncontrada(t *testing.T) {
	c := catalogo.New()

	err := c.ActualizarCausa("CAUSA-404", "Desgaste", nil, admin)
	require.True(t, guard.IsDomainError(err))
	require.EqualError(t, err, "no existe un registro con el código CAUSA-404")
}

func TestColeccionesIndependientes(t *testing.T) {
	// the same código may exist in different collections
	c := catalogo.New()
	require.NoError(t, c.CrearTipoMedidor("X-1", "Horómetro", "h", admin))
	require.NoError(t, c.CrearGrupo("X-1", "Preventivo", 1, admin))
	require.NoError(t, c.CrearTipoFalla("X-1", "Eléctrica", admin))
	require.NoError(t, c.CrearCausa("X-1", "Desgaste", admin))
}

func TestCrearGrupo_prioridadNegativa(t *testing.T) {
	c := catalogo.New()

	err := c.CrearGrupo("GM-01", "Preventivo", -1, admin)
	require.EqualError(t, err, "prioridad no puede ser negativo")
}

func TestActualizarGrupo_patch(t *testing.T) {
	c := catalogo.New()
	require.NoError(t, c.CrearGrupo("GM-01", "Preventivo", 2, admin))

	prioridad := 5
	require.NoError(t, c.ActualizarGrupo("GM-01", "", &prioridad, nil, admin))
	require.Equal(t, "Preventivo", c.Grupos[0].Nombre)
	require.Equal(t, 5, c.Grupos[0].Prioridad)
	require.True(t, c.Grupos[0].Activo)
}

func TestTipoMedidor_patch(t *testing.T) {
	c := catalogo.New()
	require.NoError(t, c.CrearTipoMedidor("HOR", "Horómetro", "h", admin))

	require.NoError(t, c.ActualizarTipoMedidor("HOR", "", "km", nil, admin))
	require.Equal(t, "Horómetro", c.TiposMedidor[0].Descripcion)
	require.Equal(t, "km", c.TiposMedidor[0].Unidad)
}

func TestOrdenDeInsercion(t *testing.T) {
	c := catalogo.New()
	require.NoError(t, c.CrearCausa("C-2", "Sobrecarga", admin))
	require.NoError(t, c.CrearCausa("C-1", "Desgaste", admin))
	require.NoError(t, c.CrearCausa("C-3", "Corrosión", admin))

	require.Equal(t, "C-2", c.Causas[0].Codigo)
	require.Equal(t, "C-1", c.Causas[1].Codigo)
	require.Equal(t, "C-3", c.Causas[2].Codigo)
}

func TestReplay_deterministico(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	c := catalogo.New()
	require.NoError(t, c.CrearTipoMedidor("HOR", "Horómetro", "h", admin))
	require.NoError(t, c.CrearCausa("CAUSA-001", "Desgaste", admin))
	inactivo := false
	require.NoError(t, c.ActualizarCausa("CAUSA-001", "", &inactivo, admin))
	require.NoError(t, repo.Save(ctx, c))

	a, err := repo.GetByID(ctx, catalogo.ID)
	require.NoError(t, err)
	b, err := repo.GetByID(ctx, catalogo.ID)
	require.NoError(t, err)

	require.Equal(t, a.Causas, b.Causas)
	require.Equal(t, a.TiposMedidor, b.TiposMedidor)
	require.EqualValues(t, 3, a.GetVersion())
	require.False(t, a.Causas[0].Activo)
}
