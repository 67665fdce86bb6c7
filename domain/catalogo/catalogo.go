// Package catalogo implements the shared configuration catalog: four ordered
// collections (tipos de medidor, grupos de mantenimiento, tipos de falla,
// causas de falla) keyed by código. The catalog is a singleton aggregate,
// always addressed by the fixed identity ID.
package catalogo

import (
	"fmt"

	"github.com/mantenix/mantenix-go/core/es"
	"github.com/mantenix/mantenix-go/core/guard"
)

// ID is the well-known identity of the singleton catalog stream.
const ID = "00000000-0000-0000-0000-000000000001"

const AggType = "catalogo"

type (
	TipoMedidor struct {
		Codigo      string `json:"codigo"`
		Descripcion string `json:"descripcion"`
		Unidad      string `json:"unidad"`
		Activo      bool   `json:"activo"`
	}

	GrupoMantenimiento struct {
		Codigo    string `json:"codigo"`
		Nombre    string `json:"nombre"`
		Prioridad int    `json:"prioridad"`
		Activo    bool   `json:"activo"`
	}

	TipoFalla struct {
		Codigo      string `json:"codigo"`
		Descripcion string `json:"descripcion"`
		Activo      bool   `json:"activo"`
	}

	CausaFalla struct {
		Codigo      string `json:"codigo"`
		Descripcion string `json:"descripcion"`
		Activo      bool   `json:"activo"`
	}
)

// Catalogo folds the catalog stream. Insertion order of each collection is
// preserved; códigos are unique within their collection.
type Catalogo struct {
	es.BaseAggregate

	TiposMedidor []TipoMedidor        `json:"tipos_medidor"`
	Grupos       []GrupoMantenimiento `json:"grupos"`
	TiposFalla   []TipoFalla          `json:"tipos_falla"`
	Causas       []CausaFalla         `json:"causas"`
}

func New() *Catalogo {
	c := &Catalogo{}
	c.SetID(ID)
	return c
}

func (c *Catalogo) GetAggType() string { return AggType }

func (c *Catalogo) Register(r es.Registrar) {
	es.RegisterEvents(r,
		es.Event[TipoMedidorCreado](),
		es.Event[TipoMedidorActualizado](),
		es.Event[GrupoCreado](),
		es.Event[GrupoActualizado](),
		es.Event[TipoFallaCreado](),
		es.Event[TipoFallaActualizado](),
		es.Event[CausaCreada](),
		es.Event[CausaActualizada](),
	)
}

func (c *Catalogo) Apply(event any) error {
	switch e := event.(type) {
	case *TipoMedidorCreado:
		if c.buscarTipoMedidor(e.Codigo) != nil {
			return guard.ErrCodigoDuplicado(e.Codigo)
		}
		c.TiposMedidor = append(c.TiposMedidor, TipoMedidor{
			Codigo:      e.Codigo,
			Descripcion: e.Descripcion,
			Unidad:      e.Unidad,
			Activo:      true,
		})
		return nil

	case *TipoMedidorActualizado:
		t := c.buscarTipoMedidor(e.Codigo)
		if t == nil {
			return guard.ErrCodigoNoEncontrado(e.Codigo)
		}
		if e.Descripcion != "" {
			t.Descripcion = e.Descripcion
		}
		if e.Unidad != "" {
			t.Unidad = e.Unidad
		}
		if e.Activo != nil {
			t.Activo = *e.Activo
		}
		return nil

	case *GrupoCreado:
		if c.buscarGrupo(e.Codigo) != nil {
			return guard.ErrCodigoDuplicado(e.Codigo)
		}
		c.Grupos = append(c.Grupos, GrupoMantenimiento{
			Codigo:    e.Codigo,
			Nombre:    e.Nombre,
			Prioridad: e.Prioridad,
			Activo:    true,
		})
		return nil

	case *GrupoActualizado:
		g := c.buscarGrupo(e.Codigo)
		if g == nil {
			return guard.ErrCodigoNoEncontrado(e.Codigo)
		}
		if e.Nombre != "" {
			g.Nombre = e.Nombre
		}
		if e.Prioridad != nil {
			g.Prioridad = *e.Prioridad
		}
		if e.Activo != nil {
			g.Activo = *e.Activo
		}
		return nil

	case *TipoFallaCreado:
		if c.buscarTipoFalla(e.Codigo) != nil {
			return guard.ErrCodigoDuplicado(e.Codigo)
		}
		c.TiposFalla = append(c.TiposFalla, TipoFalla{
			Codigo:      e.Codigo,
			Descripcion: e.Descripcion,
			Activo:      true,
		})
		return nil

	case *TipoFallaActualizado:
		t := c.buscarTipoFalla(e.Codigo)
		if t == nil {
			return guard.ErrCodigoNoEncontrado(e.Codigo)
		}
		if e.Descripcion != "" {
			t.Descripcion = e.Descripcion
		}
		if e.Activo != nil {
			t.Activo = *e.Activo
		}
		return nil

	case *CausaCreada:
		if c.buscarCausa(e.Codigo) != nil {
			return guard.ErrCodigoDuplicado(e.Codigo)
		}
		c.Causas = append(c.Causas, CausaFalla{
			Codigo:      e.Codigo,
			Descripcion: e.Descripcion,
			Activo:      true,
		})
		return nil

	case *CausaActualizada:
		ca := c.buscarCausa(e.Codigo)
		if ca == nil {
			return guard.ErrCodigoNoEncontrado(e.Codigo)
		}
		if e.Descripcion != "" {
			ca.Descripcion = e.Descripcion
		}
		if e.Activo != nil {
			ca.Activo = *e.Activo
		}
		return nil
	}
	return fmt.Errorf("unknown event: %T", event)
}

func (c *Catalogo) buscarTipoMedidor(codigo string) *TipoMedidor {
	for i := range c.TiposMedidor {
		if c.TiposMedidor[i].Codigo == codigo {
			return &c.TiposMedidor[i]
		}
	}
	return nil
}

func (c *Catalogo) buscarGrupo(codigo string) *GrupoMantenimiento {
	for i := range c.Grupos {
		if c.Grupos[i].Codigo == codigo {
			return &c.Grupos[i]
		}
	}
	return nil
}

func (c *Catalogo) buscarTipoFalla(codigo string) *TipoFalla {
	for i := range c.TiposFalla {
		if c.TiposFalla[i].Codigo == codigo {
			return &c.TiposFalla[i]
		}
	}
	return nil
}

func (c *Catalogo) buscarCausa(codigo string) *CausaFalla {
	for i := range c.Causas {
		if c.Causas[i].Codigo == codigo {
			return &c.Causas[i]
		}
	}
	return nil
}

// === Commands ===

func (c *Catalogo) CrearTipoMedidor(codigo, descripcion, unidad string, actor Actor) error {
	if err := guard.RequireNonBlank(codigo, "código"); err != nil {
		return err
	}
	if err := guard.RequireNonBlank(descripcion, "descripción"); err != nil {
		return err
	}
	if c.buscarTipoMedidor(codigo) != nil {
		return guard.ErrCodigoDuplicado(codigo)
	}
	return es.RaiseAndApply(c, &TipoMedidorCreado{
		Codigo: codigo, Descripcion: descripcion, Unidad: unidad, Actor: actor,
	})
}

func (c *Catalogo) ActualizarTipoMedidor(codigo, descripcion, unidad string, activo *bool, actor Actor) error {
	if err := guard.RequireNonBlank(codigo, "código"); err != nil {
		return err
	}
	if c.buscarTipoMedidor(codigo) == nil {
		return guard.ErrCodigoNoEncontrado(codigo)
	}
	return es.RaiseAndApply(c, &TipoMedidorActualizado{
		Codigo: codigo, Descripcion: descripcion, Unidad: unidad, Activo: activo, Actor: actor,
	})
}

func (c *Catalogo) CrearGrupo(codigo, nombre string, prioridad int, actor Actor) error {
	if err := guard.RequireNonBlank(codigo, "código"); err != nil {
		return err
	}
	if err := guard.RequireNonBlank(nombre, "nombre"); err != nil {
		return err
	}
	if err := guard.RequireNonNegative(prioridad, "prioridad"); err != nil {
		return err
	}
	if c.buscarGrupo(codigo) != nil {
		return guard.ErrCodigoDuplicado(codigo)
	}
	return es.RaiseAndApply(c, &GrupoCreado{
		Codigo: codigo, Nombre: nombre, Prioridad: prioridad, Actor: actor,
	})
}

func (c *Catalogo) ActualizarGrupo(codigo, nombre string, prioridad *int, activo *bool, actor Actor) error {
	if err := guard.RequireNonBlank(codigo, "código"); err != nil {
		return err
	}
	if prioridad != nil {
		if err := guard.RequireNonNegative(*prioridad, "prioridad"); err != nil {
			return err
		}
	}
	if c.buscarGrupo(codigo) == nil {
		return guard.ErrCodigoNoEncontrado(codigo)
	}
	return es.RaiseAndApply(c, &GrupoActualizado{
		Codigo: codigo, Nombre: nombre, Prioridad: prioridad, Activo: activo, Actor: actor,
	})
}

func (c *Catalogo) CrearTipoFalla(codigo, descripcion string, actor Actor) error {
	if err := guard.RequireNonBlank(codigo, "código"); err != nil {
		return err
	}
	if err := guard.RequireNonBlank(descripcion, "descripción"); err != nil {
		return err
	}
	if c.buscarTipoFalla(codigo) != nil {
		return guard.ErrCodigoDuplicado(codigo)
	}
	return es.RaiseAndApply(c, &TipoFallaCreado{
		Codigo: codigo, Descripcion: descripcion, Actor: actor,
	})
}

func (c *Catalogo) ActualizarTipoFalla(codigo, descripcion string, activo *bool, actor Actor) error {
	if err := guard.RequireNonBlank(codigo, "código"); err != nil {
		return err
	}
	if c.buscarTipoFalla(codigo) == nil {
		return guard.ErrCodigoNoEncontrado(codigo)
	}
	return es.RaiseAndApply(c, &TipoFallaActualizado{
		Codigo: codigo, Descripcion: descripcion, Activo: activo, Actor: actor,
	})
}

func (c *Catalogo) CrearCausa(codigo, descripcion string, actor Actor) error {
	if err := guard.RequireNonBlank(codigo, "código"); err != nil {
		return err
	}
	if err := guard.RequireNonBlank(descripcion, "descripción"); err != nil {
		return err
	}
	if c.buscarCausa(codigo) != nil {
		return guard.ErrCodigoDuplicado(codigo)
	}
	return es.RaiseAndApply(c, &CausaCreada{
		Codigo: codigo, Descripcion: descripcion, Actor: actor,
	})
}

func (c *Catalogo) ActualizarCausa(codigo, descripcion string, activo *bool, actor Actor) error {
	if err := guard.RequireNonBlank(codigo, "código"); err != nil {
		return err
	}
	if c.buscarCausa(codigo) == nil {
		return guard.ErrCodigoNoEncontrado(codigo)
	}
	return es.RaiseAndApply(c, &CausaActualizada{
		Codigo: codigo, Descripcion: descripcion, Activo: activo, Actor: actor,
	})
}

var _ es.Aggregate = &Catalogo{}
