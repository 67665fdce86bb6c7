// Package equipo implements the equipment registry aggregate. Equipment
// enters the system through bulk-import migration events; the plate is its
// immutable natural key.
package equipo

import (
	"fmt"

	"github.com/mantenix/mantenix-go/core/es"
	"github.com/mantenix/mantenix-go/core/guard"
	"github.com/mantenix/mantenix-go/domain/auditoria"
)

const AggType = "equipo"

// EstadoActivo is the status forced onto every migrated equipment row.
const EstadoActivo = "Activo"

type Actor = auditoria.Actor

type (
	// Migrado creates the equipment from a bulk import row. Every field but
	// the plate may be empty; status is always forced to Activo on apply.
	Migrado struct {
		Placa          string `json:"placa"`
		Descripcion    string `json:"descripcion,omitempty"`
		Marca          string `json:"marca,omitempty"`
		Modelo         string `json:"modelo,omitempty"`
		Serie          string `json:"serie,omitempty"`
		CodigoInterno  string `json:"codigo_interno,omitempty"`
		TipoMedidorID  string `json:"tipo_medidor_id,omitempty"`
		TipoMedidor2ID string `json:"tipo_medidor2_id,omitempty"`
		Grupo          string `json:"grupo,omitempty"`
		Rutina         string `json:"rutina,omitempty"`
		auditoria.Actor
	}

	// Actualizado replaces the descriptive fields. It never touches the
	// plate or the status.
	Actualizado struct {
		Descripcion    string `json:"descripcion,omitempty"`
		Marca          string `json:"marca,omitempty"`
		Modelo         string `json:"modelo,omitempty"`
		Serie          string `json:"serie,omitempty"`
		CodigoInterno  string `json:"codigo_interno,omitempty"`
		TipoMedidorID  string `json:"tipo_medidor_id,omitempty"`
		TipoMedidor2ID string `json:"tipo_medidor2_id,omitempty"`
		Grupo          string `json:"grupo,omitempty"`
		Rutina         string `json:"rutina,omitempty"`
		auditoria.Actor
	}
)

func (Migrado) EventType() string     { return "equipo.migrado" }
func (Actualizado) EventType() string { return "equipo.actualizado" }

type Equipo struct {
	es.BaseAggregate

	Placa          string `json:"placa"`
	Descripcion    string `json:"descripcion"`
	Marca          string `json:"marca"`
	Modelo         string `json:"modelo"`
	Serie          string `json:"serie"`
	CodigoInterno  string `json:"codigo_interno"`
	TipoMedidorID  string `json:"tipo_medidor_id"`
	TipoMedidor2ID string `json:"tipo_medidor2_id"`
	Grupo          string `json:"grupo"`
	Rutina         string `json:"rutina"`
	Estado         string `json:"estado"`
}

func New() *Equipo { return &Equipo{} }

func NewWithID(id string) *Equipo {
	e := New()
	e.SetID(id)
	return e
}

func (e *Equipo) GetAggType() string { return AggType }

func (e *Equipo) Register(r es.Registrar) {
	es.RegisterEvents(r, es.Event[Migrado](), es.Event[Actualizado]())
}

func (e *Equipo) Existe() bool { return e.Placa != "" }

func (e *Equipo) Apply(event any) error {
	switch ev := event.(type) {
	case *Migrado:
		e.Placa = ev.Placa
		e.Descripcion = ev.Descripcion
		e.Marca = ev.Marca
		e.Modelo = ev.Modelo
		e.Serie = ev.Serie
		e.CodigoInterno = ev.CodigoInterno
		e.TipoMedidorID = ev.TipoMedidorID
		e.TipoMedidor2ID = ev.TipoMedidor2ID
		e.Grupo = ev.Grupo
		e.Rutina = ev.Rutina
		// bulk import always lands equipment active
		e.Estado = EstadoActivo
		return nil

	case *Actualizado:
		e.Descripcion = ev.Descripcion
		e.Marca = ev.Marca
		e.Modelo = ev.Modelo
		e.Serie = ev.Serie
		e.CodigoInterno = ev.CodigoInterno
		e.TipoMedidorID = ev.TipoMedidorID
		e.TipoMedidor2ID = ev.TipoMedidor2ID
		e.Grupo = ev.Grupo
		e.Rutina = ev.Rutina
		return nil
	}
	return fmt.Errorf("unknown event: %T", event)
}

// === Commands ===

func (e *Equipo) Migrar(m Migrado) error {
	if e.Existe() {
		return guard.NewDomainError("el equipo ya existe")
	}
	if err := guard.RequireNonBlank(m.Placa, "placa"); err != nil {
		return err
	}
	return es.RaiseAndApply(e, &m)
}

func (e *Equipo) Actualizar(a Actualizado) error {
	if !e.Existe() {
		return guard.NewDomainError("el equipo no existe")
	}
	return es.RaiseAndApply(e, &a)
}

var _ es.Aggregate = &Equipo{}
