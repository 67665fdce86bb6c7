// Package rutina implements the maintenance routine aggregate: a routine
// owns ordered partes, each parte owns ordered actividades with primary and
// optional secondary frequency settings. Routines enter the system through
// bulk-import migration events.
package rutina

import (
	"fmt"
	"time"

	"github.com/mantenix/mantenix-go/core/es"
	"github.com/mantenix/mantenix-go/core/guard"
	"github.com/mantenix/mantenix-go/domain/auditoria"
)

const AggType = "rutina"

type Actor = auditoria.Actor

type (
	Actividad struct {
		ID          string `json:"id"`
		Descripcion string `json:"descripcion"`
		Clase       string `json:"clase"`

		Frecuencia   float64 `json:"frecuencia"`
		Unidad       string  `json:"unidad"`
		Medidor      string  `json:"medidor"`
		UmbralAlerta float64 `json:"umbral_alerta"`

		Frecuencia2   float64 `json:"frecuencia2,omitempty"`
		Unidad2       string  `json:"unidad2,omitempty"`
		Medidor2      string  `json:"medidor2,omitempty"`
		UmbralAlerta2 float64 `json:"umbral_alerta2,omitempty"`

		// Consumible defaults to the empty string and Cantidad to zero when
		// the import row carries neither.
		Consumible string  `json:"consumible,omitempty"`
		Cantidad   float64 `json:"cantidad,omitempty"`
	}

	Parte struct {
		ID          string      `json:"id"`
		Descripcion string      `json:"descripcion"`
		Actividades []Actividad `json:"actividades"`
	}
)

type (
	Migrada struct {
		Descripcion string    `json:"descripcion"`
		Grupo       string    `json:"grupo"`
		MigradaEn   time.Time `json:"migrada_en"`
		auditoria.Actor
	}

	ParteMigrada struct {
		ParteID     string `json:"parte_id"`
		Descripcion string `json:"descripcion"`
		auditoria.Actor
	}

	ActividadMigrada struct {
		ParteID   string    `json:"parte_id"`
		Actividad Actividad `json:"actividad"`
		auditoria.Actor
	}
)

func (Migrada) EventType() string          { return "rutina.migrada" }
func (ParteMigrada) EventType() string     { return "rutina.parte_migrada" }
func (ActividadMigrada) EventType() string { return "rutina.actividad_migrada" }

type Rutina struct {
	es.BaseAggregate

	Descripcion string  `json:"descripcion"`
	Grupo       string  `json:"grupo"`
	Partes      []Parte `json:"partes"`
}

func New() *Rutina { return &Rutina{} }

func NewWithID(id string) *Rutina {
	r := New()
	r.SetID(id)
	return r
}

func (r *Rutina) GetAggType() string { return AggType }

func (r *Rutina) Register(reg es.Registrar) {
	es.RegisterEvents(reg,
		es.Event[Migrada](),
		es.Event[ParteMigrada](),
		es.Event[ActividadMigrada](),
	)
}

func (r *Rutina) Existe() bool { return r.Descripcion != "" }

func (r *Rutina) buscarParte(id string) *Parte {
	for i := range r.Partes {
		if r.Partes[i].ID == id {
			return &r.Partes[i]
		}
	}
	return nil
}

func (r *Rutina) Apply(event any) error {
	switch e := event.(type) {
	case *Migrada:
		r.Descripcion = e.Descripcion
		r.Grupo = e.Grupo
		r.Partes = nil
		return nil

	case *ParteMigrada:
		r.Partes = append(r.Partes, Parte{
			ID:          e.ParteID,
			Descripcion: e.Descripcion,
		})
		return nil

	case *ActividadMigrada:
		p := r.buscarParte(e.ParteID)
		if p == nil {
			return guard.NewDomainError("no existe la parte %s", e.ParteID)
		}
		p.Actividades = append(p.Actividades, e.Actividad)
		return nil
	}
	return fmt.Errorf("unknown event: %T", event)
}

// === Commands ===

func (r *Rutina) Migrar(descripcion, grupo string, migradaEn time.Time, actor Actor) error {
	if r.Existe() {
		return guard.NewDomainError("la rutina ya existe")
	}
	if err := guard.RequireNonBlank(descripcion, "descripción"); err != nil {
		return err
	}
	return es.RaiseAndApply(r, &Migrada{
		Descripcion: descripcion, Grupo: grupo, MigradaEn: migradaEn, Actor: actor,
	})
}

func (r *Rutina) MigrarParte(parteID, descripcion string, actor Actor) error {
	if !r.Existe() {
		return guard.NewDomainError("la rutina no existe")
	}
	if err := guard.RequireNonBlank(parteID, "parte"); err != nil {
		return err
	}
	if err := guard.RequireNonBlank(descripcion, "descripción"); err != nil {
		return err
	}
	if r.buscarParte(parteID) != nil {
		return guard.ErrCodigoDuplicado(parteID)
	}
	return es.RaiseAndApply(r, &ParteMigrada{
		ParteID: parteID, Descripcion: descripcion, Actor: actor,
	})
}

func (r *Rutina) MigrarActividad(parteID string, a Actividad, actor Actor) error {
	if !r.Existe() {
		return guard.NewDomainError("la rutina no existe")
	}
	if r.buscarParte(parteID) == nil {
		return guard.NewDomainError("no existe la parte %s", parteID)
	}
	if err := guard.RequireNonBlank(a.Descripcion, "descripción"); err != nil {
		return err
	}
	if err := guard.RequireNonNegative(a.Frecuencia, "frecuencia"); err != nil {
		return err
	}
	if err := guard.RequireNonNegative(a.Cantidad, "cantidad"); err != nil {
		return err
	}
	return es.RaiseAndApply(r, &ActividadMigrada{
		ParteID: parteID, Actividad: a, Actor: actor,
	})
}

var _ es.Aggregate = &Rutina{}
