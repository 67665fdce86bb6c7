// Package empleado implements the employee roster aggregate. Position and
// status arrive as free text and are resolved through the enum layer before
// any event is raised.
package empleado

import (
	"fmt"
	"strings"

	"github.com/mantenix/mantenix-go/core/enum"
	"github.com/mantenix/mantenix-go/core/es"
	"github.com/mantenix/mantenix-go/core/guard"
	"github.com/mantenix/mantenix-go/domain/auditoria"
)

const AggType = "empleado"

type Actor = auditoria.Actor

// Cargo is the employee position.
type Cargo string

const (
	CargoConductor Cargo = "Conductor"
	CargoObrero    Cargo = "Obrero"
	CargoMecanico  Cargo = "Mecanico"
)

func (Cargo) Values() []Cargo { return []Cargo{CargoConductor, CargoObrero, CargoMecanico} }

// Estado is the employment status.
type Estado string

const (
	EstadoActivo   Estado = "Activo"
	EstadoInactivo Estado = "Inactivo"
)

func (Estado) Values() []Estado { return []Estado{EstadoActivo, EstadoInactivo} }

type (
	Creado struct {
		Nombre         string  `json:"nombre"`
		Identificacion string  `json:"identificacion"`
		Cargo          Cargo   `json:"cargo"`
		Especialidad   string  `json:"especialidad"`
		Tarifa         float64 `json:"tarifa"`
		Estado         Estado  `json:"estado"`
		auditoria.Actor
	}

	// Actualizado replaces every field wholesale; the employee update has no
	// partial-patch semantics.
	Actualizado struct {
		Nombre         string  `json:"nombre"`
		Identificacion string  `json:"identificacion"`
		Cargo          Cargo   `json:"cargo"`
		Especialidad   string  `json:"especialidad"`
		Tarifa         float64 `json:"tarifa"`
		Estado         Estado  `json:"estado"`
		auditoria.Actor
	}
)

func (Creado) EventType() string      { return "empleado.creado" }
func (Actualizado) EventType() string { return "empleado.actualizado" }

type Empleado struct {
	es.BaseAggregate

	Nombre         string  `json:"nombre"`
	Identificacion string  `json:"identificacion"`
	Cargo          Cargo   `json:"cargo"`
	Especialidad   string  `json:"especialidad"`
	Tarifa         float64 `json:"tarifa"`
	Estado         Estado  `json:"estado"`
}

func New() *Empleado { return &Empleado{} }

func NewWithID(id string) *Empleado {
	e := New()
	e.SetID(id)
	return e
}

func (e *Empleado) GetAggType() string { return AggType }

func (e *Empleado) Register(r es.Registrar) {
	es.RegisterEvents(r, es.Event[Creado](), es.Event[Actualizado]())
}

func (e *Empleado) Existe() bool { return e.Nombre != "" }

func (e *Empleado) Apply(event any) error {
	switch ev := event.(type) {
	case *Creado:
		e.Nombre = ev.Nombre
		e.Identificacion = ev.Identificacion
		e.Cargo = ev.Cargo
		e.Especialidad = ev.Especialidad
		e.Tarifa = ev.Tarifa
		e.Estado = ev.Estado
		return nil

	case *Actualizado:
		e.Nombre = ev.Nombre
		e.Identificacion = ev.Identificacion
		e.Cargo = ev.Cargo
		e.Especialidad = ev.Especialidad
		e.Tarifa = ev.Tarifa
		e.Estado = ev.Estado
		return nil
	}
	return fmt.Errorf("unknown event: %T", event)
}

// === Commands ===

func (e *Empleado) Crear(nombre, identificacion, cargoTexto, especialidad string, tarifa float64, estadoTexto string, actor Actor) error {
	if e.Existe() {
		return guard.NewDomainError("el empleado ya existe")
	}
	ev, err := buildEvent(nombre, identificacion, cargoTexto, especialidad, tarifa, estadoTexto)
	if err != nil {
		return err
	}
	return es.RaiseAndApply(e, &Creado{
		Nombre:         ev.Nombre,
		Identificacion: ev.Identificacion,
		Cargo:          ev.Cargo,
		Especialidad:   ev.Especialidad,
		Tarifa:         ev.Tarifa,
		Estado:         ev.Estado,
		Actor:          actor,
	})
}

func (e *Empleado) Actualizar(nombre, identificacion, cargoTexto, especialidad string, tarifa float64, estadoTexto string, actor Actor) error {
	if !e.Existe() {
		return guard.NewDomainError("el empleado no existe")
	}
	ev, err := buildEvent(nombre, identificacion, cargoTexto, especialidad, tarifa, estadoTexto)
	if err != nil {
		return err
	}
	ev.Actor = actor
	return es.RaiseAndApply(e, &ev)
}

// buildEvent validates and normalizes the shared field set of Creado and
// Actualizado.
func buildEvent(nombre, identificacion, cargoTexto, especialidad string, tarifa float64, estadoTexto string) (Actualizado, error) {
	var zero Actualizado

	if err := guard.RequireNonBlank(nombre, "nombre"); err != nil {
		return zero, err
	}
	if err := guard.RequireNonBlank(identificacion, "identificación"); err != nil {
		return zero, err
	}
	if err := guard.RequireValidEnum[Cargo](cargoTexto, "cargo"); err != nil {
		return zero, err
	}
	if err := guard.RequireValidEnum[Estado](estadoTexto, "estado"); err != nil {
		return zero, err
	}
	if err := guard.RequireNonNegative(tarifa, "tarifa"); err != nil {
		return zero, err
	}

	cargo, err := enum.Parse[Cargo](cargoTexto)
	if err != nil {
		return zero, err
	}
	estado, err := enum.Parse[Estado](estadoTexto)
	if err != nil {
		return zero, err
	}

	return Actualizado{
		Nombre:         nombre,
		Identificacion: identificacion,
		Cargo:          cargo,
		// empty input stays an empty string, never a null
		Especialidad: strings.TrimSpace(especialidad),
		Tarifa:       tarifa,
		Estado:       estado,
	}, nil
}

var _ es.Aggregate = &Empleado{}
