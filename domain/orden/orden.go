// Package orden implements the maintenance order aggregate: a work order for
// one piece of equipment holding an ordered list of detalles (activities),
// each tracking its own progress and failure references.
package orden

import (
	"fmt"
	"time"

	"github.com/mantenix/mantenix-go/core/enum"
	"github.com/mantenix/mantenix-go/core/es"
	"github.com/mantenix/mantenix-go/core/guard"
	"github.com/mantenix/mantenix-go/domain/auditoria"
)

const AggType = "orden"

type Actor = auditoria.Actor

// Estado is the order-level status.
type Estado string

const (
	EstadoInexistente        Estado = "Inexistente"
	EstadoBorrador           Estado = "Borrador"
	EstadoProgramada         Estado = "Programada"
	EstadoEnEjecucion        Estado = "EnEjecucion"
	EstadoEjecucionTerminada Estado = "EjecucionTerminada"
	EstadoEliminada          Estado = "Eliminada"
)

func (Estado) Values() []Estado {
	return []Estado{
		EstadoInexistente,
		EstadoBorrador,
		EstadoProgramada,
		EstadoEnEjecucion,
		EstadoEjecucionTerminada,
		EstadoEliminada,
	}
}

// EstadoDetalle is the per-detalle status.
type EstadoDetalle string

const (
	DetallePendiente  EstadoDetalle = "Pendiente"
	DetalleEnProceso  EstadoDetalle = "EnProceso"
	DetalleFinalizado EstadoDetalle = "Finalizado"
)

func (EstadoDetalle) Values() []EstadoDetalle {
	return []EstadoDetalle{DetallePendiente, DetalleEnProceso, DetalleFinalizado}
}

// Detalle is one activity of the order. Failure references are by catalog
// código only; no embedding.
type Detalle struct {
	ID            string        `json:"id"`
	Descripcion   string        `json:"descripcion"`
	FechaEstimada time.Time     `json:"fecha_estimada"`
	Avance        int           `json:"avance"`
	Estado        EstadoDetalle `json:"estado"`
	TipoFallaID   string        `json:"tipo_falla_id,omitempty"`
	CausaFallaID  string        `json:"causa_falla_id,omitempty"`
}

type (
	Creada struct {
		Numero   string `json:"numero"`
		EquipoID string `json:"equipo_id"`
		Origen   string `json:"origen"`
		Clase    string `json:"clase"`
		auditoria.Actor
	}

	ActividadAgregada struct {
		DetalleID     string    `json:"detalle_id"`
		Descripcion   string    `json:"descripcion"`
		FechaEstimada time.Time `json:"fecha_estimada"`
		TipoFallaID   string    `json:"tipo_falla_id,omitempty"`
		CausaFallaID  string    `json:"causa_falla_id,omitempty"`
		auditoria.Actor
	}

	AvanceRegistrado struct {
		DetalleID string        `json:"detalle_id"`
		Avance    int           `json:"avance"`
		Estado    EstadoDetalle `json:"estado"`
		auditoria.Actor
	}

	Programada struct {
		Fecha            time.Time `json:"fecha"`
		DuracionEstimada float64   `json:"duracion_estimada"`
		auditoria.Actor
	}

	Finalizada struct {
		auditoria.Actor
	}

	Eliminada struct {
		auditoria.Actor
	}
)

func (Creada) EventType() string            { return "orden.creada" }
func (ActividadAgregada) EventType() string { return "orden.actividad_agregada" }
func (AvanceRegistrado) EventType() string  { return "orden.avance_registrado" }
func (Programada) EventType() string        { return "orden.programada" }
func (Finalizada) EventType() string        { return "orden.finalizada" }
func (Eliminada) EventType() string         { return "orden.eliminada" }

type Orden struct {
	es.BaseAggregate

	Numero           string    `json:"numero"`
	EquipoID         string    `json:"equipo_id"`
	Origen           string    `json:"origen"`
	Clase            string    `json:"clase"`
	Estado           Estado    `json:"estado"`
	FechaProgramada  time.Time `json:"fecha_programada,omitempty"`
	DuracionEstimada float64   `json:"duracion_estimada,omitempty"`
	Detalles         []Detalle `json:"detalles"`
}

func New() *Orden { return &Orden{Estado: EstadoInexistente} }

func NewWithID(id string) *Orden {
	o := New()
	o.SetID(id)
	return o
}

func (o *Orden) GetAggType() string { return AggType }

func (o *Orden) Register(r es.Registrar) {
	es.RegisterEvents(r,
		es.Event[Creada](),
		es.Event[ActividadAgregada](),
		es.Event[AvanceRegistrado](),
		es.Event[Programada](),
		es.Event[Finalizada](),
		es.Event[Eliminada](),
	)
}

func (o *Orden) Existe() bool { return o.Estado != EstadoInexistente && o.Estado != "" }

func (o *Orden) esTerminal() bool {
	return o.Estado == EstadoEjecucionTerminada || o.Estado == EstadoEliminada
}

func (o *Orden) buscarDetalle(id string) *Detalle {
	for i := range o.Detalles {
		if o.Detalles[i].ID == id {
			return &o.Detalles[i]
		}
	}
	return nil
}

// todosFinalizados reports whether every detalle reached Finalizado. An order
// without detalles is never considered finished.
func (o *Orden) todosFinalizados() bool {
	if len(o.Detalles) == 0 {
		return false
	}
	for i := range o.Detalles {
		if o.Detalles[i].Estado != DetalleFinalizado {
			return false
		}
	}
	return true
}

func (o *Orden) Apply(event any) error {
	switch e := event.(type) {
	case *Creada:
		o.Numero = e.Numero
		o.EquipoID = e.EquipoID
		o.Origen = e.Origen
		o.Clase = e.Clase
		o.Estado = EstadoBorrador
		return nil

	case *ActividadAgregada:
		o.Detalles = append(o.Detalles, Detalle{
			ID:            e.DetalleID,
			Descripcion:   e.Descripcion,
			FechaEstimada: e.FechaEstimada,
			Avance:        0,
			Estado:        DetallePendiente,
			TipoFallaID:   e.TipoFallaID,
			CausaFallaID:  e.CausaFallaID,
		})
		return nil

	case *AvanceRegistrado:
		d := o.buscarDetalle(e.DetalleID)
		if d == nil {
			return guard.NewDomainError("no existe el detalle %s", e.DetalleID)
		}
		d.Avance = e.Avance
		d.Estado = e.Estado
		// recording a finishing progress completes the order once every
		// detalle is finished
		if e.Estado == DetalleFinalizado && o.todosFinalizados() {
			o.Estado = EstadoEjecucionTerminada
		}
		return nil

	case *Programada:
		o.Estado = EstadoProgramada
		o.FechaProgramada = e.Fecha
		o.DuracionEstimada = e.DuracionEstimada
		return nil

	case *Finalizada:
		o.Estado = EstadoEjecucionTerminada
		return nil

	case *Eliminada:
		o.Estado = EstadoEliminada
		return nil
	}
	return fmt.Errorf("unknown event: %T", event)
}

// === Commands ===

func (o *Orden) Crear(numero, equipoID, origen, clase string, actor Actor) error {
	if o.Existe() {
		return guard.NewDomainError("la orden ya existe")
	}
	if err := guard.RequireNonBlank(numero, "número"); err != nil {
		return err
	}
	if err := guard.RequireNonBlank(equipoID, "equipo"); err != nil {
		return err
	}
	return es.RaiseAndApply(o, &Creada{
		Numero: numero, EquipoID: equipoID, Origen: origen, Clase: clase, Actor: actor,
	})
}

func (o *Orden) AgregarActividad(detalleID, descripcion string, fechaEstimada time.Time, tipoFallaID, causaFallaID string, actor Actor) error {
	if !o.Existe() {
		return guard.NewDomainError("la orden no existe")
	}
	if o.esTerminal() {
		return guard.NewDomainError("la orden %s ya no admite cambios", o.Numero)
	}
	if err := guard.RequireNonBlank(detalleID, "detalle"); err != nil {
		return err
	}
	if err := guard.RequireNonBlank(descripcion, "descripción"); err != nil {
		return err
	}
	if o.buscarDetalle(detalleID) != nil {
		return guard.ErrCodigoDuplicado(detalleID)
	}
	return es.RaiseAndApply(o, &ActividadAgregada{
		DetalleID:     detalleID,
		Descripcion:   descripcion,
		FechaEstimada: fechaEstimada,
		TipoFallaID:   tipoFallaID,
		CausaFallaID:  causaFallaID,
		Actor:         actor,
	})
}

func (o *Orden) RegistrarAvance(detalleID string, avance int, estadoTexto string, actor Actor) error {
	if !o.Existe() {
		return guard.NewDomainError("la orden no existe")
	}
	if o.esTerminal() {
		return guard.NewDomainError("la orden %s ya no admite cambios", o.Numero)
	}
	if err := guard.RequireInRange(avance, 0, 100, "avance"); err != nil {
		return err
	}
	if err := guard.RequireValidEnum[EstadoDetalle](estadoTexto, "estado"); err != nil {
		return err
	}
	if o.buscarDetalle(detalleID) == nil {
		return guard.NewDomainError("no existe el detalle %s", detalleID)
	}
	estado, err := enum.Parse[EstadoDetalle](estadoTexto)
	if err != nil {
		return err
	}
	return es.RaiseAndApply(o, &AvanceRegistrado{
		DetalleID: detalleID, Avance: avance, Estado: estado, Actor: actor,
	})
}

// Programar schedules the order regardless of its current non-terminal state.
func (o *Orden) Programar(fecha time.Time, duracionEstimada float64, actor Actor) error {
	if !o.Existe() {
		return guard.NewDomainError("la orden no existe")
	}
	if o.esTerminal() {
		return guard.NewDomainError("la orden %s ya no admite cambios", o.Numero)
	}
	if err := guard.RequireNonNegative(duracionEstimada, "duración estimada"); err != nil {
		return err
	}
	return es.RaiseAndApply(o, &Programada{
		Fecha: fecha, DuracionEstimada: duracionEstimada, Actor: actor,
	})
}

func (o *Orden) Finalizar(actor Actor) error {
	if !o.Existe() {
		return guard.NewDomainError("la orden no existe")
	}
	if o.esTerminal() {
		return guard.NewDomainError("la orden %s ya no admite cambios", o.Numero)
	}
	return es.RaiseAndApply(o, &Finalizada{Actor: actor})
}

func (o *Orden) Eliminar(actor Actor) error {
	if !o.Existe() {
		return guard.NewDomainError("la orden no existe")
	}
	if o.Estado == EstadoEliminada {
		return guard.NewDomainError("la orden %s ya fue eliminada", o.Numero)
	}
	return es.RaiseAndApply(o, &Eliminada{Actor: actor})
}

var _ es.Aggregate = &Orden{}
