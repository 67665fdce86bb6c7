package catalogo

import "github.com/mantenix/mantenix-go/domain/auditoria"

// Actor aliases the shared audit metadata carried by every event.
type Actor = auditoria.Actor

// Creation events append a new entry with activo=true. Update events locate
// the entry by código and patch only the fields carrying non-zero values.

type (
	TipoMedidorCreado struct {
		Codigo      string `json:"codigo"`
		Descripcion string `json:"descripcion"`
		Unidad      string `json:"unidad"`
		auditoria.Actor
	}

	TipoMedidorActualizado struct {
		Codigo      string `json:"codigo"`
		Descripcion string `json:"descripcion,omitempty"`
		Unidad      string `json:"unidad,omitempty"`
		Activo      *bool  `json:"activo,omitempty"`
		auditoria.Actor
	}

	GrupoCreado struct {
		Codigo    string `json:"codigo"`
		Nombre    string `json:"nombre"`
		Prioridad int    `json:"prioridad"`
		auditoria.Actor
	}

	GrupoActualizado struct {
		Codigo    string `json:"codigo"`
		Nombre    string `json:"nombre,omitempty"`
		Prioridad *int   `json:"prioridad,omitempty"`
		Activo    *bool  `json:"activo,omitempty"`
		auditoria.Actor
	}

	TipoFallaCreado struct {
		Codigo      string `json:"codigo"`
		Descripcion string `json:"descripcion"`
		auditoria.Actor
	}

	TipoFallaActualizado struct {
		Codigo      string `json:"codigo"`
		Descripcion string `json:"descripcion,omitempty"`
		Activo      *bool  `json:"activo,omitempty"`
		auditoria.Actor
	}

	CausaCreada struct {
		Codigo      string `json:"codigo"`
		Descripcion string `json:"descripcion"`
		auditoria.Actor
	}

	CausaActualizada struct {
		Codigo      string `json:"codigo"`
		Descripcion string `json:"descripcion,omitempty"`
		Activo      *bool  `json:"activo,omitempty"`
		auditoria.Actor
	}
)

func (TipoMedidorCreado) EventType() string      { return "catalogo.tipo_medidor_creado" }
func (TipoMedidorActualizado) EventType() string { return "catalogo.tipo_medidor_actualizado" }
func (GrupoCreado) EventType() string            { return "catalogo.grupo_creado" }
func (GrupoActualizado) EventType() string       { return "catalogo.grupo_actualizado" }
func (TipoFallaCreado) EventType() string        { return "catalogo.tipo_falla_creado" }
func (TipoFallaActualizado) EventType() string   { return "catalogo.tipo_falla_actualizado" }
func (CausaCreada) EventType() string            { return "catalogo.causa_creada" }
func (CausaActualizada) EventType() string       { return "catalogo.causa_actualizada" }
