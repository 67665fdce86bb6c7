package usuario

import (
	"time"

	"github.com/mantenix/mantenix-go/domain/auditoria"
)

type Actor = auditoria.Actor

type (
	Creado struct {
		Email          string    `json:"email"`
		Nombre         string    `json:"nombre"`
		HashContrasena string    `json:"hash_contrasena"`
		Rol            Rol       `json:"rol"`
		CreadoEn       time.Time `json:"creado_en"`
		auditoria.Actor
	}

	// Actualizado patches the user: Nombre always replaces; Rol, Activo and
	// HashContrasena only replace when carried (nil / empty means keep).
	Actualizado struct {
		Nombre         string `json:"nombre"`
		Rol            *Rol   `json:"rol,omitempty"`
		Activo         *bool  `json:"activo,omitempty"`
		HashContrasena string `json:"hash_contrasena,omitempty"`
		auditoria.Actor
	}

	Desactivado struct {
		auditoria.Actor
	}

	// RefreshTokenEmitido replaces any prior token: at most one live refresh
	// token exists per user.
	RefreshTokenEmitido struct {
		TokenHash string    `json:"token_hash"`
		ExpiraEn  time.Time `json:"expira_en"`
	}

	RefreshTokenRevocado struct{}
)

func (Creado) EventType() string               { return "usuario.creado" }
func (Actualizado) EventType() string          { return "usuario.actualizado" }
func (Desactivado) EventType() string          { return "usuario.desactivado" }
func (RefreshTokenEmitido) EventType() string  { return "usuario.refresh_token_emitido" }
func (RefreshTokenRevocado) EventType() string { return "usuario.refresh_token_revocado" }
