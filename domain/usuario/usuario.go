// Package usuario implements the user account aggregate: creation, partial
// updates, deactivation and the refresh-token lifecycle.
package usuario

import (
	"fmt"
	"time"

	"github.com/mantenix/mantenix-go/core/enum"
	"github.com/mantenix/mantenix-go/core/es"
	"github.com/mantenix/mantenix-go/core/guard"
)

const AggType = "usuario"

// Rol is the access role of a user account.
type Rol string

const (
	RolAdmin Rol = "Admin"
	RolUser  Rol = "User"
)

func (Rol) Values() []Rol { return []Rol{RolAdmin, RolUser} }

type Usuario struct {
	es.BaseAggregate

	Email          string    `json:"email"`
	Nombre         string    `json:"nombre"`
	HashContrasena string    `json:"hash_contrasena"`
	Rol            Rol       `json:"rol"`
	Activo         bool      `json:"activo"`
	CreadoEn       time.Time `json:"creado_en"`

	// RefreshTokenHash and RefreshExpiraEn track the single live refresh
	// token; both are zero when no token is live.
	RefreshTokenHash string    `json:"refresh_token_hash,omitempty"`
	RefreshExpiraEn  time.Time `json:"refresh_expira_en,omitempty"`
}

func New() *Usuario { return &Usuario{} }

func NewWithID(id string) *Usuario {
	u := New()
	u.SetID(id)
	return u
}

func (u *Usuario) GetAggType() string { return AggType }

func (u *Usuario) Register(r es.Registrar) {
	es.RegisterEvents(r,
		es.Event[Creado](),
		es.Event[Actualizado](),
		es.Event[Desactivado](),
		es.Event[RefreshTokenEmitido](),
		es.Event[RefreshTokenRevocado](),
	)
}

func (u *Usuario) Existe() bool { return !u.CreadoEn.IsZero() }

func (u *Usuario) Apply(event any) error {
	switch e := event.(type) {
	case *Creado:
		u.Email = e.Email
		u.Nombre = e.Nombre
		u.HashContrasena = e.HashContrasena
		u.Rol = e.Rol
		u.Activo = true
		u.CreadoEn = e.CreadoEn
		return nil

	case *Actualizado:
		u.Nombre = e.Nombre
		if e.Rol != nil {
			u.Rol = *e.Rol
		}
		if e.Activo != nil {
			u.Activo = *e.Activo
		}
		if e.HashContrasena != "" {
			u.HashContrasena = e.HashContrasena
		}
		return nil

	case *Desactivado:
		u.Activo = false
		return nil

	case *RefreshTokenEmitido:
		u.RefreshTokenHash = e.TokenHash
		u.RefreshExpiraEn = e.ExpiraEn
		return nil

	case *RefreshTokenRevocado:
		u.RefreshTokenHash = ""
		u.RefreshExpiraEn = time.Time{}
		return nil
	}
	return fmt.Errorf("unknown event: %T", event)
}

// === Commands ===

func (u *Usuario) Crear(email, nombre, hashContrasena, rolTexto string, creadoEn time.Time, actor Actor) error {
	if u.Existe() {
		return guard.NewDomainError("el usuario ya existe")
	}
	if err := guard.RequireNonBlank(email, "email"); err != nil {
		return err
	}
	if err := guard.RequireNonBlank(nombre, "nombre"); err != nil {
		return err
	}
	if err := guard.RequireNonBlank(hashContrasena, "contraseña"); err != nil {
		return err
	}
	if err := guard.RequireValidEnum[Rol](rolTexto, "rol"); err != nil {
		return err
	}
	rol, err := enum.Parse[Rol](rolTexto)
	if err != nil {
		return err
	}
	return es.RaiseAndApply(u, &Creado{
		Email:          email,
		Nombre:         nombre,
		HashContrasena: hashContrasena,
		Rol:            rol,
		CreadoEn:       creadoEn,
		Actor:          actor,
	})
}

// Actualizar patches the account. Empty rolTexto keeps the current role, a
// nil activo keeps the flag and an empty hashContrasena keeps the stored
// hash; nombre always replaces.
func (u *Usuario) Actualizar(nombre, rolTexto string, activo *bool, hashContrasena string, actor Actor) error {
	if !u.Existe() {
		return guard.NewDomainError("el usuario no existe")
	}
	if err := guard.RequireNonBlank(nombre, "nombre"); err != nil {
		return err
	}

	var rol *Rol
	if rolTexto != "" {
		if err := guard.RequireValidEnum[Rol](rolTexto, "rol"); err != nil {
			return err
		}
		r, err := enum.Parse[Rol](rolTexto)
		if err != nil {
			return err
		}
		rol = &r
	}

	return es.RaiseAndApply(u, &Actualizado{
		Nombre:         nombre,
		Rol:            rol,
		Activo:         activo,
		HashContrasena: hashContrasena,
		Actor:          actor,
	})
}

func (u *Usuario) Desactivar(actor Actor) error {
	if !u.Existe() {
		return guard.NewDomainError("el usuario no existe")
	}
	return es.RaiseAndApply(u, &Desactivado{Actor: actor})
}

func (u *Usuario) EmitirRefreshToken(tokenHash string, expiraEn time.Time) error {
	if !u.Existe() {
		return guard.NewDomainError("el usuario no existe")
	}
	if err := guard.RequireNonBlank(tokenHash, "refresh token"); err != nil {
		return err
	}
	return es.RaiseAndApply(u, &RefreshTokenEmitido{TokenHash: tokenHash, ExpiraEn: expiraEn})
}

func (u *Usuario) RevocarRefreshToken() error {
	if !u.Existe() {
		return guard.NewDomainError("el usuario no existe")
	}
	return es.RaiseAndApply(u, &RefreshTokenRevocado{})
}

var _ es.Aggregate = &Usuario{}
