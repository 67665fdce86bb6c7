package usuario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mantenix/mantenix-go/core/es"
	"github.com/mantenix/mantenix-go/core/guard"
)

var (
	ErrCredencialesInvalidas = errors.New("credenciales inválidas")
	ErrRefreshInvalido       = errors.New("refresh token inválido")
)

// Service is the application edge for user accounts: it reconstructs the
// aggregate, runs commands and persists the resulting events. Token and
// password mechanics live here, never inside Apply.
type Service struct {
	log        *slog.Logger
	repo       es.TypedRepository[*Usuario]
	jwt        *JWTManager
	refreshTTL time.Duration
}

func NewService(log *slog.Logger, repo es.Repository, jwt *JWTManager, refreshTTL time.Duration) *Service {
	return &Service{
		log:        log.With(slog.String("service", AggType)),
		repo:       es.NewTypedRepository(log, repo, New),
		jwt:        jwt,
		refreshTTL: refreshTTL,
	}
}

// Reconstruct folds the user's stream into current state.
func (s *Service) Reconstruct(ctx context.Context, id string) (*Usuario, error) {
	return s.repo.GetByID(ctx, id)
}

// Registrar creates a new account with a fresh identity and an Argon2id
// password hash.
func (s *Service) Registrar(ctx context.Context, email, nombre, contrasena, rol string, actor Actor) (*Usuario, error) {
	if err := guard.RequireNonBlank(contrasena, "contraseña"); err != nil {
		return nil, err
	}
	hash, err := HashContrasena(contrasena)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := NewWithID(uuid.NewString())
	if err := u.Crear(email, nombre, hash, rol, time.Now().UTC(), actor); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info("usuario registrado", slog.String("id", u.GetID()), slog.String("email", email))
	return u, nil
}

// Actualizar applies the partial-patch update and persists it.
func (s *Service) Actualizar(ctx context.Context, id, nombre, rol string, activo *bool, contrasena string, actor Actor) (*Usuario, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var hash string
	if contrasena != "" {
		if hash, err = HashContrasena(contrasena); err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	if err := u.Actualizar(nombre, rol, activo, hash, actor); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Desactivar(ctx context.Context, id string, actor Actor) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := u.Desactivar(actor); err != nil {
		return err
	}
	return s.repo.Save(ctx, u)
}

// Autenticar verifies credentials and issues an access token plus a fresh
// refresh token. The refresh token replaces any prior one.
func (s *Service) Autenticar(ctx context.Context, id, contrasena string) (access string, refresh string, err error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", "", err
	}
	if !u.Activo {
		return "", "", ErrCredencialesInvalidas
	}

	ok, err := VerificarContrasena(contrasena, u.HashContrasena)
	if err != nil {
		return "", "", err
	}
	if !ok {
		return "", "", ErrCredencialesInvalidas
	}

	access, err = s.jwt.GenerateAccessToken(u.GetID(), u.Rol)
	if err != nil {
		return "", "", err
	}

	raw, hashed, err := GenerarRefreshToken()
	if err != nil {
		return "", "", err
	}
	if err := u.EmitirRefreshToken(hashed, time.Now().UTC().Add(s.refreshTTL)); err != nil {
		return "", "", err
	}
	if err := s.repo.Save(ctx, u); err != nil {
		return "", "", err
	}

	return access, raw, nil
}

// Refrescar rotates the refresh token and issues a new access token.
func (s *Service) Refrescar(ctx context.Context, id, rawRefresh string) (access string, refresh string, err error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", "", err
	}
	if !u.Activo {
		return "", "", ErrRefreshInvalido
	}
	if u.RefreshTokenHash == "" || u.RefreshTokenHash != HashRefreshToken(rawRefresh) {
		return "", "", ErrRefreshInvalido
	}
	if time.Now().UTC().After(u.RefreshExpiraEn) {
		return "", "", ErrRefreshInvalido
	}

	access, err = s.jwt.GenerateAccessToken(u.GetID(), u.Rol)
	if err != nil {
		return "", "", err
	}

	raw, hashed, err := GenerarRefreshToken()
	if err != nil {
		return "", "", err
	}
	if err := u.EmitirRefreshToken(hashed, time.Now().UTC().Add(s.refreshTTL)); err != nil {
		return "", "", err
	}
	if err := s.repo.Save(ctx, u); err != nil {
		return "", "", err
	}

	return access, raw, nil
}

// Revocar clears the live refresh token regardless of its state.
func (s *Service) Revocar(ctx context.Context, id string) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := u.RevocarRefreshToken(); err != nil {
		return err
	}
	return s.repo.Save(ctx, u)
}
