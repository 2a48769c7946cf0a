package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/dto"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/tenancy"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/usecase"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/repository"
	"github.com/CarlosEstrada30/smart-orders-api/pkg/jwt"
	"github.com/CarlosEstrada30/smart-orders-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login contra el schema del tenant resuelto por subdominio.
type AuthUseCase struct {
	resolver *tenancy.Resolver
	sessions repository.SessionFactory
	jwtCfg   JWTConfig
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(resolver *tenancy.Resolver, sessions repository.SessionFactory, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{resolver: resolver, sessions: sessions, jwtCfg: jwtCfg, log: log.Named("auth")}
}

// Login resuelve el tenant, verifica email/password en su schema y emite un JWT
// con el descriptor de tenant anidado. Credenciales inválidas: ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	res, err := uc.resolver.Resolve(ctx, in.Subdomain)
	if err != nil {
		return nil, err
	}
	sess, err := uc.sessions.Open(ctx, res.Schema)
	if err != nil {
		return nil, err
	}
	defer sess.Close(ctx)

	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := sess.Repos().Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: usuario inactivo", domain.ErrForbidden)
	}

	id := jwt.Identity{UserID: user.ID, Email: user.Email, Role: string(user.Role)}
	var brief *dto.TenantBrief
	if !res.IsDefault() {
		id.Tenant = &jwt.TenantClaim{TenantID: res.TenantID, TenantSchema: res.Schema, TenantName: res.Name}
		brief = &dto.TenantBrief{ID: res.TenantID, Nombre: res.Name, Subdominio: res.Subdominio, Schema: res.Schema}
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes, id)
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("user_id", user.ID).Str("schema", res.Schema).Msg("login")
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   uc.jwtCfg.ExpMinutes * 60,
		User:        *usecase.ToUserResponse(user),
		Tenant:      brief,
	}, nil
}
