package tenancy

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/dto"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/repository"
	"github.com/CarlosEstrada30/smart-orders-api/pkg/logger"
)

// Provisioner crea y elimina el schema físico de un tenant con todas sus tablas.
type Provisioner interface {
	Provision(ctx context.Context, schema string) error
	Drop(ctx context.Context, schema string) error
}

var (
	subdomainRe = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)
	nonAlnumRe  = regexp.MustCompile(`[^a-z0-9]+`)
)

var reservedSubdomains = map[string]bool{
	entity.DefaultSchema: true,
	"www":                true,
	"api":                true,
	"admin":              true,
}

// maxSchemaPrefix deja espacio para "_" + 32 caracteres del token dentro de los 63 de PostgreSQL.
const maxSchemaPrefix = 30

// AdminUseCase alta, baja lógica y restauración de tenants.
type AdminUseCase struct {
	tenants     repository.TenantRepository
	provisioner Provisioner
	sessions    repository.SessionFactory
	resolver    *Resolver
	log         *logger.Logger
}

// NewAdminUseCase construye el caso de uso.
func NewAdminUseCase(
	tenants repository.TenantRepository,
	provisioner Provisioner,
	sessions repository.SessionFactory,
	resolver *Resolver,
	log *logger.Logger,
) *AdminUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AdminUseCase{
		tenants:     tenants,
		provisioner: provisioner,
		sessions:    sessions,
		resolver:    resolver,
		log:         log.Named("tenant-admin"),
	}
}

// SchemaNameFor deriva el schema a partir del nombre y el token: <nombre>_<token sin guiones>.
func SchemaNameFor(nombre, token string) string {
	prefix := nonAlnumRe.ReplaceAllString(strings.ToLower(nombre), "")
	if len(prefix) > maxSchemaPrefix {
		prefix = prefix[:maxSchemaPrefix]
	}
	if prefix == "" {
		prefix = "tenant"
	}
	if prefix[0] >= '0' && prefix[0] <= '9' {
		prefix = "t" + prefix
		if len(prefix) > maxSchemaPrefix {
			prefix = prefix[:maxSchemaPrefix]
		}
	}
	return prefix + "_" + strings.ReplaceAll(token, "-", "")
}

// Create registra el tenant, aprovisiona su schema y crea el usuario administrador inicial.
// Si algo falla tras insertar el tenant, se deshace el schema y la fila.
func (uc *AdminUseCase) Create(ctx context.Context, in dto.CreateTenantRequest) (*dto.TenantResponse, error) {
	sub := NormalizeSubdomain(in.Subdominio)
	if !subdomainRe.MatchString(sub) || reservedSubdomains[sub] {
		return nil, fmt.Errorf("%w: subdominio %q inválido", domain.ErrInvalidInput, in.Subdominio)
	}
	nombre := strings.TrimSpace(in.Nombre)
	if nombre == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	email := strings.ToLower(strings.TrimSpace(in.AdminEmail))
	if email == "" || len(in.AdminPassword) < 8 {
		return nil, fmt.Errorf("%w: email y contraseña (mín. 8) del administrador requeridos", domain.ErrInvalidInput)
	}
	existing, err := uc.tenants.GetBySubdomain(ctx, sub)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: subdominio %q", domain.ErrDuplicate, sub)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	token := uuid.New().String()
	now := time.Now()
	t := &entity.Tenant{
		ID:         uuid.New().String(),
		Nombre:     nombre,
		Subdominio: sub,
		Token:      token,
		SchemaName: SchemaNameFor(nombre, token),
		Active:     true,
		IsTrial:    in.IsTrial,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.tenants.Create(ctx, t); err != nil {
		return nil, err
	}

	if err := uc.provision(ctx, t, email, in.AdminName, string(hash)); err != nil {
		uc.log.Error().Err(err).Str("schema", t.SchemaName).Msg("aprovisionamiento fallido, revirtiendo")
		// La reversión no debe depender del contexto del request, que puede estar cancelado.
		cleanup, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if dropErr := uc.provisioner.Drop(cleanup, t.SchemaName); dropErr != nil {
			err = errors.Join(err, dropErr)
		}
		if delErr := uc.tenants.Delete(cleanup, t.ID); delErr != nil {
			err = errors.Join(err, delErr)
		}
		return nil, err
	}

	uc.log.Info().
		Str("tenant_id", t.ID).
		Str("subdominio", t.Subdominio).
		Str("schema", t.SchemaName).
		Bool("trial", t.IsTrial).
		Msg("tenant creado")
	return ToTenantResponse(t), nil
}

func (uc *AdminUseCase) provision(ctx context.Context, t *entity.Tenant, email, name, hash string) error {
	if err := uc.provisioner.Provision(ctx, t.SchemaName); err != nil {
		return fmt.Errorf("aprovisionar schema %s: %w", t.SchemaName, err)
	}
	sess, err := uc.sessions.Open(ctx, t.SchemaName)
	if err != nil {
		return err
	}
	defer sess.Close(ctx)

	if strings.TrimSpace(name) == "" {
		name = "Administrador"
	}
	now := time.Now()
	admin := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     strings.SplitN(email, "@", 2)[0],
		FullName:     name,
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return sess.WithTx(ctx, func(r repository.Repositories) error {
		return r.Users.Create(ctx, admin)
	})
}

// List devuelve los tenants; los inactivos solo si includeInactive.
func (uc *AdminUseCase) List(ctx context.Context, includeInactive bool) ([]dto.TenantResponse, error) {
	list, err := uc.tenants.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TenantResponse, 0, len(list))
	for _, t := range list {
		out = append(out, *ToTenantResponse(t))
	}
	return out, nil
}

// Get obtiene un tenant, activo o no.
func (uc *AdminUseCase) Get(ctx context.Context, id string) (*dto.TenantResponse, error) {
	t, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToTenantResponse(t), nil
}

func (uc *AdminUseCase) get(ctx context.Context, id string) (*entity.Tenant, error) {
	t, err := uc.tenants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: tenant %s", domain.ErrNotFound, id)
	}
	return t, nil
}

// SoftDelete desactiva el tenant. El schema y sus datos se conservan.
func (uc *AdminUseCase) SoftDelete(ctx context.Context, id string) (*dto.TenantResponse, error) {
	return uc.setActive(ctx, id, false)
}

// Restore reactiva un tenant desactivado.
func (uc *AdminUseCase) Restore(ctx context.Context, id string) (*dto.TenantResponse, error) {
	return uc.setActive(ctx, id, true)
}

func (uc *AdminUseCase) setActive(ctx context.Context, id string, active bool) (*dto.TenantResponse, error) {
	t, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Active == active {
		return nil, fmt.Errorf("%w: el tenant %s ya está en ese estado", domain.ErrConflict, t.Subdominio)
	}
	if err := uc.tenants.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	if uc.resolver != nil {
		uc.resolver.Invalidate(ctx, t.Subdominio)
	}
	t.Active = active
	t.UpdatedAt = time.Now()
	uc.log.Info().Str("tenant_id", t.ID).Bool("active", active).Msg("estado de tenant actualizado")
	return ToTenantResponse(t), nil
}

// ToTenantResponse mapea la entidad a su DTO.
func ToTenantResponse(t *entity.Tenant) *dto.TenantResponse {
	return &dto.TenantResponse{
		ID:         t.ID,
		Nombre:     t.Nombre,
		Subdominio: t.Subdominio,
		SchemaName: t.SchemaName,
		Active:     t.Active,
		IsTrial:    t.IsTrial,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}
