package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/dto"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/repository"
)

// ClientUseCase casos de uso CRUD para clientes.
type ClientUseCase struct{}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase() *ClientUseCase {
	return &ClientUseCase{}
}

// Create crea un cliente activo.
func (uc *ClientUseCase) Create(ctx context.Context, store repository.Store, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	now := time.Now()
	c := &entity.Client{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		NIT:       strings.TrimSpace(in.NIT),
		Address:   in.Address,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.Repos().Clients.Create(ctx, c); err != nil {
		return nil, err
	}
	return ToClientResponse(c), nil
}

// GetByID obtiene un cliente por ID.
func (uc *ClientUseCase) GetByID(ctx context.Context, store repository.Store, id string) (*dto.ClientResponse, error) {
	c, err := store.Repos().Clients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, id)
	}
	return ToClientResponse(c), nil
}

// Update modifica los campos enviados.
func (uc *ClientUseCase) Update(ctx context.Context, store repository.Store, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	var c *entity.Client
	err := store.WithTx(ctx, func(r repository.Repositories) error {
		var err error
		c, err = r.Clients.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("%w: cliente %s", domain.ErrNotFound, id)
		}
		if in.Name != nil {
			if strings.TrimSpace(*in.Name) == "" {
				return fmt.Errorf("%w: nombre vacío", domain.ErrInvalidInput)
			}
			c.Name = strings.TrimSpace(*in.Name)
		}
		if in.Email != nil {
			c.Email = strings.TrimSpace(*in.Email)
		}
		if in.Phone != nil {
			c.Phone = strings.TrimSpace(*in.Phone)
		}
		if in.NIT != nil {
			c.NIT = strings.TrimSpace(*in.NIT)
		}
		if in.Address != nil {
			c.Address = *in.Address
		}
		if in.IsActive != nil {
			c.IsActive = *in.IsActive
		}
		c.UpdatedAt = time.Now()
		return r.Clients.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return ToClientResponse(c), nil
}

// Deactivate baja lógica del cliente: ya no se le pueden crear órdenes.
func (uc *ClientUseCase) Deactivate(ctx context.Context, store repository.Store, id string) (*dto.ClientResponse, error) {
	inactive := false
	return uc.Update(ctx, store, id, dto.UpdateClientRequest{IsActive: &inactive})
}

// List lista clientes con paginación.
func (uc *ClientUseCase) List(ctx context.Context, store repository.Store, q dto.ClientListQuery) ([]dto.ClientResponse, error) {
	q.DefaultPage()
	list, err := store.Repos().Clients.List(ctx, q.ActiveOnly, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *ToClientResponse(c))
	}
	return out, nil
}

// ToClientResponse mapea la entidad a su DTO.
func ToClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		NIT:       c.NIT,
		Address:   c.Address,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
