package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/dto"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/repository"
)

// DefaultLowStockThreshold umbral cuando el cliente no envía uno.
const DefaultLowStockThreshold = 10

// ReplenishmentUseCase genera la lista de reposición a partir de los productos activos bajo umbral.
type ReplenishmentUseCase struct{}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase() *ReplenishmentUseCase { return &ReplenishmentUseCase{} }

// Suggest devuelve los productos con stock <= threshold y la cantidad para llevarlos
// a 1.5 × threshold, ordenados por menor existencia (prioridad 1 = más urgente).
func (uc *ReplenishmentUseCase) Suggest(ctx context.Context, store repository.Store, threshold int) ([]dto.ReplenishmentSuggestion, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("%w: umbral negativo", domain.ErrInvalidInput)
	}
	if threshold == 0 {
		threshold = DefaultLowStockThreshold
	}
	products, err := store.Repos().Products.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}
	ideal := (threshold*3 + 1) / 2

	out := make([]dto.ReplenishmentSuggestion, 0, len(products))
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		out = append(out, dto.ReplenishmentSuggestion{
			ProductID:    p.ID,
			SKU:          p.SKU,
			ProductName:  p.Name,
			CurrentStock: p.Stock,
			Threshold:    threshold,
			IdealStock:   ideal,
			SuggestedQty: ideal - p.Stock,
		})
	}
	// Desempate por SKU para una salida estable.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CurrentStock != out[j].CurrentStock {
			return out[i].CurrentStock < out[j].CurrentStock
		}
		return out[i].SKU < out[j].SKU
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}
