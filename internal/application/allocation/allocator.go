package allocation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// Pick es un tramo del plan: cuántas unidades tomar de qué lote.
type Pick struct {
	BatchID    string
	Quantity   int64
	UnitPrice  decimal.Decimal
	ExpiryDate *time.Time
}

// Planner implementa la asignación FEFO (First-Expired-First-Out): consume
// primero el lote que vence antes. Es solo lectura y no toma bloqueos: el plan
// es advisory y la reserva re-valida disponibilidad al escribir, así que un
// plan puede fallar legítimamente si otro pedido consumió el stock entre medias.
type Planner struct {
	batchRepo repository.BatchRepository
	poolRepo  repository.InventoryPoolRepository
}

// NewPlanner construye el planificador.
func NewPlanner(batchRepo repository.BatchRepository, poolRepo repository.InventoryPoolRepository) *Planner {
	return &Planner{batchRepo: batchRepo, poolRepo: poolRepo}
}

// Allocate arma el plan para (producto, cantidad): recorre los lotes active
// ordenados por vencimiento ascendente (sin vencimiento al final, empate por id,
// orden que ya garantiza el repositorio), salta los que no tienen disponibilidad
// positiva y consume con derrame al siguiente lote hasta cubrir la cantidad.
// Si los lotes se agotan antes, retorna StockShortageError con el faltante
// sin haber escrito nada.
func (p *Planner) Allocate(productID string, requested int64) ([]Pick, error) {
	if productID == "" || requested <= 0 {
		return nil, domain.ErrInvalidInput
	}

	batches, err := p.batchRepo.ListActiveByProduct(productID)
	if err != nil {
		return nil, err
	}

	var picks []Pick
	var available int64
	remaining := requested
	for _, b := range batches {
		pool, err := p.poolRepo.GetByBatch(b.ID)
		if err != nil {
			return nil, err
		}
		if pool == nil {
			continue
		}
		free := pool.Available()
		if free <= 0 {
			continue
		}
		available += free
		take := remaining
		if free < take {
			take = free
		}
		picks = append(picks, Pick{
			BatchID:    b.ID,
			Quantity:   take,
			UnitPrice:  b.UnitPrice,
			ExpiryDate: b.ExpiryDate,
		})
		remaining -= take
		if remaining == 0 {
			break
		}
	}

	if remaining > 0 {
		return nil, &domain.StockShortageError{
			ProductID: productID,
			Requested: requested,
			Available: available,
		}
	}
	return picks, nil
}
