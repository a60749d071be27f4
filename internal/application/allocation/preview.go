package allocation

import (
	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// PreviewUseCase expone el plan FEFO como consulta: qué lotes cubrirían una
// cantidad sin reservar nada. El plan es orientativo; la reserva real se decide
// al transicionar el pedido, con las filas bloqueadas.
type PreviewUseCase struct {
	planner     *Planner
	productRepo repository.ProductRepository
}

// NewPreviewUseCase construye el caso de uso.
func NewPreviewUseCase(planner *Planner, productRepo repository.ProductRepository) *PreviewUseCase {
	return &PreviewUseCase{planner: planner, productRepo: productRepo}
}

// Preview calcula el plan FEFO para la cantidad pedida.
func (uc *PreviewUseCase) Preview(companyID string, in dto.AllocationPreviewRequest) (*dto.AllocationPreviewResponse, error) {
	if in.ProductID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	picks, err := uc.planner.Allocate(in.ProductID, in.Quantity)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AllocationPickDTO, 0, len(picks))
	for _, p := range picks {
		out = append(out, dto.AllocationPickDTO{
			BatchID:    p.BatchID,
			Quantity:   p.Quantity,
			UnitPrice:  p.UnitPrice,
			ExpiryDate: p.ExpiryDate,
		})
	}
	return &dto.AllocationPreviewResponse{
		ProductID: in.ProductID,
		Requested: in.Quantity,
		Picks:     out,
	}, nil
}
