package orders_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/application/inventory"
	"github.com/jhoicas/Pedidos-api/internal/application/orders"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

func newTransitionFixture(t *testing.T) (*memStore, *fakeTxRunner, *orders.TransitionOrderUseCase) {
	t.Helper()
	s := newMemStore()
	runner := &fakeTxRunner{s: s}
	uc := orders.NewTransitionOrderUseCase(runner, inventory.NewPoolStore(testLogger()), testLogger())
	return s, runner, uc
}

func twoLineOrder(s *memStore, status string) {
	seedBatchWithPool(s, "b1", "p1", daysFromNow(5), 10, 0)
	seedBatchWithPool(s, "b2", "p2", daysFromNow(9), 20, 0)
	seedOrder(s, "ord-1", status, []*entity.LineItem{
		{ID: "li-1", OrderID: "ord-1", ProductID: "p1", BatchID: "b1", Quantity: 4},
		{ID: "li-2", OrderID: "ord-1", ProductID: "p2", BatchID: "b2", Quantity: 6},
	})
}

func TestTransition_DraftAPending_ReservaTodasLasLineas(t *testing.T) {
	s, _, uc := newTransitionFixture(t)
	twoLineOrder(s, entity.OrderStatusDraft)

	resp, err := uc.Transition(context.Background(), testCompanyID, testUserID, "ord-1", entity.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, resp.Status)

	// Reserva = apartado: la estantería no cambia, solo crece lo reservado.
	assert.Equal(t, int64(10), s.pools["b1"].QuantityOnShelf)
	assert.Equal(t, int64(4), s.pools["b1"].QuantityReserved)
	assert.Equal(t, int64(6), s.pools["b2"].QuantityReserved)

	require.Len(t, s.movements, 2, "un movimiento por línea")
	for _, m := range s.movements {
		assert.Equal(t, entity.MovementTypeAudit, m.Type)
		assert.Equal(t, "ord-1", m.OrderID)
		assert.Negative(t, m.QuantityDelta, "la reserva se registra contra disponibilidad")
	}
}

func TestTransition_FalloEnUnaLinea_NoMutaNada(t *testing.T) {
	s, _, uc := newTransitionFixture(t)
	seedBatchWithPool(s, "b1", "p1", daysFromNow(5), 10, 0)
	seedBatchWithPool(s, "b2", "p2", daysFromNow(9), 3, 0) // insuficiente para 6
	seedOrder(s, "ord-1", entity.OrderStatusDraft, []*entity.LineItem{
		{ID: "li-1", OrderID: "ord-1", ProductID: "p1", BatchID: "b1", Quantity: 4},
		{ID: "li-2", OrderID: "ord-1", ProductID: "p2", BatchID: "b2", Quantity: 6},
	})

	_, err := uc.Transition(context.Background(), testCompanyID, testUserID, "ord-1", entity.OrderStatusPending)
	require.ErrorIs(t, err, domain.ErrInsufficientShelfStock)

	// El pedido entero falla: ni el pool viable se toca, ni hay movimientos,
	// ni cambia el estado.
	assert.Equal(t, int64(0), s.pools["b1"].QuantityReserved)
	assert.Equal(t, int64(0), s.pools["b2"].QuantityReserved)
	assert.Empty(t, s.movements)
	assert.Equal(t, entity.OrderStatusDraft, s.orders["ord-1"].Status)
}

func TestTransition_MismoEstado_NoOpSinMovimientos(t *testing.T) {
	s, _, uc := newTransitionFixture(t)
	twoLineOrder(s, entity.OrderStatusPending)

	resp, err := uc.Transition(context.Background(), testCompanyID, testUserID, "ord-1", entity.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, resp.Status)
	assert.Empty(t, s.movements, "no-op idempotente no escribe en el libro")
}

func TestTransition_AristaInvalida(t *testing.T) {
	s, _, uc := newTransitionFixture(t)
	twoLineOrder(s, entity.OrderStatusDraft)

	_, err := uc.Transition(context.Background(), testCompanyID, testUserID, "ord-1", entity.OrderStatusDelivered)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Empty(t, s.movements)
}

func TestTransition_PedidoDeOtraEmpresa(t *testing.T) {
	s, _, uc := newTransitionFixture(t)
	twoLineOrder(s, entity.OrderStatusDraft)

	_, err := uc.Transition(context.Background(), "otra-empresa", testUserID, "ord-1", entity.OrderStatusPending)
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTransition_PedidoInexistente(t *testing.T) {
	_, _, uc := newTransitionFixture(t)

	_, err := uc.Transition(context.Background(), testCompanyID, testUserID, "no-existe", entity.OrderStatusPending)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransition_CancelarPending_LiberaReservas(t *testing.T) {
	s, _, uc := newTransitionFixture(t)
	twoLineOrder(s, entity.OrderStatusDraft)

	ctx := context.Background()
	_, err := uc.Transition(ctx, testCompanyID, testUserID, "ord-1", entity.OrderStatusPending)
	require.NoError(t, err)
	resp, err := uc.Transition(ctx, testCompanyID, testUserID, "ord-1", entity.OrderStatusCancelled)
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusCancelled, resp.Status)
	assert.Equal(t, int64(0), s.pools["b1"].QuantityReserved)
	assert.Equal(t, int64(0), s.pools["b2"].QuantityReserved)
	assert.Equal(t, int64(10), s.pools["b1"].QuantityOnShelf, "cancelar devuelve la disponibilidad intacta")
	assert.Len(t, s.movements, 4, "reserva y liberación, una por línea")
}

func TestTransition_CicloCompleto_RestauraEstanteria(t *testing.T) {
	s, _, uc := newTransitionFixture(t)
	twoLineOrder(s, entity.OrderStatusDraft)
	ctx := context.Background()

	for _, status := range []string{
		entity.OrderStatusPending,
		entity.OrderStatusShipping,
		entity.OrderStatusDelivered,
		entity.OrderStatusRefunded,
	} {
		_, err := uc.Transition(ctx, testCompanyID, testUserID, "ord-1", status)
		require.NoError(t, err, "transición a %s", status)
	}

	// reserve apartó, consume descontó de estantería y reserva, return repuso:
	// la estantería vuelve a su valor inicial y no queda reserva colgada.
	assert.Equal(t, int64(10), s.pools["b1"].QuantityOnShelf)
	assert.Equal(t, int64(0), s.pools["b1"].QuantityReserved)
	assert.Equal(t, int64(20), s.pools["b2"].QuantityOnShelf)
	assert.Equal(t, int64(0), s.pools["b2"].QuantityReserved)

	// Tres transiciones tocan pools (pending, delivered, refunded) x dos líneas.
	assert.Len(t, s.movements, 6)
	assert.Equal(t, entity.PaymentStatusRefunded, s.orders["ord-1"].PaymentStatus)
}

func TestTransition_EntregarSinReserva_FallaDuro(t *testing.T) {
	s, _, uc := newTransitionFixture(t)
	// Pedido en pending pero con la reserva perdida (estado corrupto simulado).
	twoLineOrder(s, entity.OrderStatusPending)

	_, err := uc.Transition(context.Background(), testCompanyID, testUserID, "ord-1", entity.OrderStatusDelivered)
	require.ErrorIs(t, err, domain.ErrInsufficientReservedStock)
	assert.Equal(t, entity.OrderStatusPending, s.orders["ord-1"].Status)
	assert.Empty(t, s.movements)
}

func TestTransition_ConflictoDeConcurrencia_Reintenta(t *testing.T) {
	s, runner, uc := newTransitionFixture(t)
	twoLineOrder(s, entity.OrderStatusDraft)
	runner.conflictsLeft = 2

	resp, err := uc.Transition(context.Background(), testCompanyID, testUserID, "ord-1", entity.OrderStatusPending)
	require.NoError(t, err, "el tercer intento debe prosperar")
	assert.Equal(t, entity.OrderStatusPending, resp.Status)
	assert.Equal(t, 3, runner.runs)
	assert.Len(t, s.movements, 2, "los reintentos no duplican movimientos")
}

func TestTransition_ConflictoAgotado(t *testing.T) {
	s, runner, uc := newTransitionFixture(t)
	twoLineOrder(s, entity.OrderStatusDraft)
	runner.conflictsLeft = 10

	_, err := uc.Transition(context.Background(), testCompanyID, testUserID, "ord-1", entity.OrderStatusPending)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 4, runner.runs, "intento inicial más tres reintentos")
	assert.Equal(t, entity.OrderStatusDraft, s.orders["ord-1"].Status)
}

func TestTransition_CancelarDraft_NoTocaPools(t *testing.T) {
	s, _, uc := newTransitionFixture(t)
	twoLineOrder(s, entity.OrderStatusDraft)

	resp, err := uc.Transition(context.Background(), testCompanyID, testUserID, "ord-1", entity.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, resp.Status)
	assert.Empty(t, s.movements, "en draft no hay nada reservado que liberar")
}

// El motor decide sobre el estado leído con la fila del pedido bloqueada: si
// otra transacción comprometió delivered primero, cancelar debe rechazarse como
// arista inválida en vez de pisar el estado con el snapshot obsoleto.
func TestTransition_EntregaConcurrente_CancelarNoPisaElEstado(t *testing.T) {
	s, _, uc := newTransitionFixture(t)
	twoLineOrder(s, entity.OrderStatusPending)
	s.pools["b1"].QuantityReserved = 4
	s.pools["b2"].QuantityReserved = 6

	// Simula la otra transacción: al tomar el lock, el pedido ya está
	// delivered y sus reservas consumidas.
	s.onOrderLock = func(o *entity.Order) {
		s.onOrderLock = nil
		o.Status = entity.OrderStatusDelivered
		for _, batchID := range []string{"b1", "b2"} {
			p := s.pools[batchID]
			p.QuantityOnShelf -= p.QuantityReserved
			p.QuantityReserved = 0
		}
	}

	_, err := uc.Transition(context.Background(), testCompanyID, testUserID, "ord-1", entity.OrderStatusCancelled)
	require.ErrorIs(t, err, domain.ErrInvalidTransition,
		"delivered -> cancelled no es una arista de la tabla")
	assert.Zero(t, s.movementWrites, "la cancelación perdedora no debe escribir ningún movimiento")
}

// Dos confirmaciones del mismo pedido: la segunda ve pending bajo lock y es un
// no-op idempotente, nunca una doble reserva de las líneas.
func TestTransition_ConfirmarDosVeces_NoReservaDoble(t *testing.T) {
	s, _, uc := newTransitionFixture(t)
	twoLineOrder(s, entity.OrderStatusDraft)

	_, err := uc.Transition(context.Background(), testCompanyID, testUserID, "ord-1", entity.OrderStatusPending)
	require.NoError(t, err)
	resp, err := uc.Transition(context.Background(), testCompanyID, testUserID, "ord-1", entity.OrderStatusPending)
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusPending, resp.Status)
	assert.Equal(t, int64(4), s.pools["b1"].QuantityReserved, "la reserva no se duplica")
	assert.Equal(t, int64(6), s.pools["b2"].QuantityReserved)
	assert.Len(t, s.movements, 2, "solo la primera confirmación escribe movimientos")
}

// Dos líneas sobre el mismo lote compiten por el mismo pool: la pre-validación
// suma la demanda por lote y rechaza antes de intentar escribir nada.
func TestTransition_DosLineasMismoLote_DemandaAgregada(t *testing.T) {
	s, _, uc := newTransitionFixture(t)
	seedBatchWithPool(s, "b1", "p1", daysFromNow(5), 10, 0)
	seedOrder(s, "ord-1", entity.OrderStatusDraft, []*entity.LineItem{
		{ID: "li-1", OrderID: "ord-1", ProductID: "p1", BatchID: "b1", Quantity: 6},
		{ID: "li-2", OrderID: "ord-1", ProductID: "p1", BatchID: "b1", Quantity: 6},
	})

	_, err := uc.Transition(context.Background(), testCompanyID, testUserID, "ord-1", entity.OrderStatusPending)
	require.ErrorIs(t, err, domain.ErrInsufficientShelfStock,
		"6+6 sobre una estantería de 10 debe rechazarse como conjunto")
	assert.Zero(t, s.movementWrites, "el faltante se detecta antes de cualquier escritura")
	assert.Equal(t, int64(0), s.pools["b1"].QuantityReserved)
	assert.Equal(t, entity.OrderStatusDraft, s.orders["ord-1"].Status)
}

func TestTransition_DosLineasMismoLote_SumaExactaReserva(t *testing.T) {
	s, _, uc := newTransitionFixture(t)
	seedBatchWithPool(s, "b1", "p1", daysFromNow(5), 10, 0)
	seedOrder(s, "ord-1", entity.OrderStatusDraft, []*entity.LineItem{
		{ID: "li-1", OrderID: "ord-1", ProductID: "p1", BatchID: "b1", Quantity: 5},
		{ID: "li-2", OrderID: "ord-1", ProductID: "p1", BatchID: "b1", Quantity: 5},
	})

	resp, err := uc.Transition(context.Background(), testCompanyID, testUserID, "ord-1", entity.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, resp.Status)
	assert.Equal(t, int64(10), s.pools["b1"].QuantityReserved, "la suma exacta de ambas líneas cabe")
	assert.Len(t, s.movements, 2, "sigue habiendo un movimiento por línea")
}
