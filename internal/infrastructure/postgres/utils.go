package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Pedidos-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// Códigos de Postgres que señalan contención entre transacciones concurrentes:
// fallo de serialización, deadlock, lock no disponible y cancelación por timeout.
// El motor de pedidos reintenta la transición completa ante cualquiera de ellos.
var conflictCodes = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"55P03": true, // lock_not_available
	"57014": true, // query_canceled
}

// mapConflict traduce errores de contención a domain.ErrConflict; los demás
// pasan intactos.
func mapConflict(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && conflictCodes[pgErr.Code] {
		return domain.ErrConflict
	}
	return err
}
