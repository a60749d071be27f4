package entity

import "time"

// Purchase representa la cabecera de una recepción de mercancía. Los movimientos
// `in` generados al recibir referencian este registro vía PurchaseID.
type Purchase struct {
	ID         string
	CompanyID  string
	SupplierID string
	Reference  string // número de remisión o factura del proveedor
	ReceivedBy string // UserID
	ReceivedAt time.Time
}
