package entity

import "time"

// Tipos de cliente; definen el nivel de descuento aplicado antes de crear el pedido.
const (
	CustomerTypeRetail    = "retail"
	CustomerTypeWholesale = "wholesale"
)

// Customer representa un cliente de la empresa.
type Customer struct {
	ID        string
	CompanyID string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	Type      string // retail, wholesale
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
