package entity

import "time"

// Company representa una empresa (tenant). Todos los recursos cuelgan de una.
type Company struct {
	ID        string
	Name      string
	TaxID     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
