package entity

import "time"

// Route ruta de reparto a la que puede asignarse una orden.
type Route struct {
	ID          string
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
