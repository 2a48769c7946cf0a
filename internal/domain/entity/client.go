package entity

import "time"

// Client cliente al que se le venden órdenes.
type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	NIT       string
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
