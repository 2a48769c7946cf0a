package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// NewApp crea la app Fiber con el manejo de errores de la API.
// Immutable: params y headers se guardan en spans y labels que viven más que el request.
func NewApp(name string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		Immutable:    true,
		ErrorHandler: ErrorHandler,
	})
}
