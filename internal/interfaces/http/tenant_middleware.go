package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/repository"
	"github.com/CarlosEstrada30/smart-orders-api/pkg/logger"
)

const localStore = "store"

// TenantSession abre una sesión confinada al schema del token y la cierra al terminar
// el request, por cualquier camino de salida. El schema sale solo del claim verificado.
func TenantSession(sessions repository.SessionFactory, log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("tenant_session")
	return func(c *fiber.Ctx) error {
		schema := GetSchema(c)
		sess, err := sessions.Open(c.UserContext(), schema)
		if err != nil {
			log.Warn().Err(err).Str("schema", schema).Str("user_id", GetUserID(c)).Msg("no se pudo abrir la sesión del tenant")
			return writeError(c, err)
		}
		defer sess.Close(c.UserContext())

		c.Locals(localStore, repository.Store(sess))
		return c.Next()
	}
}

// GetStore store del request; nil si TenantSession no corrió.
func GetStore(c *fiber.Ctx) repository.Store {
	s, _ := c.Locals(localStore).(repository.Store)
	return s
}
