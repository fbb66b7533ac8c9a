package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/socks-api/internal/application/inventory"
	"github.com/jhoicas/socks-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SockUC     *inventory.SockUseCase
	Logger     *logger.Logger
	CSVCharset string
	// JWTSecret vacío deja las rutas de escritura públicas.
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protect := func(h fiber.Handler) []fiber.Handler {
		if deps.JWTSecret == "" {
			return []fiber.Handler{h}
		}
		return []fiber.Handler{AuthMiddleware(deps.JWTSecret), h}
	}

	socks := api.Group("/socks")
	sockHandler := NewSockHandler(deps.SockUC, deps.Logger, deps.CSVCharset)
	socks.Get("/", sockHandler.Count)
	socks.Get("/filter", sockHandler.Filter)
	socks.Get("/:id", sockHandler.GetByID)
	socks.Post("/income", protect(sockHandler.Income)...)
	socks.Post("/outcome", protect(sockHandler.Outcome)...)
	socks.Post("/batch", protect(sockHandler.UploadBatch)...)
	socks.Put("/:id", protect(sockHandler.Update)...)
}
