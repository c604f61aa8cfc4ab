package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"pdpi_backend/internals/configs"
	"pdpi_backend/internals/middlewares/logger"
)

// SetupMiddlewares: urutan penting, recover paling luar lalu request id sebelum access log.
func SetupMiddlewares(app *fiber.App, log *zap.Logger) {
	app.Use(RecoveryMiddleware(log))
	app.Use(RequestIDMiddleware())
	app.Use(CorsMiddleware())
	if configs.IsProduction() {
		app.Use(logger.ZapAccessLog(log))
	} else {
		app.Use(logger.LoggerMiddleware())
	}
}
