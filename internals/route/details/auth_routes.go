package details

import (
	"github.com/gofiber/fiber/v2"

	"pdpi_backend/internals/deps"
	authRoute "pdpi_backend/internals/features/users/auth/route"
)

func AuthRoutes(app *fiber.App, d *deps.Deps) {
	authRoute.AuthRoutes(app, d)
}

func UserAdminRoutes(admin fiber.Router, d *deps.Deps) {
	authRoute.UserAdminRoutes(admin, d)
}
