// file: internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"pdpi_backend/internals/constants"
	"pdpi_backend/internals/deps"
	"pdpi_backend/internals/features/users/auth/controller"
	rateLimiter "pdpi_backend/internals/middlewares"
	authMiddleware "pdpi_backend/internals/middlewares/auth"
)

// /api/auth
func AuthRoutes(app fiber.Router, d *deps.Deps) {
	ctl := controller.NewAuthController(d.Auth, d.Log)

	g := app.Group("/api/auth")
	g.Post("/login", rateLimiter.LoginRateLimiter(), ctl.Login)

	protected := g.Group("", authMiddleware.AuthJWT(d.Auth))
	protected.Post("/logout", ctl.Logout)
	protected.Get("/me", ctl.Me)
	protected.Post("/change-password", ctl.ChangePassword)
}

// /api/a/users (super admin)
func UserAdminRoutes(admin fiber.Router, d *deps.Deps) {
	ctl := controller.NewUserAdminController(d.Auth, d.Log)

	g := admin.Group("/users", authMiddleware.OnlyRoles(constants.RoleErrorSuperAdmin("kelola user"), constants.SuperAdminOnly...))
	g.Get("/", ctl.List)
	g.Post("/", ctl.Create)
}
