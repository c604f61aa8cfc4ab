// file: internals/route/index.go
package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"pdpi_backend/internals/constants"
	"pdpi_backend/internals/deps"
	rateLimiter "pdpi_backend/internals/middlewares"
	authMiddleware "pdpi_backend/internals/middlewares/auth"
	routeDetails "pdpi_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, d *deps.Deps) {
	startTime = time.Now()
	log := d.Log

	BaseRoutes(app)

	// ===================== AUTH =====================
	log.Info("Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, d)

	// ===================== GROUPS =====================
	global := rateLimiter.GlobalRateLimiter()

	// PUBLIC → JWT opsional (admin yang login melihat field admin di /members)
	log.Info("Setting up PUBLIC group...")
	public := app.Group("/api/public",
		global,
		authMiddleware.OptionalAuth(d.Auth),
	)

	// PRIVATE (login apa saja)
	log.Info("Setting up PRIVATE group...")
	user := app.Group("/api/u",
		global,
		authMiddleware.AuthJWT(d.Auth),
	)

	// ADMIN (super_admin + admin_pd; admin_pd discoping ke cabangnya di controller)
	log.Info("Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthJWT(d.Auth),
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("panel admin"), constants.AdminRoles...),
	)

	// ===================== MOUNT ROUTES =====================
	log.Info("Mounting Member directory routes...")
	routeDetails.MemberPublicRoutes(public, d)
	routeDetails.MemberUserRoutes(user, d)
	routeDetails.MemberAdminRoutes(admin, d)

	log.Info("Mounting Dues & E-book routes...")
	routeDetails.ServicePublicRoutes(public, d)
	routeDetails.ServiceUserRoutes(user, d)
	routeDetails.ServiceAdminRoutes(admin, d)

	log.Info("Mounting User admin routes...")
	routeDetails.UserAdminRoutes(admin, d)

	log.Info("routes ready", zap.Duration("took", time.Since(startTime)))
}
