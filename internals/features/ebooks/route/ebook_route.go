// file: internals/features/ebooks/route/ebook_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"pdpi_backend/internals/constants"
	"pdpi_backend/internals/deps"
	ebookController "pdpi_backend/internals/features/ebooks/controller"
	ebookService "pdpi_backend/internals/features/ebooks/service"
	authMiddleware "pdpi_backend/internals/middlewares/auth"
)

func newController(d *deps.Deps) *ebookController.EbookController {
	return ebookController.NewEbookController(ebookService.NewEbookService(d.DB, d.Blob, d.Log), d.Log)
}

// /api/u/ebooks (semua user login)
func EbookUserRoutes(r fiber.Router, d *deps.Deps) {
	ctl := newController(d)
	g := r.Group("/ebooks")
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
}

// /api/a/ebooks: baca untuk admin, tulis super admin.
func EbookAdminRoutes(r fiber.Router, d *deps.Deps) {
	ctl := newController(d)
	g := r.Group("/ebooks")
	g.Get("/", ctl.AdminList)
	g.Get("/:id", ctl.AdminGet)

	onlySuper := authMiddleware.OnlyRoles(constants.RoleErrorSuperAdmin("mengelola e-book"), constants.SuperAdminOnly...)
	g.Post("/", onlySuper, ctl.Create)
	g.Patch("/:id", onlySuper, ctl.Update)
	g.Delete("/:id", onlySuper, ctl.Delete)
}
