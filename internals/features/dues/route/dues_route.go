// file: internals/features/dues/route/dues_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"pdpi_backend/internals/constants"
	"pdpi_backend/internals/deps"
	duesController "pdpi_backend/internals/features/dues/controller"
	authMiddleware "pdpi_backend/internals/middlewares/auth"
)

// /api/public/dues/notification (webhook Midtrans, tanpa auth; signature dicek di service)
func DuesPublicRoutes(r fiber.Router, d *deps.Deps) {
	ctl := duesController.NewDuesController(d.Dues, d.Blob, d.Log)
	r.Post("/dues/notification", ctl.Notification)
}

// /api/u/dues (anggota)
func DuesUserRoutes(r fiber.Router, d *deps.Deps) {
	ctl := duesController.NewDuesController(d.Dues, d.Blob, d.Log)

	g := r.Group("/dues", authMiddleware.OnlyRoles(constants.RoleErrorMember("iuran"), constants.RoleMember))
	g.Get("/years", ctl.Years)
	g.Get("/payments", ctl.MyPayments)
	g.Post("/payments", ctl.Create)
	g.Post("/payments/:id/proof", ctl.UploadProof)
}

// /api/a/dues
func DuesAdminRoutes(r fiber.Router, d *deps.Deps) {
	ctl := duesController.NewDuesController(d.Dues, d.Blob, d.Log)

	g := r.Group("/dues")
	g.Get("/payments", ctl.AdminList)
	g.Post("/payments/:id/verify", ctl.Verify)
}
