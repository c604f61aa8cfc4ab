// file: internals/features/branches/route/branch_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"pdpi_backend/internals/constants"
	"pdpi_backend/internals/deps"
	"pdpi_backend/internals/features/branches/controller"
	branchService "pdpi_backend/internals/features/branches/service"
	authMiddleware "pdpi_backend/internals/middlewares/auth"
)

// /api/public/branches
func BranchPublicRoutes(r fiber.Router, d *deps.Deps) {
	ctl := controller.NewBranchController(branchService.NewBranchService(d.DB), d.Cache, d.Log)
	r.Get("/branches", ctl.PublicList)
}

// /api/a/branches: baca untuk semua admin, tulis khusus super admin.
func BranchAdminRoutes(r fiber.Router, d *deps.Deps) {
	ctl := controller.NewBranchController(branchService.NewBranchService(d.DB), d.Cache, d.Log)
	onlySuper := authMiddleware.OnlyRoles(constants.RoleErrorSuperAdmin("kelola cabang"), constants.SuperAdminOnly...)

	g := r.Group("/branches")
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
	g.Post("/", onlySuper, ctl.Create)
	g.Patch("/:id", onlySuper, ctl.Update)
	g.Delete("/:id", onlySuper, ctl.Delete)
}
