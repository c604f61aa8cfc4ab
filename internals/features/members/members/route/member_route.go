// file: internals/features/members/members/route/member_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"pdpi_backend/internals/constants"
	"pdpi_backend/internals/deps"
	memberController "pdpi_backend/internals/features/members/members/controller"
	"pdpi_backend/internals/features/members/members/repository"
	authMiddleware "pdpi_backend/internals/middlewares/auth"
)

// /api/public/members
func MemberPublicRoutes(r fiber.Router, d *deps.Deps) {
	ctl := memberController.NewPublicMemberController(repository.NewMemberRepository(d.DB), d.Index, d.Log)

	g := r.Group("/members")
	g.Get("/", ctl.List)
	g.Get("/suggest", ctl.Suggest)
	g.Get("/filters", ctl.FilterOptions)
	g.Get("/:id", ctl.Get)
}

// /api/u/profile (login anggota)
func MemberUserRoutes(r fiber.Router, d *deps.Deps) {
	ctl := memberController.NewProfileController(d.MemberService())

	g := r.Group("/profile")
	g.Get("/", ctl.Get)
	g.Patch("/", ctl.Update)
}

// /api/a/members (admin)
func MemberAdminRoutes(r fiber.Router, d *deps.Deps) {
	ctl := memberController.NewAdminMemberController(d.MemberService())

	g := r.Group("/members")
	g.Get("/", ctl.List)
	g.Post("/", ctl.Create)
	g.Post("/reindex", authMiddleware.OnlyRoles(constants.RoleErrorSuperAdmin("reindex"), constants.SuperAdminOnly...), ctl.Reindex)
	g.Get("/:id", ctl.Get)
	g.Patch("/:id", ctl.Update)
	g.Delete("/:id", ctl.Delete)
	g.Post("/:id/photo", ctl.UploadPhoto)
}
