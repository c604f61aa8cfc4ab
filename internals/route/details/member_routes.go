package details

import (
	"github.com/gofiber/fiber/v2"

	"pdpi_backend/internals/deps"
	branchRoute "pdpi_backend/internals/features/branches/route"
	importRoute "pdpi_backend/internals/features/members/imports/route"
	memberRoute "pdpi_backend/internals/features/members/members/route"
	statsRoute "pdpi_backend/internals/features/members/stats/route"
)

// Direktori anggota: members, cabang, statistik, import.

func MemberPublicRoutes(public fiber.Router, d *deps.Deps) {
	memberRoute.MemberPublicRoutes(public, d)
	branchRoute.BranchPublicRoutes(public, d)
	statsRoute.StatsPublicRoutes(public, d)
}

func MemberUserRoutes(user fiber.Router, d *deps.Deps) {
	memberRoute.MemberUserRoutes(user, d)
}

func MemberAdminRoutes(admin fiber.Router, d *deps.Deps) {
	memberRoute.MemberAdminRoutes(admin, d)
	branchRoute.BranchAdminRoutes(admin, d)
	statsRoute.StatsAdminRoutes(admin, d)
	importRoute.ImportAdminRoutes(admin, d)
}
