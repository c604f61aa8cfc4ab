// file: internals/features/members/stats/route/stats_route.go
package route

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"pdpi_backend/internals/configs"
	"pdpi_backend/internals/deps"
	"pdpi_backend/internals/features/members/members/repository"
	statsController "pdpi_backend/internals/features/members/stats/controller"
	stats "pdpi_backend/internals/features/members/stats/service"
)

func newController(d *deps.Deps) *statsController.StatsController {
	svc := stats.NewStatsService(
		stats.NewAggregator(d.Resolver),
		d.Cache,
		configs.GetEnvDuration("STATS_CACHE_TTL", 10*time.Minute),
		d.Log,
	)
	return statsController.NewStatsController(repository.NewMemberRepository(d.DB), svc, d.Centroids, d.Log)
}

// /api/public/stats
func StatsPublicRoutes(r fiber.Router, d *deps.Deps) {
	ctl := newController(d)
	g := r.Group("/stats")
	g.Get("/members", ctl.Members)
	g.Get("/provinces", ctl.Provinces)
}

// /api/a/stats
func StatsAdminRoutes(r fiber.Router, d *deps.Deps) {
	ctl := newController(d)
	r.Get("/stats/members", ctl.AdminMembers)
}
