// file: internals/features/members/stats/controller/stats_controller.go
package controller

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"pdpi_backend/internals/constants"
	"pdpi_backend/internals/features/members/members/repository"
	province "pdpi_backend/internals/features/members/province/service"
	search "pdpi_backend/internals/features/members/search/service"
	stats "pdpi_backend/internals/features/members/stats/service"
	helper "pdpi_backend/internals/helpers"
	helperAuth "pdpi_backend/internals/helpers/auth"
)

type StatsController struct {
	Repo      *repository.MemberRepository
	Svc       *stats.StatsService
	Centroids []province.Centroid
	Log       *zap.Logger
}

func NewStatsController(repo *repository.MemberRepository, svc *stats.StatsService, centroids []province.Centroid, log *zap.Logger) *StatsController {
	return &StatsController{Repo: repo, Svc: svc, Centroids: centroids, Log: log}
}

// queryFromCtx: filter + q; admin_pd dibatasi ke cabangnya.
func (ctl *StatsController) queryFromCtx(c *fiber.Ctx, admin bool) (repository.ListQuery, string, error) {
	q := repository.ListQuery{
		Filter:  search.MemberFilterFromQuery(c.Queries()),
		Q:       c.Query("q"),
		IsAdmin: admin,
	}
	key := q.Filter.CacheKey()
	if nq := search.NormalizeText(q.Q); nq != "" {
		key += "|q=" + nq
	}
	if admin {
		key += "|admin"
		if helperAuth.GetRole(c) == constants.RoleAdminPD {
			bid, err := helperAuth.GetBranchID(c)
			if err != nil {
				return q, "", fiber.NewError(fiber.StatusForbidden, "akun admin belum punya cabang")
			}
			q.BranchID = &bid
			key += "|branch=" + bid.String()
		}
	}
	return q, key, nil
}

func (ctl *StatsController) loader(q repository.ListQuery) stats.RowLoader {
	return func(ctx context.Context) ([]stats.MemberRow, error) {
		return ctl.Repo.StatsRows(ctx, q)
	}
}

func (ctl *StatsController) summary(c *fiber.Ctx, admin bool) error {
	q, key, err := ctl.queryFromCtx(c, admin)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	sum, err := ctl.Svc.Summary(c.Context(), key, ctl.loader(q))
	if err != nil {
		ctl.Log.Error("statistik anggota gagal", zap.String("key", key), zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung statistik")
	}
	return helper.JsonOK(c, "ok", sum)
}

// GET /api/public/stats/members
func (ctl *StatsController) Members(c *fiber.Ctx) error { return ctl.summary(c, false) }

// GET /api/a/stats/members
func (ctl *StatsController) AdminMembers(c *fiber.Ctx) error { return ctl.summary(c, true) }

// GET /api/public/stats/provinces
// Selalu satu entri per centroid (provinsi tanpa anggota → count 0).
func (ctl *StatsController) Provinces(c *fiber.Ctx) error {
	q, key, err := ctl.queryFromCtx(c, false)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	pts, err := ctl.Svc.ProvincePoints(c.Context(), key, ctl.loader(q), ctl.Centroids)
	if err != nil {
		ctl.Log.Error("statistik provinsi gagal", zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung statistik provinsi")
	}
	return helper.JsonOK(c, "ok", pts)
}
