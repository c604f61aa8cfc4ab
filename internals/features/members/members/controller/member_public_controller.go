// file: internals/features/members/members/controller/member_public_controller.go
package controller

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"pdpi_backend/internals/constants"
	"pdpi_backend/internals/features/members/members/dto"
	"pdpi_backend/internals/features/members/members/repository"
	search "pdpi_backend/internals/features/members/search/service"
	helper "pdpi_backend/internals/helpers"
	helperAuth "pdpi_backend/internals/helpers/auth"
	"pdpi_backend/internals/helpers/searchindex"
)

var memberOrderColumns = map[string]string{
	"nama":       "member_nama",
	"npa":        "member_npa",
	"provinsi":   "member_provinsi",
	"cabang":     "member_cabang",
	"created_at": "member_created_at",
}

type PublicMemberController struct {
	Repo  *repository.MemberRepository
	Index searchindex.MemberIndex
	Log   *zap.Logger
}

func NewPublicMemberController(repo *repository.MemberRepository, index searchindex.MemberIndex, log *zap.Logger) *PublicMemberController {
	return &PublicMemberController{Repo: repo, Index: index, Log: log}
}

// listQueryFromCtx: ?q= + dimensi filter (provinsi, cabang, kota, huruf, ...).
func listQueryFromCtx(c *fiber.Ctx, isAdmin bool) repository.ListQuery {
	return repository.ListQuery{
		Filter:  search.MemberFilterFromQuery(c.Queries()),
		Q:       c.Query("q"),
		IsAdmin: isAdmin,
	}
}

// adminView: admin yang login (lewat OptionalAuth) dapat field admin.
// admin_pd tetap dibatasi ke cabangnya; admin_pd tanpa cabang → tampilan publik.
func adminView(c *fiber.Ctx) (bool, *uuid.UUID) {
	if !helperAuth.IsAdmin(c) {
		return false, nil
	}
	scope, err := branchScope(c)
	if err != nil {
		return false, nil
	}
	return true, scope
}

// GET /api/public/members
func (ctl *PublicMemberController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	order := helper.SafeOrder(c, memberOrderColumns, "nama", "asc")

	isAdmin, scope := adminView(c)
	q := listQueryFromCtx(c, isAdmin)
	q.BranchID = scope

	rows, total, err := ctl.Repo.List(c.Context(), q, order, p)
	if err != nil {
		ctl.Log.Error("list anggota gagal", zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data anggota")
	}
	if isAdmin {
		return helper.JsonList(c, "ok", dto.NewMemberAdminResponses(rows), helper.BuildPagination(total, p))
	}
	return helper.JsonList(c, "ok", dto.NewMemberPublicResponses(rows), helper.BuildPagination(total, p))
}

// GET /api/public/members/:id
func (ctl *PublicMemberController) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "member_id tidak valid")
	}
	m, err := ctl.Repo.GetByID(c.Context(), id)
	if err != nil {
		return memberError(c, err)
	}
	if isAdmin, scope := adminView(c); isAdmin {
		if scope == nil || (m.MemberCabangID != nil && *m.MemberCabangID == *scope) {
			return helper.JsonOK(c, "ok", m)
		}
	}
	return helper.JsonOK(c, "ok", dto.NewMemberPublicResponse(m))
}

// GET /api/public/members/suggest?q=&limit=
// Pakai meilisearch kalau aktif; tanpa index, cari di DB.
func (ctl *PublicMemberController) Suggest(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if limit <= 0 || limit > 20 {
		limit = 10
	}
	if len(q) < 2 {
		return helper.JsonOK(c, "ok", []searchindex.MemberDoc{})
	}

	if ctl.Index.Enabled() {
		docs, err := ctl.Index.Suggest(c.Context(), q, limit, constants.DefaultExcludedStatuses)
		if err == nil {
			return helper.JsonOK(c, "ok", docs)
		}
		ctl.Log.Warn("suggest meilisearch gagal, fallback DB", zap.Error(err))
	}

	rows, _, err := ctl.Repo.List(c.Context(), repository.ListQuery{Q: q}, "", helper.Paging{Page: 1, PerPage: limit})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mencari anggota")
	}
	docs := make([]searchindex.MemberDoc, 0, len(rows))
	for i := range rows {
		docs = append(docs, rows[i].IndexDoc())
	}
	return helper.JsonOK(c, "ok", docs)
}

// GET /api/public/members/filters
func (ctl *PublicMemberController) FilterOptions(c *fiber.Ctx) error {
	ctx := c.Context()
	var out dto.FilterOptions
	targets := []struct {
		column string
		dst    *[]string
	}{
		{"member_provinsi", &out.Provinsi},
		{"member_cabang", &out.Cabang},
		{"member_kota_kabupaten", &out.Kota},
		{"member_rs_tipe", &out.RSTipe},
		{"member_alumni", &out.Alumni},
	}
	for _, t := range targets {
		vals, err := ctl.Repo.DistinctValues(ctx, t.column)
		if err != nil {
			ctl.Log.Error("opsi filter gagal", zap.String("column", t.column), zap.Error(err))
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil opsi filter")
		}
		*t.dst = vals
	}
	out.Status = constants.MemberStatuses
	return helper.JsonOK(c, "ok", out)
}
