// file: internals/features/members/members/controller/member_admin_controller.go
package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"pdpi_backend/internals/constants"
	branchService "pdpi_backend/internals/features/branches/service"
	"pdpi_backend/internals/features/members/members/dto"
	"pdpi_backend/internals/features/members/members/model"
	"pdpi_backend/internals/features/members/members/repository"
	memberService "pdpi_backend/internals/features/members/members/service"
	helper "pdpi_backend/internals/helpers"
	helperAuth "pdpi_backend/internals/helpers/auth"
	helperOSS "pdpi_backend/internals/helpers/oss"
)

type AdminMemberController struct {
	Svc *memberService.MemberService
}

func NewAdminMemberController(svc *memberService.MemberService) *AdminMemberController {
	return &AdminMemberController{Svc: svc}
}

// memberError memetakan error service ke status HTTP.
func memberError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repository.ErrMemberNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrNPAExists):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, branchService.ErrBranchNotFound):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, memberService.ErrNoStorage):
		return helper.JsonError(c, fiber.StatusServiceUnavailable, err.Error())
	}
	return helper.JsonFromError(c, err)
}

// branchScope: admin_pd hanya boleh melihat / mengubah anggota cabangnya.
func branchScope(c *fiber.Ctx) (*uuid.UUID, error) {
	if helperAuth.GetRole(c) != constants.RoleAdminPD {
		return nil, nil
	}
	id, err := helperAuth.GetBranchID(c)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusForbidden, err.Error())
	}
	return &id, nil
}

func (ctl *AdminMemberController) load(c *fiber.Ctx) (*model.MemberModel, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "member_id tidak valid")
	}
	m, err := ctl.Svc.Repo.GetByID(c.Context(), id)
	if err != nil {
		return nil, err
	}
	scope, err := branchScope(c)
	if err != nil {
		return nil, err
	}
	if scope != nil && (m.MemberCabangID == nil || *m.MemberCabangID != *scope) {
		return nil, fiber.NewError(fiber.StatusForbidden, "Anggota bukan dari cabang Anda")
	}
	return m, nil
}

// GET /api/a/members
func (ctl *AdminMemberController) List(c *fiber.Ctx) error {
	scope, err := branchScope(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	q := listQueryFromCtx(c, true)
	q.BranchID = scope

	p := helper.ResolvePaging(c, 20, 200)
	order := helper.SafeOrder(c, memberOrderColumns, "nama", "asc")
	rows, total, err := ctl.Svc.Repo.List(c.Context(), q, order, p)
	if err != nil {
		ctl.Svc.Log.Error("list anggota (admin) gagal", zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data anggota")
	}
	return helper.JsonList(c, "ok", dto.NewMemberAdminResponses(rows), helper.BuildPagination(total, p))
}

// GET /api/a/members/:id
func (ctl *AdminMemberController) Get(c *fiber.Ctx) error {
	m, err := ctl.load(c)
	if err != nil {
		return memberError(c, err)
	}
	return helper.JsonOK(c, "ok", m)
}

// POST /api/a/members
func (ctl *AdminMemberController) Create(c *fiber.Ctx) error {
	var req dto.CreateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if errs := helper.ValidateStruct(req); errs != nil {
		return helper.JsonValidationError(c, errs)
	}
	scope, err := branchScope(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if scope != nil {
		req.MemberCabangID = scope
	}

	m := req.ToModel()
	if err := ctl.Svc.Create(c.Context(), m); err != nil {
		return memberError(c, err)
	}
	return helper.JsonCreated(c, "Anggota berhasil ditambahkan", m)
}

// PATCH /api/a/members/:id
func (ctl *AdminMemberController) Update(c *fiber.Ctx) error {
	m, err := ctl.load(c)
	if err != nil {
		return memberError(c, err)
	}
	var req dto.UpdateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if errs := helper.ValidateStruct(req); errs != nil {
		return helper.JsonValidationError(c, errs)
	}
	if scope, _ := branchScope(c); scope != nil {
		req.MemberCabangID = nil
	}

	req.Apply(m)
	if err := ctl.Svc.Update(c.Context(), m); err != nil {
		return memberError(c, err)
	}
	return helper.JsonUpdated(c, "Anggota berhasil diperbarui", m)
}

// DELETE /api/a/members/:id (soft delete)
func (ctl *AdminMemberController) Delete(c *fiber.Ctx) error {
	m, err := ctl.load(c)
	if err != nil {
		return memberError(c, err)
	}
	if err := ctl.Svc.Delete(c.Context(), m.MemberID); err != nil {
		return memberError(c, err)
	}
	return helper.JsonDeleted(c, "Anggota dihapus", fiber.Map{"member_id": m.MemberID})
}

// POST /api/a/members/:id/photo (multipart: photo)
func (ctl *AdminMemberController) UploadPhoto(c *fiber.Ctx) error {
	m, err := ctl.load(c)
	if err != nil {
		return memberError(c, err)
	}
	fh, err := helperOSS.GetFormFile(c, "photo", "foto", "file")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if fh == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File foto wajib diisi")
	}
	if err := ctl.Svc.SetPhoto(c.Context(), m, fh); err != nil {
		return memberError(c, err)
	}
	return helper.JsonUpdated(c, "Foto diperbarui", fiber.Map{"member_foto_url": m.MemberFotoURL})
}

// POST /api/a/members/reindex (super admin)
func (ctl *AdminMemberController) Reindex(c *fiber.Ctx) error {
	n, err := ctl.Svc.Reindex(c.Context(), 500)
	if err != nil {
		ctl.Svc.Log.Error("reindex gagal", zap.Error(err))
		return helper.JsonError(c, fiber.StatusBadGateway, "Reindex gagal: "+err.Error())
	}
	return helper.JsonOK(c, "Reindex selesai", fiber.Map{"indexed": n, "enabled": ctl.Svc.Index.Enabled()})
}
