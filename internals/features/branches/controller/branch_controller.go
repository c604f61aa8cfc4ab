// file: internals/features/branches/controller/branch_controller.go
package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"pdpi_backend/internals/features/branches/dto"
	branchService "pdpi_backend/internals/features/branches/service"
	helper "pdpi_backend/internals/helpers"
	"pdpi_backend/internals/helpers/cache"
)

type BranchController struct {
	Svc   *branchService.BranchService
	Cache cache.Cache
	Log   *zap.Logger
}

func NewBranchController(svc *branchService.BranchService, c cache.Cache, log *zap.Logger) *BranchController {
	return &BranchController{Svc: svc, Cache: c, Log: log}
}

func (ctl *BranchController) branchError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, branchService.ErrBranchNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, branchService.ErrBranchExists), errors.Is(err, branchService.ErrBranchInUse):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, branchService.ErrBranchName):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	ctl.Log.Error("branch error", zap.Error(err))
	return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada data cabang")
}

// GET /api/public/branches
func (ctl *BranchController) PublicList(c *fiber.Ctx) error {
	rows, err := ctl.Svc.List(c.Context(), true)
	if err != nil {
		return ctl.branchError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.NewBranchPublicResponses(rows))
}

// GET /api/a/branches?all=true
func (ctl *BranchController) List(c *fiber.Ctx) error {
	rows, err := ctl.Svc.List(c.Context(), !c.QueryBool("all", false))
	if err != nil {
		return ctl.branchError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

func (ctl *BranchController) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "branch_id tidak valid")
	}
	b, err := ctl.Svc.GetByID(c.Context(), id)
	if err != nil {
		return ctl.branchError(c, err)
	}
	return helper.JsonOK(c, "ok", b)
}

// POST /api/a/branches
func (ctl *BranchController) Create(c *fiber.Ctx) error {
	var req dto.CreateBranchRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if errs := helper.ValidateStruct(req); errs != nil {
		return helper.JsonValidationError(c, errs)
	}
	b := req.ToModel()
	if err := ctl.Svc.Create(c.Context(), b); err != nil {
		return ctl.branchError(c, err)
	}
	return helper.JsonCreated(c, "Cabang dibuat", b)
}

// PATCH /api/a/branches/:id
func (ctl *BranchController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "branch_id tidak valid")
	}
	var req dto.UpdateBranchRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if errs := helper.ValidateStruct(req); errs != nil {
		return helper.JsonValidationError(c, errs)
	}
	b, err := ctl.Svc.GetByID(c.Context(), id)
	if err != nil {
		return ctl.branchError(c, err)
	}
	req.Apply(b)
	if err := ctl.Svc.Update(c.Context(), b); err != nil {
		return ctl.branchError(c, err)
	}
	// nama cabang ikut tampil di statistik
	if err := ctl.Cache.Bump(c.Context(), cache.NSStats); err != nil {
		ctl.Log.Warn("bump stats cache gagal", zap.Error(err))
	}
	return helper.JsonUpdated(c, "Cabang diperbarui", b)
}

// DELETE /api/a/branches/:id
func (ctl *BranchController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "branch_id tidak valid")
	}
	if err := ctl.Svc.Delete(c.Context(), id); err != nil {
		return ctl.branchError(c, err)
	}
	return helper.JsonDeleted(c, "Cabang dihapus", fiber.Map{"branch_id": id})
}
