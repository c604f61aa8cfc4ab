// file: internals/features/members/imports/controller/import_controller.go
package controller

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pdpi_backend/internals/constants"
	importModel "pdpi_backend/internals/features/members/imports/model"
	importService "pdpi_backend/internals/features/members/imports/service"
	helper "pdpi_backend/internals/helpers"
	helperAuth "pdpi_backend/internals/helpers/auth"
	"pdpi_backend/internals/helpers/cache"
)

const xlsxMime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ImportController struct {
	DB        *gorm.DB
	Runner    *importService.Runner
	Headers   importService.HeaderMap
	Cache     cache.Cache
	ChunkSize int
	MaxBytes  int64
	Log       *zap.Logger
}

// actorFromCtx: admin_pd selalu dipaksa ke cabangnya sendiri.
func actorFromCtx(c *fiber.Ctx, s *importService.Settings) (importService.Actor, error) {
	uid, err := helperAuth.GetUserID(c)
	if err != nil {
		return importService.Actor{}, err
	}
	a := importService.Actor{UserID: uid, Role: helperAuth.GetRole(c)}
	if bid, err := helperAuth.GetBranchID(c); err == nil {
		a.BranchID = &bid
	}
	if a.Role == constants.RoleAdminPD {
		if a.BranchID == nil {
			return a, fiber.NewError(fiber.StatusForbidden, "akun admin belum punya cabang")
		}
		s.ForceAdminBranch = true
		s.CreateBranchIfMissing = false
	}
	return a, nil
}

func settingsFrom(mode string, createBranch, forceAdmin bool) (importService.Settings, error) {
	m, err := importService.ParseMode(mode)
	if err != nil {
		return importService.Settings{}, err
	}
	return importService.Settings{Mode: m, CreateBranchIfMissing: createBranch, ForceAdminBranch: forceAdmin}, nil
}

func (ctl *ImportController) bumpStats(c *fiber.Ctx) {
	if err := ctl.Cache.Bump(c.Context(), cache.NSStats); err != nil {
		ctl.Log.Warn("bump stats cache gagal", zap.Error(err))
	}
}

// POST /api/a/imports (multipart: file, mode, create_branch_if_missing, force_admin_branch)
func (ctl *ImportController) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File xlsx wajib diunggah (field: file)")
	}
	if constants.DetectFileKindFromExt(fh.Filename) != constants.FileKindSpreadsheet {
		return helper.JsonError(c, fiber.StatusUnsupportedMediaType, "Hanya file .xlsx / .xlsm yang didukung")
	}
	if ctl.MaxBytes > 0 && fh.Size > ctl.MaxBytes {
		return helper.JsonError(c, fiber.StatusRequestEntityTooLarge, fmt.Sprintf("Ukuran file maksimal %d MB", ctl.MaxBytes>>20))
	}

	settings, err := settingsFrom(
		c.FormValue("mode", string(importService.ModeUpsert)),
		c.FormValue("create_branch_if_missing") == "true",
		c.FormValue("force_admin_branch") == "true",
	)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	actor, err := actorFromCtx(c, &settings)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	f, err := fh.Open()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File tidak bisa dibuka")
	}
	defer f.Close()

	sheet, err := importService.ReadWorkbook(f, ctl.Headers)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	run, err := ctl.Runner.Run(c.Context(), importService.RunRequest{
		FileName:  fh.Filename,
		Sheet:     sheet,
		Settings:  settings,
		Actor:     actor,
		ChunkSize: ctl.ChunkSize,
	})
	ctl.bumpStats(c)
	if err != nil {
		ctl.Log.Error("import gagal", zap.String("file", fh.Filename), zap.Error(err))
		if run != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false, "message": "Import gagal", "data": run,
			})
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Import gagal")
	}
	return helper.JsonCreated(c, "Import selesai", run)
}

type chunkRequest struct {
	Rows                  []importService.Row `json:"rows" validate:"required,max=500"`
	Mode                  string              `json:"mode"`
	CreateBranchIfMissing bool                `json:"create_branch_if_missing"`
	ForceAdminBranch      bool                `json:"force_admin_branch"`
	RowOffset             int                 `json:"row_offset" validate:"min=0"`
}

// POST /api/a/imports/chunk
// Baris sudah diparse di browser; satu request = satu chunk, tanpa import_runs.
func (ctl *ImportController) Chunk(c *fiber.Ctx) error {
	var req chunkRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if errs := helper.ValidateStruct(req); errs != nil {
		return helper.JsonValidationError(c, errs)
	}
	if req.Mode == "" {
		req.Mode = string(importService.ModeInsert)
	}
	settings, err := settingsFrom(req.Mode, req.CreateBranchIfMissing, req.ForceAdminBranch)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	actor, err := actorFromCtx(c, &settings)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	rows := make([]importService.Row, 0, len(req.Rows))
	for _, r := range req.Rows {
		rows = append(rows, ctl.Headers.CanonicalRow(r))
	}
	res := ctl.Runner.Importer.ImportChunk(c.Context(), importService.ChunkRequest{
		Rows:      rows,
		Settings:  settings,
		Actor:     actor,
		RowOffset: req.RowOffset,
	})
	if res.Counts.Inserted+res.Counts.Updated > 0 {
		ctl.bumpStats(c)
	}
	return helper.JsonOK(c, "Chunk diproses", res)
}

// GET /api/a/imports
func (ctl *ImportController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	q := ctl.DB.WithContext(c.Context()).Model(&importModel.ImportRunModel{})
	if helperAuth.GetRole(c) == constants.RoleAdminPD {
		bid, err := helperAuth.GetBranchID(c)
		if err != nil {
			return helper.JsonFromError(c, err)
		}
		q = q.Where("import_run_branch_id = ?", bid)
	}
	if s := c.Query("status"); s != "" {
		q = q.Where("import_run_status = ?", s)
	}
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil riwayat import")
	}
	var rows []importModel.ImportRunModel
	if err := q.Omit("import_run_errors").
		Order("import_run_created_at DESC").
		Limit(p.PerPage).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil riwayat import")
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}

func (ctl *ImportController) load(c *fiber.Ctx) (*importModel.ImportRunModel, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "import_run_id tidak valid")
	}
	var run importModel.ImportRunModel
	if err := ctl.DB.WithContext(c.Context()).First(&run, "import_run_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Riwayat import tidak ditemukan")
		}
		return nil, err
	}
	if helperAuth.GetRole(c) == constants.RoleAdminPD {
		bid, err := helperAuth.GetBranchID(c)
		if err != nil || run.ImportRunBranchID == nil || *run.ImportRunBranchID != bid {
			return nil, fiber.NewError(fiber.StatusNotFound, "Riwayat import tidak ditemukan")
		}
	}
	return &run, nil
}

// GET /api/a/imports/:id
func (ctl *ImportController) Get(c *fiber.Ctx) error {
	run, err := ctl.load(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", run)
}

// GET /api/a/imports/:id/errors.xlsx
func (ctl *ImportController) ErrorsXLSX(c *fiber.Ctx) error {
	run, err := ctl.load(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	errs, err := importService.RunErrors(run)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Data error import rusak")
	}
	raw, err := importService.ErrorsXLSX(errs)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat file")
	}
	return sendXLSX(c, fmt.Sprintf("import-errors-%s.xlsx", run.ImportRunID.String()[:8]), raw)
}

// GET /api/a/imports/template.xlsx
func (ctl *ImportController) Template(c *fiber.Ctx) error {
	raw, err := importService.TemplateXLSX()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat template")
	}
	return sendXLSX(c, "template-import-anggota.xlsx", raw)
}

func sendXLSX(c *fiber.Ctx, name string, raw []byte) error {
	c.Set(fiber.HeaderContentType, xlsxMime)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(raw)
}
