// file: internals/features/ebooks/controller/ebook_controller.go
package controller

import (
	"errors"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"pdpi_backend/internals/features/ebooks/dto"
	ebookService "pdpi_backend/internals/features/ebooks/service"
	helper "pdpi_backend/internals/helpers"
	helperAuth "pdpi_backend/internals/helpers/auth"
	helperOSS "pdpi_backend/internals/helpers/oss"
)

var ebookSorts = map[string]string{
	"created_at": "ebook_created_at",
	"title":      "ebook_title",
	"year":       "ebook_year",
}

type EbookController struct {
	Svc *ebookService.EbookService
	Log *zap.Logger
}

func NewEbookController(svc *ebookService.EbookService, log *zap.Logger) *EbookController {
	return &EbookController{Svc: svc, Log: log}
}

func (ctl *EbookController) ebookError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return helper.JsonError(c, fe.Code, fe.Message)
	case errors.Is(err, ebookService.ErrEbookNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, ebookService.ErrFileRequired):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ebookService.ErrNoStorage):
		return helper.JsonError(c, fiber.StatusServiceUnavailable, err.Error())
	case helper.IsUniqueViolation(err):
		return helper.JsonError(c, fiber.StatusConflict, "Slug e-book sudah dipakai")
	}
	ctl.Log.Error("ebook error", zap.Error(err))
	return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada data e-book")
}

func formFiles(c *fiber.Ctx) ebookService.Files {
	var f ebookService.Files
	if !helperOSS.IsMultipart(c) {
		return f
	}
	pick := func(names ...string) *multipart.FileHeader {
		fh, err := helperOSS.GetFormFile(c, names...)
		if err != nil {
			return nil
		}
		return fh
	}
	f.PDF = pick("file", "pdf")
	f.Cover = pick("cover")
	return f
}

/* ===============================
   Anggota (/api/u/ebooks)
=================================*/

// GET /api/u/ebooks?q=&category=&page=&per_page=&sort_by=&order=
func (ctl *EbookController) List(c *fiber.Ctx) error {
	return ctl.list(c, true)
}

func (ctl *EbookController) list(c *fiber.Ctx, publishedOnly bool) error {
	p := helper.ResolvePaging(c, 20, 100)
	order := helper.SafeOrder(c, ebookSorts, "created_at", "desc")
	rows, total, err := ctl.Svc.List(c.Context(), ebookService.ListFilter{
		Q:             c.Query("q"),
		Category:      c.Query("category"),
		PublishedOnly: publishedOnly,
	}, p, order)
	if err != nil {
		return ctl.ebookError(c, err)
	}
	if publishedOnly {
		return helper.JsonList(c, "ok", dto.NewEbookResponses(rows), helper.BuildPagination(total, p))
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}

// GET /api/u/ebooks/:id
func (ctl *EbookController) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ebook_id tidak valid")
	}
	e, err := ctl.Svc.Get(c.Context(), id, true)
	if err != nil {
		return ctl.ebookError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.NewEbookResponse(e))
}

/* ===============================
   Admin (/api/a/ebooks)
=================================*/

// GET /api/a/ebooks (termasuk yang belum terbit)
func (ctl *EbookController) AdminList(c *fiber.Ctx) error {
	return ctl.list(c, false)
}

func (ctl *EbookController) AdminGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ebook_id tidak valid")
	}
	e, err := ctl.Svc.Get(c.Context(), id, false)
	if err != nil {
		return ctl.ebookError(c, err)
	}
	return helper.JsonOK(c, "ok", e)
}

// POST /api/a/ebooks (multipart)
func (ctl *EbookController) Create(c *fiber.Ctx) error {
	var req dto.CreateEbookRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if errs := helper.ValidateStruct(req); errs != nil {
		return helper.JsonValidationError(c, errs)
	}
	e := req.ToModel()
	if uid, err := helperAuth.GetUserID(c); err == nil {
		e.EbookCreatedBy = &uid
	}
	if err := ctl.Svc.Create(c.Context(), e, formFiles(c)); err != nil {
		return ctl.ebookError(c, err)
	}
	return helper.JsonCreated(c, "E-book ditambahkan", e)
}

// PATCH /api/a/ebooks/:id (multipart atau JSON)
func (ctl *EbookController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ebook_id tidak valid")
	}
	var req dto.UpdateEbookRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if errs := helper.ValidateStruct(req); errs != nil {
		return helper.JsonValidationError(c, errs)
	}
	e, err := ctl.Svc.Get(c.Context(), id, false)
	if err != nil {
		return ctl.ebookError(c, err)
	}
	req.Apply(e)
	if err := ctl.Svc.Update(c.Context(), e, formFiles(c)); err != nil {
		return ctl.ebookError(c, err)
	}
	return helper.JsonUpdated(c, "E-book diperbarui", e)
}

// DELETE /api/a/ebooks/:id
func (ctl *EbookController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ebook_id tidak valid")
	}
	if err := ctl.Svc.Delete(c.Context(), id); err != nil {
		return ctl.ebookError(c, err)
	}
	return helper.JsonDeleted(c, "E-book dihapus", fiber.Map{"ebook_id": id})
}
