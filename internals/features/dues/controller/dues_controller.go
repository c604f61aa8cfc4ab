// file: internals/features/dues/controller/dues_controller.go
package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"pdpi_backend/internals/constants"
	"pdpi_backend/internals/features/dues/dto"
	"pdpi_backend/internals/features/dues/model"
	duesService "pdpi_backend/internals/features/dues/service"
	helper "pdpi_backend/internals/helpers"
	helperAuth "pdpi_backend/internals/helpers/auth"
	helperOSS "pdpi_backend/internals/helpers/oss"
)

type DuesController struct {
	Svc  *duesService.DuesService
	Blob *helperOSS.BlobService
	Log  *zap.Logger
}

func NewDuesController(svc *duesService.DuesService, blob *helperOSS.BlobService, log *zap.Logger) *DuesController {
	return &DuesController{Svc: svc, Blob: blob, Log: log}
}

func (ctl *DuesController) duesError(c *fiber.Ctx, err error) error {
	var yerr *duesService.YearNotAvailableError
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return helper.JsonError(c, fe.Code, fe.Message)
	case errors.As(err, &yerr):
		return helper.JsonError(c, fiber.StatusConflict, yerr.Error())
	case errors.Is(err, duesService.ErrPaymentNotFound), errors.Is(err, duesService.ErrMemberNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, duesService.ErrInvalidTransition):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, duesService.ErrNoYears), errors.Is(err, duesService.ErrInvalidMethod):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, duesService.ErrGatewayDisabled):
		return helper.JsonError(c, fiber.StatusServiceUnavailable, err.Error())
	}
	ctl.Log.Error("dues error", zap.Error(err))
	return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada pembayaran iuran")
}

/* ===============================
   Anggota (/api/u/dues)
=================================*/

// GET /api/u/dues/years
func (ctl *DuesController) Years(c *fiber.Ctx) error {
	memberID, err := helperAuth.GetMemberID(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	info, err := ctl.Svc.AvailableYears(c.Context(), memberID)
	if err != nil {
		return ctl.duesError(c, err)
	}
	return helper.JsonOK(c, "ok", info)
}

// POST /api/u/dues/payments
func (ctl *DuesController) Create(c *fiber.Ctx) error {
	memberID, err := helperAuth.GetMemberID(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if errs := helper.ValidateStruct(req); errs != nil {
		return helper.JsonValidationError(c, errs)
	}
	p, err := ctl.Svc.CreatePayment(c.Context(), duesService.CreatePaymentInput{
		MemberID: memberID,
		Years:    req.Years,
		Method:   model.PaymentMethod(req.Method),
	})
	if err != nil {
		return ctl.duesError(c, err)
	}
	return helper.JsonCreated(c, "Pembayaran dibuat", dto.NewPaymentResponse(p))
}

// POST /api/u/dues/payments/:id/proof (multipart: proof, sender_bank, sender_name)
func (ctl *DuesController) UploadProof(c *fiber.Ctx) error {
	memberID, err := helperAuth.GetMemberID(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "dues_payment_id tidak valid")
	}
	fh, err := helperOSS.GetFormFile(c, "proof", "bukti", "file")
	if err != nil || fh == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Bukti transfer wajib diunggah")
	}
	if kind := constants.DetectFileKindFromExt(fh.Filename); kind != constants.FileKindImage && kind != constants.FileKindPDF {
		return helper.JsonError(c, fiber.StatusUnsupportedMediaType, "Bukti transfer harus gambar atau PDF")
	}

	url, err := ctl.Blob.UploadFile(c.Context(), "dues/"+memberID.String(), fh)
	if err != nil {
		return ctl.duesError(c, err)
	}
	p, err := ctl.Svc.AttachProof(c.Context(), memberID, id, duesService.ProofInput{
		URL:        url,
		SenderBank: c.FormValue("sender_bank"),
		SenderName: c.FormValue("sender_name"),
	})
	if err != nil {
		if derr := ctl.Blob.DeleteByPublicURL(c.Context(), url); derr != nil {
			ctl.Log.Warn("hapus bukti yatim gagal", zap.String("url", url), zap.Error(derr))
		}
		return ctl.duesError(c, err)
	}
	return helper.JsonUpdated(c, "Bukti transfer diterima, menunggu verifikasi", dto.NewPaymentResponse(p))
}

// GET /api/u/dues/payments
func (ctl *DuesController) MyPayments(c *fiber.Ctx) error {
	memberID, err := helperAuth.GetMemberID(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Svc.List(c.Context(), duesService.ListFilter{MemberID: &memberID, Status: c.Query("status")}, p)
	if err != nil {
		return ctl.duesError(c, err)
	}
	return helper.JsonList(c, "ok", dto.NewPaymentResponses(rows), helper.BuildPagination(total, p))
}

/* ===============================
   Admin (/api/a/dues)
=================================*/

func adminBranch(c *fiber.Ctx) (*uuid.UUID, error) {
	if helperAuth.GetRole(c) != constants.RoleAdminPD {
		return nil, nil
	}
	bid, err := helperAuth.GetBranchID(c)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusForbidden, "akun admin belum punya cabang")
	}
	return &bid, nil
}

// GET /api/a/dues/payments?status=&method=&year=&member_id=
func (ctl *DuesController) AdminList(c *fiber.Ctx) error {
	branch, err := adminBranch(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	f := duesService.ListFilter{
		BranchID: branch,
		Status:   c.Query("status"),
		Method:   c.Query("method"),
		Year:     c.QueryInt("year"),
	}
	if s := c.Query("member_id"); s != "" {
		mid, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "member_id tidak valid")
		}
		f.MemberID = &mid
	}
	p := helper.ResolvePaging(c, 20, 200)
	rows, total, err := ctl.Svc.List(c.Context(), f, p)
	if err != nil {
		return ctl.duesError(c, err)
	}
	return helper.JsonList(c, "ok", dto.NewPaymentResponses(rows), helper.BuildPagination(total, p))
}

// POST /api/a/dues/payments/:id/verify
func (ctl *DuesController) Verify(c *fiber.Ctx) error {
	adminID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	branch, err := adminBranch(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "dues_payment_id tidak valid")
	}
	var req dto.VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if errs := helper.ValidateStruct(req); errs != nil {
		return helper.JsonValidationError(c, errs)
	}
	p, err := ctl.Svc.Verify(c.Context(), duesService.VerifyInput{
		PaymentID: id,
		AdminID:   adminID,
		Approve:   req.Approve,
		Reason:    req.Reason,
		BranchID:  branch,
	})
	if err != nil {
		return ctl.duesError(c, err)
	}
	msg := "Pembayaran ditolak"
	if req.Approve {
		msg = "Pembayaran diverifikasi"
	}
	return helper.JsonUpdated(c, msg, dto.NewPaymentResponse(p))
}

/* ===============================
   Webhook (/api/public/dues/notification)
=================================*/

// Notification: selalu balas 200 untuk order yang tidak dikenal supaya Midtrans berhenti retry.
func (ctl *DuesController) Notification(c *fiber.Ctx) error {
	var n duesService.Notification
	if err := c.BodyParser(&n); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	p, err := ctl.Svc.ApplyNotification(c.Context(), n)
	switch {
	case errors.Is(err, duesService.ErrInvalidSignature):
		ctl.Log.Warn("notifikasi midtrans ditolak", zap.String("order_id", n.OrderID))
		return helper.JsonError(c, fiber.StatusUnauthorized, "invalid signature")
	case errors.Is(err, duesService.ErrPaymentNotFound):
		return c.JSON(fiber.Map{"status": "ignored", "reason": "payment not found"})
	case errors.Is(err, duesService.ErrAmountMismatch):
		return c.JSON(fiber.Map{"status": "ignored", "reason": "amount mismatch"})
	case err != nil:
		ctl.Log.Error("notifikasi midtrans gagal diproses", zap.String("order_id", n.OrderID), zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "gagal memproses notifikasi")
	}
	ctl.Log.Info("notifikasi midtrans",
		zap.String("order_id", n.OrderID),
		zap.String("transaction_status", n.TransactionStatus),
		zap.String("status", string(p.DuesPaymentStatus)))
	return c.JSON(fiber.Map{"status": "ok", "payment_status": p.DuesPaymentStatus})
}
