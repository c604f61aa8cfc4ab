// file: internals/features/members/members/controller/member_profile_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"

	"pdpi_backend/internals/features/members/members/dto"
	memberService "pdpi_backend/internals/features/members/members/service"
	helper "pdpi_backend/internals/helpers"
	helperAuth "pdpi_backend/internals/helpers/auth"
	helperOSS "pdpi_backend/internals/helpers/oss"
)

// ProfileController: self-service anggota (data yang tertaut ke akun login).
type ProfileController struct {
	Svc *memberService.MemberService
}

func NewProfileController(svc *memberService.MemberService) *ProfileController {
	return &ProfileController{Svc: svc}
}

// GET /api/u/profile
func (ctl *ProfileController) Get(c *fiber.Ctx) error {
	memberID, err := helperAuth.GetMemberID(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	m, err := ctl.Svc.Repo.GetByID(c.Context(), memberID)
	if err != nil {
		return memberError(c, err)
	}
	return helper.JsonOK(c, "ok", m)
}

// PATCH /api/u/profile
// JSON atau multipart (field teks + "photo" opsional).
func (ctl *ProfileController) Update(c *fiber.Ctx) error {
	memberID, err := helperAuth.GetMemberID(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if errs := helper.ValidateStruct(req); errs != nil {
		return helper.JsonValidationError(c, errs)
	}

	ctx := c.Context()
	m, err := ctl.Svc.Repo.GetByID(ctx, memberID)
	if err != nil {
		return memberError(c, err)
	}
	req.Apply(m)
	if err := ctl.Svc.Update(ctx, m); err != nil {
		return memberError(c, err)
	}

	if helperOSS.IsMultipart(c) {
		fh, err := helperOSS.GetFormFile(c, "photo", "foto")
		if err != nil {
			return helper.JsonFromError(c, err)
		}
		if fh != nil {
			if err := ctl.Svc.SetPhoto(ctx, m, fh); err != nil {
				return memberError(c, err)
			}
		}
	}
	return helper.JsonUpdated(c, "Profil diperbarui", m)
}
