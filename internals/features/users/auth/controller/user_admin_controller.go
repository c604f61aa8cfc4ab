// file: internals/features/users/auth/controller/user_admin_controller.go
package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	authRepo "pdpi_backend/internals/features/users/auth/repository"
	authService "pdpi_backend/internals/features/users/auth/service"
	helper "pdpi_backend/internals/helpers"
)

// UserAdminController: super admin mengelola akun login.
type UserAdminController struct {
	Svc *authService.AuthService
	Log *zap.Logger
}

func NewUserAdminController(svc *authService.AuthService, log *zap.Logger) *UserAdminController {
	return &UserAdminController{Svc: svc, Log: log}
}

// POST /api/a/users
func (uc *UserAdminController) Create(c *fiber.Ctx) error {
	var in authService.CreateUserInput
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if errs := helper.ValidateStruct(in); errs != nil {
		return helper.JsonValidationError(c, errs)
	}
	u, err := uc.Svc.CreateUser(c.Context(), in)
	switch {
	case errors.Is(err, authService.ErrEmailExists):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, authService.ErrInvalidRole),
		errors.Is(err, authService.ErrBranchRequired),
		errors.Is(err, authService.ErrMemberRequired):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		uc.Log.Error("buat user gagal", zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat user")
	}
	return helper.JsonCreated(c, "User dibuat", u)
}

// GET /api/a/users?role=
func (uc *UserAdminController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := authRepo.ListUsers(c.Context(), uc.Svc.DB, c.Query("role"), p.PerPage, p.Offset)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil user")
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}
