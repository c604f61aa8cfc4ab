// file: internals/features/users/auth/controller/auth_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	authRepo "pdpi_backend/internals/features/users/auth/repository"
	authService "pdpi_backend/internals/features/users/auth/service"
	helper "pdpi_backend/internals/helpers"
	helperAuth "pdpi_backend/internals/helpers/auth"
)

type AuthController struct {
	Svc *authService.AuthService
	Log *zap.Logger
}

func NewAuthController(svc *authService.AuthService, log *zap.Logger) *AuthController {
	return &AuthController{Svc: svc, Log: log}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Email = strings.TrimSpace(req.Email)
	if errs := helper.ValidateStruct(req); errs != nil {
		return helper.JsonValidationError(c, errs)
	}

	res, err := ac.Svc.Login(c.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, authService.ErrInvalidCredentials):
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, authService.ErrUserInactive):
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	case err != nil:
		ac.Log.Error("login gagal", zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "Login gagal")
	}
	return helper.JsonOK(c, "Login berhasil", res)
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	token := helperAuth.GetRawToken(c)
	if token == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Token tidak ditemukan")
	}
	if err := ac.Svc.Logout(c.Context(), token); err != nil {
		if errors.Is(err, authService.ErrInvalidToken) {
			return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
		}
		ac.Log.Error("logout gagal", zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "Logout gagal")
	}
	return helper.JsonOK(c, "Logout berhasil", nil)
}

// GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	user, err := authRepo.FindUserByID(c.Context(), ac.Svc.DB, userID)
	if err != nil {
		if errors.Is(err, authRepo.ErrUserNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil user")
	}
	return helper.JsonOK(c, "ok", user)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// POST /api/auth/change-password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if errs := helper.ValidateStruct(req); errs != nil {
		return helper.JsonValidationError(c, errs)
	}
	if err := ac.Svc.ChangePassword(c.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, authService.ErrInvalidCredentials) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Password lama salah")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengubah password")
	}
	return helper.JsonUpdated(c, "Password berhasil diubah", nil)
}
