// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	authService "pdpi_backend/internals/features/users/auth/service"
	helper "pdpi_backend/internals/helpers"
	helperAuth "pdpi_backend/internals/helpers/auth"
)

var errNoToken = errors.New("unauthorized - No token provided")

// AuthJWT: wajib login. Klaim token disimpan ke c.Locals (lihat helpers/auth).
func AuthJWT(svc *authService.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok, err := extractBearerToken(c)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
		}
		claims, err := svc.Authenticate(c.Context(), tok)
		if err != nil {
			if errors.Is(err, authService.ErrTokenRevoked) || errors.Is(err, authService.ErrInvalidToken) {
				return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - "+err.Error())
			}
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memeriksa token")
		}
		storeClaims(c, tok, claims)
		return c.Next()
	}
}

// OptionalAuth: token boleh kosong; kalau ada dan valid, klaim tetap diisi.
// Token rusak diabaikan supaya endpoint publik tidak ikut gagal.
func OptionalAuth(svc *authService.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok, err := extractBearerToken(c)
		if err != nil {
			return c.Next()
		}
		if claims, err := svc.Authenticate(c.Context(), tok); err == nil {
			storeClaims(c, tok, claims)
		}
		return c.Next()
	}
}

func storeClaims(c *fiber.Ctx, raw string, claims *authService.Claims) {
	c.Locals(helperAuth.LocRawToken, raw)
	c.Locals(helperAuth.LocUserID, claims.Subject)
	c.Locals(helperAuth.LocRole, claims.Role)
	if claims.BranchID != "" {
		c.Locals(helperAuth.LocBranchID, claims.BranchID)
	}
	if claims.MemberID != "" {
		c.Locals(helperAuth.LocMemberID, claims.MemberID)
	}
}

func extractBearerToken(c *fiber.Ctx) (string, error) {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if auth == "" {
		if cookieTok := c.Cookies("access_token"); cookieTok != "" {
			auth = "Bearer " + cookieTok
		}
	}
	if auth == "" {
		return "", errNoToken
	}

	// toleransi spasi ganda & case-insensitive
	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", errors.New("unauthorized - Invalid token format")
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", errors.New("unauthorized - Empty token")
	}
	return tok, nil
}
