// file: internals/helpers/auth/locals.go
package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"pdpi_backend/internals/constants"
)

// Kunci c.Locals yang diisi middleware JWT.
const (
	LocUserID   = "user_id"
	LocRole     = "role"
	LocBranchID = "branch_id"
	LocMemberID = "member_id"
	LocRawToken = "raw_token"
)

func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuidLocal(c, LocUserID, "user_id tidak ditemukan di token")
}

// GetMemberID: anggota yang tertaut ke user login.
func GetMemberID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuidLocal(c, LocMemberID, "akun belum tertaut ke data anggota")
}

func GetBranchID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuidLocal(c, LocBranchID, "akun admin belum punya cabang")
}

func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocRole).(string)
	return strings.TrimSpace(s)
}

func GetRawToken(c *fiber.Ctx) string {
	s, _ := c.Locals(LocRawToken).(string)
	return s
}

func IsSuperAdmin(c *fiber.Ctx) bool { return GetRole(c) == constants.RoleSuperAdmin }

// IsAdmin: super admin atau admin cabang.
func IsAdmin(c *fiber.Ctx) bool {
	r := GetRole(c)
	return r == constants.RoleSuperAdmin || r == constants.RoleAdminPD
}

func uuidLocal(c *fiber.Ctx, key, msg string) (uuid.UUID, error) {
	s, _ := c.Locals(key).(string)
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, msg)
	}
	return id, nil
}
