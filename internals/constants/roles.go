package constants

import "fmt"

const (
	RoleSuperAdmin = "super_admin"
	RoleAdminPD    = "admin_pd" // admin cabang / PD
	RoleMember     = "member"
)

// Template pesan error role
const (
	ErrOnlyAdminsCanAccess      = "❌ Hanya admin yang boleh mengakses fitur %s."
	ErrOnlySuperAdminsCanAccess = "❌ Hanya super admin yang boleh mengakses fitur %s."
	ErrOnlyMembersCanAccess     = "❌ Hanya anggota yang boleh mengakses fitur %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorSuperAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlySuperAdminsCanAccess, feature)
}

func RoleErrorMember(feature string) string {
	return fmt.Sprintf(ErrOnlyMembersCanAccess, feature)
}

var (
	AllRoles = []string{RoleSuperAdmin, RoleAdminPD, RoleMember}

	AdminRoles = []string{RoleSuperAdmin, RoleAdminPD}

	SuperAdminOnly = []string{RoleSuperAdmin}
)

func IsValidRole(r string) bool {
	for _, x := range AllRoles {
		if x == r {
			return true
		}
	}
	return false
}
