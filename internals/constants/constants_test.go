package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFileKindFromExt(t *testing.T) {
	assert.Equal(t, FileKindImage, DetectFileKindFromExt("Foto.JPG"))
	assert.Equal(t, FileKindPDF, DetectFileKindFromExt("buku.pdf"))
	assert.Equal(t, FileKindSpreadsheet, DetectFileKindFromExt("anggota.xlsx"))
	assert.Equal(t, FileKindUnknown, DetectFileKindFromExt("virus.exe"))
}

func TestDefaultExcludedStatusesArePolicy(t *testing.T) {
	assert.Equal(t, []string{"Luar Biasa", "Meninggal", "Muda"}, DefaultExcludedStatuses)
	assert.NotContains(t, DefaultExcludedStatuses, MemberStatusBiasa)
	assert.Len(t, MemberStatuses, 4)
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole(RoleAdminPD))
	assert.False(t, IsValidRole("owner"))
}

func TestCanonicalMemberStatusAndGender(t *testing.T) {
	assert.Equal(t, "Luar Biasa", CanonicalMemberStatus("  luar   BIASA "))
	assert.Equal(t, "Kehormatan", CanonicalMemberStatus("Kehormatan"))
	assert.Equal(t, "L", CanonicalGender("Laki-laki"))
	assert.Equal(t, "P", CanonicalGender("wanita"))
	assert.Equal(t, "", CanonicalGender("-"))
}
