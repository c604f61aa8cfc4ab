package constants

import "strings"

// Status keanggotaan.
const (
	MemberStatusBiasa     = "Biasa"
	MemberStatusLuarBiasa = "Luar Biasa"
	MemberStatusMeninggal = "Meninggal"
	MemberStatusMuda      = "Muda"
)

var MemberStatuses = []string{
	MemberStatusBiasa,
	MemberStatusLuarBiasa,
	MemberStatusMeninggal,
	MemberStatusMuda,
}

// DefaultExcludedStatuses disembunyikan dari daftar & statistik kalau caller tidak
// memberi filter status sama sekali. Status NULL tetap ikut.
var DefaultExcludedStatuses = []string{
	MemberStatusLuarBiasa,
	MemberStatusMeninggal,
	MemberStatusMuda,
}

// Placeholder dipakai import untuk institusi/provinsi kosong.
const UnknownPlaceholder = "Unknown"

// CanonicalMemberStatus mencocokkan status tanpa peduli huruf besar/kecil.
// Nilai di luar daftar dikembalikan apa adanya (sudah di-trim).
func CanonicalMemberStatus(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	for _, st := range MemberStatuses {
		if strings.EqualFold(st, s) {
			return st
		}
	}
	return s
}

// CanonicalGender: L / P, selain itu "".
func CanonicalGender(s string) string {
	switch strings.ToUpper(strings.Join(strings.Fields(s), " ")) {
	case "L", "LK", "LAKI-LAKI", "LAKI LAKI", "PRIA", "M", "MALE":
		return "L"
	case "P", "PR", "PEREMPUAN", "WANITA", "F", "FEMALE":
		return "P"
	}
	return ""
}
