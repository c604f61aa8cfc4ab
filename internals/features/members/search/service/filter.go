// file: internals/features/members/search/service/filter.go
package service

import (
	"sort"
	"strings"

	"pdpi_backend/internals/constants"
)

// MemberFilter adalah objek filter dari UI (dropdown / checkbox).
// Nilai kosong tidak pernah disimpan: "tanpa filter" == "pilihan kosong".
type MemberFilter struct {
	Provinsi     []string `json:"provinsi,omitempty"`
	Cabang       []string `json:"cabang,omitempty"`
	Kota         []string `json:"kota,omitempty"`
	RSTipe       []string `json:"rs_tipe,omitempty"`
	NameLetters  []string `json:"huruf,omitempty"`
	HospitalName string   `json:"rs,omitempty"`
	NPA          string   `json:"npa,omitempty"`
	Status       []string `json:"status,omitempty"`
	JenisKelamin string   `json:"jenis_kelamin,omitempty"`
	Alumni       []string `json:"alumni,omitempty"`
	FISR         string   `json:"fisr,omitempty"`
}

// query param → dimensi filter (alias diterima)
var filterQueryKeys = map[string]string{
	"provinsi":      "provinsi",
	"cabang":        "cabang",
	"pd":            "cabang",
	"kota":          "kota",
	"rs_tipe":       "rs_tipe",
	"huruf":         "huruf",
	"letters":       "huruf",
	"rs":            "rs",
	"rumah_sakit":   "rs",
	"npa":           "npa",
	"status":        "status",
	"jenis_kelamin": "jenis_kelamin",
	"gender":        "jenis_kelamin",
	"alumni":        "alumni",
	"fisr":          "fisr",
}

// MemberFilterFromQuery membaca query string. Nilai multi dipisah koma.
func MemberFilterFromQuery(q map[string]string) MemberFilter {
	var f MemberFilter
	for k, v := range q {
		dim, ok := filterQueryKeys[strings.ToLower(strings.TrimSpace(k))]
		if !ok {
			continue
		}
		switch dim {
		case "provinsi":
			f.Provinsi = append(f.Provinsi, splitCSV(v)...)
		case "cabang":
			f.Cabang = append(f.Cabang, splitCSV(v)...)
		case "kota":
			f.Kota = append(f.Kota, splitCSV(v)...)
		case "rs_tipe":
			f.RSTipe = append(f.RSTipe, splitCSV(v)...)
		case "huruf":
			f.NameLetters = append(f.NameLetters, splitCSV(v)...)
		case "rs":
			f.HospitalName = v
		case "npa":
			f.NPA = v
		case "status":
			f.Status = append(f.Status, splitCSV(v)...)
		case "jenis_kelamin":
			f.JenisKelamin = v
		case "alumni":
			f.Alumni = append(f.Alumni, splitCSV(v)...)
		case "fisr":
			f.FISR = v
		}
	}
	f.Normalize()
	return f
}

// Normalize: trim, buang kosong, dedupe (urutan pertama dipertahankan).
func (f *MemberFilter) Normalize() {
	f.Provinsi = cleanList(f.Provinsi)
	f.Cabang = cleanList(f.Cabang)
	f.Kota = cleanList(f.Kota)
	f.RSTipe = cleanList(f.RSTipe)
	f.Status = cleanList(f.Status)
	f.Alumni = cleanList(f.Alumni)

	letters := cleanList(f.NameLetters)
	for i, l := range letters {
		letters[i] = strings.ToUpper(l)
	}
	f.NameLetters = cleanList(letters)

	f.HospitalName = strings.TrimSpace(f.HospitalName)
	f.NPA = strings.TrimSpace(f.NPA)
	f.JenisKelamin = strings.ToUpper(strings.TrimSpace(f.JenisKelamin))
	f.FISR = strings.TrimSpace(f.FISR)
}

// Conditions mengubah filter jadi grup predikat (di-AND-kan pemanggil).
// Tanpa filter status, DefaultExcludedStatuses dipakai.
func (f MemberFilter) Conditions() []Node {
	f.Normalize()
	out := make([]Node, 0, 12)

	if len(f.Provinsi) > 0 {
		out = append(out, Or(In(FieldProvinsi, f.Provinsi), In(FieldProvinsiKantor, f.Provinsi)))
	}
	if len(f.Cabang) > 0 {
		out = append(out, In(FieldCabang, f.Cabang))
	}
	if len(f.Kota) > 0 {
		out = append(out, Or(In(FieldKota, f.Kota), In(FieldKotaKantor, f.Kota)))
	}
	if len(f.RSTipe) > 0 {
		out = append(out, In(FieldRSTipe, f.RSTipe))
	}
	if len(f.NameLetters) > 0 {
		ors := make([]Node, 0, len(f.NameLetters))
		for _, l := range f.NameLetters {
			ors = append(ors, Prefix(FieldNama, l))
		}
		out = append(out, Or(ors...))
	}
	if f.HospitalName != "" {
		out = append(out, ILike(FieldTempatTugas, f.HospitalName))
	}
	if f.NPA != "" {
		out = append(out, ILike(FieldNPA, f.NPA))
	}
	if len(f.Status) > 0 {
		out = append(out, In(FieldStatus, f.Status))
	} else {
		out = append(out, NotIn(FieldStatus, constants.DefaultExcludedStatuses))
	}
	if f.JenisKelamin != "" {
		out = append(out, Eq(FieldJenisKelamin, f.JenisKelamin))
	}
	if len(f.Alumni) > 0 {
		out = append(out, In(FieldAlumni, f.Alumni))
	}
	if f.FISR != "" {
		out = append(out, ILike(FieldFISR, f.FISR))
	}
	return out
}

// CacheKey: representasi kanonik (urutan key & nilai stabil) untuk cache statistik.
func (f MemberFilter) CacheKey() string {
	f.Normalize()
	parts := []string{}
	add := func(k string, vs ...string) {
		vals := make([]string, 0, len(vs))
		for _, v := range vs {
			if v != "" {
				vals = append(vals, v)
			}
		}
		if len(vals) == 0 {
			return
		}
		sort.Strings(vals)
		parts = append(parts, k+"="+strings.Join(vals, ","))
	}
	add("alumni", f.Alumni...)
	add("cabang", f.Cabang...)
	add("fisr", f.FISR)
	add("huruf", f.NameLetters...)
	add("jk", f.JenisKelamin)
	add("kota", f.Kota...)
	add("npa", f.NPA)
	add("provinsi", f.Provinsi...)
	add("rs", f.HospitalName)
	add("rs_tipe", f.RSTipe...)
	add("status", f.Status...)
	return strings.Join(parts, "&")
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func cleanList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
