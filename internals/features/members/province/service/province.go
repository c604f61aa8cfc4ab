// file: internals/features/members/province/service/province.go
package service

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Indonesian)

// aliasKey: trim, lowercase, buang titik, rapatkan spasi.
func aliasKey(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, ".", "")
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeProvince mengembalikan nama provinsi kanonik.
// Tidak ada di tabel alias → title-case dari input dengan spasi dirapatkan (tanpa kanonisasi).
// Input kosong → "".
//
//	"JAKARTA", "dki" → "DKI Jakarta"
//	"jawa  barat laut" → "Jawa Barat Laut"
func NormalizeProvince(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if canon, ok := provinceAliases[aliasKey(trimmed)]; ok {
		return canon
	}
	return titleCaser.String(strings.Join(strings.Fields(trimmed), " "))
}

// IsCanonicalProvince: true kalau nama persis salah satu dari 38 provinsi.
func IsCanonicalProvince(name string) bool {
	canon, ok := provinceAliases[aliasKey(name)]
	return ok && canon == name
}

/* ===============================
   Resolver (provinsi → fallback kota)
=================================*/

// Resolver menggabungkan normalisasi alias dengan inferensi dari kota.
type Resolver struct {
	Cities *CityLookup
}

func NewResolver(cities *CityLookup) *Resolver {
	return &Resolver{Cities: cities}
}

// Resolve: NormalizeProvince(provinceRaw); kalau kosong, tebak dari cityRaw.
func (r *Resolver) Resolve(ctx context.Context, provinceRaw, cityRaw string) string {
	if p := NormalizeProvince(provinceRaw); p != "" {
		return p
	}
	if r == nil || r.Cities == nil {
		return ""
	}
	return r.Cities.Infer(ctx, cityRaw)
}
