// file: internals/features/members/stats/service/aggregator.go
package service

import (
	"context"
	"sort"
	"strings"

	"pdpi_backend/internals/constants"
	province "pdpi_backend/internals/features/members/province/service"
)

// DefaultCityTopK batas jumlah grup kota yang dikembalikan.
const DefaultCityTopK = 500

// MemberRow: kolom minimal yang dibutuhkan agregasi.
type MemberRow struct {
	Provinsi       string `gorm:"column:member_provinsi"`
	ProvinsiKantor string `gorm:"column:member_provinsi_kantor"`
	Kota           string `gorm:"column:member_kota_kabupaten"`
	KotaKantor     string `gorm:"column:member_kota_kabupaten_kantor"`
	Cabang         string `gorm:"column:member_cabang"`
	JenisKelamin   string `gorm:"column:member_jenis_kelamin"`
}

type GroupCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type CityCount struct {
	Kota     string `json:"kota"`
	Provinsi string `json:"provinsi"`
	Count    int64  `json:"count"`
}

type GenderCounts struct {
	L       int64 `json:"L"`
	P       int64 `json:"P"`
	Unknown int64 `json:"unknown"`
}

type Summary struct {
	Total      int64        `json:"total"`
	Gender     GenderCounts `json:"gender"`
	ByProvince []GroupCount `json:"by_provinsi"`
	ByCabang   []GroupCount `json:"by_cabang"`
	ByCity     []CityCount  `json:"by_kota"`
}

// ProvinceCounts: peta provinsi → jumlah (input MergeCentroids).
func (s Summary) ProvinceCounts() map[string]int64 {
	out := make(map[string]int64, len(s.ByProvince))
	for _, g := range s.ByProvince {
		out[g.Key] += g.Count
	}
	return out
}

type Aggregator struct {
	Resolver *province.Resolver
	CityTopK int
}

func NewAggregator(resolver *province.Resolver) *Aggregator {
	return &Aggregator{Resolver: resolver, CityTopK: DefaultCityTopK}
}

// Aggregate mengelompokkan rows yang sudah difilter di sisi DB.
//
// Provinsi: provinsi rumah → provinsi kantor → tebakan dari kota (rumah lalu kantor);
// tanpa hasil jatuh ke UnknownPlaceholder. Cabang dan pasangan (kota, provinsi) memakai
// nilai mentah apa adanya.
func (a *Aggregator) Aggregate(ctx context.Context, rows []MemberRow) Summary {
	byProv := map[string]int64{}
	byCabang := map[string]int64{}
	type cityKey struct{ kota, prov string }
	byCity := map[cityKey]int64{}

	var s Summary
	for _, r := range rows {
		s.Total++

		switch strings.ToUpper(strings.TrimSpace(r.JenisKelamin)) {
		case "L":
			s.Gender.L++
		case "P":
			s.Gender.P++
		default:
			s.Gender.Unknown++
		}

		byProv[a.provinceOf(ctx, r)]++

		cabang := r.Cabang
		if strings.TrimSpace(cabang) == "" {
			cabang = constants.UnknownPlaceholder
		}
		byCabang[cabang]++

		kota, prov := r.Kota, r.Provinsi
		if strings.TrimSpace(kota) == "" {
			kota, prov = r.KotaKantor, r.ProvinsiKantor
		}
		if strings.TrimSpace(kota) != "" {
			byCity[cityKey{kota, prov}]++
		}
	}

	s.ByProvince = sortGroups(byProv)
	s.ByCabang = sortGroups(byCabang)

	cities := make([]CityCount, 0, len(byCity))
	for k, n := range byCity {
		cities = append(cities, CityCount{Kota: k.kota, Provinsi: k.prov, Count: n})
	}
	sort.Slice(cities, func(i, j int) bool {
		if cities[i].Count != cities[j].Count {
			return cities[i].Count > cities[j].Count
		}
		if cities[i].Kota != cities[j].Kota {
			return cities[i].Kota < cities[j].Kota
		}
		return cities[i].Provinsi < cities[j].Provinsi
	})
	k := a.CityTopK
	if k <= 0 {
		k = DefaultCityTopK
	}
	if len(cities) > k {
		cities = cities[:k]
	}
	s.ByCity = cities
	return s
}

func (a *Aggregator) provinceOf(ctx context.Context, r MemberRow) string {
	if p := province.NormalizeProvince(r.Provinsi); p != "" {
		return p
	}
	if p := province.NormalizeProvince(r.ProvinsiKantor); p != "" {
		return p
	}
	if a.Resolver != nil {
		if p := a.Resolver.Resolve(ctx, "", r.Kota); p != "" {
			return p
		}
		if p := a.Resolver.Resolve(ctx, "", r.KotaKantor); p != "" {
			return p
		}
	}
	return constants.UnknownPlaceholder
}

func sortGroups(m map[string]int64) []GroupCount {
	out := make([]GroupCount, 0, len(m))
	for k, n := range m {
		out = append(out, GroupCount{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}
