// file: internals/features/members/imports/service/row_mapper.go
package service

import (
	_ "embed"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"pdpi_backend/internals/constants"
	memberModel "pdpi_backend/internals/features/members/members/model"
)

// Kolom kanonik file import.
const (
	ColCabang       = "CABANG"
	ColStatus       = "STATUS"
	ColNPA          = "NPA"
	ColNama         = "NAMA"
	ColJenisKelamin = "JENIS KELAMIN"
	ColGelar1       = "GELAR 1"
	ColGelar2       = "GELAR 2"
	ColTempatLahir  = "TEMPAT LAHIR"
	ColTglLahir     = "TGL LAHIR"
	ColAlumni       = "ALUMNI"
	ColThnLulus     = "THN LULUS"
	ColTempatTugas  = "TEMPAT TUGAS/RS"
	ColKota         = "KOTA/KABUPATEN"
	ColProvinsi     = "PROVINSI"
	ColAlamat       = "ALAMAT RUMAH/KORESPONDENSI"
	ColNoHP         = "NO HP"
	ColEmail        = "EMAIL"
	ColFoto         = "FOTO"
	ColKeterangan   = "KETERANGAN"
)

// Columns: urutan kolom template.
var Columns = []string{
	ColCabang, ColStatus, ColNPA, ColNama, ColJenisKelamin, ColGelar1, ColGelar2,
	ColTempatLahir, ColTglLahir, ColAlumni, ColThnLulus, ColTempatTugas, ColKota,
	ColProvinsi, ColAlamat, ColNoHP, ColEmail, ColFoto, ColKeterangan,
}

//go:embed data/column_map.yaml
var columnMapYAML []byte

type columnMapFile struct {
	Columns map[string][]string `yaml:"columns"`
}

// HeaderMap: header file (sudah di-key) → kolom kanonik.
type HeaderMap map[string]string

func headerKey(h string) string {
	h = strings.ToUpper(strings.ReplaceAll(h, ".", ""))
	return strings.Join(strings.Fields(h), " ")
}

// LoadHeaderMap membaca tabel alias YAML. Kolom kanonik selalu terdaftar.
func LoadHeaderMap(raw []byte) (HeaderMap, error) {
	var f columnMapFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("column map: %w", err)
	}
	m := HeaderMap{}
	for _, c := range Columns {
		m[headerKey(c)] = c
	}
	for canon, aliases := range f.Columns {
		canon = headerKey(canon)
		if _, ok := m[canon]; !ok {
			return nil, fmt.Errorf("column map: kolom %q tidak dikenal", canon)
		}
		target := m[canon]
		for _, a := range aliases {
			k := headerKey(a)
			if prev, ok := m[k]; ok && prev != target {
				return nil, fmt.Errorf("column map: alias %q bentrok (%s / %s)", a, prev, target)
			}
			m[k] = target
		}
	}
	return m, nil
}

// DefaultHeaderMap dari file YAML bawaan.
func DefaultHeaderMap() HeaderMap {
	m, err := LoadHeaderMap(columnMapYAML)
	if err != nil {
		panic(err)
	}
	return m
}

// Canonical mengembalikan nama kolom kanonik (ok=false kalau header tidak dikenal).
func (h HeaderMap) Canonical(header string) (string, bool) {
	c, ok := h[headerKey(header)]
	return c, ok
}

// MapRow menyusun Row kanonik dari header + sel. Kolom tak dikenal diabaikan;
// kalau dua header jatuh ke kolom yang sama, nilai non-kosong pertama dipakai.
func (h HeaderMap) MapRow(headers, cells []string) Row {
	row := Row{}
	for i, hd := range headers {
		col, ok := h.Canonical(hd)
		if !ok {
			continue
		}
		v := ""
		if i < len(cells) {
			v = strings.TrimSpace(cells[i])
		}
		if cur, exists := row[col]; exists && cur != "" {
			continue
		}
		row[col] = v
	}
	return row
}

// CanonicalRow: row dari client (key = header asli) → Row kanonik.
// Key diproses urut supaya hasil deterministik kalau dua header bentrok.
func (h HeaderMap) CanonicalRow(in Row) Row {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	cells := make([]string, len(keys))
	for i, k := range keys {
		cells[i] = in[k]
	}
	return h.MapRow(keys, cells)
}

// ToMember memetakan Row ke model anggota (tanpa cabang & default).
// Nilai tanggal/tahun yang tidak bisa dibaca dikosongkan.
func ToMember(r Row, now time.Time) *memberModel.MemberModel {
	m := &memberModel.MemberModel{
		MemberNama:          strings.Join(strings.Fields(r[ColNama]), " "),
		MemberNPA:           optional(r[ColNPA]),
		MemberGelar1:        optional(r[ColGelar1]),
		MemberGelar2:        optional(r[ColGelar2]),
		MemberTempatLahir:   optional(r[ColTempatLahir]),
		MemberAlumni:        optional(r[ColAlumni]),
		MemberTempatTugas:   optional(r[ColTempatTugas]),
		MemberKotaKabupaten: optional(r[ColKota]),
		MemberProvinsi:      optional(r[ColProvinsi]),
		MemberAlamat:        optional(r[ColAlamat]),
		MemberNoHP:          optional(r[ColNoHP]),
		MemberEmail:         optional(strings.ToLower(r[ColEmail])),
		MemberFotoURL:       optional(r[ColFoto]),
		MemberKeterangan:    optional(r[ColKeterangan]),
		MemberCabang:        optional(r[ColCabang]),
	}
	if s := constants.CanonicalMemberStatus(r[ColStatus]); s != "" {
		m.MemberStatus = &s
	}
	if g := constants.CanonicalGender(r[ColJenisKelamin]); g != "" {
		m.MemberJenisKelamin = &g
	}
	if t, err := ParseDate(r[ColTglLahir], now); err == nil {
		m.MemberTglLahir = &t
	}
	if y, err := strconv.Atoi(strings.TrimSpace(r[ColThnLulus])); err == nil && y > 1900 && y <= now.Year()+1 {
		m.MemberThnLulus = &y
	}
	return m
}

// MergeInto menimpa field existing dengan nilai incoming yang terisi.
// Field kosong di file tidak menghapus data lama, begitu juga placeholder "Unknown".
func MergeInto(existing, incoming *memberModel.MemberModel) {
	if incoming.MemberNama != "" {
		existing.MemberNama = incoming.MemberNama
	}
	set := func(dst **string, src *string) {
		if src == nil || *src == "" {
			return
		}
		if *src == constants.UnknownPlaceholder && *dst != nil && **dst != "" {
			return
		}
		*dst = src
	}
	set(&existing.MemberNPA, incoming.MemberNPA)
	set(&existing.MemberGelar1, incoming.MemberGelar1)
	set(&existing.MemberGelar2, incoming.MemberGelar2)
	set(&existing.MemberTempatLahir, incoming.MemberTempatLahir)
	set(&existing.MemberAlumni, incoming.MemberAlumni)
	set(&existing.MemberTempatTugas, incoming.MemberTempatTugas)
	set(&existing.MemberKotaKabupaten, incoming.MemberKotaKabupaten)
	set(&existing.MemberProvinsi, incoming.MemberProvinsi)
	set(&existing.MemberAlamat, incoming.MemberAlamat)
	set(&existing.MemberNoHP, incoming.MemberNoHP)
	set(&existing.MemberEmail, incoming.MemberEmail)
	set(&existing.MemberFotoURL, incoming.MemberFotoURL)
	set(&existing.MemberKeterangan, incoming.MemberKeterangan)
	set(&existing.MemberStatus, incoming.MemberStatus)
	set(&existing.MemberJenisKelamin, incoming.MemberJenisKelamin)
	set(&existing.MemberCabang, incoming.MemberCabang)
	if incoming.MemberCabangID != nil {
		existing.MemberCabangID = incoming.MemberCabangID
	}
	if incoming.MemberTglLahir != nil {
		existing.MemberTglLahir = incoming.MemberTglLahir
	}
	if incoming.MemberThnLulus != nil {
		existing.MemberThnLulus = incoming.MemberThnLulus
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
