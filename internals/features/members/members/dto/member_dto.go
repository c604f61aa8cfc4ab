// file: internals/features/members/members/dto/member_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"pdpi_backend/internals/constants"
	"pdpi_backend/internals/features/members/members/model"
)

/* ===============================
   Response
=================================*/

// MemberPublicResponse: field yang boleh tampil di direktori publik.
type MemberPublicResponse struct {
	MemberID          uuid.UUID `json:"member_id"`
	MemberNama        string    `json:"member_nama"`
	MemberNPA         *string   `json:"member_npa,omitempty"`
	MemberGelar1      *string   `json:"member_gelar1,omitempty"`
	MemberGelar2      *string   `json:"member_gelar2,omitempty"`
	MemberAlumni      *string   `json:"member_alumni,omitempty"`
	MemberTempatTugas *string   `json:"member_tempat_tugas,omitempty"`
	MemberRSTipe      *string   `json:"member_rs_tipe,omitempty"`
	MemberKota        *string   `json:"member_kota_kabupaten,omitempty"`
	MemberProvinsi    *string   `json:"member_provinsi,omitempty"`
	MemberCabang      *string   `json:"member_cabang,omitempty"`
	MemberStatus      *string   `json:"member_status,omitempty"`
	MemberFotoURL     *string   `json:"member_foto_url,omitempty"`
}

func NewMemberPublicResponse(m *model.MemberModel) MemberPublicResponse {
	kota := m.MemberKotaKabupaten
	if kota == nil {
		kota = m.MemberKotaKabupatenKantor
	}
	prov := m.MemberProvinsi
	if prov == nil {
		prov = m.MemberProvinsiKantor
	}
	return MemberPublicResponse{
		MemberID:          m.MemberID,
		MemberNama:        m.MemberNama,
		MemberNPA:         m.MemberNPA,
		MemberGelar1:      m.MemberGelar1,
		MemberGelar2:      m.MemberGelar2,
		MemberAlumni:      m.MemberAlumni,
		MemberTempatTugas: m.MemberTempatTugas,
		MemberRSTipe:      m.MemberRSTipe,
		MemberKota:        kota,
		MemberProvinsi:    prov,
		MemberCabang:      m.MemberCabang,
		MemberStatus:      m.MemberStatus,
		MemberFotoURL:     m.MemberFotoURL,
	}
}

func NewMemberPublicResponses(rows []model.MemberModel) []MemberPublicResponse {
	out := make([]MemberPublicResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewMemberPublicResponse(&rows[i]))
	}
	return out
}

// Admin melihat model lengkap (kecuali kolom turunan yang json:"-").
func NewMemberAdminResponses(rows []model.MemberModel) []model.MemberModel {
	if rows == nil {
		return []model.MemberModel{}
	}
	return rows
}

/* ===============================
   Create (admin)
=================================*/

type CreateMemberRequest struct {
	MemberNPA                 *string    `json:"member_npa" validate:"omitempty,max=32"`
	MemberNama                string     `json:"member_nama" validate:"required,min=2,max=200"`
	MemberNIK                 *string    `json:"member_nik" validate:"omitempty,numeric,max=32"`
	MemberJenisKelamin        *string    `json:"member_jenis_kelamin" validate:"omitempty,oneof=L P"`
	MemberGelar1              *string    `json:"member_gelar1"`
	MemberGelar2              *string    `json:"member_gelar2"`
	MemberTempatLahir         *string    `json:"member_tempat_lahir"`
	MemberTglLahir            *string    `json:"member_tgl_lahir" validate:"omitempty,datetime=2006-01-02"`
	MemberAlumni              *string    `json:"member_alumni"`
	MemberThnLulus            *int       `json:"member_thn_lulus" validate:"omitempty,gte=1950,lte=2100"`
	MemberTempatTugas         *string    `json:"member_tempat_tugas"`
	MemberRSTipe              *string    `json:"member_rs_tipe" validate:"omitempty,max=32"`
	MemberGelarFISR           *string    `json:"member_gelar_fisr"`
	MemberKotaKabupaten       *string    `json:"member_kota_kabupaten"`
	MemberKotaKabupatenKantor *string    `json:"member_kota_kabupaten_kantor"`
	MemberProvinsi            *string    `json:"member_provinsi"`
	MemberProvinsiKantor      *string    `json:"member_provinsi_kantor"`
	MemberAlamat              *string    `json:"member_alamat"`
	MemberNoHP                *string    `json:"member_no_hp" validate:"omitempty,max=32"`
	MemberEmail               *string    `json:"member_email" validate:"omitempty,email"`
	MemberSTR                 *string    `json:"member_str"`
	MemberSIP                 *string    `json:"member_sip"`
	MemberKeterangan          *string    `json:"member_keterangan"`
	MemberStatus              *string    `json:"member_status" validate:"omitempty,oneof=Biasa 'Luar Biasa' Meninggal Muda"`
	MemberCabangID            *uuid.UUID `json:"member_cabang_id"`
}

func (r CreateMemberRequest) ToModel() *model.MemberModel {
	m := &model.MemberModel{MemberNama: strings.TrimSpace(r.MemberNama)}
	r.apply(m)
	return m
}

func (r CreateMemberRequest) apply(m *model.MemberModel) {
	m.MemberNPA = clean(r.MemberNPA)
	m.MemberNIK = clean(r.MemberNIK)
	m.MemberJenisKelamin = clean(r.MemberJenisKelamin)
	m.MemberGelar1 = clean(r.MemberGelar1)
	m.MemberGelar2 = clean(r.MemberGelar2)
	m.MemberTempatLahir = clean(r.MemberTempatLahir)
	m.MemberTglLahir = parseDate(r.MemberTglLahir)
	m.MemberAlumni = clean(r.MemberAlumni)
	m.MemberThnLulus = r.MemberThnLulus
	m.MemberTempatTugas = clean(r.MemberTempatTugas)
	m.MemberRSTipe = clean(r.MemberRSTipe)
	m.MemberGelarFISR = clean(r.MemberGelarFISR)
	m.MemberKotaKabupaten = clean(r.MemberKotaKabupaten)
	m.MemberKotaKabupatenKantor = clean(r.MemberKotaKabupatenKantor)
	m.MemberProvinsi = clean(r.MemberProvinsi)
	m.MemberProvinsiKantor = clean(r.MemberProvinsiKantor)
	m.MemberAlamat = clean(r.MemberAlamat)
	m.MemberNoHP = clean(r.MemberNoHP)
	m.MemberEmail = lower(clean(r.MemberEmail))
	m.MemberSTR = clean(r.MemberSTR)
	m.MemberSIP = clean(r.MemberSIP)
	m.MemberKeterangan = clean(r.MemberKeterangan)
	if st := clean(r.MemberStatus); st != nil {
		s := constants.CanonicalMemberStatus(*st)
		m.MemberStatus = &s
	} else {
		m.MemberStatus = nil
	}
	m.MemberCabangID = r.MemberCabangID
}

/* ===============================
   Update (admin, PATCH)
=================================*/

// UpdateMemberRequest: nil = tidak diubah, "" = kosongkan.
type UpdateMemberRequest struct {
	MemberNPA                 *string    `json:"member_npa" validate:"omitempty,max=32"`
	MemberNama                *string    `json:"member_nama" validate:"omitempty,min=2,max=200"`
	MemberNIK                 *string    `json:"member_nik" validate:"omitempty,numeric,max=32"`
	MemberJenisKelamin        *string    `json:"member_jenis_kelamin" validate:"omitempty,oneof=L P"`
	MemberGelar1              *string    `json:"member_gelar1"`
	MemberGelar2              *string    `json:"member_gelar2"`
	MemberTempatLahir         *string    `json:"member_tempat_lahir"`
	MemberTglLahir            *string    `json:"member_tgl_lahir" validate:"omitempty,datetime=2006-01-02"`
	MemberAlumni              *string    `json:"member_alumni"`
	MemberThnLulus            *int       `json:"member_thn_lulus" validate:"omitempty,gte=1950,lte=2100"`
	MemberTempatTugas         *string    `json:"member_tempat_tugas"`
	MemberRSTipe              *string    `json:"member_rs_tipe" validate:"omitempty,max=32"`
	MemberGelarFISR           *string    `json:"member_gelar_fisr"`
	MemberKotaKabupaten       *string    `json:"member_kota_kabupaten"`
	MemberKotaKabupatenKantor *string    `json:"member_kota_kabupaten_kantor"`
	MemberProvinsi            *string    `json:"member_provinsi"`
	MemberProvinsiKantor      *string    `json:"member_provinsi_kantor"`
	MemberAlamat              *string    `json:"member_alamat"`
	MemberNoHP                *string    `json:"member_no_hp" validate:"omitempty,max=32"`
	MemberEmail               *string    `json:"member_email" validate:"omitempty,email"`
	MemberSTR                 *string    `json:"member_str"`
	MemberSIP                 *string    `json:"member_sip"`
	MemberKeterangan          *string    `json:"member_keterangan"`
	MemberStatus              *string    `json:"member_status" validate:"omitempty,oneof=Biasa 'Luar Biasa' Meninggal Muda"`
	MemberCabangID            *uuid.UUID `json:"member_cabang_id"`
}

func (r UpdateMemberRequest) Apply(m *model.MemberModel) {
	if r.MemberNama != nil {
		if n := strings.TrimSpace(*r.MemberNama); n != "" {
			m.MemberNama = n
		}
	}
	patch(&m.MemberNPA, r.MemberNPA)
	patch(&m.MemberNIK, r.MemberNIK)
	patch(&m.MemberJenisKelamin, r.MemberJenisKelamin)
	patch(&m.MemberGelar1, r.MemberGelar1)
	patch(&m.MemberGelar2, r.MemberGelar2)
	patch(&m.MemberTempatLahir, r.MemberTempatLahir)
	if r.MemberTglLahir != nil {
		m.MemberTglLahir = parseDate(r.MemberTglLahir)
	}
	if r.MemberThnLulus != nil {
		m.MemberThnLulus = r.MemberThnLulus
	}
	patch(&m.MemberAlumni, r.MemberAlumni)
	patch(&m.MemberTempatTugas, r.MemberTempatTugas)
	patch(&m.MemberRSTipe, r.MemberRSTipe)
	patch(&m.MemberGelarFISR, r.MemberGelarFISR)
	patch(&m.MemberKotaKabupaten, r.MemberKotaKabupaten)
	patch(&m.MemberKotaKabupatenKantor, r.MemberKotaKabupatenKantor)
	patch(&m.MemberProvinsi, r.MemberProvinsi)
	patch(&m.MemberProvinsiKantor, r.MemberProvinsiKantor)
	patch(&m.MemberAlamat, r.MemberAlamat)
	patch(&m.MemberNoHP, r.MemberNoHP)
	if r.MemberEmail != nil {
		m.MemberEmail = lower(clean(r.MemberEmail))
	}
	patch(&m.MemberSTR, r.MemberSTR)
	patch(&m.MemberSIP, r.MemberSIP)
	patch(&m.MemberKeterangan, r.MemberKeterangan)
	if r.MemberStatus != nil {
		if st := clean(r.MemberStatus); st != nil {
			s := constants.CanonicalMemberStatus(*st)
			m.MemberStatus = &s
		} else {
			m.MemberStatus = nil
		}
	}
	if r.MemberCabangID != nil {
		id := *r.MemberCabangID
		m.MemberCabangID = &id
	}
}

/* ===============================
   Profile (self-service anggota)
=================================*/

// ProfileUpdateRequest: anggota hanya boleh mengubah kontak & tempat kerja.
type ProfileUpdateRequest struct {
	MemberNoHP                *string `json:"member_no_hp" form:"member_no_hp" validate:"omitempty,max=32"`
	MemberEmail               *string `json:"member_email" form:"member_email" validate:"omitempty,email"`
	MemberAlamat              *string `json:"member_alamat" form:"member_alamat" validate:"omitempty,max=500"`
	MemberTempatTugas         *string `json:"member_tempat_tugas" form:"member_tempat_tugas" validate:"omitempty,max=200"`
	MemberKotaKabupatenKantor *string `json:"member_kota_kabupaten_kantor" form:"member_kota_kabupaten_kantor"`
	MemberProvinsiKantor      *string `json:"member_provinsi_kantor" form:"member_provinsi_kantor"`
}

func (r ProfileUpdateRequest) Apply(m *model.MemberModel) {
	patch(&m.MemberNoHP, r.MemberNoHP)
	if r.MemberEmail != nil {
		m.MemberEmail = lower(clean(r.MemberEmail))
	}
	patch(&m.MemberAlamat, r.MemberAlamat)
	patch(&m.MemberTempatTugas, r.MemberTempatTugas)
	patch(&m.MemberKotaKabupatenKantor, r.MemberKotaKabupatenKantor)
	patch(&m.MemberProvinsiKantor, r.MemberProvinsiKantor)
}

// FilterOptions: nilai dropdown filter direktori.
type FilterOptions struct {
	Provinsi []string `json:"provinsi"`
	Cabang   []string `json:"cabang"`
	Kota     []string `json:"kota"`
	RSTipe   []string `json:"rs_tipe"`
	Alumni   []string `json:"alumni"`
	Status   []string `json:"status"`
}

/* ===============================
   helpers
=================================*/

func clean(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}

func lower(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.ToLower(*p)
	return &s
}

func patch(dst **string, v *string) {
	if v == nil {
		return
	}
	*dst = clean(v)
}

func parseDate(p *string) *time.Time {
	s := clean(p)
	if s == nil {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}
