// file: internals/features/members/members/model/member_model.go
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	search "pdpi_backend/internals/features/members/search/service"
	"pdpi_backend/internals/helpers/searchindex"
)

type MemberModel struct {
	MemberID uuid.UUID `gorm:"type:uuid;primaryKey;column:member_id" json:"member_id"`

	// identitas
	MemberNPA          *string    `gorm:"type:varchar(32);uniqueIndex:uq_members_npa;column:member_npa" json:"member_npa,omitempty"`
	MemberNama         string     `gorm:"type:text;not null;column:member_nama" json:"member_nama"`
	MemberNameKey      string     `gorm:"type:text;not null;default:'';index:idx_members_name_key;column:member_name_key" json:"-"`
	MemberNIK          *string    `gorm:"type:varchar(32);column:member_nik" json:"member_nik,omitempty"`
	MemberJenisKelamin *string    `gorm:"type:varchar(1);column:member_jenis_kelamin" json:"member_jenis_kelamin,omitempty"`
	MemberGelar1       *string    `gorm:"type:text;column:member_gelar1" json:"member_gelar1,omitempty"`
	MemberGelar2       *string    `gorm:"type:text;column:member_gelar2" json:"member_gelar2,omitempty"`
	MemberTempatLahir  *string    `gorm:"type:text;column:member_tempat_lahir" json:"member_tempat_lahir,omitempty"`
	MemberTglLahir     *time.Time `gorm:"type:date;column:member_tgl_lahir" json:"member_tgl_lahir,omitempty"`

	// pendidikan & tugas
	MemberAlumni      *string `gorm:"type:text;column:member_alumni" json:"member_alumni,omitempty"`
	MemberThnLulus    *int    `gorm:"column:member_thn_lulus" json:"member_thn_lulus,omitempty"`
	MemberTempatTugas *string `gorm:"type:text;column:member_tempat_tugas" json:"member_tempat_tugas,omitempty"`
	MemberRSTipe      *string `gorm:"type:varchar(32);column:member_rs_tipe" json:"member_rs_tipe,omitempty"`
	MemberGelarFISR   *string `gorm:"type:text;column:member_gelar_fisr" json:"member_gelar_fisr,omitempty"`

	// lokasi (rumah & kantor)
	MemberKotaKabupaten       *string `gorm:"type:text;column:member_kota_kabupaten" json:"member_kota_kabupaten,omitempty"`
	MemberKotaKabupatenKantor *string `gorm:"type:text;column:member_kota_kabupaten_kantor" json:"member_kota_kabupaten_kantor,omitempty"`
	MemberProvinsi            *string `gorm:"type:text;index:idx_members_provinsi;column:member_provinsi" json:"member_provinsi,omitempty"`
	MemberProvinsiKantor      *string `gorm:"type:text;column:member_provinsi_kantor" json:"member_provinsi_kantor,omitempty"`
	MemberAlamat              *string `gorm:"type:text;column:member_alamat" json:"member_alamat,omitempty"`

	// kontak (admin only)
	MemberNoHP  *string `gorm:"type:varchar(32);column:member_no_hp" json:"member_no_hp,omitempty"`
	MemberEmail *string `gorm:"type:text;column:member_email" json:"member_email,omitempty"`
	MemberSTR   *string `gorm:"type:text;column:member_str" json:"member_str,omitempty"`
	MemberSIP   *string `gorm:"type:text;column:member_sip" json:"member_sip,omitempty"`

	MemberFotoURL    *string `gorm:"type:text;column:member_foto_url" json:"member_foto_url,omitempty"`
	MemberKeterangan *string `gorm:"type:text;column:member_keterangan" json:"member_keterangan,omitempty"`
	MemberStatus     *string `gorm:"type:varchar(20);index:idx_members_status;column:member_status" json:"member_status,omitempty"`

	// cabang / PD
	MemberCabangID *uuid.UUID `gorm:"type:uuid;index:idx_members_cabang_id;column:member_cabang_id" json:"member_cabang_id,omitempty"`
	MemberCabang   *string    `gorm:"type:text;column:member_cabang" json:"member_cabang,omitempty"`

	MemberSearchText string     `gorm:"type:text;not null;default:'';column:member_search_text" json:"-"`
	MemberUserID     *uuid.UUID `gorm:"type:uuid;index:idx_members_user_id;column:member_user_id" json:"member_user_id,omitempty"`

	MemberCreatedAt time.Time      `gorm:"autoCreateTime;column:member_created_at" json:"member_created_at"`
	MemberUpdatedAt time.Time      `gorm:"autoUpdateTime;column:member_updated_at" json:"member_updated_at"`
	MemberDeletedAt gorm.DeletedAt `gorm:"column:member_deleted_at;index" json:"member_deleted_at,omitempty"`
}

func (MemberModel) TableName() string { return "members" }

// MemberColumns: field logis pencarian → kolom tabel members.
var MemberColumns = map[string]string{
	search.FieldNPA:            "member_npa",
	search.FieldNama:           "member_nama",
	search.FieldNIK:            "member_nik",
	search.FieldTempatTugas:    "member_tempat_tugas",
	search.FieldRSTipe:         "member_rs_tipe",
	search.FieldKota:           "member_kota_kabupaten",
	search.FieldKotaKantor:     "member_kota_kabupaten_kantor",
	search.FieldProvinsi:       "member_provinsi",
	search.FieldProvinsiKantor: "member_provinsi_kantor",
	search.FieldCabang:         "member_cabang",
	search.FieldAlumni:         "member_alumni",
	search.FieldStatus:         "member_status",
	search.FieldJenisKelamin:   "member_jenis_kelamin",
	search.FieldFISR:           "member_gelar_fisr",
	search.FieldEmail:          "member_email",
	search.FieldNoHP:           "member_no_hp",
	search.FieldSTR:            "member_str",
	search.FieldSIP:            "member_sip",
	search.FieldSearchText:     "member_search_text",
}

func (m *MemberModel) BeforeCreate(tx *gorm.DB) error {
	if m.MemberID == uuid.Nil {
		m.MemberID = uuid.New()
	}
	return nil
}

// BeforeSave menjaga kolom turunan (name_key, search_text) tetap sinkron.
func (m *MemberModel) BeforeSave(tx *gorm.DB) error {
	m.RefreshDerived()
	return nil
}

// RefreshDerived menghitung ulang name_key & search_text.
// Dipanggil juga sebelum Updates(map) yang tidak memicu hook pada struct.
func (m *MemberModel) RefreshDerived() {
	m.MemberNama = strings.TrimSpace(m.MemberNama)
	m.MemberNameKey = search.NormalizeText(m.MemberNama)
	m.MemberSearchText = m.BuildSearchText()
}

// BuildSearchText: gabungan teks publik yang sudah dinormalisasi (catch-all pencarian).
func (m *MemberModel) BuildSearchText() string {
	parts := []string{
		m.MemberNama,
		deref(m.MemberNPA),
		deref(m.MemberGelar1),
		deref(m.MemberGelar2),
		deref(m.MemberAlumni),
		deref(m.MemberTempatTugas),
		deref(m.MemberKotaKabupaten),
		deref(m.MemberKotaKabupatenKantor),
		deref(m.MemberProvinsi),
		deref(m.MemberProvinsiKantor),
		deref(m.MemberCabang),
		deref(m.MemberGelarFISR),
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if n := search.NormalizeText(p); n != "" {
			out = append(out, n)
		}
	}
	return strings.Join(out, " ")
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// IndexDoc: dokumen index pencarian (field publik saja).
func (m *MemberModel) IndexDoc() searchindex.MemberDoc {
	prov := deref(m.MemberProvinsi)
	if prov == "" {
		prov = deref(m.MemberProvinsiKantor)
	}
	kota := deref(m.MemberKotaKabupaten)
	if kota == "" {
		kota = deref(m.MemberKotaKabupatenKantor)
	}
	return searchindex.MemberDoc{
		ID:          m.MemberID.String(),
		Nama:        m.MemberNama,
		NPA:         deref(m.MemberNPA),
		Cabang:      deref(m.MemberCabang),
		Provinsi:    prov,
		Kota:        kota,
		TempatTugas: deref(m.MemberTempatTugas),
		Alumni:      deref(m.MemberAlumni),
		Status:      deref(m.MemberStatus),
		FotoURL:     deref(m.MemberFotoURL),
	}
}
