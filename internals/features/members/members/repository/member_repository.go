// file: internals/features/members/members/repository/member_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pdpi_backend/internals/features/members/members/model"
	search "pdpi_backend/internals/features/members/search/service"
	stats "pdpi_backend/internals/features/members/stats/service"
	helper "pdpi_backend/internals/helpers"
)

var (
	ErrMemberNotFound = errors.New("anggota tidak ditemukan")
	ErrNPAExists      = errors.New("NPA sudah terdaftar")
)

// ListQuery: filter UI + teks pencarian + konteks role pemanggil.
type ListQuery struct {
	Filter   search.MemberFilter
	Q        string
	IsAdmin  bool
	BranchID *uuid.UUID // admin cabang dibatasi ke cabangnya sendiri
}

// Predicate: AND(filter, pencarian teks).
func (q ListQuery) Predicate() search.Node {
	nodes := q.Filter.Conditions()
	nodes = append(nodes, search.BuildQuery(search.ParseQuery(q.Q), q.IsAdmin))
	return search.And(nodes...)
}

type MemberRepository struct {
	DB       *gorm.DB
	renderer search.SQLRenderer
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{
		DB:       db,
		renderer: search.RendererForDialect(db.Dialector.Name(), model.MemberColumns),
	}
}

// Scope: query members yang sudah terfilter (soft-deleted otomatis dibuang).
func (r *MemberRepository) Scope(ctx context.Context, q ListQuery) (*gorm.DB, error) {
	tx := r.DB.WithContext(ctx).Model(&model.MemberModel{})
	sql, args, err := r.renderer.Render(q.Predicate())
	if err != nil {
		return nil, fmt.Errorf("render filter: %w", err)
	}
	if sql != "" {
		tx = tx.Where(sql, args...)
	}
	if q.BranchID != nil {
		tx = tx.Where("member_cabang_id = ?", *q.BranchID)
	}
	return tx, nil
}

func (r *MemberRepository) List(ctx context.Context, q ListQuery, order string, p helper.Paging) ([]model.MemberModel, int64, error) {
	tx, err := r.Scope(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if order == "" {
		order = "member_nama ASC"
	}
	var rows []model.MemberModel
	if err := tx.Order(order).Order("member_id ASC").Limit(p.PerPage).Offset(p.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// StatsRows: hanya kolom yang dipakai agregator.
func (r *MemberRepository) StatsRows(ctx context.Context, q ListQuery) ([]stats.MemberRow, error) {
	tx, err := r.Scope(ctx, q)
	if err != nil {
		return nil, err
	}
	var rows []stats.MemberRow
	err = tx.Select(
		"member_provinsi", "member_provinsi_kantor",
		"member_kota_kabupaten", "member_kota_kabupaten_kantor",
		"member_cabang", "member_jenis_kelamin",
	).Find(&rows).Error
	return rows, err
}

// DistinctValues: opsi dropdown filter (nilai non-kosong, urut).
func (r *MemberRepository) DistinctValues(ctx context.Context, column string) ([]string, error) {
	if _, ok := filterColumns[column]; !ok {
		return nil, fmt.Errorf("kolom %q tidak bisa dipakai sebagai opsi filter", column)
	}
	var out []string
	err := r.DB.WithContext(ctx).Model(&model.MemberModel{}).
		Where(column+" IS NOT NULL AND "+column+" <> ''").
		Distinct(column).Order(column+" ASC").
		Pluck(column, &out).Error
	return out, err
}

var filterColumns = map[string]struct{}{
	"member_provinsi":       {},
	"member_cabang":         {},
	"member_kota_kabupaten": {},
	"member_rs_tipe":        {},
	"member_alumni":         {},
	"member_status":         {},
}

func (r *MemberRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.MemberModel, error) {
	var m model.MemberModel
	err := r.DB.WithContext(ctx).First(&m, "member_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepository) Create(ctx context.Context, m *model.MemberModel) error {
	if err := r.DB.WithContext(ctx).Create(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return ErrNPAExists
		}
		return err
	}
	return nil
}

func (r *MemberRepository) Save(ctx context.Context, m *model.MemberModel) error {
	if err := r.DB.WithContext(ctx).Save(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return ErrNPAExists
		}
		return err
	}
	return nil
}

// Delete: soft delete.
func (r *MemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&model.MemberModel{}, "member_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// FindInBatches dipakai reindex; fn dipanggil per batch.
func (r *MemberRepository) FindInBatches(ctx context.Context, size int, fn func([]model.MemberModel) error) error {
	if size <= 0 {
		size = 500
	}
	var batch []model.MemberModel
	res := r.DB.WithContext(ctx).FindInBatches(&batch, size, func(_ *gorm.DB, _ int) error {
		return fn(batch)
	})
	return res.Error
}
