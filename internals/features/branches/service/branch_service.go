// file: internals/features/branches/service/branch_service.go
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pdpi_backend/internals/features/branches/model"
	helper "pdpi_backend/internals/helpers"
)

var (
	ErrBranchNotFound = errors.New("cabang tidak ditemukan")
	ErrBranchExists   = errors.New("nama cabang sudah dipakai")
	ErrBranchName     = errors.New("nama cabang wajib diisi")
)

var codeScope = helper.SlugScope{
	Table:      "branches",
	Column:     "branch_code",
	SoftDelete: "branch_deleted_at",
	MaxLen:     60,
	Fallback:   "pd",
}

type BranchService struct {
	DB *gorm.DB
}

func NewBranchService(db *gorm.DB) *BranchService {
	return &BranchService{DB: db}
}

// Create membuat cabang baru; code otomatis dari nama kalau kosong.
func (s *BranchService) Create(ctx context.Context, b *model.BranchModel) error {
	b.BranchName = strings.Join(strings.Fields(b.BranchName), " ")
	if b.BranchName == "" {
		return ErrBranchName
	}
	base := b.BranchCode
	if strings.TrimSpace(base) == "" {
		base = b.BranchName
	}
	code, err := helper.UniqueSlug(ctx, s.DB, codeScope, base)
	if err != nil {
		return err
	}
	b.BranchCode = code
	b.BranchIsActive = true

	if err := s.DB.WithContext(ctx).Create(b).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return ErrBranchExists
		}
		return err
	}
	return nil
}

func (s *BranchService) GetByID(ctx context.Context, id uuid.UUID) (*model.BranchModel, error) {
	var b model.BranchModel
	if err := s.DB.WithContext(ctx).First(&b, "branch_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBranchNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindByName mencocokkan nama (case-insensitive, spasi dirapikan).
func (s *BranchService) FindByName(ctx context.Context, name string) (*model.BranchModel, error) {
	var b model.BranchModel
	err := s.DB.WithContext(ctx).
		Where("branch_name_key = ?", model.NameKey(name)).
		First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBranchNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (s *BranchService) List(ctx context.Context, onlyActive bool) ([]model.BranchModel, error) {
	var rows []model.BranchModel
	q := s.DB.WithContext(ctx).Model(&model.BranchModel{})
	if onlyActive {
		q = q.Where("branch_is_active = ?", true)
	}
	if err := q.Order("branch_name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ErrBranchInUse: cabang masih punya anggota aktif.
var ErrBranchInUse = errors.New("cabang masih dipakai anggota")

// Update menyimpan perubahan; nama baru ikut disalin ke members.member_cabang.
func (s *BranchService) Update(ctx context.Context, b *model.BranchModel) error {
	b.BranchName = strings.Join(strings.Fields(b.BranchName), " ")
	if b.BranchName == "" {
		return ErrBranchName
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(b).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return ErrBranchExists
			}
			return err
		}
		return tx.Table("members").
			Where("member_cabang_id = ? AND member_deleted_at IS NULL", b.BranchID).
			Update("member_cabang", b.BranchName).Error
	})
}

// Delete (soft) hanya kalau tidak ada anggota yang tertaut.
func (s *BranchService) Delete(ctx context.Context, id uuid.UUID) error {
	var n int64
	if err := s.DB.WithContext(ctx).Table("members").
		Where("member_cabang_id = ? AND member_deleted_at IS NULL", id).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrBranchInUse
	}
	res := s.DB.WithContext(ctx).Delete(&model.BranchModel{}, "branch_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBranchNotFound
	}
	return nil
}
