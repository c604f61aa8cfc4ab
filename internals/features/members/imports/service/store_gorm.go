// file: internals/features/members/imports/service/store_gorm.go
package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	branchModel "pdpi_backend/internals/features/branches/model"
	branchService "pdpi_backend/internals/features/branches/service"
	memberModel "pdpi_backend/internals/features/members/members/model"
	helper "pdpi_backend/internals/helpers"
	"pdpi_backend/internals/helpers/searchindex"
)

/* ===============================
   Members (gorm)
=================================*/

type GormMemberStore struct {
	DB *gorm.DB
}

func NewGormMemberStore(db *gorm.DB) *GormMemberStore {
	return &GormMemberStore{DB: db}
}

func (s *GormMemberStore) Insert(ctx context.Context, m *memberModel.MemberModel) error {
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// FindByNPA ikut mencari baris yang sudah di-soft-delete: uq_members_npa juga
// mencakup baris tersebut, jadi NPA-nya hanya bisa dipakai lagi lewat restore.
func (s *GormMemberStore) FindByNPA(ctx context.Context, npa string) (*memberModel.MemberModel, error) {
	return s.first(ctx, s.DB.Unscoped(), "member_npa = ?", npa)
}

func (s *GormMemberStore) FindByNameInstitution(ctx context.Context, nameKey, institution string) (*memberModel.MemberModel, error) {
	return s.first(ctx, s.DB, "member_name_key = ? AND member_tempat_tugas = ?", nameKey, institution)
}

// Update sekaligus me-restore anggota yang sebelumnya di-soft-delete.
func (s *GormMemberStore) Update(ctx context.Context, m *memberModel.MemberModel) error {
	m.MemberDeletedAt = gorm.DeletedAt{}
	if err := s.DB.WithContext(ctx).Unscoped().Save(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (s *GormMemberStore) first(ctx context.Context, db *gorm.DB, where string, args ...any) (*memberModel.MemberModel, error) {
	var m memberModel.MemberModel
	err := db.WithContext(ctx).Where(where, args...).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

/* ===============================
   Branches (gorm)
=================================*/

type GormBranchStore struct {
	Service *branchService.BranchService
}

func NewGormBranchStore(db *gorm.DB) *GormBranchStore {
	return &GormBranchStore{Service: branchService.NewBranchService(db)}
}

func (s *GormBranchStore) LoadBranches(ctx context.Context) ([]BranchRef, error) {
	rows, err := s.Service.List(ctx, false)
	if err != nil {
		return nil, err
	}
	out := make([]BranchRef, 0, len(rows))
	for _, b := range rows {
		out = append(out, BranchRef{ID: b.BranchID, Name: b.BranchName})
	}
	return out, nil
}

// CreateBranch: kalau nama ternyata sudah ada (dibuat proses lain), pakai yang ada.
func (s *GormBranchStore) CreateBranch(ctx context.Context, name string) (BranchRef, error) {
	b := &branchModel.BranchModel{BranchName: name}
	err := s.Service.Create(ctx, b)
	if errors.Is(err, branchService.ErrBranchExists) {
		existing, ferr := s.Service.FindByName(ctx, name)
		if ferr != nil {
			return BranchRef{}, ferr
		}
		b = existing
	} else if err != nil {
		return BranchRef{}, err
	}
	return BranchRef{ID: b.BranchID, Name: b.BranchName}, nil
}

func (s *GormBranchStore) AdminBranch(ctx context.Context, actor Actor) (BranchRef, error) {
	if actor.BranchID == nil {
		return BranchRef{}, ErrNoAdminBranch
	}
	b, err := s.Service.GetByID(ctx, *actor.BranchID)
	if err != nil {
		return BranchRef{}, err
	}
	return BranchRef{ID: b.BranchID, Name: b.BranchName}, nil
}

/* ===============================
   Index mirror
=================================*/

// IndexingMemberStore meneruskan tulis ke store lalu menyalin dokumen publik ke
// index pencarian. Gagal index hanya di-log.
type IndexingMemberStore struct {
	MemberStore
	Index searchindex.MemberIndex
	Log   *zap.Logger
}

func (s *IndexingMemberStore) Insert(ctx context.Context, m *memberModel.MemberModel) error {
	if err := s.MemberStore.Insert(ctx, m); err != nil {
		return err
	}
	s.mirror(ctx, m)
	return nil
}

func (s *IndexingMemberStore) Update(ctx context.Context, m *memberModel.MemberModel) error {
	if err := s.MemberStore.Update(ctx, m); err != nil {
		return err
	}
	s.mirror(ctx, m)
	return nil
}

func (s *IndexingMemberStore) mirror(ctx context.Context, m *memberModel.MemberModel) {
	if s.Index == nil || !s.Index.Enabled() {
		return
	}
	if err := s.Index.Upsert(ctx, []searchindex.MemberDoc{m.IndexDoc()}); err != nil && s.Log != nil {
		s.Log.Warn("gagal update index anggota", zap.String("member_id", m.MemberID.String()), zap.Error(err))
	}
}
