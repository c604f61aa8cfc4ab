package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pdpi_backend/internals/features/branches/model"
	memberModel "pdpi_backend/internals/features/members/members/model"
)

func newTestBranches(t *testing.T) *BranchService {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.BranchModel{}, &memberModel.MemberModel{}))
	return NewBranchService(db)
}

func TestCreateBranchCodeAndUniqueName(t *testing.T) {
	s := newTestBranches(t)
	ctx := context.Background()

	b := &model.BranchModel{BranchName: "  Jawa   Barat "}
	require.NoError(t, s.Create(ctx, b))
	assert.Equal(t, "Jawa Barat", b.BranchName)
	assert.Equal(t, "jawa-barat", b.BranchCode)
	assert.True(t, b.BranchIsActive)

	err := s.Create(ctx, &model.BranchModel{BranchName: "JAWA BARAT"})
	assert.ErrorIs(t, err, ErrBranchExists)

	assert.ErrorIs(t, s.Create(ctx, &model.BranchModel{BranchName: "  "}), ErrBranchName)

	got, err := s.FindByName(ctx, "jawa barat")
	require.NoError(t, err)
	assert.Equal(t, b.BranchID, got.BranchID)
}

func TestUpdateBranchRenamesMembers(t *testing.T) {
	s := newTestBranches(t)
	ctx := context.Background()

	b := &model.BranchModel{BranchName: "Jabar"}
	require.NoError(t, s.Create(ctx, b))
	old := "Jabar"
	m := &memberModel.MemberModel{MemberNama: "Budi", MemberCabangID: &b.BranchID, MemberCabang: &old}
	require.NoError(t, s.DB.Create(m).Error)

	b.BranchName = "Jawa Barat"
	require.NoError(t, s.Update(ctx, b))

	var reloaded memberModel.MemberModel
	require.NoError(t, s.DB.First(&reloaded, "member_id = ?", m.MemberID).Error)
	require.NotNil(t, reloaded.MemberCabang)
	assert.Equal(t, "Jawa Barat", *reloaded.MemberCabang)

	// masih ada anggota → tidak boleh dihapus
	assert.ErrorIs(t, s.Delete(ctx, b.BranchID), ErrBranchInUse)
}

func TestDeleteBranch(t *testing.T) {
	s := newTestBranches(t)
	ctx := context.Background()

	b := &model.BranchModel{BranchName: "Bali"}
	require.NoError(t, s.Create(ctx, b))
	require.NoError(t, s.Delete(ctx, b.BranchID))
	assert.ErrorIs(t, s.Delete(ctx, b.BranchID), ErrBranchNotFound)

	_, err := s.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrBranchNotFound)

	rows, err := s.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
