package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	branchModel "pdpi_backend/internals/features/branches/model"
	memberModel "pdpi_backend/internals/features/members/members/model"
	"pdpi_backend/internals/helpers/searchindex"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&branchModel.BranchModel{}, &memberModel.MemberModel{}))
	return db
}

type recordingIndex struct {
	searchindex.NoopMemberIndex
	docs []searchindex.MemberDoc
}

func (r *recordingIndex) Enabled() bool { return true }
func (r *recordingIndex) Upsert(_ context.Context, docs []searchindex.MemberDoc) error {
	r.docs = append(r.docs, docs...)
	return nil
}

func TestGormStoresEndToEnd(t *testing.T) {
	db := openTestDB(t)
	idx := &recordingIndex{}
	members := &IndexingMemberStore{MemberStore: NewGormMemberStore(db), Index: idx, Log: zap.NewNop()}
	im := NewImporter(members, NewGormBranchStore(db), nil, zap.NewNop())

	rows := []Row{
		{ColNama: "Budi", ColNPA: "1527", ColCabang: "Jawa Barat"},
		{ColNama: "Budi Lain", ColNPA: "1527", ColCabang: "jawa barat"},
		{ColNama: "Ani", ColCabang: "JAWA BARAT"},
	}
	res := im.ImportChunk(context.Background(), ChunkRequest{
		Rows:     rows,
		Settings: Settings{Mode: ModeInsert, CreateBranchIfMissing: true},
	})

	assert.Equal(t, Counts{Inserted: 2, Duplicate: 1}, res.Counts)

	var branchCount int64
	require.NoError(t, db.Model(&branchModel.BranchModel{}).Count(&branchCount).Error)
	assert.EqualValues(t, 1, branchCount)

	var saved memberModel.MemberModel
	require.NoError(t, db.First(&saved, "member_npa = ?", "1527").Error)
	assert.Equal(t, "budi", saved.MemberNameKey)
	assert.Equal(t, "Jawa Barat", *saved.MemberCabang)
	assert.Contains(t, saved.MemberSearchText, "budi")

	// hanya baris yang berhasil yang masuk index
	assert.Len(t, idx.docs, 2)

	// upsert lewat store gorm
	res = im.ImportChunk(context.Background(), ChunkRequest{
		Rows:     []Row{{ColNama: "Budi Santoso", ColNPA: "1527", ColKota: "Bandung"}},
		Settings: Settings{Mode: ModeUpsert},
	})
	assert.Equal(t, 1, res.Updated)
	require.NoError(t, db.First(&saved, "member_npa = ?", "1527").Error)
	assert.Equal(t, "Budi Santoso", saved.MemberNama)
	assert.Equal(t, "budi santoso", saved.MemberNameKey)
	assert.Equal(t, "Jawa Barat", *saved.MemberCabang)
}

func TestGormUpsertRestoresSoftDeletedNPA(t *testing.T) {
	db := openTestDB(t)
	im := NewImporter(NewGormMemberStore(db), NewGormBranchStore(db), nil, zap.NewNop())
	ctx := context.Background()

	npa := "9001"
	old := &memberModel.MemberModel{MemberNama: "Budi", MemberNPA: &npa}
	require.NoError(t, db.Create(old).Error)
	require.NoError(t, db.Delete(old).Error)

	// skip: baris lama tetap terhapus
	res := im.ImportChunk(ctx, ChunkRequest{
		Rows:     []Row{{ColNama: "Budi Baru", ColNPA: "9001"}},
		Settings: Settings{Mode: ModeSkip},
	})
	assert.Equal(t, Counts{Duplicate: 1}, res.Counts)

	res = im.ImportChunk(ctx, ChunkRequest{
		Rows:     []Row{{ColNama: "Budi Baru", ColNPA: "9001"}},
		Settings: Settings{Mode: ModeUpsert},
	})
	assert.Equal(t, Counts{Updated: 1}, res.Counts)

	var saved memberModel.MemberModel
	require.NoError(t, db.First(&saved, "member_npa = ?", "9001").Error)
	assert.Equal(t, old.MemberID, saved.MemberID)
	assert.Equal(t, "Budi Baru", saved.MemberNama)
	assert.False(t, saved.MemberDeletedAt.Valid)

	var total int64
	require.NoError(t, db.Unscoped().Model(&memberModel.MemberModel{}).Count(&total).Error)
	assert.EqualValues(t, 1, total)
}
