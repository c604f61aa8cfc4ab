package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	branchModel "pdpi_backend/internals/features/branches/model"
	branchService "pdpi_backend/internals/features/branches/service"
	"pdpi_backend/internals/features/members/members/model"
	"pdpi_backend/internals/features/members/members/repository"
	province "pdpi_backend/internals/features/members/province/service"
	"pdpi_backend/internals/helpers/cache"
	"pdpi_backend/internals/helpers/searchindex"
)

type recordingIndex struct {
	searchindex.NoopMemberIndex
	docs    map[string]searchindex.MemberDoc
	cleared int
}

func newRecordingIndex() *recordingIndex {
	return &recordingIndex{docs: map[string]searchindex.MemberDoc{}}
}

func (r *recordingIndex) Enabled() bool { return true }
func (r *recordingIndex) Upsert(_ context.Context, docs []searchindex.MemberDoc) error {
	for _, d := range docs {
		r.docs[d.ID] = d
	}
	return nil
}
func (r *recordingIndex) Delete(_ context.Context, ids ...string) error {
	for _, id := range ids {
		delete(r.docs, id)
	}
	return nil
}
func (r *recordingIndex) Clear(context.Context) error {
	r.cleared++
	r.docs = map[string]searchindex.MemberDoc{}
	return nil
}

func newTestService(t *testing.T) (*MemberService, *recordingIndex, cache.Cache) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&branchModel.BranchModel{}, &model.MemberModel{}))

	cities := province.NewCityLookup(province.CityLoaderFunc(func(context.Context) (*province.CityTable, error) {
		return province.NewCityTable([]province.CityEntry{{City: "Medan", Province: "sumut"}}), nil
	}), zap.NewNop())

	idx := newRecordingIndex()
	c := cache.NewMemoryCache()
	return &MemberService{
		Repo:     repository.NewMemberRepository(db),
		Branches: branchService.NewBranchService(db),
		Resolver: province.NewResolver(cities),
		Index:    idx,
		Cache:    c,
		Log:      zap.NewNop(),
	}, idx, c
}

func str(s string) *string { return &s }

func TestCreateResolvesProvinceAndBranch(t *testing.T) {
	svc, idx, c := newTestService(t)
	ctx := context.Background()

	b := &branchModel.BranchModel{BranchName: "Sumatera Utara"}
	require.NoError(t, svc.Branches.Create(ctx, b))

	gen0, err := c.Generation(ctx, cache.NSStats)
	require.NoError(t, err)

	m := &model.MemberModel{
		MemberNama:                "Rina",
		MemberProvinsi:            str("jabar"),
		MemberKotaKabupatenKantor: str("Medan"),
		MemberCabangID:            &b.BranchID,
	}
	require.NoError(t, svc.Create(ctx, m))

	assert.Equal(t, "Jawa Barat", *m.MemberProvinsi)
	require.NotNil(t, m.MemberProvinsiKantor)
	assert.Equal(t, "Sumatera Utara", *m.MemberProvinsiKantor, "ditebak dari kota kantor")
	assert.Equal(t, "Sumatera Utara", *m.MemberCabang)

	doc, ok := idx.docs[m.MemberID.String()]
	require.True(t, ok)
	assert.Equal(t, "Jawa Barat", doc.Provinsi)

	gen1, err := c.Generation(ctx, cache.NSStats)
	require.NoError(t, err)
	assert.Greater(t, gen1, gen0)
}

func TestCreateUnknownBranch(t *testing.T) {
	svc, idx, _ := newTestService(t)
	id := uuid.New()
	err := svc.Create(context.Background(), &model.MemberModel{MemberNama: "X", MemberCabangID: &id})
	assert.ErrorIs(t, err, branchService.ErrBranchNotFound)
	assert.Empty(t, idx.docs)
}

func TestDeleteRemovesFromIndex(t *testing.T) {
	svc, idx, _ := newTestService(t)
	ctx := context.Background()
	m := &model.MemberModel{MemberNama: "Rina"}
	require.NoError(t, svc.Create(ctx, m))
	require.Len(t, idx.docs, 1)

	require.NoError(t, svc.Delete(ctx, m.MemberID))
	assert.Empty(t, idx.docs)
	assert.ErrorIs(t, svc.Delete(ctx, m.MemberID), repository.ErrMemberNotFound)
}

func TestReindex(t *testing.T) {
	svc, idx, _ := newTestService(t)
	ctx := context.Background()
	for _, n := range []string{"A", "B", "C"} {
		require.NoError(t, svc.Repo.Create(ctx, &model.MemberModel{MemberNama: n}))
	}
	n, err := svc.Reindex(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Len(t, idx.docs, 3)
	assert.Equal(t, 1, idx.cleared)
}

func TestSetPhotoWithoutStorage(t *testing.T) {
	svc, _, _ := newTestService(t)
	err := svc.SetPhoto(context.Background(), &model.MemberModel{}, nil)
	assert.ErrorIs(t, err, ErrNoStorage)
}
