package repository

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

	"pdpi_backend/internals/features/members/members/model"
	search "pdpi_backend/internals/features/members/search/service"
	helper "pdpi_backend/internals/helpers"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.MemberModel{}))
	return db
}

func str(s string) *string { return &s }

func seed(t *testing.T, repo *MemberRepository, members ...model.MemberModel) []model.MemberModel {
	t.Helper()
	for i := range members {
		require.NoError(t, repo.Create(context.Background(), &members[i]))
	}
	return members
}

func names(rows []model.MemberModel) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.MemberNama)
	}
	return out
}

func TestListDefaultExcludesStatuses(t *testing.T) {
	repo := NewMemberRepository(openTestDB(t))
	seed(t, repo,
		model.MemberModel{MemberNama: "Ani", MemberStatus: str("Biasa")},
		model.MemberModel{MemberNama: "Budi", MemberStatus: str("Meninggal")},
		model.MemberModel{MemberNama: "Citra"},
	)

	rows, total, err := repo.List(context.Background(), ListQuery{}, "", helper.Paging{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, []string{"Ani", "Citra"}, names(rows))

	rows, _, err = repo.List(context.Background(),
		ListQuery{Filter: search.MemberFilter{Status: []string{"Meninggal"}}}, "", helper.Paging{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"Budi"}, names(rows))
}

func TestListSearchAndFilter(t *testing.T) {
	repo := NewMemberRepository(openTestDB(t))
	seed(t, repo,
		model.MemberModel{MemberNama: "Budi Santoso", MemberNPA: str("1527"), MemberKotaKabupaten: str("Bandung"), MemberProvinsi: str("Jawa Barat"), MemberEmail: str("budi@x.id")},
		model.MemberModel{MemberNama: "Budiman", MemberKotaKabupaten: str("Surabaya"), MemberProvinsi: str("Jawa Timur")},
		model.MemberModel{MemberNama: "Sari", MemberTempatTugas: str("RS Budi Kemuliaan"), MemberProvinsi: str("DKI Jakarta")},
	)
	ctx := context.Background()
	page := helper.Paging{Page: 1, PerPage: 10}

	rows, _, err := repo.List(ctx, ListQuery{Q: "budi"}, "", page)
	require.NoError(t, err)
	assert.Equal(t, []string{"Budi Santoso", "Budiman", "Sari"}, names(rows))

	rows, _, err = repo.List(ctx, ListQuery{Q: "budi kota:bandung"}, "", page)
	require.NoError(t, err)
	assert.Equal(t, []string{"Budi Santoso"}, names(rows))

	rows, _, err = repo.List(ctx, ListQuery{Q: "1527"}, "", page)
	require.NoError(t, err)
	assert.Equal(t, []string{"Budi Santoso"}, names(rows))

	rows, _, err = repo.List(ctx, ListQuery{Filter: search.MemberFilter{Provinsi: []string{"Jawa Timur", "DKI Jakarta"}}}, "", page)
	require.NoError(t, err)
	assert.Equal(t, []string{"Budiman", "Sari"}, names(rows))

	rows, _, err = repo.List(ctx, ListQuery{Filter: search.MemberFilter{NameLetters: []string{"s"}}}, "", page)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sari"}, names(rows))
}

func TestListAdminOnlyFieldIgnoredForPublic(t *testing.T) {
	repo := NewMemberRepository(openTestDB(t))
	seed(t, repo,
		model.MemberModel{MemberNama: "Ani", MemberEmail: str("ani@rs.id")},
		model.MemberModel{MemberNama: "Dewi", MemberEmail: str("dewi@rs.id")},
	)
	ctx := context.Background()
	page := helper.Paging{Page: 1, PerPage: 10}

	rows, _, err := repo.List(ctx, ListQuery{Q: "email:ani"}, "", page)
	require.NoError(t, err)
	assert.Len(t, rows, 2, "publik: email:… dibuang")

	rows, _, err = repo.List(ctx, ListQuery{Q: "email:ani", IsAdmin: true}, "", page)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ani"}, names(rows))
}

func TestListBranchScopeAndPaging(t *testing.T) {
	repo := NewMemberRepository(openTestDB(t))
	b1, b2 := uuid.New(), uuid.New()
	for i := 0; i < 5; i++ {
		seed(t, repo, model.MemberModel{MemberNama: fmt.Sprintf("A%d", i), MemberCabangID: &b1})
	}
	seed(t, repo, model.MemberModel{MemberNama: "B0", MemberCabangID: &b2})

	rows, total, err := repo.List(context.Background(), ListQuery{IsAdmin: true, BranchID: &b1}, "", helper.Paging{Page: 2, PerPage: 2, Offset: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Equal(t, []string{"A2", "A3"}, names(rows))
}

func TestCreateDuplicateNPA(t *testing.T) {
	repo := NewMemberRepository(openTestDB(t))
	seed(t, repo, model.MemberModel{MemberNama: "Ani", MemberNPA: str("9")})
	err := repo.Create(context.Background(), &model.MemberModel{MemberNama: "Ana", MemberNPA: str("9")})
	assert.ErrorIs(t, err, ErrNPAExists)
}

func TestGetDeleteAndBatches(t *testing.T) {
	repo := NewMemberRepository(openTestDB(t))
	ms := seed(t, repo,
		model.MemberModel{MemberNama: "Ani"},
		model.MemberModel{MemberNama: "Budi"},
		model.MemberModel{MemberNama: "Citra"},
	)
	ctx := context.Background()

	got, err := repo.GetByID(ctx, ms[1].MemberID)
	require.NoError(t, err)
	assert.Equal(t, "budi", got.MemberNameKey)

	require.NoError(t, repo.Delete(ctx, ms[1].MemberID))
	_, err = repo.GetByID(ctx, ms[1].MemberID)
	assert.ErrorIs(t, err, ErrMemberNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, ms[1].MemberID), ErrMemberNotFound)

	var seen []string
	var batches int
	require.NoError(t, repo.FindInBatches(ctx, 1, func(rows []model.MemberModel) error {
		batches++
		seen = append(seen, names(rows)...)
		return nil
	}))
	assert.ElementsMatch(t, []string{"Ani", "Citra"}, seen)
	assert.Equal(t, 2, batches)
}

func TestStatsRowsAndDistinct(t *testing.T) {
	repo := NewMemberRepository(openTestDB(t))
	seed(t, repo,
		model.MemberModel{MemberNama: "Ani", MemberProvinsi: str("Bali"), MemberCabang: str("Bali"), MemberJenisKelamin: str("P")},
		model.MemberModel{MemberNama: "Budi", MemberKotaKabupatenKantor: str("Medan"), MemberCabang: str("Sumut")},
	)
	ctx := context.Background()

	rows, err := repo.StatsRows(ctx, ListQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	vals, err := repo.DistinctValues(ctx, "member_cabang")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bali", "Sumut"}, vals)

	_, err = repo.DistinctValues(ctx, "member_email")
	assert.Error(t, err)
}
