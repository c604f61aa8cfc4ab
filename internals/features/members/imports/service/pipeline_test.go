package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	memberModel "pdpi_backend/internals/features/members/members/model"
)

/* ===============================
   Fakes
=================================*/

type fakeMembers struct {
	byID    map[uuid.UUID]*memberModel.MemberModel
	inserts int
	updates int
	panicOn string // nama yang memicu panic
	failOn  string // nama yang memicu error biasa
}

func newFakeMembers() *fakeMembers {
	return &fakeMembers{byID: map[uuid.UUID]*memberModel.MemberModel{}}
}

func (f *fakeMembers) Insert(_ context.Context, m *memberModel.MemberModel) error {
	if f.panicOn != "" && m.MemberNama == f.panicOn {
		panic("boom")
	}
	if f.failOn != "" && m.MemberNama == f.failOn {
		return errors.New("koneksi putus")
	}
	if npa := deref(m.MemberNPA); npa != "" {
		for _, e := range f.byID {
			if deref(e.MemberNPA) == npa {
				return ErrDuplicate
			}
		}
	}
	m.MemberID = uuid.New()
	m.RefreshDerived()
	cp := *m
	f.byID[m.MemberID] = &cp
	f.inserts++
	return nil
}

func (f *fakeMembers) FindByNPA(_ context.Context, npa string) (*memberModel.MemberModel, error) {
	for _, e := range f.byID {
		if deref(e.MemberNPA) == npa {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeMembers) FindByNameInstitution(_ context.Context, key, inst string) (*memberModel.MemberModel, error) {
	for _, e := range f.byID {
		if e.MemberNameKey == key && deref(e.MemberTempatTugas) == inst {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeMembers) Update(_ context.Context, m *memberModel.MemberModel) error {
	m.RefreshDerived()
	cp := *m
	f.byID[m.MemberID] = &cp
	f.updates++
	return nil
}

type fakeBranches struct {
	existing     []BranchRef
	creates      []string
	loads        int
	adminLookups int
	adminRef     *BranchRef
}

func (f *fakeBranches) LoadBranches(context.Context) ([]BranchRef, error) {
	f.loads++
	return append([]BranchRef(nil), f.existing...), nil
}

func (f *fakeBranches) CreateBranch(_ context.Context, name string) (BranchRef, error) {
	f.creates = append(f.creates, name)
	ref := BranchRef{ID: uuid.New(), Name: name}
	f.existing = append(f.existing, ref)
	return ref, nil
}

func (f *fakeBranches) AdminBranch(context.Context, Actor) (BranchRef, error) {
	f.adminLookups++
	if f.adminRef == nil {
		return BranchRef{}, ErrNoAdminBranch
	}
	return *f.adminRef, nil
}

func newTestImporter() (*Importer, *fakeMembers, *fakeBranches) {
	members := newFakeMembers()
	branches := &fakeBranches{existing: []BranchRef{{ID: uuid.New(), Name: "Jakarta"}}}
	im := NewImporter(members, branches, nil, zap.NewNop())
	im.Now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return im, members, branches
}

func run(im *Importer, rows []Row, s Settings) ChunkResult {
	return im.ImportChunk(context.Background(), ChunkRequest{Rows: rows, Settings: s})
}

/* ===============================
   Tests
=================================*/

func TestImportCountsAlwaysSumToRows(t *testing.T) {
	im, members, _ := newTestImporter()
	members.panicOn = "Pemicu Panic"
	members.failOn = "Pemicu Error"

	rows := []Row{
		{ColNama: "Budi", ColNPA: "1"},
		{ColNama: "Budi Dua", ColNPA: "1"},         // duplicate
		{ColNama: "  "},                            // invalid
		{ColNama: "Ani", ColCabang: "Tidak Ada"},   // cabangError
		{ColNama: "Pemicu Panic"},                  // systemError (panic)
		{ColNama: "Pemicu Error"},                  // systemError
		{ColNama: "Citra", ColCabang: " jakarta "}, // inserted
	}
	res := run(im, rows, Settings{Mode: ModeInsert})

	assert.Equal(t, len(rows), res.Total())
	assert.Equal(t, len(rows), res.Processed)
	assert.Equal(t, Counts{Inserted: 2, Duplicate: 1, Invalid: 1, CabangError: 1, SystemError: 2}, res.Counts)
	require.Len(t, res.Errors, MaxSampleErrors)
	assert.Equal(t, 2, res.Errors[0].Row)
	assert.Equal(t, OutcomeDuplicate, res.Errors[0].Reason)
	assert.Equal(t, "Budi Dua", res.Errors[0].Payload[ColNama])
}

func TestImportInsertDuplicateNPANotSystemError(t *testing.T) {
	im, members, _ := newTestImporter()
	res := run(im, []Row{{ColNama: "A", ColNPA: "1527"}}, Settings{Mode: ModeInsert})
	require.Equal(t, 1, res.Inserted)

	res = run(im, []Row{{ColNama: "B", ColNPA: "1527"}}, Settings{Mode: ModeInsert})
	assert.Equal(t, 1, res.Duplicate)
	assert.Zero(t, res.SystemError)
	assert.Zero(t, res.Inserted)
	assert.Equal(t, 1, members.inserts)
}

func TestImportCreatesBranchOnceAndReusesIt(t *testing.T) {
	im, _, branches := newTestImporter()
	rows := []Row{
		{ColNama: "A", ColCabang: "Kalimantan Barat"},
		{ColNama: "B", ColCabang: "KALIMANTAN  barat"},
	}
	res := run(im, rows, Settings{Mode: ModeInsert, CreateBranchIfMissing: true})

	assert.Equal(t, 2, res.Inserted)
	assert.Zero(t, res.CabangError)
	assert.Equal(t, []string{"Kalimantan Barat"}, branches.creates)
	assert.Equal(t, 1, branches.loads)
}

func TestImportBranchIndexSharedAcrossChunks(t *testing.T) {
	im, _, branches := newTestImporter()
	idx, err := LoadBranchIndex(context.Background(), branches)
	require.NoError(t, err)

	s := Settings{Mode: ModeInsert, CreateBranchIfMissing: true}
	im.ImportChunk(context.Background(), ChunkRequest{Rows: []Row{{ColNama: "A", ColCabang: "Papua"}}, Settings: s, Branches: idx})
	im.ImportChunk(context.Background(), ChunkRequest{Rows: []Row{{ColNama: "B", ColCabang: "papua"}}, Settings: s, Branches: idx})

	assert.Len(t, branches.creates, 1)
	assert.Equal(t, 1, branches.loads)
}

func TestImportInvalidRowHasNoSideEffects(t *testing.T) {
	im, members, branches := newTestImporter()
	res := run(im, []Row{{ColNama: "", ColCabang: "Cabang Baru", ColNPA: "9"}}, Settings{
		Mode:                  ModeInsert,
		CreateBranchIfMissing: true,
	})
	assert.Equal(t, 1, res.Invalid)
	assert.Empty(t, branches.creates)
	assert.Zero(t, members.inserts)

	res = run(im, []Row{{ColNama: ""}}, Settings{Mode: ModeInsert, ForceAdminBranch: true})
	assert.Equal(t, 1, res.Invalid)
	assert.Zero(t, branches.adminLookups)
}

func TestImportMissingBranchWithoutAutoCreate(t *testing.T) {
	im, members, branches := newTestImporter()
	res := run(im, []Row{{ColNama: "A", ColCabang: "Maluku"}}, Settings{Mode: ModeInsert})
	assert.Equal(t, 1, res.CabangError)
	assert.Empty(t, branches.creates)
	assert.Zero(t, members.inserts)
	assert.Contains(t, res.Errors[0].Detail, "Maluku")
}

func TestImportForceAdminBranch(t *testing.T) {
	im, members, branches := newTestImporter()
	ref := BranchRef{ID: uuid.New(), Name: "Bali"}
	branches.adminRef = &ref

	rows := []Row{
		{ColNama: "A", ColCabang: "Jakarta"},
		{ColNama: "B", ColCabang: "Tidak Ada"},
	}
	res := run(im, rows, Settings{Mode: ModeInsert, ForceAdminBranch: true})
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, 1, branches.adminLookups)
	assert.Zero(t, branches.loads)
	for _, m := range members.byID {
		assert.Equal(t, "Bali", deref(m.MemberCabang))
		assert.Equal(t, ref.ID, *m.MemberCabangID)
	}

	branches.adminRef = nil
	branches.adminLookups = 0
	res = run(im, rows, Settings{Mode: ModeInsert, ForceAdminBranch: true})
	assert.Equal(t, 2, res.CabangError)
	assert.Equal(t, 1, branches.adminLookups)
}

func TestImportUpsert(t *testing.T) {
	im, members, _ := newTestImporter()
	run(im, []Row{
		{ColNama: "Budi", ColNPA: "10", ColNoHP: "0811"},
		{ColNama: "Dr. Ani", ColTempatTugas: "RS Sanglah"},
	}, Settings{Mode: ModeInsert})

	res := run(im, []Row{
		{ColNama: "Budi Santoso", ColNPA: "10"},                              // by NPA
		{ColNama: "ani", ColTempatTugas: "RS Sanglah", ColEmail: "ANI@X.ID"}, // by name+institution
		{ColNama: "Baru"},
	}, Settings{Mode: ModeUpsert})

	assert.Equal(t, Counts{Updated: 2, Inserted: 1}, res.Counts)
	assert.Equal(t, 3, len(members.byID))

	budi, _ := members.FindByNPA(context.Background(), "10")
	require.NotNil(t, budi)
	assert.Equal(t, "Budi Santoso", budi.MemberNama)
	assert.Equal(t, "0811", deref(budi.MemberNoHP), "kolom kosong tidak menimpa data lama")

	ani, _ := members.FindByNameInstitution(context.Background(), "ani", "RS Sanglah")
	require.NotNil(t, ani)
	assert.Equal(t, "ani@x.id", deref(ani.MemberEmail))
}

func TestImportSkip(t *testing.T) {
	im, members, _ := newTestImporter()
	run(im, []Row{{ColNama: "Budi", ColNPA: "10"}}, Settings{Mode: ModeInsert})

	res := run(im, []Row{{ColNama: "Budi", ColNPA: "10"}, {ColNama: "Citra", ColNPA: "11"}}, Settings{Mode: ModeSkip})
	assert.Equal(t, Counts{Duplicate: 1, Inserted: 1}, res.Counts)
	assert.Zero(t, members.updates)
}

func TestImportDefaultsAndRowOffset(t *testing.T) {
	im, members, _ := newTestImporter()
	res := im.ImportChunk(context.Background(), ChunkRequest{
		Rows:      []Row{{ColNama: "A", ColProvinsi: "jabar"}, {ColNama: "B"}, {ColNama: ""}},
		Settings:  Settings{Mode: ModeInsert},
		RowOffset: 100,
	})
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 103, res.Errors[0].Row)

	provs := map[string]bool{}
	for _, m := range members.byID {
		assert.Equal(t, "Unknown", deref(m.MemberTempatTugas))
		provs[deref(m.MemberProvinsi)] = true
	}
	assert.Equal(t, map[string]bool{"Jawa Barat": true, "Unknown": true}, provs)
}

func TestImportErrorSampleCap(t *testing.T) {
	im, _, _ := newTestImporter()
	rows := make([]Row, 0, 12)
	for i := 0; i < 12; i++ {
		rows = append(rows, Row{ColNama: "", ColNPA: fmt.Sprint(i)})
	}
	res := run(im, rows, Settings{Mode: ModeInsert})
	assert.Equal(t, 12, res.Invalid)
	assert.Len(t, res.Errors, MaxSampleErrors)
	assert.Equal(t, 5, res.Errors[4].Row)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" UPSERT ")
	require.NoError(t, err)
	assert.Equal(t, ModeUpsert, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeInsert, m)

	_, err = ParseMode("replace")
	assert.Error(t, err)
}
