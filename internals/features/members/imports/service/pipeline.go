// file: internals/features/members/imports/service/pipeline.go
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pdpi_backend/internals/constants"
	memberModel "pdpi_backend/internals/features/members/members/model"
	province "pdpi_backend/internals/features/members/province/service"
)

/* ===============================
   Settings & outcome
=================================*/

type Mode string

const (
	ModeInsert Mode = "insert"
	ModeUpsert Mode = "upsert"
	ModeSkip   Mode = "skip"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeInsert:
		return ModeInsert, nil
	case ModeUpsert:
		return ModeUpsert, nil
	case ModeSkip:
		return ModeSkip, nil
	}
	return "", fmt.Errorf("mode import tidak dikenal: %q (insert|upsert|skip)", s)
}

type Settings struct {
	Mode                  Mode `json:"mode"`
	CreateBranchIfMissing bool `json:"create_branch_if_missing"`
	ForceAdminBranch      bool `json:"force_admin_branch"`
}

type Outcome string

const (
	OutcomeInserted    Outcome = "inserted"
	OutcomeUpdated     Outcome = "updated"
	OutcomeDuplicate   Outcome = "duplicate"
	OutcomeInvalid     Outcome = "invalid"
	OutcomeCabangError Outcome = "cabangError"
	OutcomeSystemError Outcome = "systemError"
)

// MaxSampleErrors: contoh error yang disimpan per chunk.
const MaxSampleErrors = 5

// Row: kolom kanonik → nilai sel mentah.
type Row map[string]string

type RowError struct {
	Row     int     `json:"row"` // 1-based
	Reason  Outcome `json:"reason"`
	Detail  string  `json:"detail"`
	Payload Row     `json:"payload"`
}

type Counts struct {
	Inserted    int `json:"inserted"`
	Updated     int `json:"updated"`
	Duplicate   int `json:"duplicate"`
	Invalid     int `json:"invalid"`
	CabangError int `json:"cabang_error"`
	SystemError int `json:"system_error"`
}

func (c Counts) Total() int {
	return c.Inserted + c.Updated + c.Duplicate + c.Invalid + c.CabangError + c.SystemError
}

func (c *Counts) Add(o Outcome) {
	switch o {
	case OutcomeInserted:
		c.Inserted++
	case OutcomeUpdated:
		c.Updated++
	case OutcomeDuplicate:
		c.Duplicate++
	case OutcomeInvalid:
		c.Invalid++
	case OutcomeCabangError:
		c.CabangError++
	default:
		c.SystemError++
	}
}

func (c *Counts) Merge(o Counts) {
	c.Inserted += o.Inserted
	c.Updated += o.Updated
	c.Duplicate += o.Duplicate
	c.Invalid += o.Invalid
	c.CabangError += o.CabangError
	c.SystemError += o.SystemError
}

type ChunkResult struct {
	Counts
	Processed int        `json:"processed"`
	Errors    []RowError `json:"errors"`
}

/* ===============================
   Collaborators
=================================*/

// ErrDuplicate dikembalikan MemberStore saat constraint unik dilanggar.
var ErrDuplicate = errors.New("data anggota duplikat")

// ErrNoAdminBranch: admin pelaksana tidak punya cabang.
var ErrNoAdminBranch = errors.New("admin tidak memiliki cabang")

type MemberStore interface {
	Insert(ctx context.Context, m *memberModel.MemberModel) error
	// FindByNPA / FindByNameInstitution: (nil, nil) kalau tidak ada.
	FindByNPA(ctx context.Context, npa string) (*memberModel.MemberModel, error)
	FindByNameInstitution(ctx context.Context, nameKey, institution string) (*memberModel.MemberModel, error)
	Update(ctx context.Context, m *memberModel.MemberModel) error
}

type BranchRef struct {
	ID   uuid.UUID
	Name string
}

type BranchStore interface {
	LoadBranches(ctx context.Context) ([]BranchRef, error)
	CreateBranch(ctx context.Context, name string) (BranchRef, error)
	AdminBranch(ctx context.Context, actor Actor) (BranchRef, error)
}

// Actor: user yang menjalankan import.
type Actor struct {
	UserID   uuid.UUID
	Role     string
	BranchID *uuid.UUID
}

/* ===============================
   Branch index (per chunk)
=================================*/

// BranchIndex: nama cabang (trim+lowercase) → ref. Diisi sekali per chunk lalu
// diperbarui setiap kali pipeline membuat cabang baru.
type BranchIndex struct {
	byKey map[string]BranchRef
}

func branchKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func NewBranchIndex(refs []BranchRef) *BranchIndex {
	idx := &BranchIndex{byKey: make(map[string]BranchRef, len(refs))}
	for _, r := range refs {
		idx.Put(r)
	}
	return idx
}

func LoadBranchIndex(ctx context.Context, store BranchStore) (*BranchIndex, error) {
	refs, err := store.LoadBranches(ctx)
	if err != nil {
		return nil, err
	}
	return NewBranchIndex(refs), nil
}

func (b *BranchIndex) Lookup(name string) (BranchRef, bool) {
	r, ok := b.byKey[branchKey(name)]
	return r, ok
}

func (b *BranchIndex) Put(r BranchRef) {
	if k := branchKey(r.Name); k != "" {
		b.byKey[k] = r
	}
}

func (b *BranchIndex) Len() int { return len(b.byKey) }

/* ===============================
   Importer
=================================*/

type Importer struct {
	Members  MemberStore
	Branches BranchStore
	Resolver *province.Resolver
	Log      *zap.Logger
	Now      func() time.Time
}

func NewImporter(members MemberStore, branches BranchStore, resolver *province.Resolver, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{Members: members, Branches: branches, Resolver: resolver, Log: log, Now: time.Now}
}

type ChunkRequest struct {
	Rows     []Row
	Settings Settings
	Actor    Actor
	// Branches opsional; nil → dimuat dari BranchStore.
	Branches *BranchIndex
	// RowOffset: jumlah baris di chunk sebelumnya (nomor baris tetap global).
	RowOffset int
}

// chunkState: cabang admin di-lookup sekali per chunk (lazy).
type chunkState struct {
	adminBranch    *BranchRef
	adminBranchErr error
	adminLooked    bool
}

// ImportChunk memproses baris satu per satu. Kegagalan satu baris tidak
// menghentikan chunk; counts selalu berjumlah len(req.Rows).
func (im *Importer) ImportChunk(ctx context.Context, req ChunkRequest) ChunkResult {
	res := ChunkResult{Errors: []RowError{}}
	settings := req.Settings
	if settings.Mode == "" {
		settings.Mode = ModeInsert
	}

	idx := req.Branches
	var idxErr error
	if idx == nil && !settings.ForceAdminBranch {
		idx, idxErr = LoadBranchIndex(ctx, im.Branches)
		if idxErr != nil {
			im.Log.Error("gagal memuat daftar cabang", zap.Error(idxErr))
		}
	}

	st := &chunkState{}
	for i, row := range req.Rows {
		rowNo := req.RowOffset + i + 1
		outcome, detail := im.processRow(ctx, row, settings, req.Actor, idx, idxErr, st)
		res.Counts.Add(outcome)
		res.Processed++

		if outcome != OutcomeInserted && outcome != OutcomeUpdated && len(res.Errors) < MaxSampleErrors {
			res.Errors = append(res.Errors, RowError{Row: rowNo, Reason: outcome, Detail: detail, Payload: row})
		}
		if outcome == OutcomeSystemError {
			im.Log.Warn("import: baris gagal", zap.Int("row", rowNo), zap.String("detail", detail))
		}
	}
	return res
}

func (im *Importer) processRow(
	ctx context.Context,
	row Row,
	settings Settings,
	actor Actor,
	idx *BranchIndex,
	idxErr error,
	st *chunkState,
) (outcome Outcome, detail string) {
	defer func() {
		if r := recover(); r != nil {
			im.Log.Error("import: panic", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			outcome, detail = OutcomeSystemError, fmt.Sprintf("panic: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return OutcomeSystemError, err.Error()
	}

	// 1) validasi
	if strings.TrimSpace(row[ColNama]) == "" {
		return OutcomeInvalid, "kolom NAMA wajib diisi"
	}

	// 2) mapping + default
	now := time.Now()
	if im.Now != nil {
		now = im.Now()
	}
	m := ToMember(row, now)
	im.fillDefaults(ctx, m)

	// 3) cabang
	branch, outcome, detail := im.resolveBranch(ctx, row, settings, actor, idx, idxErr, st)
	if outcome != "" {
		return outcome, detail
	}
	if branch != nil {
		id := branch.ID
		name := branch.Name
		m.MemberCabangID = &id
		m.MemberCabang = &name
	}

	// 4) tulis
	return im.write(ctx, m, settings.Mode)
}

func (im *Importer) fillDefaults(ctx context.Context, m *memberModel.MemberModel) {
	unknown := constants.UnknownPlaceholder
	if m.MemberTempatTugas == nil {
		v := unknown
		m.MemberTempatTugas = &v
	}
	prov := ""
	if im.Resolver != nil {
		prov = im.Resolver.Resolve(ctx, deref(m.MemberProvinsi), deref(m.MemberKotaKabupaten))
	} else {
		prov = province.NormalizeProvince(deref(m.MemberProvinsi))
	}
	if prov == "" {
		prov = unknown
	}
	m.MemberProvinsi = &prov
}

// resolveBranch: outcome kosong = lanjut. branch nil = baris tanpa cabang.
func (im *Importer) resolveBranch(
	ctx context.Context,
	row Row,
	settings Settings,
	actor Actor,
	idx *BranchIndex,
	idxErr error,
	st *chunkState,
) (*BranchRef, Outcome, string) {
	if settings.ForceAdminBranch {
		if !st.adminLooked {
			st.adminLooked = true
			ref, err := im.Branches.AdminBranch(ctx, actor)
			if err != nil {
				st.adminBranchErr = err
			} else {
				st.adminBranch = &ref
			}
		}
		if st.adminBranchErr != nil {
			return nil, OutcomeCabangError, "cabang admin: " + st.adminBranchErr.Error()
		}
		return st.adminBranch, "", ""
	}

	name := strings.Join(strings.Fields(row[ColCabang]), " ")
	if name == "" {
		return nil, "", ""
	}
	if idx == nil {
		msg := "daftar cabang tidak tersedia"
		if idxErr != nil {
			msg += ": " + idxErr.Error()
		}
		return nil, OutcomeCabangError, msg
	}
	if ref, ok := idx.Lookup(name); ok {
		return &ref, "", ""
	}
	if !settings.CreateBranchIfMissing {
		return nil, OutcomeCabangError, fmt.Sprintf("cabang %q tidak ditemukan", name)
	}
	ref, err := im.Branches.CreateBranch(ctx, name)
	if err != nil {
		return nil, OutcomeCabangError, fmt.Sprintf("gagal membuat cabang %q: %v", name, err)
	}
	idx.Put(ref)
	return &ref, "", ""
}

func (im *Importer) write(ctx context.Context, m *memberModel.MemberModel, mode Mode) (Outcome, string) {
	switch mode {
	case ModeInsert:
		return im.insert(ctx, m)

	case ModeUpsert, ModeSkip:
		existing, err := im.findExisting(ctx, m)
		if err != nil {
			return OutcomeSystemError, err.Error()
		}
		if existing == nil {
			return im.insert(ctx, m)
		}
		if mode == ModeSkip {
			return OutcomeDuplicate, duplicateDetail(m)
		}
		MergeInto(existing, m)
		if err := im.Members.Update(ctx, existing); err != nil {
			if errors.Is(err, ErrDuplicate) {
				return OutcomeDuplicate, err.Error()
			}
			return OutcomeSystemError, err.Error()
		}
		return OutcomeUpdated, ""
	}
	return OutcomeSystemError, fmt.Sprintf("mode %q tidak dikenal", mode)
}

func (im *Importer) insert(ctx context.Context, m *memberModel.MemberModel) (Outcome, string) {
	if err := im.Members.Insert(ctx, m); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return OutcomeDuplicate, duplicateDetail(m)
		}
		return OutcomeSystemError, err.Error()
	}
	return OutcomeInserted, ""
}

// findExisting: NPA kalau ada, selain itu (nama ternormalisasi, tempat tugas).
func (im *Importer) findExisting(ctx context.Context, m *memberModel.MemberModel) (*memberModel.MemberModel, error) {
	if npa := deref(m.MemberNPA); npa != "" {
		return im.Members.FindByNPA(ctx, npa)
	}
	m.RefreshDerived()
	return im.Members.FindByNameInstitution(ctx, m.MemberNameKey, deref(m.MemberTempatTugas))
}

func duplicateDetail(m *memberModel.MemberModel) string {
	if npa := deref(m.MemberNPA); npa != "" {
		return fmt.Sprintf("NPA %s sudah terdaftar", npa)
	}
	return fmt.Sprintf("anggota %q di %q sudah terdaftar", m.MemberNama, deref(m.MemberTempatTugas))
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
