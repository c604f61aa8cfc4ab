// file: internals/features/members/members/service/member_service.go
package service

import (
	"context"
	"errors"
	"mime/multipart"
	"path"

	"github.com/google/uuid"
	"go.uber.org/zap"

	branchService "pdpi_backend/internals/features/branches/service"
	"pdpi_backend/internals/features/members/members/model"
	"pdpi_backend/internals/features/members/members/repository"
	province "pdpi_backend/internals/features/members/province/service"
	"pdpi_backend/internals/helpers/cache"
	helperOSS "pdpi_backend/internals/helpers/oss"
	"pdpi_backend/internals/helpers/searchindex"
)

var ErrNoStorage = errors.New("storage belum dikonfigurasi")

// MemberService: tulis data anggota + efek sampingnya (index pencarian, cache statistik).
type MemberService struct {
	Repo     *repository.MemberRepository
	Branches *branchService.BranchService
	Resolver *province.Resolver
	Index    searchindex.MemberIndex
	Cache    cache.Cache
	Blob     *helperOSS.BlobService
	Log      *zap.Logger
}

// Prepare melengkapi kolom turunan sebelum simpan:
// provinsi dinormalisasi (atau ditebak dari kota) dan nama cabang diambil dari cabang_id.
func (s *MemberService) Prepare(ctx context.Context, m *model.MemberModel) error {
	m.MemberProvinsi = s.resolveProvince(ctx, m.MemberProvinsi, m.MemberKotaKabupaten)
	m.MemberProvinsiKantor = s.resolveProvince(ctx, m.MemberProvinsiKantor, m.MemberKotaKabupatenKantor)

	if m.MemberCabangID == nil {
		return nil
	}
	b, err := s.Branches.GetByID(ctx, *m.MemberCabangID)
	if err != nil {
		return err
	}
	name := b.BranchName
	m.MemberCabang = &name
	return nil
}

func (s *MemberService) resolveProvince(ctx context.Context, prov, city *string) *string {
	var p, c string
	if prov != nil {
		p = *prov
	}
	if city != nil {
		c = *city
	}
	if p == "" && c == "" {
		return nil
	}
	var out string
	if s.Resolver != nil {
		out = s.Resolver.Resolve(ctx, p, c)
	} else {
		out = province.NormalizeProvince(p)
	}
	if out == "" {
		return nil
	}
	return &out
}

func (s *MemberService) Create(ctx context.Context, m *model.MemberModel) error {
	if err := s.Prepare(ctx, m); err != nil {
		return err
	}
	if err := s.Repo.Create(ctx, m); err != nil {
		return err
	}
	s.afterWrite(ctx, m)
	return nil
}

func (s *MemberService) Update(ctx context.Context, m *model.MemberModel) error {
	if err := s.Prepare(ctx, m); err != nil {
		return err
	}
	if err := s.Repo.Save(ctx, m); err != nil {
		return err
	}
	s.afterWrite(ctx, m)
	return nil
}

func (s *MemberService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.Index.Delete(ctx, id.String()); err != nil {
		s.Log.Warn("hapus dokumen index gagal", zap.String("member_id", id.String()), zap.Error(err))
	}
	s.bumpStats(ctx)
	return nil
}

// SetPhoto: upload webp baru, simpan URL, hapus foto lama (best-effort).
func (s *MemberService) SetPhoto(ctx context.Context, m *model.MemberModel, fh *multipart.FileHeader) error {
	if s.Blob == nil {
		return ErrNoStorage
	}
	url, err := s.Blob.UploadImage(ctx, path.Join("members", m.MemberID.String()), fh, helperOSS.PhotoOptions())
	if err != nil {
		return err
	}
	old := m.MemberFotoURL
	m.MemberFotoURL = &url
	if err := s.Repo.Save(ctx, m); err != nil {
		_ = s.Blob.DeleteByPublicURL(ctx, url)
		return err
	}
	if old != nil && *old != url {
		if err := s.Blob.DeleteByPublicURL(ctx, *old); err != nil {
			s.Log.Warn("hapus foto lama gagal", zap.String("url", *old), zap.Error(err))
		}
	}
	s.afterWrite(ctx, m)
	return nil
}

// Reindex membangun ulang index pencarian dari tabel members.
func (s *MemberService) Reindex(ctx context.Context, batchSize int) (int, error) {
	if !s.Index.Enabled() {
		return 0, nil
	}
	if err := s.Index.EnsureIndex(ctx); err != nil {
		return 0, err
	}
	if err := s.Index.Clear(ctx); err != nil {
		return 0, err
	}
	total := 0
	err := s.Repo.FindInBatches(ctx, batchSize, func(rows []model.MemberModel) error {
		docs := make([]searchindex.MemberDoc, 0, len(rows))
		for i := range rows {
			docs = append(docs, rows[i].IndexDoc())
		}
		if err := s.Index.Upsert(ctx, docs); err != nil {
			return err
		}
		total += len(docs)
		return nil
	})
	if err != nil {
		return total, err
	}
	s.Log.Info("reindex anggota selesai", zap.Int("total", total))
	return total, nil
}

func (s *MemberService) afterWrite(ctx context.Context, m *model.MemberModel) {
	if err := s.Index.Upsert(ctx, []searchindex.MemberDoc{m.IndexDoc()}); err != nil {
		s.Log.Warn("update index gagal", zap.String("member_id", m.MemberID.String()), zap.Error(err))
	}
	s.bumpStats(ctx)
}

func (s *MemberService) bumpStats(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Bump(ctx, cache.NSStats); err != nil {
		s.Log.Warn("invalidate cache statistik gagal", zap.Error(err))
	}
}
