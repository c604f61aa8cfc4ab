// file: internals/features/ebooks/service/ebook_service.go
package service

import (
	"context"
	"errors"
	"mime/multipart"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pdpi_backend/internals/features/ebooks/model"
	helper "pdpi_backend/internals/helpers"
	helperOSS "pdpi_backend/internals/helpers/oss"
)

var (
	ErrEbookNotFound = errors.New("e-book tidak ditemukan")
	ErrFileRequired  = errors.New("file PDF wajib diunggah")
	ErrNoStorage     = errors.New("penyimpanan file belum dikonfigurasi")
)

var slugScope = helper.SlugScope{
	Table:      "ebooks",
	Column:     "ebook_slug",
	SoftDelete: "ebook_deleted_at",
	MaxLen:     120,
	Fallback:   "ebook",
}

type EbookService struct {
	DB   *gorm.DB
	Blob *helperOSS.BlobService
	Log  *zap.Logger
}

func NewEbookService(db *gorm.DB, blob *helperOSS.BlobService, log *zap.Logger) *EbookService {
	return &EbookService{DB: db, Blob: blob, Log: log}
}

// Files: upload opsional saat create/update.
type Files struct {
	PDF   *multipart.FileHeader
	Cover *multipart.FileHeader
}

// upload menyimpan PDF/cover lalu mengisi URL di e; URL yang baru dibuat dikembalikan
// supaya bisa dibersihkan kalau simpan DB gagal.
func (s *EbookService) upload(ctx context.Context, e *model.EbookModel, f Files) ([]string, error) {
	if f.PDF == nil && f.Cover == nil {
		return nil, nil
	}
	if s.Blob == nil {
		return nil, ErrNoStorage
	}
	dir := path.Join("ebooks", e.EbookID.String())
	var created []string
	if f.PDF != nil {
		url, err := s.Blob.UploadFile(ctx, dir, f.PDF, ".pdf")
		if err != nil {
			return created, err
		}
		created = append(created, url)
		e.EbookFileURL = url
		e.EbookFileSize = f.PDF.Size
	}
	if f.Cover != nil {
		url, err := s.Blob.UploadImage(ctx, dir, f.Cover, helperOSS.CoverOptions())
		if err != nil {
			return created, err
		}
		created = append(created, url)
		e.EbookCoverURL = &url
	}
	return created, nil
}

func (s *EbookService) cleanup(ctx context.Context, urls []string) {
	for _, u := range urls {
		if err := s.Blob.DeleteByPublicURL(ctx, u); err != nil {
			s.Log.Warn("hapus file e-book gagal", zap.String("url", u), zap.Error(err))
		}
	}
}

func (s *EbookService) Create(ctx context.Context, e *model.EbookModel, f Files) error {
	if f.PDF == nil {
		return ErrFileRequired
	}
	if e.EbookID == uuid.Nil {
		e.EbookID = uuid.New()
	}
	slug, err := helper.UniqueSlug(ctx, s.DB, slugScope, e.EbookTitle)
	if err != nil {
		return err
	}
	e.EbookSlug = slug

	created, err := s.upload(ctx, e, f)
	if err != nil {
		s.cleanup(ctx, created)
		return err
	}
	if err := s.DB.WithContext(ctx).Create(e).Error; err != nil {
		s.cleanup(ctx, created)
		return err
	}
	return nil
}

// Update menyimpan perubahan metadata; file lama dihapus setelah file baru tersimpan.
func (s *EbookService) Update(ctx context.Context, e *model.EbookModel, f Files) error {
	oldFile := e.EbookFileURL
	var oldCover string
	if e.EbookCoverURL != nil {
		oldCover = *e.EbookCoverURL
	}

	created, err := s.upload(ctx, e, f)
	if err != nil {
		s.cleanup(ctx, created)
		return err
	}
	if err := s.DB.WithContext(ctx).Save(e).Error; err != nil {
		s.cleanup(ctx, created)
		return err
	}

	var stale []string
	if f.PDF != nil && oldFile != "" && oldFile != e.EbookFileURL {
		stale = append(stale, oldFile)
	}
	if f.Cover != nil && oldCover != "" {
		stale = append(stale, oldCover)
	}
	if len(stale) > 0 {
		s.cleanup(ctx, stale)
	}
	return nil
}

// Delete: soft delete; file di storage dibiarkan agar bisa dipulihkan.
func (s *EbookService) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Delete(&model.EbookModel{}, "ebook_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEbookNotFound
	}
	return nil
}

func (s *EbookService) Get(ctx context.Context, id uuid.UUID, publishedOnly bool) (*model.EbookModel, error) {
	q := s.DB.WithContext(ctx).Where("ebook_id = ?", id)
	if publishedOnly {
		q = q.Where("ebook_is_published = ?", true)
	}
	var e model.EbookModel
	if err := q.First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEbookNotFound
		}
		return nil, err
	}
	return &e, nil
}

type ListFilter struct {
	Q             string // judul / penulis / kategori
	Category      string
	PublishedOnly bool
}

func (s *EbookService) List(ctx context.Context, f ListFilter, p helper.Paging, order string) ([]model.EbookModel, int64, error) {
	like := "ILIKE"
	if s.DB.Dialector.Name() != "postgres" {
		like = "LIKE"
	}
	q := s.DB.WithContext(ctx).Model(&model.EbookModel{})
	if f.PublishedOnly {
		q = q.Where("ebook_is_published = ?", true)
	}
	if needle := strings.TrimSpace(f.Q); needle != "" {
		pat := "%" + escapeLike(needle) + "%"
		q = q.Where("(ebook_title "+like+" ? ESCAPE '\\' OR ebook_author "+like+" ? ESCAPE '\\' OR ebook_category "+like+" ? ESCAPE '\\')",
			pat, pat, pat)
	}
	if cat := strings.TrimSpace(f.Category); cat != "" {
		q = q.Where("LOWER(ebook_category) = LOWER(?)", cat)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if order == "" {
		order = "ebook_created_at DESC"
	}
	var rows []model.EbookModel
	err := q.Order(order).Limit(p.PerPage).Offset(p.Offset).Find(&rows).Error
	return rows, total, err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
