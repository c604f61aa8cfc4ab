// file: internals/helpers/oss/oss_file_service.go
package helper

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"pdpi_backend/internals/configs"
	helpers "pdpi_backend/internals/helpers"
)

/*
BlobService adalah facade upload/hapus yang seragam untuk controller.
  - UploadImage: re-encode ke webp (foto anggota, sampul e-book)
  - UploadFile: simpan apa adanya (pdf e-book, bukti transfer) dengan whitelist ekstensi
*/
type BlobService struct {
	Store   Storage
	MaxSize int64
	now     func() time.Time
}

func NewBlobService(store Storage) *BlobService {
	return &BlobService{
		Store:   store,
		MaxSize: int64(configs.GetEnvInt("UPLOAD_MAX_MB", 20)) << 20,
		now:     time.Now,
	}
}

var ErrFileTooLarge = errors.New("file terlalu besar")

// UploadImage mengembalikan public URL objek .webp
func (b *BlobService) UploadImage(ctx context.Context, dir string, fh *multipart.FileHeader, opt WebPOptions) (string, error) {
	all, err := b.readAll(fh)
	if err != nil {
		return "", err
	}
	data, err := ConvertToWebP(all, fh.Filename, opt)
	if err != nil {
		if errors.Is(err, ErrUnsupportedImage) {
			return "", fiber.NewError(fiber.StatusUnsupportedMediaType, err.Error())
		}
		return "", fmt.Errorf("convert webp: %w", err)
	}
	key := b.BuildObjectKey(dir, strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename))+".webp")
	if err := b.Store.Put(ctx, key, bytes.NewReader(data), "image/webp"); err != nil {
		return "", err
	}
	return b.Store.PublicURL(key), nil
}

// UploadFile menyimpan file mentah; allowedExt kosong = semua ekstensi.
func (b *BlobService) UploadFile(ctx context.Context, dir string, fh *multipart.FileHeader, allowedExt ...string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if len(allowedExt) > 0 && !containsExt(allowedExt, ext) {
		return "", fiber.NewError(fiber.StatusUnsupportedMediaType,
			fmt.Sprintf("ekstensi %s tidak diizinkan (%s)", ext, strings.Join(allowedExt, ", ")))
	}
	all, err := b.readAll(fh)
	if err != nil {
		return "", err
	}
	key := b.BuildObjectKey(dir, fh.Filename)
	if err := b.Store.Put(ctx, key, bytes.NewReader(all), detectContentType(all, ext)); err != nil {
		return "", err
	}
	return b.Store.PublicURL(key), nil
}

// DeleteByPublicURL: URL kosong / asing diabaikan.
func (b *BlobService) DeleteByPublicURL(ctx context.Context, publicURL string) error {
	if strings.TrimSpace(publicURL) == "" {
		return nil
	}
	key, err := b.Store.KeyFromURL(publicURL)
	if err != nil {
		return nil
	}
	return b.Store.Delete(ctx, key)
}

func (b *BlobService) readAll(fh *multipart.FileHeader) ([]byte, error) {
	if fh == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "File tidak ditemukan")
	}
	if b.MaxSize > 0 && fh.Size > b.MaxSize {
		return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("%s (maks %d MB)", ErrFileTooLarge.Error(), b.MaxSize>>20))
	}
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer src.Close()
	all, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "File kosong")
	}
	return all, nil
}

// BuildObjectKey: <dir>/<slug>_<yyyymmdd_hhmmss>_<rand6><ext>
func (b *BlobService) BuildObjectKey(dir, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := helpers.Slugify(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)), 60)
	name := fmt.Sprintf("%s_%s_%s%s", base, b.now().Format("20060102_150405"), randHex(3), ext)
	dir = strings.Trim(dir, "/")
	if dir == "" {
		return name
	}
	return path.Join(dir, name)
}

func randHex(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func containsExt(list []string, ext string) bool {
	for _, e := range list {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// detectContentType: dari ekstensi dulu, fallback sniff 512B.
func detectContentType(all []byte, ext string) string {
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	return http.DetectContentType(head)
}

/* ===============================
   Helper kecil untuk controller
=================================*/

// IsMultipart menilai request multipart/form-data
func IsMultipart(c *fiber.Ctx) bool {
	ct := strings.ToLower(strings.TrimSpace(c.Get(fiber.HeaderContentType)))
	return strings.HasPrefix(ct, "multipart/form-data")
}

// GetFormFile mencari file dari beberapa kemungkinan field form.
// Tidak ada file → (nil, nil) supaya controller bisa fallback.
func GetFormFile(c *fiber.Ctx, fieldNames ...string) (*multipart.FileHeader, error) {
	if !IsMultipart(c) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Gunakan multipart/form-data")
	}
	for _, fn := range fieldNames {
		if fh, err := c.FormFile(fn); err == nil && fh != nil {
			return fh, nil
		}
	}
	return nil, nil
}

func init() {
	_ = mime.AddExtensionType(".webp", "image/webp")
	_ = mime.AddExtensionType(".epub", "application/epub+zip")
}
