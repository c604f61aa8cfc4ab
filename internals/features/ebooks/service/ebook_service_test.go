package service

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pdpi_backend/internals/features/ebooks/model"
	helper "pdpi_backend/internals/helpers"
	helperOSS "pdpi_backend/internals/helpers/oss"
)

func newTestService(t *testing.T) (*EbookService, string) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.EbookModel{}))

	root := t.TempDir()
	blob := helperOSS.NewBlobService(helperOSS.NewLocalStorage(root, "/uploads"))
	return NewEbookService(db, blob, zap.NewNop()), root
}

// fileHeader membangun *multipart.FileHeader seperti hasil parse form.
func fileHeader(t *testing.T, field, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field][0]
}

func localPath(root, url string) string {
	return filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(url, "/uploads/")))
}

func TestCreateRequiresPDF(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.Create(context.Background(), &model.EbookModel{EbookTitle: "Panduan"}, Files{})
	assert.ErrorIs(t, err, ErrFileRequired)
}

func TestCreateStoresFileAndUniqueSlug(t *testing.T) {
	svc, root := newTestService(t)
	ctx := context.Background()
	pdf := []byte("%PDF-1.4 isi")

	a := &model.EbookModel{EbookTitle: "Panduan Asma 2024", EbookIsPublished: true}
	require.NoError(t, svc.Create(ctx, a, Files{PDF: fileHeader(t, "file", "asma.pdf", pdf)}))
	assert.Equal(t, "panduan-asma-2024", a.EbookSlug)
	assert.Equal(t, int64(len(pdf)), a.EbookFileSize)

	got, err := os.ReadFile(localPath(root, a.EbookFileURL))
	require.NoError(t, err)
	assert.Equal(t, pdf, got)

	b := &model.EbookModel{EbookTitle: "Panduan Asma 2024", EbookIsPublished: true}
	require.NoError(t, svc.Create(ctx, b, Files{PDF: fileHeader(t, "file", "asma.pdf", pdf)}))
	assert.Equal(t, "panduan-asma-2024-2", b.EbookSlug)
}

func TestCreateRejectsNonPDF(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.Create(context.Background(), &model.EbookModel{EbookTitle: "X"},
		Files{PDF: fileHeader(t, "file", "x.docx", []byte("bukan pdf"))})
	require.Error(t, err)

	var n int64
	svc.DB.Model(&model.EbookModel{}).Count(&n)
	assert.Zero(t, n)
}

func TestUpdateReplacesFile(t *testing.T) {
	svc, root := newTestService(t)
	ctx := context.Background()

	e := &model.EbookModel{EbookTitle: "GOLD COPD", EbookIsPublished: true}
	require.NoError(t, svc.Create(ctx, e, Files{PDF: fileHeader(t, "file", "v1.pdf", []byte("%PDF v1"))}))
	oldURL := e.EbookFileURL

	require.NoError(t, svc.Update(ctx, e, Files{PDF: fileHeader(t, "file", "v2.pdf", []byte("%PDF v2"))}))
	assert.NotEqual(t, oldURL, e.EbookFileURL)

	_, err := os.Stat(localPath(root, oldURL))
	assert.True(t, os.IsNotExist(err), "file lama dihapus")
	_, err = os.Stat(localPath(root, e.EbookFileURL))
	assert.NoError(t, err)
}

func TestListSearchAndPublished(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	author := "Tim Pokja Asma"
	cat := "Pedoman"
	rows := []model.EbookModel{
		{EbookTitle: "Pedoman Asma", EbookSlug: "pedoman-asma", EbookAuthor: &author, EbookCategory: &cat, EbookFileURL: "/u/1.pdf", EbookIsPublished: true},
		{EbookTitle: "Tuberkulosis Paru", EbookSlug: "tb-paru", EbookCategory: &cat, EbookFileURL: "/u/2.pdf", EbookIsPublished: true},
		{EbookTitle: "Draft Asma", EbookSlug: "draft-asma", EbookFileURL: "/u/3.pdf"},
	}
	for i := range rows {
		require.NoError(t, svc.DB.Create(&rows[i]).Error)
	}
	require.NoError(t, svc.DB.Model(&rows[2]).Update("ebook_is_published", false).Error)

	p := helper.Paging{Page: 1, PerPage: 20}

	got, total, err := svc.List(ctx, ListFilter{Q: "asma", PublishedOnly: true}, p, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Pedoman Asma", got[0].EbookTitle)

	_, total, err = svc.List(ctx, ListFilter{Q: "asma"}, p, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, total, "admin melihat draft")

	_, total, err = svc.List(ctx, ListFilter{Q: "pokja", PublishedOnly: true}, p, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total, "cari di penulis")

	_, total, err = svc.List(ctx, ListFilter{Category: "pedoman", PublishedOnly: true}, p, "ebook_title ASC")
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	_, err = svc.Get(ctx, rows[2].EbookID, true)
	assert.ErrorIs(t, err, ErrEbookNotFound)
}

func TestDeleteMissing(t *testing.T) {
	svc, _ := newTestService(t)
	e := &model.EbookModel{EbookTitle: "A", EbookSlug: "a", EbookFileURL: "/u/a.pdf"}
	require.NoError(t, svc.DB.Create(e).Error)
	require.NoError(t, svc.Delete(context.Background(), e.EbookID))
	assert.ErrorIs(t, svc.Delete(context.Background(), e.EbookID), ErrEbookNotFound)
}
