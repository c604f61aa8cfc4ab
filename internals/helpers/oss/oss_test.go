package helper

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 120, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestConvertToWebPSquare(t *testing.T) {
	out, err := ConvertToWebP(pngBytes(t, 1200, 900), "foto.png", WebPOptions{MaxW: 800, MaxH: 800, Square: true})
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 800, cfg.Height)
}

func TestConvertToWebPKeepAspect(t *testing.T) {
	out, err := ConvertToWebP(pngBytes(t, 400, 200), "cover.png", WebPOptions{MaxW: 100, MaxH: 100})
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestConvertToWebPSmallPhotoNotUpscaled(t *testing.T) {
	out, err := ConvertToWebP(pngBytes(t, 300, 200), "kecil.png", WebPOptions{MaxW: 800, MaxH: 800, Square: true})
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Width)
}

func TestConvertToWebPUnsupported(t *testing.T) {
	_, err := ConvertToWebP([]byte("%PDF-1.4 bukan gambar"), "x.pdf", WebPOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestLocalStorageRoundTrip(t *testing.T) {
	dir := t.TempDir()
	st := NewLocalStorage(dir, "/uploads/")
	ctx := context.Background()

	require.NoError(t, st.Put(ctx, "members/a.txt", strings.NewReader("halo"), "text/plain"))
	got, err := os.ReadFile(filepath.Join(dir, "members", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "halo", string(got))

	url := st.PublicURL("members/a.txt")
	assert.Equal(t, "/uploads/members/a.txt", url)
	key, err := st.KeyFromURL(url)
	require.NoError(t, err)
	assert.Equal(t, "members/a.txt", key)

	require.NoError(t, st.Delete(ctx, key))
	require.NoError(t, st.Delete(ctx, key), "hapus ulang tidak error")
	_, err = os.Stat(filepath.Join(dir, "members", "a.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	st := NewLocalStorage(dir, "/uploads")
	require.NoError(t, st.Put(context.Background(), "../../escape.txt", strings.NewReader("x"), ""))
	_, err := os.Stat(filepath.Join(dir, "escape.txt"))
	assert.NoError(t, err, "key dibersihkan tetap di bawah root")
}

func TestBuildObjectKey(t *testing.T) {
	b := &BlobService{now: func() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC) }}
	key := b.BuildObjectKey("/ebooks/", "Panduan Asma 2024.PDF")
	assert.True(t, strings.HasPrefix(key, "ebooks/panduan-asma-2024_20250304_050607_"), key)
	assert.True(t, strings.HasSuffix(key, ".pdf"), key)
}

func TestKeyFromOSSURL(t *testing.T) {
	s := &OSSService{Endpoint: "https://oss-ap-southeast-5.aliyuncs.com", BucketName: "pdpi"}
	url := s.PublicURL("members/x.webp")
	assert.Equal(t, "https://pdpi.oss-ap-southeast-5.aliyuncs.com/members/x.webp", url)
	key, err := s.KeyFromURL(url)
	require.NoError(t, err)
	assert.Equal(t, "members/x.webp", key)

	_, err = s.KeyFromURL("")
	assert.ErrorIs(t, err, ErrEmptyURL)
}
