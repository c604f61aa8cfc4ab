// file: internals/helpers/oss/oss_image.go
package helper

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"pdpi_backend/internals/configs"
)

var ErrUnsupportedImage = errors.New("format gambar tidak didukung (pakai jpg/png/webp)")

type WebPOptions struct {
	MaxW    int     // batas lebar (keep-aspect)
	MaxH    int     // batas tinggi
	Quality float32 // 0 → 80
	Square  bool    // crop tengah jadi persegi MaxW x MaxW (foto profil)
}

// PhotoOptions: foto anggota, maks 800px persegi.
func PhotoOptions() WebPOptions {
	size := configs.GetEnvInt("IMAGE_PHOTO_MAX", 800)
	return WebPOptions{MaxW: size, MaxH: size, Quality: float32(configs.GetEnvInt("IMAGE_WEBP_QUALITY", 80)), Square: true}
}

// CoverOptions: sampul e-book / bukti transfer, keep-aspect.
func CoverOptions() WebPOptions {
	return WebPOptions{
		MaxW:    configs.GetEnvInt("IMAGE_WEBP_MAX_W", 1600),
		MaxH:    configs.GetEnvInt("IMAGE_WEBP_MAX_H", 1600),
		Quality: float32(configs.GetEnvInt("IMAGE_WEBP_QUALITY", 80)),
	}
}

// decodeImage: sniff MIME dulu, fallback dari ekstensi.
func decodeImage(all []byte, filename string) (image.Image, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	kind := http.DetectContentType(head)
	if !strings.HasPrefix(kind, "image/") {
		kind = strings.ToLower(filepath.Ext(filename))
	}

	r := bytes.NewReader(all)
	switch {
	case strings.Contains(kind, "jpeg"), kind == ".jpg":
		return jpeg.Decode(r)
	case strings.Contains(kind, "png"):
		return png.Decode(r)
	case strings.Contains(kind, "webp"):
		return webp.Decode(r)
	}
	return nil, ErrUnsupportedImage
}

// downscaleIfNeeded: perkecil keep-aspect dengan CatmullRom.
func downscaleIfNeeded(src image.Image, maxW, maxH int) image.Image {
	if maxW <= 0 && maxH <= 0 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if (maxW <= 0 || w <= maxW) && (maxH <= 0 || h <= maxH) {
		return src
	}
	scale := 1.0
	if maxW > 0 {
		scale = math.Min(scale, float64(maxW)/float64(w))
	}
	if maxH > 0 {
		scale = math.Min(scale, float64(maxH)/float64(h))
	}
	nw := max(int(math.Round(float64(w)*scale)), 1)
	nh := max(int(math.Round(float64(h)*scale)), 1)
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// squareFill: crop tengah ke persegi; tidak memperbesar gambar kecil.
func squareFill(src image.Image, size int) image.Image {
	b := src.Bounds()
	side := min(b.Dx(), b.Dy(), size)
	if side <= 0 {
		return src
	}
	return imaging.Fill(src, side, side, imaging.Center, imaging.Lanczos)
}

func encodeToWebP(img image.Image, quality float32) ([]byte, error) {
	if quality <= 0 {
		quality = 80
	}
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ConvertToWebP: decode → resize/crop → encode webp.
func ConvertToWebP(all []byte, filename string, opt WebPOptions) ([]byte, error) {
	img, err := decodeImage(all, filename)
	if err != nil {
		return nil, err
	}
	if opt.Square {
		img = squareFill(img, opt.MaxW)
	} else {
		img = downscaleIfNeeded(img, opt.MaxW, opt.MaxH)
	}
	return encodeToWebP(img, opt.Quality)
}
