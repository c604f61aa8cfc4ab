// file: internals/helpers/oss/oss_client.go
package helper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"go.uber.org/zap"

	"pdpi_backend/internals/configs"
)

// Storage: penyimpanan objek (foto anggota, file e-book, bukti transfer).
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	KeyFromURL(publicURL string) (string, error)
}

var ErrEmptyURL = errors.New("empty url")

/* =======================================================================
   Aliyun OSS
======================================================================= */

type OSSService struct {
	Client     *oss.Client
	Bucket     *oss.Bucket
	Endpoint   string
	BucketName string
	PublicBase string
}

func NewOSSServiceFromEnv(log *zap.Logger) (*OSSService, error) {
	endpoint := strings.TrimSpace(configs.GetEnv("ALI_OSS_ENDPOINT"))
	ak := strings.TrimSpace(configs.GetEnv("ALI_OSS_ACCESS_KEY"))
	sk := strings.TrimSpace(configs.GetEnv("ALI_OSS_SECRET_KEY"))
	sts := strings.TrimSpace(configs.GetEnv("ALI_OSS_SECURITY_TOKEN"))
	bucketName := strings.TrimSpace(configs.GetEnv("ALI_OSS_BUCKET"))
	if endpoint == "" || ak == "" || sk == "" || bucketName == "" {
		return nil, fmt.Errorf("missing env: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")
	}

	var (
		client *oss.Client
		err    error
	)
	if sts != "" {
		client, err = oss.New(endpoint, ak, sk, oss.SecurityToken(sts))
	} else {
		client, err = oss.New(endpoint, ak, sk)
	}
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}

	bkt, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	// cek ringan lokasi bucket; AccessDenied (akses terbatas) diabaikan
	if loc, err := client.GetBucketLocation(bucketName); err != nil {
		var se oss.ServiceError
		if errors.As(err, &se) && se.StatusCode == 403 && se.Code == "AccessDenied" {
			log.Warn("oss: skip location check", zap.String("bucket", bucketName))
		} else {
			return nil, fmt.Errorf("verify bucket: %w", err)
		}
	} else {
		log.Info("oss bucket siap", zap.String("bucket", bucketName), zap.String("location", loc))
	}

	return &OSSService{
		Client:     client,
		Bucket:     bkt,
		Endpoint:   endpoint,
		BucketName: bucketName,
		PublicBase: strings.TrimRight(strings.TrimSpace(configs.GetEnv("ALI_OSS_PUBLIC_BASE")), "/"),
	}, nil
}

func (s *OSSService) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	}
	if err := s.Bucket.PutObject(key, r, opts...); err != nil {
		return fmt.Errorf("oss put %s: %w", key, err)
	}
	return nil
}

func (s *OSSService) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := s.Bucket.DeleteObject(key, oss.WithContext(ctx)); err != nil {
		var se oss.ServiceError
		if errors.As(err, &se) && se.StatusCode == 404 {
			return nil
		}
		return fmt.Errorf("oss delete %s: %w", key, err)
	}
	return nil
}

func (s *OSSService) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	if s.PublicBase != "" {
		return s.PublicBase + "/" + key
	}
	end := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.BucketName, end, key)
}

func (s *OSSService) KeyFromURL(publicURL string) (string, error) {
	if publicURL == "" {
		return "", ErrEmptyURL
	}
	if s.PublicBase != "" && strings.HasPrefix(publicURL, s.PublicBase+"/") {
		return strings.TrimPrefix(publicURL, s.PublicBase+"/"), nil
	}
	return keyAfterHost(publicURL)
}

// keyAfterHost: "https://host/a/b.webp" → "a/b.webp"
func keyAfterHost(publicURL string) (string, error) {
	u := publicURL
	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+3:]
	}
	if i := strings.Index(u, "/"); i >= 0 && i+1 < len(u) {
		return u[i+1:], nil
	}
	return "", fmt.Errorf("cannot extract key from url: %s", publicURL)
}

// NewStorageFromEnv: OSS kalau ALI_OSS_* lengkap, selain itu disk lokal (UPLOAD_DIR).
func NewStorageFromEnv(log *zap.Logger) Storage {
	if configs.GetEnv("ALI_OSS_BUCKET") != "" {
		svc, err := NewOSSServiceFromEnv(log)
		if err == nil {
			return svc
		}
		log.Warn("oss tidak bisa dipakai, fallback ke disk lokal", zap.Error(err))
	}
	dir := configs.GetEnv("UPLOAD_DIR", "./uploads")
	base := configs.GetEnv("UPLOAD_PUBLIC_BASE", "/uploads")
	log.Info("storage lokal aktif", zap.String("dir", dir))
	return NewLocalStorage(dir, base)
}
