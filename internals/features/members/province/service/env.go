// file: internals/features/members/province/service/env.go
package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"pdpi_backend/internals/configs"
)

// CityLoaderFromEnv:
//   - CITY_PROVINCE_URL  → HTTP (fallback ke tabel bawaan)
//   - CITY_PROVINCE_FILE → file lokal (fallback ke tabel bawaan)
//   - selain itu tabel bawaan
func CityLoaderFromEnv(log *zap.Logger) CityLoader {
	embedded := EmbeddedCityLoader()
	if url := strings.TrimSpace(configs.GetEnv("CITY_PROVINCE_URL")); url != "" {
		return FallbackCityLoader(HTTPCityLoader(nil, url), embedded, log)
	}
	if path := strings.TrimSpace(configs.GetEnv("CITY_PROVINCE_FILE")); path != "" {
		return FallbackCityLoader(FileCityLoader(path), embedded, log)
	}
	return embedded
}

// NewResolverFromEnv dipakai main / CLI.
func NewResolverFromEnv(log *zap.Logger) *Resolver {
	return NewResolver(NewCityLookup(CityLoaderFromEnv(log), log))
}

// CentroidsFromEnv: PROVINCE_CENTROIDS_URL kalau diset dan berhasil, selain itu bawaan.
func CentroidsFromEnv(ctx context.Context, log *zap.Logger) ([]Centroid, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if url := strings.TrimSpace(configs.GetEnv("PROVINCE_CENTROIDS_URL")); url != "" {
		cs, err := FetchCentroids(ctx, nil, url)
		if err == nil && len(cs) > 0 {
			return cs, nil
		}
		log.Warn("gagal ambil centroid remote, pakai bawaan", zap.String("url", url), zap.Error(err))
	}
	return DefaultCentroids()
}
