// file: internals/features/members/stats/service/stats_service.go
package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	province "pdpi_backend/internals/features/members/province/service"
	"pdpi_backend/internals/helpers/cache"
)

// RowLoader mengambil baris anggota yang sudah terfilter.
type RowLoader func(ctx context.Context) ([]MemberRow, error)

// StatsService: agregasi + cache per filter kanonik.
// Request paralel dengan key yang sama digabung lewat singleflight.
type StatsService struct {
	Agg   *Aggregator
	Cache cache.Cache
	TTL   time.Duration
	Log   *zap.Logger

	group singleflight.Group
}

func NewStatsService(agg *Aggregator, c cache.Cache, ttl time.Duration, log *zap.Logger) *StatsService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &StatsService{Agg: agg, Cache: c, TTL: ttl, Log: log}
}

// Summary mengembalikan ringkasan untuk filterKey; cache miss → load + aggregate.
func (s *StatsService) Summary(ctx context.Context, filterKey string, load RowLoader) (Summary, error) {
	key, err := cache.VersionedKey(ctx, s.Cache, cache.NSStats, "summary:"+filterKey)
	if err != nil {
		// cache mati tidak boleh mematikan statistik
		s.Log.Warn("stats cache generation gagal", zap.Error(err))
		key = ""
	}

	if key != "" {
		var cached Summary
		if ok, err := s.Cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}

	v, err, _ := s.group.Do("summary:"+filterKey, func() (interface{}, error) {
		rows, err := load(ctx)
		if err != nil {
			return Summary{}, err
		}
		sum := s.Agg.Aggregate(ctx, rows)
		if key != "" {
			if err := s.Cache.SetJSON(ctx, key, sum, s.TTL); err != nil {
				s.Log.Warn("stats cache set gagal", zap.Error(err))
			}
		}
		return sum, nil
	})
	if err != nil {
		return Summary{}, err
	}
	return v.(Summary), nil
}

// ProvincePoints: satu titik per centroid dengan jumlah anggota (0 kalau kosong).
func (s *StatsService) ProvincePoints(ctx context.Context, filterKey string, load RowLoader, centroids []province.Centroid) ([]province.ProvincePoint, error) {
	sum, err := s.Summary(ctx, filterKey, load)
	if err != nil {
		return nil, err
	}
	return province.MergeCentroids(centroids, sum.ProvinceCounts()), nil
}
