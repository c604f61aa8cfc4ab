package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	province "pdpi_backend/internals/features/members/province/service"
	"pdpi_backend/internals/helpers/cache"
)

func TestStatsServiceCachesUntilBump(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache()
	svc := NewStatsService(NewAggregator(nil), c, time.Minute, zap.NewNop())

	calls := 0
	rows := []MemberRow{{Provinsi: "Bali", JenisKelamin: "L"}}
	load := func(context.Context) ([]MemberRow, error) {
		calls++
		return rows, nil
	}

	s1, err := svc.Summary(ctx, "provinsi=Bali", load)
	require.NoError(t, err)
	s2, err := svc.Summary(ctx, "provinsi=Bali", load)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, s1, s2)

	// filter lain = key lain
	_, err = svc.Summary(ctx, "", load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	// data anggota berubah → generation naik → hitung ulang
	rows = append(rows, MemberRow{Provinsi: "Bali", JenisKelamin: "P"})
	require.NoError(t, c.Bump(ctx, cache.NSStats))
	s3, err := svc.Summary(ctx, "provinsi=Bali", load)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.EqualValues(t, 2, s3.Total)
}

func TestStatsServiceLoadError(t *testing.T) {
	svc := NewStatsService(NewAggregator(nil), cache.NewMemoryCache(), time.Minute, zap.NewNop())
	_, err := svc.Summary(context.Background(), "x", func(context.Context) ([]MemberRow, error) {
		return nil, errors.New("db down")
	})
	assert.Error(t, err)
}

func TestProvincePointsCoversEveryCentroid(t *testing.T) {
	centroids, err := province.DefaultCentroids()
	require.NoError(t, err)

	svc := NewStatsService(NewAggregator(nil), cache.NewMemoryCache(), time.Minute, zap.NewNop())
	pts, err := svc.ProvincePoints(context.Background(), "", func(context.Context) ([]MemberRow, error) {
		return []MemberRow{{Provinsi: "jabar"}, {Provinsi: "Jawa Barat"}, {Provinsi: "Atlantis"}}, nil
	}, centroids)
	require.NoError(t, err)
	require.Len(t, pts, len(centroids))

	var jabar int64
	for _, p := range pts {
		if p.Province == "Jawa Barat" {
			jabar = p.Count
		}
	}
	assert.EqualValues(t, 2, jabar)
}
