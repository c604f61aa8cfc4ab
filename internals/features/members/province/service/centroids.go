// file: internals/features/members/province/service/centroids.go
package service

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
)

//go:embed data/province_centroids.json
var embeddedCentroids []byte

// Centroid titik representatif provinsi untuk marker peta.
type Centroid struct {
	Province string  `json:"provinsi"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// ProvincePoint = centroid + jumlah anggota.
type ProvincePoint struct {
	Province string  `json:"provinsi"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Count    int64   `json:"count"`
}

// DefaultCentroids: daftar bawaan (38 provinsi).
func DefaultCentroids() ([]Centroid, error) {
	var out []Centroid
	if err := sonic.Unmarshal(embeddedCentroids, &out); err != nil {
		return nil, fmt.Errorf("embedded centroids: %w", err)
	}
	return out, nil
}

// FetchCentroids mengambil daftar centroid dari URL (format sama dengan bawaan).
func FetchCentroids(ctx context.Context, client *resty.Client, url string) ([]Centroid, error) {
	if client == nil {
		client = NewHTTPClient()
	}
	var out []Centroid
	resp, err := client.R().SetContext(ctx).SetResult(&out).Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch centroids: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch centroids: HTTP %d", resp.StatusCode())
	}
	return out, nil
}

// MergeCentroids menghasilkan tepat satu entri per centroid, urutan mengikuti daftar
// centroid. Provinsi tanpa anggota tetap muncul dengan count 0.
// counts dikunci nama provinsi; kunci dinormalisasi dulu supaya alias ikut terhitung.
func MergeCentroids(centroids []Centroid, counts map[string]int64) []ProvincePoint {
	normalized := make(map[string]int64, len(counts))
	for name, n := range counts {
		normalized[NormalizeProvince(name)] += n
	}
	out := make([]ProvincePoint, 0, len(centroids))
	for _, c := range centroids {
		out = append(out, ProvincePoint{
			Province: c.Province,
			Lat:      c.Lat,
			Lng:      c.Lng,
			Count:    normalized[NormalizeProvince(c.Province)],
		})
	}
	return out
}
