// file: internals/features/members/province/service/city_lookup.go
package service

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

//go:embed data/city_province.json
var embeddedCityProvince []byte

// CityEntry satu baris tabel kota → provinsi.
type CityEntry struct {
	City     string
	Province string
}

// CityTable menyimpan entri sesuai urutan file (dipakai untuk partial match).
type CityTable struct {
	entries []CityEntry
	exact   map[string]string
}

func NewCityTable(entries []CityEntry) *CityTable {
	t := &CityTable{
		entries: make([]CityEntry, 0, len(entries)),
		exact:   make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		city := strings.TrimSpace(e.City)
		prov := NormalizeProvince(e.Province)
		if city == "" || prov == "" {
			continue
		}
		if _, dup := t.exact[city]; dup {
			continue
		}
		t.entries = append(t.entries, CityEntry{City: city, Province: prov})
		t.exact[city] = prov
	}
	return t
}

func (t *CityTable) Len() int { return len(t.entries) }

// Lookup: exact → case-insensitive → substring dua arah (urutan tabel).
func (t *CityTable) Lookup(city string) string {
	q := strings.TrimSpace(city)
	if q == "" || t == nil {
		return ""
	}
	if p, ok := t.exact[q]; ok {
		return p
	}
	for _, e := range t.entries {
		if strings.EqualFold(e.City, q) {
			return e.Province
		}
	}
	lq := strings.ToLower(q)
	for _, e := range t.entries {
		lk := strings.ToLower(e.City)
		if strings.Contains(lq, lk) || strings.Contains(lk, lq) {
			return e.Province
		}
	}
	return ""
}

// ParseCityTable membaca objek JSON {"Kota": "Provinsi", ...} dengan urutan key dipertahankan.
func ParseCityTable(r io.Reader) (*CityTable, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("city table: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("city table: expected JSON object")
	}
	var entries []CityEntry
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("city table key: %w", err)
		}
		key, _ := kt.(string)
		var val string
		if err := dec.Decode(&val); err != nil {
			return nil, fmt.Errorf("city table value for %q: %w", key, err)
		}
		entries = append(entries, CityEntry{City: key, Province: val})
	}
	return NewCityTable(entries), nil
}

/* ===============================
   Loaders
=================================*/

// CityLoader mengambil tabel kota → provinsi.
type CityLoader interface {
	LoadCities(ctx context.Context) (*CityTable, error)
}

type CityLoaderFunc func(ctx context.Context) (*CityTable, error)

func (f CityLoaderFunc) LoadCities(ctx context.Context) (*CityTable, error) { return f(ctx) }

// EmbeddedCityLoader: tabel bawaan binary.
func EmbeddedCityLoader() CityLoader {
	return CityLoaderFunc(func(context.Context) (*CityTable, error) {
		return ParseCityTable(bytes.NewReader(embeddedCityProvince))
	})
}

func FileCityLoader(path string) CityLoader {
	return CityLoaderFunc(func(context.Context) (*CityTable, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ParseCityTable(f)
	})
}

// HTTPCityLoader mengambil JSON statis (mis. dari CDN) dengan retry.
func HTTPCityLoader(client *resty.Client, url string) CityLoader {
	if client == nil {
		client = NewHTTPClient()
	}
	return CityLoaderFunc(func(ctx context.Context) (*CityTable, error) {
		resp, err := client.R().SetContext(ctx).SetDoNotParseResponse(true).Get(url)
		if err != nil {
			return nil, fmt.Errorf("fetch city table: %w", err)
		}
		body := resp.RawBody()
		defer body.Close()
		if resp.StatusCode() != 200 {
			return nil, fmt.Errorf("fetch city table: HTTP %d", resp.StatusCode())
		}
		return ParseCityTable(body)
	})
}

// FallbackCityLoader mencoba primary dulu, lalu fallback.
func FallbackCityLoader(primary, fallback CityLoader, log *zap.Logger) CityLoader {
	if log == nil {
		log = zap.NewNop()
	}
	return CityLoaderFunc(func(ctx context.Context) (*CityTable, error) {
		t, err := primary.LoadCities(ctx)
		if err == nil && t.Len() > 0 {
			return t, nil
		}
		log.Warn("city table primary loader gagal, pakai fallback", zap.Error(err))
		return fallback.LoadCities(ctx)
	})
}

// NewHTTPClient: resty client dengan retry untuk resource statis.
func NewHTTPClient() *resty.Client {
	return resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)
}

/* ===============================
   CityLookup (lazy, memo, coalesced)
=================================*/

// CityLookup memuat tabel sekali; pemanggil bersamaan sebelum load pertama
// berbagi satu proses load. Load gagal tidak di-memo.
type CityLookup struct {
	loader CityLoader
	log    *zap.Logger

	group singleflight.Group
	mu    sync.RWMutex
	table *CityTable
}

func NewCityLookup(loader CityLoader, log *zap.Logger) *CityLookup {
	if log == nil {
		log = zap.NewNop()
	}
	return &CityLookup{loader: loader, log: log}
}

// Table mengembalikan tabel (load kalau belum).
func (l *CityLookup) Table(ctx context.Context) (*CityTable, error) {
	l.mu.RLock()
	t := l.table
	l.mu.RUnlock()
	if t != nil {
		return t, nil
	}

	v, err, _ := l.group.Do("cities", func() (any, error) {
		l.mu.RLock()
		cached := l.table
		l.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}
		loaded, err := l.loader.LoadCities(ctx)
		if err != nil {
			return nil, err
		}
		if loaded == nil {
			loaded = NewCityTable(nil)
		}
		l.mu.Lock()
		l.table = loaded
		l.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*CityTable), nil
}

// Infer menebak provinsi dari nama kota; "" kalau kosong / tidak ketemu / load gagal.
func (l *CityLookup) Infer(ctx context.Context, city string) string {
	if strings.TrimSpace(city) == "" {
		return ""
	}
	t, err := l.Table(ctx)
	if err != nil {
		l.log.Warn("gagal memuat tabel kota", zap.Error(err))
		return ""
	}
	return t.Lookup(city)
}

// Reset membuang cache (dipakai test & reload admin).
func (l *CityLookup) Reset() {
	l.mu.Lock()
	l.table = nil
	l.mu.Unlock()
}
