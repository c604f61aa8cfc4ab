// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"strings"
	"sync"
	"time"

	"pdpi_backend/internals/configs"
)

const defaultTimezone = "Asia/Jakarta"

var (
	locOnce sync.Once
	loc     *time.Location
)

// Location zona waktu aplikasi (APP_TIMEZONE, default Asia/Jakarta).
// Kalau tzdata tidak tersedia → WIB tetap (UTC+7).
func Location() *time.Location {
	locOnce.Do(func() {
		name := strings.TrimSpace(configs.GetEnv("APP_TIMEZONE", defaultTimezone))
		l, err := time.LoadLocation(name)
		if err != nil {
			l = time.FixedZone("WIB", 7*60*60)
		}
		loc = l
	})
	return loc
}

// Now: waktu sekarang di zona aplikasi. Tahun iuran dihitung dari sini,
// bukan dari UTC (malam tahun baru WIB masih tahun lama di UTC).
func Now() time.Time {
	return time.Now().In(Location())
}

// ToLocal mengonversi waktu (biasanya dari DB = UTC) ke zona aplikasi.
// Kalau t.IsZero() → dikembalikan apa adanya.
func ToLocal(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.In(Location())
}

// ToLocalPtr versi pointer; nil tetap nil.
func ToLocalPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := ToLocal(*t)
	return &v
}
