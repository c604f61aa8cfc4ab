// file: internals/features/dues/service/policy.go
package service

import (
	"sort"
	"time"

	"pdpi_backend/internals/configs"
)

// Policy: aturan tahun iuran yang bisa dibayar.
type Policy struct {
	AnnualFeeIDR int64
	// StartYear: tahun pertama iuran berlaku (0 = tanpa batas bawah selain ArrearsYears).
	StartYear    int
	ArrearsYears int // berapa tahun ke belakang masih bisa dilunasi
	AdvanceYears int // berapa tahun ke depan boleh dibayar di muka
	QRISTTL      time.Duration
	TransferTTL  time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		AnnualFeeIDR: 500_000,
		ArrearsYears: 5,
		AdvanceYears: 1,
		QRISTTL:      60 * time.Minute,
		TransferTTL:  72 * time.Hour,
	}
}

func PolicyFromEnv() Policy {
	p := DefaultPolicy()
	p.AnnualFeeIDR = int64(configs.GetEnvInt("DUES_ANNUAL_FEE_IDR", int(p.AnnualFeeIDR)))
	p.StartYear = configs.GetEnvInt("DUES_START_YEAR", p.StartYear)
	p.ArrearsYears = configs.GetEnvInt("DUES_ARREARS_YEARS", p.ArrearsYears)
	p.AdvanceYears = configs.GetEnvInt("DUES_ADVANCE_YEARS", p.AdvanceYears)
	p.QRISTTL = time.Duration(configs.GetEnvInt("DUES_PAYMENT_TTL_MINUTES", int(p.QRISTTL/time.Minute))) * time.Minute
	p.TransferTTL = configs.GetEnvDuration("DUES_TRANSFER_TTL", p.TransferTTL)
	return p
}

// Window: rentang tahun [from..to] relatif terhadap now.
func (p Policy) Window(now time.Time) (from, to int) {
	year := now.Year()
	from = year - p.ArrearsYears
	if p.ArrearsYears < 0 {
		from = year
	}
	if p.StartYear > from {
		from = p.StartYear
	}
	to = year + p.AdvanceYears
	if p.AdvanceYears < 0 {
		to = year
	}
	return from, to
}

// AvailableYears: tahun di jendela kebijakan yang belum lunas/sedang diproses, urut naik.
// Jendela selalu mengikuti tahun kalender now, tidak ada tahun dasar yang dikunci.
func AvailableYears(now time.Time, taken []int, p Policy) []int {
	from, to := p.Window(now)
	skip := make(map[int]struct{}, len(taken))
	for _, y := range taken {
		skip[y] = struct{}{}
	}
	out := []int{}
	for y := from; y <= to; y++ {
		if _, ok := skip[y]; ok {
			continue
		}
		out = append(out, y)
	}
	return out
}

// validateYears: semua tahun harus ada di available, tanpa duplikat. Hasil diurutkan.
func validateYears(years, available []int) ([]int, error) {
	if len(years) == 0 {
		return nil, ErrNoYears
	}
	ok := make(map[int]struct{}, len(available))
	for _, y := range available {
		ok[y] = struct{}{}
	}
	seen := map[int]struct{}{}
	out := make([]int, 0, len(years))
	for _, y := range years {
		if _, dup := seen[y]; dup {
			continue
		}
		if _, allowed := ok[y]; !allowed {
			return nil, &YearNotAvailableError{Year: y}
		}
		seen[y] = struct{}{}
		out = append(out, y)
	}
	sort.Ints(out)
	return out, nil
}
