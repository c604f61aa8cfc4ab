// file: internals/features/members/imports/service/dates.go
package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reDMY = regexp.MustCompile(`^(\d{1,2})[-/.](\d{1,2})[-/.](\d{2}|\d{4})$`)
	reISO = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
)

// excel menyimpan tanggal sebagai jumlah hari sejak 1899-12-30
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseDate menerima DD-MM-YY, DD-MM-YYYY (pemisah - / .), YYYY-MM-DD, atau serial
// Excel; hasilnya tanggal UTC. Tahun dua digit: > tahun sekarang (2 digit) → 19xx.
func ParseDate(raw string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("tanggal kosong")
	}

	if m := reISO.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		return buildDate(y, mo, d, raw)
	}

	if m := reDMY.FindStringSubmatch(s); m != nil {
		d, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			if y > now.Year()%100 {
				y += 1900
			} else {
				y += 2000
			}
		}
		return buildDate(y, mo, d, raw)
	}

	if n, err := strconv.Atoi(s); err == nil && n > 0 && n < 100000 {
		return excelEpoch.AddDate(0, 0, n), nil
	}
	// serial dengan jam (mis. "31262.5"); jamnya dibuang
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 1 && f < 100000 {
		return excelEpoch.AddDate(0, 0, int(f)), nil
	}
	return time.Time{}, fmt.Errorf("format tanggal tidak dikenali: %q", raw)
}

// ToISODate: ParseDate lalu format YYYY-MM-DD.
func ToISODate(raw string, now time.Time) (string, error) {
	t, err := ParseDate(raw, now)
	if err != nil {
		return "", err
	}
	return t.Format("2006-01-02"), nil
}

func buildDate(y, mo, d int, raw string) (time.Time, error) {
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	// time.Date menormalkan 31-02 jadi Maret; tolak
	if t.Year() != y || int(t.Month()) != mo || t.Day() != d {
		return time.Time{}, fmt.Errorf("tanggal tidak valid: %q", raw)
	}
	return t, nil
}
