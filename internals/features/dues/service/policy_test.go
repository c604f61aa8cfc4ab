package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableYearsFollowsCalendar(t *testing.T) {
	p := Policy{ArrearsYears: 2, AdvanceYears: 1}

	tests := []struct {
		name  string
		now   time.Time
		taken []int
		want  []int
	}{
		{"tanpa riwayat", date(2027, 3), nil, []int{2025, 2026, 2027, 2028}},
		{"sebagian lunas", date(2027, 3), []int{2025, 2027}, []int{2026, 2028}},
		{"tahun lain ikut bergeser", date(2031, 12), []int{2025}, []int{2029, 2030, 2031, 2032}},
		{"semua lunas", date(2027, 1), []int{2025, 2026, 2027, 2028}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AvailableYears(tt.now, tt.taken, p))
		})
	}
}

func TestAvailableYearsStartYear(t *testing.T) {
	p := Policy{StartYear: 2026, ArrearsYears: 5, AdvanceYears: 0}
	assert.Equal(t, []int{2026, 2027}, AvailableYears(date(2027, 6), nil, p))

	// start di masa depan → hanya dari start
	p.AdvanceYears = 2
	assert.Equal(t, []int{2026}, AvailableYears(date(2024, 6), nil, p))
}

func TestValidateYears(t *testing.T) {
	years, err := validateYears([]int{2027, 2026, 2027}, []int{2026, 2027})
	require.NoError(t, err)
	assert.Equal(t, []int{2026, 2027}, years)

	_, err = validateYears(nil, []int{2026})
	assert.ErrorIs(t, err, ErrNoYears)

	_, err = validateYears([]int{2020}, []int{2026})
	var yerr *YearNotAvailableError
	require.True(t, errors.As(err, &yerr))
	assert.Equal(t, 2020, yerr.Year)
}

func date(y int, m time.Month) time.Time {
	return time.Date(y, m, 15, 10, 0, 0, 0, time.UTC)
}
