package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToISODate(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		in, want string
	}{
		{"17-08-1985", "1985-08-17"},
		{"17-08-85", "1985-08-17"},
		{"01-02-03", "2003-02-01"},
		{"5/7/1990", "1990-07-05"},
		{"1990-07-05", "1990-07-05"},
		{"31.12.26", "2026-12-31"},
		{"32874", "1990-01-01"},
		{"31262.5", "1985-08-03"},
	}
	for _, tc := range cases {
		got, err := ToISODate(tc.in, now)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestToISODateRejects(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"", "31-02-1990", "kemarin", "1990/07/05"} {
		_, err := ToISODate(in, now)
		assert.Error(t, err, in)
	}
}
