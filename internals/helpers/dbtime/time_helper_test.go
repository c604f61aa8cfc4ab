package dbtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToLocalKeepsInstant(t *testing.T) {
	utc := time.Date(2026, 12, 31, 18, 30, 0, 0, time.UTC)
	local := ToLocal(utc)
	assert.True(t, local.Equal(utc))
	assert.Equal(t, 2027, local.Year(), "18:30 UTC = 01:30 WIB tahun berikutnya")

	assert.True(t, ToLocal(time.Time{}).IsZero())
	assert.Nil(t, ToLocalPtr(nil))
}
