package searchindex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusExclusionFilter(t *testing.T) {
	assert.Equal(t,
		`status != "Luar Biasa" AND status != "Meninggal"`,
		StatusExclusionFilter([]string{"Luar Biasa", " ", "Meninggal"}))
	assert.Empty(t, StatusExclusionFilter(nil))
}

func TestNoopIndex(t *testing.T) {
	var idx MemberIndex = NoopMemberIndex{}
	assert.False(t, idx.Enabled())
	require.NoError(t, idx.Upsert(context.Background(), []MemberDoc{{ID: "1", Nama: "Budi"}}))
	docs, err := idx.Suggest(context.Background(), "bud", 5, nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
