package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdpi_backend/internals/constants"
)

// fields collects every leaf field referenced under n.
func fields(n Node) []string {
	switch t := n.(type) {
	case *Cond:
		return []string{t.Field}
	case *Group:
		var out []string
		for _, c := range t.Nodes {
			out = append(out, fields(c)...)
		}
		return out
	}
	return nil
}

func allFields(nodes []Node) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, fields(n)...)
	}
	return out
}

func TestBuildConditionsAdminOnlyFilters(t *testing.T) {
	parsed := ParseQuery("email:budi@x.id nik:3201 str:ABC kota:bandung")

	public := BuildConditions(parsed, false)
	require.Len(t, public, 1)
	assert.ElementsMatch(t, []string{FieldKota, FieldKotaKantor}, allFields(public))

	admin := BuildConditions(parsed, true)
	require.Len(t, admin, 4)
	got := allFields(admin)
	assert.Contains(t, got, FieldEmail)
	assert.Contains(t, got, FieldNIK)
	assert.Contains(t, got, FieldSTR)
}

func TestBuildConditionsUnknownFieldDropped(t *testing.T) {
	parsed := ParseQuery("warna:merah")
	assert.Empty(t, BuildConditions(parsed, true))
	assert.Nil(t, BuildQuery(parsed, true))
}

func TestBuildConditionsTermsAndByDefault(t *testing.T) {
	nodes := BuildConditions(ParseQuery("budi jakarta"), false)
	require.Len(t, nodes, 1)

	g, ok := nodes[0].(*Group)
	require.True(t, ok)
	assert.Equal(t, ConjAnd, g.Conj)
	require.Len(t, g.Nodes, 2)

	for _, term := range g.Nodes {
		tg := term.(*Group)
		assert.Equal(t, ConjOr, tg.Conj)
		fs := fields(tg)
		assert.Contains(t, fs, FieldNama)
		assert.Contains(t, fs, FieldSearchText)
		assert.NotContains(t, fs, FieldEmail)
		assert.NotContains(t, fs, FieldNIK)
	}
}

func TestBuildConditionsOrQuery(t *testing.T) {
	nodes := BuildConditions(ParseQuery("jakarta | bandung"), false)
	require.Len(t, nodes, 1)
	assert.Equal(t, ConjOr, nodes[0].(*Group).Conj)
}

func TestBuildConditionsSingleTermNotWrapped(t *testing.T) {
	nodes := BuildConditions(ParseQuery("budi"), true)
	require.Len(t, nodes, 1)
	g := nodes[0].(*Group)
	assert.Equal(t, ConjOr, g.Conj)
	assert.Contains(t, fields(g), FieldEmail)
	assert.Contains(t, fields(g), FieldSIP)
}

func TestBuildConditionsNumericTerm(t *testing.T) {
	nodes := BuildConditions(ParseQuery("1527"), false)
	require.Len(t, nodes, 1)
	g := nodes[0].(*Group)
	first := g.Nodes[0].(*Cond)
	assert.Equal(t, FieldNPA, first.Field)
	assert.Equal(t, OpEq, first.Op)
	assert.Equal(t, "1527", first.Value)
	assert.NotContains(t, fields(g), FieldNIK)

	admin := BuildConditions(ParseQuery("1527"), true)
	assert.Contains(t, allFields(admin), FieldNIK)
}

func TestMemberFilterDefaultStatusExclusion(t *testing.T) {
	conds := MemberFilter{}.Conditions()
	require.Len(t, conds, 1)
	c := conds[0].(*Cond)
	assert.Equal(t, FieldStatus, c.Field)
	assert.Equal(t, OpNotIn, c.Op)
	assert.Equal(t, []string{"Luar Biasa", "Meninggal", "Muda"}, c.Values)
	assert.Equal(t, constants.DefaultExcludedStatuses, c.Values)

	conds = MemberFilter{Status: []string{"Meninggal"}}.Conditions()
	require.Len(t, conds, 1)
	c = conds[0].(*Cond)
	assert.Equal(t, OpIn, c.Op)
	assert.Equal(t, []string{"Meninggal"}, c.Values)
}

func TestMemberFilterEmptyValuesOmitted(t *testing.T) {
	f := MemberFilterFromQuery(map[string]string{
		"provinsi": " , ,",
		"cabang":   "",
		"huruf":    "a,b, a",
		"rs":       "  ",
		"gender":   "l",
		"unknown":  "x",
	})
	assert.Nil(t, f.Provinsi)
	assert.Nil(t, f.Cabang)
	assert.Equal(t, []string{"A", "B"}, f.NameLetters)
	assert.Equal(t, "", f.HospitalName)
	assert.Equal(t, "L", f.JenisKelamin)

	assert.Equal(t, MemberFilter{}.CacheKey(), MemberFilterFromQuery(map[string]string{"provinsi": ""}).CacheKey())
}

func TestMemberFilterCacheKeyStable(t *testing.T) {
	a := MemberFilter{Provinsi: []string{"Bali", "Aceh"}, Status: []string{"Biasa"}}
	b := MemberFilter{Provinsi: []string{"Aceh", "Bali "}, Status: []string{"Biasa"}}
	assert.Equal(t, a.CacheKey(), b.CacheKey())
	assert.Equal(t, "provinsi=Aceh,Bali&status=Biasa", a.CacheKey())
}
