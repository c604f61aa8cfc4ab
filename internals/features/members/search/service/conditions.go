// file: internals/features/members/search/service/conditions.go
package service

import (
	"strings"
	"unicode"
)

type fieldSpec struct {
	fields    []string
	adminOnly bool
}

// Kunci field:value yang dikenali.
var fieldFilterMap = map[string]fieldSpec{
	"npa":        {fields: []string{FieldNPA}},
	"kota":       {fields: []string{FieldKota, FieldKotaKantor}},
	"provinsi":   {fields: []string{FieldProvinsi, FieldProvinsiKantor}},
	"pd":         {fields: []string{FieldCabang}},
	"cabang":     {fields: []string{FieldCabang}},
	"spesialis":  {fields: []string{FieldAlumni}},
	"rs":         {fields: []string{FieldTempatTugas}},
	"rumahsakit": {fields: []string{FieldTempatTugas}},

	"str":     {fields: []string{FieldSTR}, adminOnly: true},
	"sip":     {fields: []string{FieldSIP}, adminOnly: true},
	"nik":     {fields: []string{FieldNIK}, adminOnly: true},
	"email":   {fields: []string{FieldEmail}, adminOnly: true},
	"telepon": {fields: []string{FieldNoHP}, adminOnly: true},
	"hp":      {fields: []string{FieldNoHP}, adminOnly: true},
}

var (
	publicTextFields = []string{
		FieldNama, FieldTempatTugas, FieldKota, FieldKotaKantor,
		FieldProvinsi, FieldProvinsiKantor, FieldCabang,
	}
	adminTextFields = []string{FieldEmail, FieldNoHP, FieldNIK, FieldSTR, FieldSIP}
)

// IsKnownField melaporkan apakah key dikenal untuk role tersebut.
func IsKnownField(field string, isAdmin bool) bool {
	spec, ok := fieldFilterMap[strings.ToLower(field)]
	return ok && (isAdmin || !spec.adminOnly)
}

// BuildConditions menerjemahkan ParsedQuery menjadi grup predikat yang di-AND-kan
// oleh pemanggil. Field admin-only dan field tak dikenal dibuang diam-diam untuk publik.
func BuildConditions(parsed ParsedQuery, isAdmin bool) []Node {
	groups := make([]Node, 0, len(parsed.FieldFilters)+1)

	for _, ff := range parsed.FieldFilters {
		spec, ok := fieldFilterMap[ff.Field]
		if !ok || (spec.adminOnly && !isAdmin) {
			continue
		}
		value := strings.TrimSpace(ff.Value)
		if value == "" {
			continue
		}
		conds := make([]Node, 0, len(spec.fields))
		for _, f := range spec.fields {
			conds = append(conds, ILike(f, value))
		}
		if n := Or(conds...); n != nil {
			groups = append(groups, n)
		}
	}

	terms := parsed.Terms()
	if len(terms) > 0 {
		termNodes := make([]Node, 0, len(terms))
		for _, t := range terms {
			termNodes = append(termNodes, termCondition(t, isAdmin))
		}
		var text Node
		if parsed.IsOrQuery {
			text = Or(termNodes...)
		} else {
			text = And(termNodes...)
		}
		if text != nil {
			groups = append(groups, text)
		}
	}
	return groups
}

// BuildQuery = AND dari semua grup BuildConditions (nil kalau kosong).
func BuildQuery(parsed ParsedQuery, isAdmin bool) Node {
	return And(BuildConditions(parsed, isAdmin)...)
}

// termCondition: satu term → OR lintas kolom (+ search_text sebagai catch-all).
func termCondition(term string, isAdmin bool) Node {
	if isNumeric(term) {
		nodes := []Node{Eq(FieldNPA, term)}
		if isAdmin {
			nodes = append(nodes, ILike(FieldNIK, term), ILike(FieldNoHP, term))
		}
		nodes = append(nodes, ILike(FieldSearchText, term))
		return &Group{Conj: ConjOr, Nodes: nodes}
	}

	nodes := make([]Node, 0, len(publicTextFields)+len(adminTextFields)+1)
	for _, f := range publicTextFields {
		nodes = append(nodes, ILike(f, term))
	}
	if isAdmin {
		for _, f := range adminTextFields {
			nodes = append(nodes, ILike(f, term))
		}
	}
	nodes = append(nodes, ILike(FieldSearchText, term))
	return &Group{Conj: ConjOr, Nodes: nodes}
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
