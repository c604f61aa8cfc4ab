// file: internals/features/members/search/service/predicate.go
package service

// Logical field names. Renderers map these to real columns.
const (
	FieldNPA            = "npa"
	FieldNama           = "nama"
	FieldNIK            = "nik"
	FieldTempatTugas    = "tempat_tugas"
	FieldRSTipe         = "rs_tipe"
	FieldKota           = "kota"
	FieldKotaKantor     = "kota_kantor"
	FieldProvinsi       = "provinsi"
	FieldProvinsiKantor = "provinsi_kantor"
	FieldCabang         = "cabang"
	FieldAlumni         = "alumni"
	FieldStatus         = "status"
	FieldJenisKelamin   = "jenis_kelamin"
	FieldFISR           = "fisr"
	FieldEmail          = "email"
	FieldNoHP           = "no_hp"
	FieldSTR            = "str"
	FieldSIP            = "sip"
	FieldSearchText     = "search_text"
)

type Op string

const (
	OpEq     Op = "eq"
	OpILike  Op = "ilike"  // substring, case-insensitive
	OpPrefix Op = "prefix" // starts-with, case-insensitive
	OpIn     Op = "in"
	OpNotIn  Op = "not_in" // NULL dianggap lolos
)

type Conj string

const (
	ConjAnd Conj = "AND"
	ConjOr  Conj = "OR"
)

// Node adalah simpul pohon predikat: *Cond atau *Group.
type Node interface {
	node()
}

// Cond: perbandingan daun.
type Cond struct {
	Field  string
	Op     Op
	Value  string
	Values []string
}

// Group: gabungan AND/OR.
type Group struct {
	Conj  Conj
	Nodes []Node
}

func (*Cond) node()  {}
func (*Group) node() {}

func Eq(field, v string) Node           { return &Cond{Field: field, Op: OpEq, Value: v} }
func ILike(field, v string) Node        { return &Cond{Field: field, Op: OpILike, Value: v} }
func Prefix(field, v string) Node       { return &Cond{Field: field, Op: OpPrefix, Value: v} }
func In(field string, vs []string) Node { return &Cond{Field: field, Op: OpIn, Values: vs} }
func NotIn(field string, vs []string) Node {
	return &Cond{Field: field, Op: OpNotIn, Values: vs}
}

func And(nodes ...Node) Node { return group(ConjAnd, nodes) }
func Or(nodes ...Node) Node  { return group(ConjOr, nodes) }

// group membuang nil; satu anak dikembalikan apa adanya; kosong → nil.
func group(c Conj, nodes []Node) Node {
	kept := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if g, ok := n.(*Group); ok && g == nil {
			continue
		}
		if cd, ok := n.(*Cond); ok && cd == nil {
			continue
		}
		kept = append(kept, n)
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return &Group{Conj: c, Nodes: kept}
}
