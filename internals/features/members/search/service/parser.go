// file: internals/features/members/search/service/parser.go
package service

import (
	"regexp"
	"strings"
)

var (
	rePhrase = regexp.MustCompile(`"([^"]+)"`)
	reField  = regexp.MustCompile(`(\w+):\s*"?([^"\s]+)"?`)
)

// FieldFilter adalah pasangan field:value dari query bebas.
type FieldFilter struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// ParsedQuery hasil parsing string pencarian.
type ParsedQuery struct {
	Tokens       []string      `json:"tokens"`
	Phrases      []string      `json:"phrases"`
	FieldFilters []FieldFilter `json:"field_filters"`
	IsOrQuery    bool          `json:"is_or_query"`
}

// IsEmpty true kalau tidak ada satupun kriteria.
func (p ParsedQuery) IsEmpty() bool {
	return len(p.Tokens) == 0 && len(p.Phrases) == 0 && len(p.FieldFilters) == 0
}

// Terms = phrases lalu tokens, urutan dipertahankan.
func (p ParsedQuery) Terms() []string {
	out := make([]string, 0, len(p.Phrases)+len(p.Tokens))
	out = append(out, p.Phrases...)
	return append(out, p.Tokens...)
}

// ParseQuery memecah query:
//
//	"frasa kutip"   → Phrases
//	field:value     → FieldFilters
//	a | b           → IsOrQuery
//	kata lain       → Tokens
//
// Setiap tahap mengganti teks yang sudah diklaim dengan spasi, jadi tidak ada teks
// yang masuk ke dua kategori.
func ParseQuery(query string) ParsedQuery {
	out := ParsedQuery{
		Tokens:       []string{},
		Phrases:      []string{},
		FieldFilters: []FieldFilter{},
	}
	work := query
	if strings.TrimSpace(work) == "" {
		return out
	}

	// 1) phrases
	work = rePhrase.ReplaceAllStringFunc(work, func(m string) string {
		sub := rePhrase.FindStringSubmatch(m)
		if len(sub) == 2 {
			if p := NormalizeText(sub[1]); p != "" {
				out.Phrases = append(out.Phrases, p)
			}
		}
		return " "
	})

	// 2) field:value (match tetap dikonsumsi walau value kosong)
	work = reField.ReplaceAllStringFunc(work, func(m string) string {
		sub := reField.FindStringSubmatch(m)
		if len(sub) == 3 {
			field := strings.ToLower(strings.TrimSpace(sub[1]))
			value := strings.TrimSpace(sub[2])
			if field != "" && value != "" {
				out.FieldFilters = append(out.FieldFilters, FieldFilter{Field: field, Value: value})
			}
		}
		return " "
	})

	// 3) OR flag (berlaku untuk seluruh query)
	if strings.Contains(work, "|") {
		out.IsOrQuery = true
		work = strings.ReplaceAll(work, "|", " ")
	}

	// 4) tokens
	for _, piece := range strings.Fields(work) {
		if t := NormalizeText(piece); t != "" {
			out.Tokens = append(out.Tokens, t)
		}
	}
	return out
}
