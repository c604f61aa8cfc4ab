// file: internals/features/members/search/service/normalize.go
package service

import (
	"regexp"
	"strings"
)

var (
	// "dr", "dr." or "dr.dr." style prefixes; a bare "dr" must be followed by a space
	reHonorific = regexp.MustCompile(`^(?:dr(?:\.\s*|\s+))+`)
	rePunct     = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)
)

// NormalizeText dipakai bersama oleh tokenisasi pencarian dan kunci duplikat import.
// "Dr. Budi  Santoso" → "budi santoso".
func NormalizeText(s string) string {
	if s == "" {
		return ""
	}
	s = strings.TrimSpace(strings.ToLower(s))
	s = reHonorific.ReplaceAllString(s, "")
	s = rePunct.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")

	// punctuation removal can expose a new "dr " prefix ("dr. .dr budi")
	return reHonorific.ReplaceAllString(s, "")
}
