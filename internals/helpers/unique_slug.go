// file: internals/helpers/unique_slug.go
package helper

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// SlugScope menentukan tempat cek keunikan slug.
type SlugScope struct {
	Table      string // "branches"
	Column     string // "branch_code"
	SoftDelete string // kolom deleted_at, kosong = tanpa soft-delete
	MaxLen     int
	Fallback   string // dipakai kalau base kosong setelah slugify
}

// UniqueSlug: coba base, lalu base-2, base-3, ... (case-insensitive, abaikan baris terhapus).
func UniqueSlug(ctx context.Context, db *gorm.DB, scope SlugScope, base string) (string, error) {
	if scope.Table == "" || scope.Column == "" {
		return "", errors.New("slug scope: table/column wajib diisi")
	}
	maxLen := scope.MaxLen
	if maxLen <= 0 {
		maxLen = 60
	}
	if strings.TrimSpace(base) == "" {
		base = scope.Fallback
	}
	base = Slugify(base, maxLen)

	taken := func(candidate string) (bool, error) {
		q := db.WithContext(ctx).Table(scope.Table).
			Where(fmt.Sprintf("lower(%s) = lower(?)", scope.Column), candidate)
		if scope.SoftDelete != "" {
			q = q.Where(scope.SoftDelete + " IS NULL")
		}
		var n int64
		if err := q.Count(&n).Error; err != nil {
			return false, err
		}
		return n > 0, nil
	}

	ok, err := taken(base)
	if err != nil {
		return "", err
	}
	if !ok {
		return base, nil
	}
	for i := 2; i < 1000; i++ {
		suf := fmt.Sprintf("-%d", i)
		cand := base
		if len(cand)+len(suf) > maxLen {
			cand = strings.Trim(cand[:maxLen-len(suf)], "-")
		}
		cand += suf
		ok, err := taken(cand)
		if err != nil {
			return "", err
		}
		if !ok {
			return cand, nil
		}
	}
	return "", errors.New("gagal membuat slug unik")
}
