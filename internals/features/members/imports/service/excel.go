// file: internals/features/members/imports/service/excel.go
package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	templateSheet = "Anggota"
	errorSheet    = "Error"
)

// Sheet: hasil baca workbook (sheet pertama yang punya kolom NAMA).
type Sheet struct {
	Name     string
	Headers  []string
	Rows     []Row
	Unmapped []string // header yang tidak dikenali
}

// ReadWorkbook membaca file xlsx; baris kosong total dilewati.
func ReadWorkbook(r io.Reader, headers HeaderMap) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("file bukan xlsx yang valid: %w", err)
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		// tanggal asli Excel dibaca sebagai serial, bukan teks berformat mm-dd-yy
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("gagal membaca sheet %s: %w", name, err)
		}
		hdrIdx := findHeaderRow(rows, headers)
		if hdrIdx < 0 {
			continue
		}

		sh := &Sheet{Name: name, Headers: rows[hdrIdx]}
		for _, h := range sh.Headers {
			if strings.TrimSpace(h) == "" {
				continue
			}
			if _, ok := headers.Canonical(h); !ok {
				sh.Unmapped = append(sh.Unmapped, h)
			}
		}
		for _, cells := range rows[hdrIdx+1:] {
			if isBlankRow(cells) {
				continue
			}
			sh.Rows = append(sh.Rows, headers.MapRow(sh.Headers, cells))
		}
		return sh, nil
	}
	return nil, fmt.Errorf("kolom %s tidak ditemukan di sheet mana pun", ColNama)
}

// header boleh tidak di baris pertama (judul/logo di atasnya); cek 10 baris awal
func findHeaderRow(rows [][]string, headers HeaderMap) int {
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		for _, cell := range rows[i] {
			if c, ok := headers.Canonical(cell); ok && c == ColNama {
				return i
			}
		}
	}
	return -1
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Chunks memecah rows jadi potongan berukuran size.
func Chunks(rows []Row, size int) [][]Row {
	if size <= 0 {
		size = 100
	}
	out := make([][]Row, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		out = append(out, rows[start:end])
	}
	return out
}

/* ===============================
   Writer (template & error export)
=================================*/

func newStyledFile(sheet string, headers []string, widths map[int]float64) (*excelize.File, error) {
	f := excelize.NewFile()
	idx, err := f.NewSheet(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("gagal membuat sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("gagal membuat style header: %w", err)
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			f.Close()
			return nil, err
		}
		w := 18.0
		if v, ok := widths[i]; ok {
			w = v
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func toBytes(f *excelize.File) ([]byte, error) {
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("gagal menulis xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// TemplateXLSX: header kanonik + satu baris contoh.
func TemplateXLSX() ([]byte, error) {
	f, err := newStyledFile(templateSheet, Columns, map[int]float64{3: 30, 11: 30, 14: 40})
	if err != nil {
		return nil, err
	}
	example := map[string]string{
		ColCabang:       "Jakarta",
		ColStatus:       "Biasa",
		ColNPA:          "12345",
		ColNama:         "Budi Santoso",
		ColJenisKelamin: "L",
		ColGelar1:       "dr.",
		ColGelar2:       "Sp.P",
		ColTempatLahir:  "Bandung",
		ColTglLahir:     "17-08-1985",
		ColAlumni:       "Universitas Indonesia",
		ColThnLulus:     "2015",
		ColTempatTugas:  "RSUP Persahabatan",
		ColKota:         "Jakarta Timur",
		ColProvinsi:     "DKI Jakarta",
		ColNoHP:         "081234567890",
		ColEmail:        "budi@example.com",
	}
	for i, col := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := f.SetCellValue(templateSheet, cell, example[col]); err != nil {
			f.Close()
			return nil, err
		}
	}
	return toBytes(f)
}

// ErrorsXLSX: satu baris per RowError (baris, alasan, detail, lalu kolom asli).
func ErrorsXLSX(errs []RowError) ([]byte, error) {
	headers := append([]string{"BARIS", "ALASAN", "DETAIL"}, Columns...)
	f, err := newStyledFile(errorSheet, headers, map[int]float64{0: 8, 1: 14, 2: 45})
	if err != nil {
		return nil, err
	}
	for r, e := range errs {
		values := make([]interface{}, 0, len(headers))
		values = append(values, e.Row, string(e.Reason), e.Detail)
		for _, col := range Columns {
			values = append(values, e.Payload[col])
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(errorSheet, cell, &values); err != nil {
			f.Close()
			return nil, err
		}
	}
	return toBytes(f)
}
