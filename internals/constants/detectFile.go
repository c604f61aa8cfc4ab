package constants

import (
	"path/filepath"
	"strings"
)

// Jenis file upload yang diterima.
const (
	FileKindImage       = "image"
	FileKindPDF         = "pdf"
	FileKindEPUB        = "epub"
	FileKindSpreadsheet = "spreadsheet"
	FileKindUnknown     = "unknown"
)

func DetectFileKindFromExt(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg", ".webp":
		return FileKindImage
	case ".pdf":
		return FileKindPDF
	case ".epub":
		return FileKindEPUB
	case ".xlsx", ".xlsm":
		return FileKindSpreadsheet
	default:
		return FileKindUnknown
	}
}
