// file: internals/features/members/province/service/aliases.go
package service

// CanonicalProvinces: 38 provinsi (urutan kode BPS).
var CanonicalProvinces = []string{
	"Aceh",
	"Sumatera Utara",
	"Sumatera Barat",
	"Riau",
	"Jambi",
	"Sumatera Selatan",
	"Bengkulu",
	"Lampung",
	"Kepulauan Bangka Belitung",
	"Kepulauan Riau",
	"DKI Jakarta",
	"Jawa Barat",
	"Jawa Tengah",
	"DI Yogyakarta",
	"Jawa Timur",
	"Banten",
	"Bali",
	"Nusa Tenggara Barat",
	"Nusa Tenggara Timur",
	"Kalimantan Barat",
	"Kalimantan Tengah",
	"Kalimantan Selatan",
	"Kalimantan Timur",
	"Kalimantan Utara",
	"Sulawesi Utara",
	"Sulawesi Tengah",
	"Sulawesi Selatan",
	"Sulawesi Tenggara",
	"Gorontalo",
	"Sulawesi Barat",
	"Maluku",
	"Maluku Utara",
	"Papua Barat",
	"Papua Barat Daya",
	"Papua",
	"Papua Selatan",
	"Papua Tengah",
	"Papua Pegunungan",
}

// variasi penulisan → nama kanonik. Kunci sudah dalam bentuk aliasKey.
// Nama kanonik sendiri ditambahkan otomatis di init().
var provinceAliases = map[string]string{
	// Sumatera
	"nad":                      "Aceh",
	"nanggroe aceh darussalam": "Aceh",
	"daerah istimewa aceh":     "Aceh",
	"di aceh":                  "Aceh",
	"sumut":                    "Sumatera Utara",
	"sumatra utara":            "Sumatera Utara",
	"sumbar":                   "Sumatera Barat",
	"sumatra barat":            "Sumatera Barat",
	"sumsel":                   "Sumatera Selatan",
	"sumatra selatan":          "Sumatera Selatan",
	"kepri":                    "Kepulauan Riau",
	"kep riau":                 "Kepulauan Riau",
	"babel":                    "Kepulauan Bangka Belitung",
	"bangka belitung":          "Kepulauan Bangka Belitung",
	"kep bangka belitung":      "Kepulauan Bangka Belitung",
	"bangka-belitung":          "Kepulauan Bangka Belitung",

	// Jawa
	"dki":                           "DKI Jakarta",
	"jakarta":                       "DKI Jakarta",
	"dki jakarta raya":              "DKI Jakarta",
	"daerah khusus ibukota jakarta": "DKI Jakarta",
	"jakarta raya":                  "DKI Jakarta",
	"jabar":                         "Jawa Barat",
	"jateng":                        "Jawa Tengah",
	"jatim":                         "Jawa Timur",
	"diy":                           "DI Yogyakarta",
	"yogyakarta":                    "DI Yogyakarta",
	"jogja":                         "DI Yogyakarta",
	"jogjakarta":                    "DI Yogyakarta",
	"daerah istimewa yogyakarta":    "DI Yogyakarta",
	"d i yogyakarta":                "DI Yogyakarta",

	// Nusa Tenggara
	"ntb": "Nusa Tenggara Barat",
	"ntt": "Nusa Tenggara Timur",

	// Kalimantan
	"kalbar":  "Kalimantan Barat",
	"kalteng": "Kalimantan Tengah",
	"kalsel":  "Kalimantan Selatan",
	"kaltim":  "Kalimantan Timur",
	"kaltara": "Kalimantan Utara",

	// Sulawesi
	"sulut":   "Sulawesi Utara",
	"sulteng": "Sulawesi Tengah",
	"sulsel":  "Sulawesi Selatan",
	"sultra":  "Sulawesi Tenggara",
	"sulbar":  "Sulawesi Barat",

	// Maluku & Papua
	"malut":            "Maluku Utara",
	"pabar":            "Papua Barat",
	"irian jaya":       "Papua",
	"irian jaya barat": "Papua Barat",
	"pbd":              "Papua Barat Daya",
}

func init() {
	for _, p := range CanonicalProvinces {
		provinceAliases[aliasKey(p)] = p
	}
}
