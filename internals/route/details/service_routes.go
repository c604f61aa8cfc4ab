package details

import (
	"github.com/gofiber/fiber/v2"

	"pdpi_backend/internals/deps"
	duesRoute "pdpi_backend/internals/features/dues/route"
	ebookRoute "pdpi_backend/internals/features/ebooks/route"
)

// Layanan anggota: iuran + bank data e-book.

func ServicePublicRoutes(public fiber.Router, d *deps.Deps) {
	duesRoute.DuesPublicRoutes(public, d)
}

func ServiceUserRoutes(user fiber.Router, d *deps.Deps) {
	duesRoute.DuesUserRoutes(user, d)
	ebookRoute.EbookUserRoutes(user, d)
}

func ServiceAdminRoutes(admin fiber.Router, d *deps.Deps) {
	duesRoute.DuesAdminRoutes(admin, d)
	ebookRoute.EbookAdminRoutes(admin, d)
}
