// file: internals/features/members/imports/route/import_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"pdpi_backend/internals/configs"
	"pdpi_backend/internals/deps"
	importController "pdpi_backend/internals/features/members/imports/controller"
	importService "pdpi_backend/internals/features/members/imports/service"
	rateLimiter "pdpi_backend/internals/middlewares"
)

// /api/a/imports
func ImportAdminRoutes(r fiber.Router, d *deps.Deps) {
	ctl := &importController.ImportController{
		DB:        d.DB,
		Runner:    importService.NewRunner(d.DB, d.Importer(), d.Log),
		Headers:   importService.DefaultHeaderMap(),
		Cache:     d.Cache,
		ChunkSize: configs.GetEnvInt("IMPORT_CHUNK_SIZE", 100),
		MaxBytes:  int64(configs.GetEnvInt("IMPORT_MAX_MB", 10)) << 20,
		Log:       d.Log,
	}

	g := r.Group("/imports")
	g.Get("/", ctl.List)
	g.Get("/template.xlsx", ctl.Template)
	g.Post("/", rateLimiter.ImportRateLimiter(), ctl.Upload)
	g.Post("/chunk", ctl.Chunk)
	g.Get("/:id", ctl.Get)
	g.Get("/:id/errors.xlsx", ctl.ErrorsXLSX)
}
