package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"companyapi/internal/service"
)

// Config carries the HTTP-facing settings of the company routes.
type Config struct {
	// NotFoundStatus is returned, with an empty body, when a company does not exist.
	NotFoundStatus int
}

// RegisterRoutes attaches the ops endpoints and the company API to app.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.CompanyService, cfg Config) {
	if cfg.NotFoundStatus == 0 {
		cfg.NotFoundStatus = fiber.StatusBadRequest
	}

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	company := app.Group("/api/v1/company")
	company.Get("/list", ListCompanies(svc))
	company.Get("/find/:id", FindCompany(svc, cfg.NotFoundStatus))
	company.Post("/create", CreateCompany(svc))
	company.Put("/update/:id", UpdateCompany(svc, cfg.NotFoundStatus))
	company.Delete("/delete/:id", DeleteCompany(svc, cfg.NotFoundStatus))
	company.Post("/export", ExportCompanies(svc))
}
