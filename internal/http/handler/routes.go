package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"doclib/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// shareBaseURL is the public prefix that issued tokens are appended to.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService, shareSvc service.ShareService, shareBaseURL string) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Get("/documents", ListDocuments(docSvc))
	app.Post("/documents", UploadDocument(docSvc))
	app.Post("/documents/batch", UploadDocuments(docSvc))
	// Registered before /documents/:id so "download" is never parsed as an ID.
	app.Post("/documents/download", DownloadDocuments(docSvc))
	app.Get("/documents/:id", GetDocument(docSvc))
	app.Delete("/documents/:id", DeleteDocument(docSvc))
	app.Get("/documents/:id/download", DownloadDocument(docSvc))
	app.Post("/documents/:id/share", IssueShareLink(shareSvc, shareBaseURL))

	app.Get("/shared/:token", GetSharedDocument(shareSvc))
	app.Get("/shared/:token/download", DownloadSharedDocument(shareSvc, docSvc))
}
