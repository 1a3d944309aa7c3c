package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"doclib/internal/model"
	"doclib/internal/service"
)

type issueShareRequest struct {
	Duration int    `json:"duration"`
	Unit     string `json:"unit"`
}

type issueShareResponse struct {
	ID        int64     `json:"id"`
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IssueShareLink godoc
// @Summary Share a document
// @Description Creates a link that resolves to the document until duration units have passed.
// @Tags share
// @Accept json
// @Produce json
// @Param id path int true "document ID"
// @Param body body issueShareRequest true "validity, unit is one of Minutes, Hours, Days, Weeks, Months, Years"
// @Success 201 {object} issueShareResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /documents/{id}/share [post]
func IssueShareLink(shareSvc service.ShareService, baseURL string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req issueShareRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		unit, err := model.ParseTimeUnit(req.Unit)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", "unknown time unit")
		}

		issued, err := shareSvc.Issue(c.UserContext(), id, req.Duration, unit)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(issueShareResponse{
			ID:        issued.LinkID,
			Token:     issued.Token,
			URL:       baseURL + "/" + issued.Token,
			ExpiresAt: issued.ExpiresAt,
		})
	}
}

// GetSharedDocument godoc
// @Summary Open a share link
// @Description Unknown and expired links get the same 404.
// @Tags share
// @Produce json
// @Param token path string true "share link token"
// @Success 200 {object} model.DocumentView
// @Failure 404 {object} errorPayload
// @Router /shared/{token} [get]
func GetSharedDocument(shareSvc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := shareSvc.Resolve(c.UserContext(), c.Params("token"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(view)
	}
}

// DownloadSharedDocument godoc
// @Summary Download through a share link
// @Tags share
// @Produce octet-stream
// @Param token path string true "share link token"
// @Success 200 {file} file
// @Failure 404 {object} errorPayload
// @Router /shared/{token}/download [get]
func DownloadSharedDocument(shareSvc service.ShareService, docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := shareSvc.Resolve(c.UserContext(), c.Params("token"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return sendDocument(c, docSvc, view.ID)
	}
}
