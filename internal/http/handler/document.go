package handler

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"doclib/internal/model"
	"doclib/internal/service"
)

type downloadManyRequest struct {
	DocumentIDs []int64 `json:"document_ids"`
}

// parseID reads the :id route parameter as a positive document ID.
func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func attachment(name string) string {
	return fmt.Sprintf("attachment; filename=%q", name)
}

// ListDocuments godoc
// @Summary List documents
// @Tags documents
// @Produce json
// @Param limit query int false "page size" default(10)
// @Param offset query int false "rows to skip" default(0)
// @Success 200 {object} service.DocumentListResult
// @Failure 400 {object} errorPayload
// @Router /documents [get]
func ListDocuments(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := docSvc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// UploadDocument godoc
// @Summary Upload a document
// @Description Multipart upload. name defaults to the file name without extension and fileType to its extension.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "document content"
// @Param name formData string false "display name"
// @Param fileType formData string false "pdf, doc, docx, xls, xlsx, txt, jpg or png"
// @Success 201 {object} model.Document
// @Failure 400 {object} errorPayload
// @Failure 413 {object} errorPayload
// @Router /documents [post]
func UploadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		name, fileType, ok := uploadMeta(fh, c.FormValue("name"), c.FormValue("fileType"))
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type")
		}

		doc, ok, err := uploadFile(c, docSvc, fh, name, fileType)
		if !ok {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// UploadDocuments godoc
// @Summary Upload several documents
// @Description Multipart upload of one or more "files" parts. Names and types come from the file names.
// @Description Every file is checked before any is stored.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "document contents"
// @Success 201 {array} model.Document
// @Failure 400 {object} errorPayload
// @Failure 413 {object} errorPayload
// @Router /documents/batch [post]
func UploadDocuments(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil || len(form.File["files"]) == 0 {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "at least one file is required")
		}
		files := form.File["files"]

		types := make([]model.FileType, len(files))
		names := make([]string, len(files))
		for i, fh := range files {
			name, fileType, ok := uploadMeta(fh, "", "")
			if !ok {
				return writeError(c, fiber.StatusBadRequest, "UNSUPPORTED_FILE_TYPE",
					fmt.Sprintf("unsupported file type: %s", filepath.Base(fh.Filename)))
			}
			names[i], types[i] = name, fileType
		}

		docs := make([]*model.Document, 0, len(files))
		for i, fh := range files {
			doc, ok, err := uploadFile(c, docSvc, fh, names[i], types[i])
			if !ok {
				return err
			}
			docs = append(docs, doc)
		}
		return c.Status(fiber.StatusCreated).JSON(docs)
	}
}

// uploadMeta resolves the display name and file type of an upload. Empty name and
// rawType fall back to the file name without extension and to the extension.
func uploadMeta(fh *multipart.FileHeader, name, rawType string) (string, model.FileType, bool) {
	ext := filepath.Ext(fh.Filename)
	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(fh.Filename), ext)
	}
	if rawType == "" {
		rawType = ext
	}
	fileType, ok := model.ParseFileType(rawType)
	return name, fileType, ok
}

// uploadFile stores one multipart file. When ok is false the error response has been written
// and err is what the handler returns.
func uploadFile(c *fiber.Ctx, docSvc service.DocumentService, fh *multipart.FileHeader, name string, fileType model.FileType) (doc *model.Document, ok bool, err error) {
	f, err := fh.Open()
	if err != nil {
		return nil, false, writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
	}
	defer f.Close()

	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}

	doc, err = docSvc.Upload(c.UserContext(), f, name, fileType, ct, fh.Size)
	if err != nil {
		return nil, false, writeServiceError(c, err)
	}
	return doc, true, nil
}

// GetDocument godoc
// @Summary Get document metadata
// @Tags documents
// @Produce json
// @Param id path int true "document ID"
// @Success 200 {object} model.Document
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [get]
func GetDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := docSvc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument godoc
// @Summary Delete a document
// @Description Removes the stored object, the metadata row and every share link to the document.
// @Tags documents
// @Param id path int true "document ID"
// @Success 204
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [delete]
func DeleteDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := docSvc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DownloadDocument godoc
// @Summary Download a document
// @Tags documents
// @Produce octet-stream
// @Param id path int true "document ID"
// @Success 200 {file} file
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /documents/{id}/download [get]
func DownloadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		return sendDocument(c, docSvc, id)
	}
}

// sendDocument streams a document as an attachment. The body stream is closed by fasthttp.
func sendDocument(c *fiber.Ctx, docSvc service.DocumentService, id int64) error {
	rc, doc, err := docSvc.Download(c.UserContext(), id)
	if err != nil {
		return writeServiceError(c, err)
	}

	ct := doc.ContentType
	if ct == "" {
		ct = fiber.MIMEOctetStream
	}
	c.Set(fiber.HeaderContentType, ct)
	c.Set(fiber.HeaderContentDisposition, attachment(doc.FileName()))
	if doc.Size > 0 {
		return c.SendStream(rc, int(doc.Size))
	}
	return c.SendStream(rc)
}

// DownloadDocuments godoc
// @Summary Download several documents as a zip
// @Description Unknown IDs are skipped; 404 only when none exist.
// @Tags documents
// @Accept json
// @Produce application/zip
// @Param body body downloadManyRequest true "document IDs"
// @Success 200 {file} file
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /documents/download [post]
func DownloadDocuments(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req downloadManyRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		// Buffered so a failure halfway through still yields an error envelope instead of a torn archive.
		var buf bytes.Buffer
		if err := docSvc.DownloadMany(c.UserContext(), req.DocumentIDs, &buf); err != nil {
			return writeServiceError(c, err)
		}

		c.Set(fiber.HeaderContentType, "application/zip")
		c.Set(fiber.HeaderContentDisposition, attachment("documents.zip"))
		return c.Send(buf.Bytes())
	}
}
