package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"

	"doclib/internal/model"
	"doclib/internal/repository"
	"doclib/internal/storage"
)

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Upload uploads the content to object storage, saves metadata to DB, and rolls back storage if DB save fails.
	// The stored object name is a UUID plus the file type extension; name is kept as display name only.
	Upload(ctx context.Context, r io.Reader, name string, fileType model.FileType, contentType string, size int64) (*model.Document, error)

	// List returns documents using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*DocumentListResult, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id int64) (*model.Document, error)

	// Delete removes a document by ID from both storage and repository.
	Delete(ctx context.Context, id int64) error

	// Download opens the document bytes and counts the download.
	// The caller must close the returned reader.
	Download(ctx context.Context, id int64) (io.ReadCloser, *model.Document, error)

	// DownloadMany writes a zip archive of the existing documents among ids to w and counts each download.
	DownloadMany(ctx context.Context, ids []int64, w io.Writer) error
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store storage.Storage
	repo  repository.DocumentRepository
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository) DocumentService {
	return &documentService{store: store, repo: repo}
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, name string, fileType model.FileType, contentType string, size int64) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidArgument("name is required")
	}
	ft, ok := model.ParseFileType(string(fileType))
	if !ok {
		return nil, invalidArgument("unsupported file type %q", fileType)
	}

	key := storage.DocumentKey(uuid.New().String() + "." + string(ft))

	// Upload to object storage
	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-name": name,
			"file-type":     string(ft),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	doc := &model.Document{
		Name:          name,
		FileType:      ft,
		StoragePath:   objInfo.Key,
		Size:          objInfo.Size,
		ContentType:   objInfo.ContentType,
		DownloadCount: 0,
		PreviewImage:  model.DefaultPreviewImage,
		Icon:          ft.Icon(),
		UploadDate:    time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns a document by ID.
func (s *documentService) Get(ctx context.Context, id int64) (*model.Document, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	return s.find(ctx, id)
}

func (s *documentService) find(ctx context.Context, id int64) (*model.Document, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("document %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return doc, nil
}

// Delete removes a document from storage, then deletes its record.
func (s *documentService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	// Find the document to get its storage path
	doc, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	// Delete from storage first; if this fails, keep DB row to avoid orphaned storage reference loss
	if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	// Share links and access grants are removed by the cascade.
	return s.repo.Delete(ctx, id)
}

// Download opens the stored bytes first so a failed read never counts as a download.
func (s *documentService) Download(ctx context.Context, id int64) (io.ReadCloser, *model.Document, error) {
	if id <= 0 {
		return nil, nil, ErrInvalidID
	}
	doc, err := s.find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, _, err := s.store.Get(ctx, doc.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, fmt.Errorf("document %d content: %w", id, ErrNotFound)
		}
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}

	count, err := s.repo.IncrementDownloadCount(ctx, doc.ID)
	if err != nil {
		rc.Close()
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, fmt.Errorf("document %d: %w", id, ErrNotFound)
		}
		return nil, nil, fmt.Errorf("increment download count: %w", err)
	}
	doc.DownloadCount = count
	return rc, doc, nil
}

func (s *documentService) DownloadMany(ctx context.Context, ids []int64, w io.Writer) error {
	if len(ids) == 0 {
		return invalidArgument("document ids must not be empty")
	}
	for _, id := range ids {
		if id <= 0 {
			return ErrInvalidID
		}
	}

	docs, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("documents: %w", ErrNotFound)
	}

	zw := zip.NewWriter(w)
	seen := make(map[string]struct{}, len(docs))
	counted := make([]int64, 0, len(docs))
	for i := range docs {
		doc := &docs[i]
		name := archiveName(doc, seen)
		seen[name] = struct{}{}

		if err := s.addToArchive(ctx, zw, name, doc); err != nil {
			return err
		}
		counted = append(counted, doc.ID)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}

	// Counts move only once the whole archive has been written.
	if err := s.repo.IncrementDownloadCounts(ctx, counted); err != nil {
		return fmt.Errorf("increment download counts: %w", err)
	}
	return nil
}

// archiveName returns the first of name.ext, name-ID.ext, name-ID-2.ext, ... not yet in seen.
func archiveName(doc *model.Document, seen map[string]struct{}) string {
	name := doc.FileName()
	if _, dup := seen[name]; !dup {
		return name
	}
	base := fmt.Sprintf("%s-%d", doc.Name, doc.ID)
	name = base + "." + string(doc.FileType)
	for n := 2; ; n++ {
		if _, dup := seen[name]; !dup {
			return name
		}
		name = fmt.Sprintf("%s-%d.%s", base, n, doc.FileType)
	}
}

func (s *documentService) addToArchive(ctx context.Context, zw *zip.Writer, name string, doc *model.Document) error {
	rc, _, err := s.store.Get(ctx, doc.StoragePath)
	if err != nil {
		return fmt.Errorf("open storage %s: %w", doc.StoragePath, err)
	}
	defer rc.Close()

	entry, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create archive entry: %w", err)
	}
	if _, err := io.Copy(entry, rc); err != nil {
		return fmt.Errorf("write archive entry %s: %w", name, err)
	}
	return nil
}
