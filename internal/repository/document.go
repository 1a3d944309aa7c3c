package repository

import (
	"context"

	"doclib/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
// Persistence only; validation lives in the service layer.
type DocumentRepository interface {
	// Create inserts a new document record.
	// ID and UploadDate defaults are assigned by the database when left zero.
	// Returns the stored document (may include values set by the DB).
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id int64) (*model.Document, error)

	// FindByIDs returns the documents that exist among ids, ordered by ID. Missing IDs are skipped.
	FindByIDs(ctx context.Context, ids []int64) ([]model.Document, error)

	// List returns a paginated list of documents and total rows count for the given filter.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Document], error)

	// IncrementDownloadCount atomically adds one to the counter and returns the new value.
	IncrementDownloadCount(ctx context.Context, id int64) (int64, error)

	// IncrementDownloadCounts adds one to the counter of every listed document in one statement.
	IncrementDownloadCounts(ctx context.Context, ids []int64) error

	// Delete removes a document by ID. Share links and grants go with it (ON DELETE CASCADE).
	// It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id int64) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
