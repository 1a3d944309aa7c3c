package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"doclib/internal/model"
	"doclib/internal/repository"
)

const documentColumns = `id, name, file_type, storage_path, size, content_type, download_count, preview_image, icon, upload_date`

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (*model.Document, error) {
	var d model.Document
	if err := s.Scan(
		&d.ID,
		&d.Name,
		&d.FileType,
		&d.StoragePath,
		&d.Size,
		&d.ContentType,
		&d.DownloadCount,
		&d.PreviewImage,
		&d.Icon,
		&d.UploadDate,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (name, file_type, storage_path, size, content_type, download_count, preview_image, icon, upload_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.Name,
		doc.FileType,
		doc.StoragePath,
		doc.Size,
		doc.ContentType,
		doc.DownloadCount,
		doc.PreviewImage,
		doc.Icon,
		doc.UploadDate,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// FindByIDs fetches every existing document among ids.
func (r *DocumentPostgres) FindByIDs(ctx context.Context, ids []int64) ([]model.Document, error) {
	if len(ids) == 0 {
		return []model.Document{}, nil
	}

	in, args := idList(ids)
	q := `SELECT ` + documentColumns + ` FROM documents WHERE id IN (` + in + `) ORDER BY id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0, len(ids))
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// List returns documents using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	// Count total rows
	const qCount = `SELECT COUNT(*) FROM documents`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	// Fetch page
	const qList = `
		SELECT ` + documentColumns + `
		FROM documents
		ORDER BY upload_date DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// IncrementDownloadCount bumps download_count in a single statement so concurrent downloads are not lost.
func (r *DocumentPostgres) IncrementDownloadCount(ctx context.Context, id int64) (int64, error) {
	const q = `UPDATE documents SET download_count = download_count + 1 WHERE id = $1 RETURNING download_count`
	var count int64
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// IncrementDownloadCounts adds one to the counter of every document in ids with a single statement.
func (r *DocumentPostgres) IncrementDownloadCounts(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	in, args := idList(ids)
	q := `UPDATE documents SET download_count = download_count + 1 WHERE id IN (` + in + `)`
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return err
	}
	return nil
}

// idList renders ids as numbered placeholders and their arguments.
func idList(ids []int64) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	return strings.Join(placeholders, ", "), args
}

// Delete removes a document by ID. It does not return an error if the row does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM documents WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, q, id); err != nil {
		return err
	}
	return nil
}
