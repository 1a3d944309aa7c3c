package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"doclib/internal/model"
	"doclib/internal/repository"
)

// PostgreSQL error codes surfaced by share link writes.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// ShareLinkPostgres is a PostgreSQL implementation of repository.ShareLinkRepository.
type ShareLinkPostgres struct {
	db *sql.DB
}

// NewShareLinkPostgres creates a new ShareLinkPostgres repository.
func NewShareLinkPostgres(db *sql.DB) *ShareLinkPostgres {
	return &ShareLinkPostgres{db: db}
}

var _ repository.ShareLinkRepository = (*ShareLinkPostgres)(nil)

// Create inserts the link and its grant inside one transaction.
func (r *ShareLinkPostgres) Create(ctx context.Context, link *model.ShareLink, grant *model.AccessGrant) (*model.ShareLink, *model.AccessGrant, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const qLink = `
		INSERT INTO share_links (document_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, document_id, token, expires_at, created_at
	`
	var out model.ShareLink
	if err := tx.QueryRowContext(ctx, qLink, link.DocumentID, link.Token, link.ExpiresAt).Scan(
		&out.ID,
		&out.DocumentID,
		&out.Token,
		&out.ExpiresAt,
		&out.CreatedAt,
	); err != nil {
		return nil, nil, mapWriteError("insert share link", err)
	}

	const qGrant = `
		INSERT INTO access_grants (document_id, share_link_id)
		VALUES ($1, $2)
		RETURNING id, document_id, share_link_id
	`
	g := model.AccessGrant{ExpiresAt: out.ExpiresAt}
	if err := tx.QueryRowContext(ctx, qGrant, grant.DocumentID, out.ID).Scan(
		&g.ID,
		&g.DocumentID,
		&g.ShareLinkID,
	); err != nil {
		return nil, nil, mapWriteError("insert access grant", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}
	return &out, &g, nil
}

// FindByToken returns the link matching token and its grant, if any.
// The grant's expiry is the link's expiry.
func (r *ShareLinkPostgres) FindByToken(ctx context.Context, token string) (*model.ShareLink, *model.AccessGrant, error) {
	const q = `
		SELECT sl.id, sl.document_id, sl.token, sl.expires_at, sl.created_at,
		       ag.id, ag.document_id
		FROM share_links sl
		LEFT JOIN access_grants ag ON ag.share_link_id = sl.id
		WHERE sl.token = $1
		ORDER BY ag.id
		LIMIT 1
	`
	var (
		link       model.ShareLink
		grantID    sql.NullInt64
		grantDocID sql.NullInt64
	)
	if err := r.db.QueryRowContext(ctx, q, token).Scan(
		&link.ID,
		&link.DocumentID,
		&link.Token,
		&link.ExpiresAt,
		&link.CreatedAt,
		&grantID,
		&grantDocID,
	); err != nil {
		return nil, nil, err
	}

	if !grantID.Valid {
		return &link, nil, nil
	}
	return &link, &model.AccessGrant{
		ID:          grantID.Int64,
		DocumentID:  grantDocID.Int64,
		ShareLinkID: link.ID,
		ExpiresAt:   link.ExpiresAt,
	}, nil
}

func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, repository.ErrDocumentMissing)
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w", op, repository.ErrDuplicateToken)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
