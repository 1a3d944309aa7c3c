package repository

import (
	"context"
	"errors"

	"doclib/internal/model"
)

var (
	// ErrDocumentMissing is returned by Create when the referenced document no longer exists.
	ErrDocumentMissing = errors.New("referenced document does not exist")
	// ErrDuplicateToken is returned by Create when the token is already taken.
	ErrDuplicateToken = errors.New("share link token already exists")
)

// ShareLinkRepository persists share links and their access grants.
type ShareLinkRepository interface {
	// Create stores link and grant in a single transaction; either both rows exist afterwards or neither.
	// The returned values carry the generated IDs. grant.ShareLinkID is filled from the new link.
	Create(ctx context.Context, link *model.ShareLink, grant *model.AccessGrant) (*model.ShareLink, *model.AccessGrant, error)

	// FindByToken looks a link up by exact token. The grant is nil when the link has none.
	// Returns sql.ErrNoRows when no link matches.
	FindByToken(ctx context.Context, token string) (*model.ShareLink, *model.AccessGrant, error)
}
