package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"doclib/internal/metrics"
	"doclib/internal/model"
	"doclib/internal/repository"
)

var tracer = otel.Tracer("doclib/internal/service")

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// TokenGenerator produces share link tokens. Tokens must be unique and unguessable,
// and generation must be safe for concurrent use.
type TokenGenerator interface {
	NewToken() (string, error)
}

// UUIDTokenGenerator issues random (version 4) UUIDs: 122 bits from crypto/rand.
type UUIDTokenGenerator struct{}

func (UUIDTokenGenerator) NewToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// IssuedShareLink is returned to the owner of a document after sharing it.
type IssuedShareLink struct {
	LinkID    int64     `json:"id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ShareService issues share links and resolves them back to documents.
type ShareService interface {
	// Issue creates a link to documentID that stays valid for duration units.
	Issue(ctx context.Context, documentID int64, duration int, unit model.TimeUnit) (*IssuedShareLink, error)

	// Resolve returns the document behind token. Unknown, grant-less and expired tokens
	// all fail with ErrInvalidOrExpired.
	Resolve(ctx context.Context, token string) (*model.DocumentView, error)
}

// ShareOption customizes a ShareService.
type ShareOption func(*shareService)

func WithClock(c Clock) ShareOption {
	return func(s *shareService) { s.clock = c }
}

func WithTokenGenerator(g TokenGenerator) ShareOption {
	return func(s *shareService) { s.tokens = g }
}

func WithShareMetrics(m *metrics.ShareMetrics) ShareOption {
	return func(s *shareService) { s.metrics = m }
}

func WithLogger(l zerolog.Logger) ShareOption {
	return func(s *shareService) { s.log = l }
}

type shareService struct {
	docs    repository.DocumentRepository
	links   repository.ShareLinkRepository
	clock   Clock
	tokens  TokenGenerator
	metrics *metrics.ShareMetrics
	log     zerolog.Logger
}

// NewShareService constructs a ShareService. Without options it uses the system clock,
// UUID tokens, no metrics and a disabled logger.
func NewShareService(docs repository.DocumentRepository, links repository.ShareLinkRepository, opts ...ShareOption) ShareService {
	s := &shareService{
		docs:   docs,
		links:  links,
		clock:  SystemClock,
		tokens: UUIDTokenGenerator{},
		log:    zerolog.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *shareService) Issue(ctx context.Context, documentID int64, duration int, unit model.TimeUnit) (_ *IssuedShareLink, err error) {
	ctx, span := tracer.Start(ctx, "ShareService.Issue", trace.WithAttributes(
		attribute.Int64("document.id", documentID),
		attribute.Int("share.duration", duration),
		attribute.String("share.unit", string(unit)),
	))
	defer func() { endSpan(span, err) }()

	if documentID <= 0 {
		return nil, invalidArgument("document id must be greater than 0")
	}
	if duration <= 0 {
		return nil, invalidArgument("duration must be greater than 0")
	}
	ttl, err := model.ToDuration(duration, unit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	doc, err := s.docs.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("document %d: %w", documentID, ErrNotFound)
		}
		return nil, fmt.Errorf("find document: %w", err)
	}

	token, err := s.tokens.NewToken()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	if token == "" {
		return nil, errors.New("generate token: empty token")
	}

	// Postgres keeps microseconds; truncating keeps the returned expiry equal to the stored one.
	now := s.clock.Now().UTC().Truncate(time.Microsecond)
	expiresAt := now.Add(ttl)

	link, _, err := s.links.Create(ctx,
		&model.ShareLink{DocumentID: doc.ID, Token: token, ExpiresAt: expiresAt},
		&model.AccessGrant{DocumentID: doc.ID, ExpiresAt: expiresAt},
	)
	if err != nil {
		if errors.Is(err, repository.ErrDocumentMissing) {
			return nil, fmt.Errorf("document %d: %w", documentID, ErrNotFound)
		}
		return nil, fmt.Errorf("store share link: %w", err)
	}

	s.metrics.Issued()
	s.log.Info().
		Str("event", "share_link_issued").
		Int64("document_id", doc.ID).
		Int64("share_link_id", link.ID).
		Time("expires_at", link.ExpiresAt).
		Send()

	return &IssuedShareLink{
		LinkID:    link.ID,
		Token:     link.Token,
		ExpiresAt: link.ExpiresAt.UTC(),
	}, nil
}

func (s *shareService) Resolve(ctx context.Context, token string) (_ *model.DocumentView, err error) {
	ctx, span := tracer.Start(ctx, "ShareService.Resolve")
	defer func() { endSpan(span, err) }()

	if token == "" {
		return nil, invalidArgument("share link must not be empty")
	}

	link, grant, err := s.links.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.reject(metrics.ResultInvalid, "unknown token", 0)
		}
		return nil, fmt.Errorf("find share link: %w", err)
	}
	span.SetAttributes(attribute.Int64("share_link.id", link.ID))

	if grant == nil || grant.DocumentID != link.DocumentID {
		return nil, s.reject(metrics.ResultInvalid, "missing access grant", link.ID)
	}
	if link.ExpiredAt(s.clock.Now()) {
		return nil, s.reject(metrics.ResultExpired, "expired", link.ID)
	}

	doc, err := s.docs.FindByID(ctx, link.DocumentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.reject(metrics.ResultInvalid, "document deleted", link.ID)
		}
		return nil, fmt.Errorf("find document: %w", err)
	}

	s.metrics.Resolved(metrics.ResultOK)
	view := doc.View()
	return &view, nil
}

// reject records why a resolution failed and returns the single error kind exposed to callers.
func (s *shareService) reject(result, reason string, linkID int64) error {
	s.metrics.Resolved(result)
	ev := s.log.Warn().
		Str("event", "share_link_rejected").
		Str("result", result).
		Str("reason", reason)
	if linkID != 0 {
		ev = ev.Int64("share_link_id", linkID)
	}
	ev.Send()
	return ErrInvalidOrExpired
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
