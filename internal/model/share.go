package model

import (
	"errors"
	"math"
	"strings"
	"time"
)

var (
	ErrUnknownTimeUnit    = errors.New("unknown time unit")
	ErrDurationOutOfRange = errors.New("duration out of range")
)

// TimeUnit is the unit a share duration is expressed in.
type TimeUnit string

const (
	Minutes TimeUnit = "Minutes"
	Hours   TimeUnit = "Hours"
	Days    TimeUnit = "Days"
	Weeks   TimeUnit = "Weeks"
	Months  TimeUnit = "Months"
	Years   TimeUnit = "Years"
)

const day = 24 * time.Hour

// Weeks, months and years are fixed multiples of a day: 7, 30 and 365.
var unitLengths = map[TimeUnit]time.Duration{
	Minutes: time.Minute,
	Hours:   time.Hour,
	Days:    day,
	Weeks:   7 * day,
	Months:  30 * day,
	Years:   365 * day,
}

// ParseTimeUnit matches s case-insensitively against the known units.
func ParseTimeUnit(s string) (TimeUnit, error) {
	for u := range unitLengths {
		if strings.EqualFold(string(u), strings.TrimSpace(s)) {
			return u, nil
		}
	}
	return "", ErrUnknownTimeUnit
}

// ToDuration converts n units into a time.Duration.
func ToDuration(n int, unit TimeUnit) (time.Duration, error) {
	length, ok := unitLengths[unit]
	if !ok {
		return 0, ErrUnknownTimeUnit
	}
	if n <= 0 || int64(n) > math.MaxInt64/int64(length) {
		return 0, ErrDurationOutOfRange
	}
	return time.Duration(n) * length, nil
}

// ShareLink grants anonymous read access to one document until ExpiresAt.
// Links are never updated once created.
type ShareLink struct {
	ID         int64     `json:"id"`
	DocumentID int64     `json:"document_id"`
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// ExpiredAt reports whether the link is expired at now. The link is active strictly before ExpiresAt.
func (l *ShareLink) ExpiredAt(now time.Time) bool {
	return !now.Before(l.ExpiresAt)
}

// AccessGrant records that a document is shared through a link.
// ExpiresAt is read from the owning link, never stored separately.
type AccessGrant struct {
	ID          int64     `json:"id"`
	DocumentID  int64     `json:"document_id"`
	ShareLinkID int64     `json:"share_link_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}
