// Package service contains the memory tree workflows
package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"memorial/internal/core/normalize"
	"memorial/internal/modkit/repokit"
	"memorial/internal/platform/blob"
	perr "memorial/internal/platform/errors"
	"memorial/internal/platform/logger"
	"memorial/internal/services/api/memories/domain"
	"memorial/internal/services/api/memories/repo"
)

// MaxLimit caps a single tree read
const MaxLimit = 500

// DefaultMaxUpload is the largest accepted photo in bytes
const DefaultMaxUpload = 10 << 20

const (
	msgUploadedTitle = "Memory planted!"
	msgUploadedBody  = "Your photo now hangs on the memory tree."
)

var (
	// ErrUploadsDisabled is returned when no object storage is configured
	ErrUploadsDisabled = perr.Unavailablef("photo uploads are disabled")

	// ErrNotImage is returned for uploads that are not images
	ErrNotImage = perr.WithField(perr.New(perr.ErrorCodeValidation, "file must be an image"), "file")

	// ErrNoFile is returned when an upload carries no bytes
	ErrNoFile = perr.WithField(perr.New(perr.ErrorCodeValidation, "file is required"), "file")
)

// Service defines the service contract for memories
type Service interface{ domain.ServicePort }

// Observer counts stored uploads
type Observer interface {
	MemoryUploaded()
}

// Option configures Svc
type Option func(*Svc)

// WithMaxUpload sets the largest accepted photo in bytes
func WithMaxUpload(n int64) Option {
	return func(s *Svc) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

// WithObserver sets the upload counter
func WithObserver(o Observer) Option { return func(s *Svc) { s.obs = o } }

// WithClock sets the time source used to name uploads
func WithClock(now func() time.Time) Option { return func(s *Svc) { s.now = now } }

// Svc implements the Service interface
type Svc struct {
	Repo      repo.Repo
	blobs     domain.Blobs
	maxUpload int64
	obs       Observer
	now       func() time.Time
}

// New creates a new memories service; blobs may be nil, which disables uploads
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], blobs domain.Blobs, opts ...Option) *Svc {
	if db == nil {
		panic("memories.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("memories.Service requires a non nil Repo binder")
	}
	s := &Svc{
		Repo:      repokit.MustBind(binder, db),
		blobs:     blobs,
		maxUpload: DefaultMaxUpload,
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// MaxUpload returns the upload bound in bytes
func (s *Svc) MaxUpload() int64 { return s.maxUpload }

// List returns the tree, newest first
func (s *Svc) List(ctx context.Context, in domain.ListInput) ([]domain.Memory, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = repo.DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return s.Repo.List(ctx, limit)
}

// Upload stores the photo first and then the row pointing at it
// a failed insert leaves an orphan object behind; the row is what makes it visible
func (s *Svc) Upload(ctx context.Context, in domain.UploadInput) (domain.Uploaded, error) {
	if s.blobs == nil {
		return domain.Uploaded{}, ErrUploadsDisabled
	}
	title := normalize.Line(in.Title)
	switch {
	case title == "":
		return domain.Uploaded{}, perr.WithField(perr.New(perr.ErrorCodeValidation, "title is required"), "title")
	case utf8.RuneCountInString(title) > domain.MaxTitleLen:
		return domain.Uploaded{}, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "title must be at most %d characters", domain.MaxTitleLen), "title")
	case in.Body == nil || in.Size == 0:
		return domain.Uploaded{}, ErrNoFile
	case in.Size > s.maxUpload:
		return domain.Uploaded{}, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "file must be at most %d bytes", s.maxUpload), "file")
	case !strings.HasPrefix(in.ContentType, "image/"):
		return domain.Uploaded{}, ErrNotImage
	}

	key := blob.NewKey(s.now(), in.Filename)
	url, err := s.blobs.Put(ctx, key, in.Body, in.Size, in.ContentType)
	if err != nil {
		return domain.Uploaded{}, err
	}
	m, err := s.Repo.Insert(ctx, title, url)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("key", key).Msg("memory row failed after upload")
		return domain.Uploaded{}, err
	}
	if s.obs != nil {
		s.obs.MemoryUploaded()
	}
	return domain.Uploaded{Title: msgUploadedTitle, Message: msgUploadedBody, Memory: m}, nil
}
