// Package workflow implements the entry form and the search/edit session on
// top of a domain.RecordStore and the location catalog. Both types are
// single-user objects; callers serving concurrent requests build one per
// request.
package workflow

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"subprofile/internal/catalog"
	"subprofile/internal/core"
	"subprofile/pkg/domain"
)

// Notification texts shown after a successful operation.
const (
	MsgSubmitted = "Form data submitted successfully!"
	MsgCleared   = "Form data cleared successfully!"
	MsgUpdated   = "Data updated successfully!"
)

// Operation names reported to the metrics recorder.
const (
	OpSubmit = "submit"
	OpUpdate = "update"
	OpSearch = "search"
)

var (
	// ErrNotAnOption is returned when a select field is given a value it
	// does not currently offer.
	ErrNotAnOption = errors.New("value is not an available option")
	// ErrRowOutOfRange is returned when an edit targets a row that does not
	// exist in the loaded list.
	ErrRowOutOfRange = errors.New("row out of range")
)

// Notification is the success banner produced by a completed operation.
type Notification struct {
	Message string `json:"message"`
}

// Catalog is the subset of *catalog.Catalog the workflow depends on.
type Catalog interface {
	Regions() []string
	ProvincesOf(region string) ([]string, error)
	CheckLocation(rec domain.Subproject) domain.FieldErrors
}

var _ Catalog = (*catalog.Catalog)(nil)

// Option configures a Form or SearchSession.
type Option func(*settings)

type settings struct {
	logger  *zap.Logger
	metrics core.MetricsRecorder
	now     func() time.Time
}

func newSettings(opts []Option) settings {
	s := settings{
		logger:  zap.NewNop(),
		metrics: core.NoopMetrics{},
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}

// WithLogger sets the structured logger. nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the recorder that observes submit, update and search.
func WithMetrics(m core.MetricsRecorder) Option {
	return func(s *settings) {
		if m != nil {
			s.metrics = m
		}
	}
}

func (s settings) observe(ctx context.Context, op string, start time.Time, err error) {
	s.metrics.Observe(ctx, op, err == nil, s.now().Sub(start))
}
