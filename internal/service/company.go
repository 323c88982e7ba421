package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"companyapi/internal/broker"
	"companyapi/internal/clock"
	"companyapi/internal/model"
	"companyapi/internal/repository"
	"companyapi/internal/storage"
)

var (
	ErrNotFound       = errors.New("company not found")
	ErrExportDisabled = errors.New("export is disabled: no archive configured")
)

const (
	DefaultPrincipal     = "admin"
	DefaultPresignExpiry = 15 * time.Minute
)

var tracer = otel.Tracer("companyapi/internal/service")

// ExportResult points at an uploaded export of every company.
type ExportResult struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Count     int       `json:"count"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CompanyService defines the company lifecycle use cases.
type CompanyService interface {
	// Get returns the company with id, whatever its status.
	Get(ctx context.Context, id int64) (*model.Company, error)

	// List returns every company, including inactive ones.
	List(ctx context.Context) ([]model.Company, error)

	// Create stores a new ACTIVE company stamped with the create audit.
	Create(ctx context.Context, fields model.CompanyFields) (*model.Company, error)

	// Update applies the supplied fields to an existing company and stamps the modify audit.
	Update(ctx context.Context, id int64, fields model.CompanyFields) (*model.Company, error)

	// SoftDelete marks a company INACTIVE and stamps the delete audit. Repeating it re-stamps.
	SoftDelete(ctx context.Context, id int64) (*model.Company, error)

	// Export uploads a JSON array of every company and returns a pre-signed download URL.
	Export(ctx context.Context) (*ExportResult, error)
}

// Options configures a CompanyService. Events and Archive are optional.
type Options struct {
	Principal     string
	Clock         clock.Clock
	Events        broker.EventPublisher
	Archive       storage.Storage
	PresignExpiry time.Duration
	Logger        zerolog.Logger
}

type companyService struct {
	repo          repository.CompanyRepository
	principal     string
	clock         clock.Clock
	events        broker.EventPublisher
	archive       storage.Storage
	presignExpiry time.Duration
	log           zerolog.Logger
}

// NewCompanyService constructs a CompanyService, filling defaults for unset options.
func NewCompanyService(repo repository.CompanyRepository, opts Options) CompanyService {
	if opts.Principal == "" {
		opts.Principal = DefaultPrincipal
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.PresignExpiry <= 0 {
		opts.PresignExpiry = DefaultPresignExpiry
	}
	return &companyService{
		repo:          repo,
		principal:     opts.Principal,
		clock:         opts.Clock,
		events:        opts.Events,
		archive:       opts.Archive,
		presignExpiry: opts.PresignExpiry,
		log:           opts.Logger.With().Str("component", "company_service").Logger(),
	}
}

func (s *companyService) Get(ctx context.Context, id int64) (c *model.Company, err error) {
	ctx, span := tracer.Start(ctx, "CompanyService.Get", trace.WithAttributes(attribute.Int64("company.id", id)))
	defer func() { endSpan(span, err) }()

	return s.load(ctx, id)
}

func (s *companyService) List(ctx context.Context) (items []model.Company, err error) {
	ctx, span := tracer.Start(ctx, "CompanyService.List")
	defer func() { endSpan(span, err) }()

	items, err = s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	span.SetAttributes(attribute.Int("company.count", len(items)))
	return items, nil
}

func (s *companyService) Create(ctx context.Context, fields model.CompanyFields) (out *model.Company, err error) {
	ctx, span := tracer.Start(ctx, "CompanyService.Create")
	defer func() { endSpan(span, err) }()

	c := &model.Company{
		Status:    model.StatusActive,
		CreatedBy: s.principal,
		CreatedAt: s.clock.Now(),
	}
	fields.ApplyTo(c)

	out, err = s.repo.Save(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}
	span.SetAttributes(attribute.Int64("company.id", out.ID))

	s.afterMutation(ctx, broker.ActionCreated, out, out.CreatedAt)
	return out, nil
}

func (s *companyService) Update(ctx context.Context, id int64, fields model.CompanyFields) (out *model.Company, err error) {
	ctx, span := tracer.Start(ctx, "CompanyService.Update", trace.WithAttributes(attribute.Int64("company.id", id)))
	defer func() { endSpan(span, err) }()

	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	principal := s.principal
	fields.ApplyTo(c)
	c.ModifiedBy = &principal
	c.ModifiedAt = &now

	out, err = s.repo.Save(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("update company %d: %w", id, err)
	}

	s.afterMutation(ctx, broker.ActionUpdated, out, now)
	return out, nil
}

func (s *companyService) SoftDelete(ctx context.Context, id int64) (out *model.Company, err error) {
	ctx, span := tracer.Start(ctx, "CompanyService.SoftDelete", trace.WithAttributes(attribute.Int64("company.id", id)))
	defer func() { endSpan(span, err) }()

	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	principal := s.principal
	c.Status = model.StatusInactive
	c.DeletedBy = &principal
	c.DeletedAt = &now

	out, err = s.repo.Save(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("delete company %d: %w", id, err)
	}

	s.afterMutation(ctx, broker.ActionDeleted, out, now)
	return out, nil
}

func (s *companyService) Export(ctx context.Context) (res *ExportResult, err error) {
	ctx, span := tracer.Start(ctx, "CompanyService.Export")
	defer func() { endSpan(span, err) }()

	if s.archive == nil {
		return nil, ErrExportDisabled
	}

	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	body, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	now := s.clock.Now()
	key := fmt.Sprintf("exports/companies-%d.json", now.UnixNano())
	if _, err := s.archive.Put(ctx, key, bytes.NewReader(body), storage.PutObjectOptions{
		Size:        int64(len(body)),
		ContentType: "application/json",
		Metadata:    map[string]string{"count": fmt.Sprint(len(items))},
	}); err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}

	url, err := s.archive.PresignGet(ctx, key, s.presignExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign export: %w", err)
	}

	span.SetAttributes(attribute.Int("company.count", len(items)))
	return &ExportResult{
		Key:       key,
		URL:       url,
		Count:     len(items),
		ExpiresAt: now.Add(s.presignExpiry),
	}, nil
}

// load fetches id, turning absence into ErrNotFound.
func (s *companyService) load(ctx context.Context, id int64) (*model.Company, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find company %d: %w", id, err)
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// afterMutation publishes the lifecycle event and archives a snapshot.
// Both are best-effort: failures are logged and never returned.
func (s *companyService) afterMutation(ctx context.Context, action string, c *model.Company, at time.Time) {
	if s.events != nil {
		ev := broker.Event{
			Action:         action,
			CompanyID:      c.ID,
			LegalName:      c.LegalName,
			DocumentNumber: c.DocumentNumber,
			Status:         int(c.Status),
			Principal:      s.principal,
			OccurredAt:     at,
		}
		if err := s.events.Publish(ctx, ev); err != nil {
			s.log.Warn().
				Str("event", "company_event_publish_failed").
				Str("action", action).
				Int64("company_id", c.ID).
				Str("company", c.DisplayName()).
				Err(err).
				Send()
		}
	}

	if s.archive != nil {
		if err := s.archiveSnapshot(ctx, action, c, at); err != nil {
			s.log.Warn().
				Str("event", "company_snapshot_failed").
				Str("action", action).
				Int64("company_id", c.ID).
				Str("company", c.DisplayName()).
				Err(err).
				Send()
		}
	}
}

func (s *companyService) archiveSnapshot(ctx context.Context, action string, c *model.Company, at time.Time) error {
	body, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	key := SnapshotKey(c.ID, at, action)
	_, err = s.archive.Put(ctx, key, bytes.NewReader(body), storage.PutObjectOptions{
		Size:        int64(len(body)),
		ContentType: "application/json",
		Metadata: map[string]string{
			"action":    action,
			"principal": s.principal,
		},
	})
	return err
}

// SnapshotKey is the object key of the snapshot taken after action on company id at t.
func SnapshotKey(id int64, t time.Time, action string) string {
	return fmt.Sprintf("companies/%d/%d-%s.json", id, t.UnixNano(), action)
}

func endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
