package entreprise

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/odyssey-erp/entreprise-registry/internal/platform/httpx"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// EventPublisher hands registration events to background processing.
type EventPublisher interface {
	PublishRegistered(ctx context.Context, evt RegisteredEvent) error
}

// Service orchestrates registrations and cached reads.
type Service struct {
	store  Store
	cache  *Cache
	events EventPublisher
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires the service. cache and events may be nil.
func NewService(store Store, cache *Cache, events EventPublisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, cache: cache, events: events, logger: logger, now: time.Now}
}

// Register forwards the name to the store once. The returned error wraps ErrMissingField,
// ErrPersistence or ErrUnspecified.
func (s *Service) Register(ctx context.Context, req RegistrationRequest, requestID string) (Entreprise, error) {
	name := NormalizeName(req.Name)
	if name == "" {
		return Entreprise{}, ErrMissingField
	}

	created, result, err := s.store.CreateEntreprise(ctx, name)
	if err != nil {
		return Entreprise{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	switch result {
	case ResultCreated:
	case ResultFailed:
		return Entreprise{}, ErrPersistence
	default:
		return Entreprise{}, fmt.Errorf("%w: result %d", ErrUnspecified, int(result))
	}

	s.afterCreate(ctx, created, requestID)
	return created, nil
}

// afterCreate runs side effects that must not change the registration outcome.
func (s *Service) afterCreate(ctx context.Context, e Entreprise, requestID string) {
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("bump entreprise cache", slog.Any("error", err))
	}
	if s.events == nil {
		return
	}
	registeredAt := e.CreatedAt
	if registeredAt.IsZero() {
		registeredAt = s.now().UTC()
	}
	evt := RegisteredEvent{
		EventID:      uuid.New(),
		EntrepriseID: e.ID,
		Name:         e.Name,
		RequestID:    requestID,
		RegisteredAt: registeredAt,
	}
	if err := s.events.PublishRegistered(ctx, evt); err != nil {
		s.logger.Warn("publish entreprise registered",
			slog.Int64("entreprise_id", e.ID),
			slog.Any("error", err))
	}
}

// List returns one page of entreprises, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) (Page, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	loader := func(ctx context.Context) (any, error) {
		items, total, err := s.store.ListEntreprises(ctx, limit, offset)
		if err != nil {
			return nil, err
		}
		return Page{Entreprises: items, Total: total, Limit: limit, Offset: offset}, nil
	}

	var page Page
	if err := s.cached(ctx, &page, loader, "entreprise", "list", strconv.Itoa(limit), strconv.Itoa(offset)); err != nil {
		return Page{}, err
	}
	return page, nil
}

// Get returns one entreprise by id.
func (s *Service) Get(ctx context.Context, id int64) (Entreprise, error) {
	if id <= 0 {
		return Entreprise{}, fmt.Errorf("invalid entreprise id: %w", httpx.ErrValidation)
	}
	loader := func(ctx context.Context) (any, error) {
		return s.store.GetEntreprise(ctx, id)
	}

	var e Entreprise
	if err := s.cached(ctx, &e, loader, "entreprise", "get", strconv.FormatInt(id, 10)); err != nil {
		return Entreprise{}, err
	}
	return e, nil
}

func (s *Service) cached(ctx context.Context, dest any, loader func(context.Context) (any, error), parts ...string) error {
	key, err := s.cache.BuildKey(ctx, parts...)
	if err != nil {
		s.logger.Warn("entreprise cache unavailable", slog.Any("error", err))
		return loadInto(ctx, dest, loader)
	}
	return s.cache.FetchJSON(ctx, key, dest, loader)
}
