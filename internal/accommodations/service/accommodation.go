package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"

	accommodationserrors "stayhost/internal/accommodations/errors"
	"stayhost/internal/accommodations/repository"
	"stayhost/internal/accommodations/validator"
	"stayhost/pkg/config"
	apperrors "stayhost/pkg/errors"
	"stayhost/pkg/events"
	httputil "stayhost/pkg/http"
	"stayhost/pkg/model"
	"stayhost/pkg/sanitizer"
	"stayhost/pkg/validation"
)

const (
	MaxGuests         = 50
	MaxLocationLength = 100
)

type AccommodationService interface {
	Create(ctx context.Context, a *model.Accommodation) error
	GetByID(ctx context.Context, id string) (*model.Accommodation, error)
	GetBySlug(ctx context.Context, slug string) (*model.Accommodation, error)
	GetAll(ctx context.Context, limit int, offset int) ([]*model.Accommodation, int64, error)
	Update(ctx context.Context, id string, updates *model.AccommodationUpdate) error
	Delete(ctx context.Context, id string) error

	ListActive(ctx context.Context, filter model.AccommodationFilter) ([]*model.Accommodation, error)
}

type accommodationService struct {
	repo      repository.AccommodationRepository
	validator *validator.AccommodationValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewAccommodationService(
	repo repository.AccommodationRepository,
	validator *validator.AccommodationValidator,
	publisher events.Publisher,
	cfg *config.Config,
) AccommodationService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &accommodationService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *accommodationService) Create(ctx context.Context, a *model.Accommodation) error {
	a.ID = ""
	s.sanitize(a)

	if err := s.validate(a); err != nil {
		s.cfg.Log.Warn("Accommodation validation failed",
			"slug", a.Slug,
			"error", err,
		)
		return err
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.ensureSlugAvailable(sessCtx, a.Slug, ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, a); err != nil {
			if errors.Is(err, accommodationserrors.ErrDuplicateSlug) {
				return slugConflict(a.Slug)
			}
			return fmt.Errorf("failed to create accommodation: %w", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create accommodation",
			"slug", a.Slug,
			"error", err,
		)
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.Internal("Failed to create accommodation", err)
	}

	s.cfg.Log.Info("Accommodation created successfully",
		"id", a.ID,
		"slug", a.Slug,
		"active", a.Active,
	)
	s.publish(ctx, events.AccommodationCreated, a)

	return nil
}

func (s *accommodationService) GetByID(ctx context.Context, id string) (*model.Accommodation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Accommodation ID cannot be empty")
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve accommodation")
	}
	return a, nil
}

func (s *accommodationService) GetBySlug(ctx context.Context, slug string) (*model.Accommodation, error) {
	normalized := sanitizer.SanitizeSlug(slug)
	if normalized == "" {
		return nil, apperrors.InvalidInput("Accommodation slug cannot be empty")
	}

	a, err := s.repo.FindBySlug(ctx, normalized)
	if err != nil {
		return nil, s.mapRepoError(err, normalized, "Failed to retrieve accommodation")
	}
	return a, nil
}

func (s *accommodationService) GetAll(ctx context.Context, limit int, offset int) ([]*model.Accommodation, int64, error) {
	limit = httputil.NormalizeLimit(limit)
	offset = max(0, offset)

	var count int64
	var items []*model.Accommodation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count accommodations", "error", err)
			errCount = apperrors.Internal("Failed to count accommodations", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		items, err = s.repo.FindAll(ctx, limit, int64(offset))
		if err != nil {
			s.cfg.Log.Error("Failed to get all accommodations",
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve accommodations", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return items, count, nil
}

func (s *accommodationService) Update(ctx context.Context, id string, updates *model.AccommodationUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Accommodation ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapRepoError(err, id, "Failed to check accommodation existence")
	}

	merged := s.merge(existing, updates)
	s.sanitize(merged)

	if err := s.validate(merged); err != nil {
		s.cfg.Log.Warn("Accommodation validation failed",
			"id", id,
			"slug", merged.Slug,
			"error", err,
		)
		return err
	}

	if merged.Slug != existing.Slug {
		if err := s.ensureSlugAvailable(ctx, merged.Slug, id); err != nil {
			return err
		}
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, accommodationserrors.ErrDuplicateSlug) {
			return slugConflict(merged.Slug)
		}
		return s.mapRepoError(err, id, "Failed to update accommodation")
	}

	s.cfg.Log.Info("Accommodation updated successfully",
		"id", id,
		"slug", merged.Slug,
	)
	s.publish(ctx, events.AccommodationUpdated, merged)

	return nil
}

func (s *accommodationService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Accommodation ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError(err, id, "Failed to delete accommodation")
	}

	s.cfg.Log.Info("Accommodation deleted successfully", "id", id)
	s.publish(ctx, events.AccommodationDeleted, &model.Accommodation{ID: id})

	return nil
}

// ListActive returns the active catalog. The location match runs in the
// database; the guest match needs the parsed capacity and runs here.
func (s *accommodationService) ListActive(ctx context.Context, filter model.AccommodationFilter) ([]*model.Accommodation, error) {
	if filter.Guests < 0 || filter.Guests > MaxGuests {
		return nil, apperrors.InvalidInput(fmt.Sprintf("guests must be between 0 and %d", MaxGuests))
	}
	location := sanitizer.TrimAndNormalize(filter.Location)
	if len([]rune(location)) > MaxLocationLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("location must be at most %d characters", MaxLocationLength))
	}

	all, err := s.repo.FindActive(ctx, location)
	if err != nil {
		s.cfg.Log.Error("Failed to list active accommodations",
			"location", location,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve accommodations", err)
	}

	if filter.Guests <= 0 {
		return all, nil
	}

	matching := make([]*model.Accommodation, 0, len(all))
	for _, a := range all {
		if a.Hosts(filter.Guests) {
			matching = append(matching, a)
		}
	}

	s.cfg.Log.Debug("Active accommodations filtered",
		"guests", filter.Guests,
		"location", location,
		"total", len(all),
		"matching", len(matching),
	)

	return matching, nil
}

func (s *accommodationService) validate(a *model.Accommodation) error {
	err := s.validator.Validate(a)
	if err == nil {
		return nil
	}

	var errs validation.ValidationErrors
	if errors.As(err, &errs) {
		return apperrors.Validation("Accommodation validation failed", errs.Details())
	}
	return apperrors.Validation("Accommodation validation failed", map[string]any{
		"error": err.Error(),
	})
}

// ensureSlugAvailable fails with a conflict when slug belongs to an
// accommodation other than selfID.
func (s *accommodationService) ensureSlugAvailable(ctx context.Context, slug, selfID string) error {
	other, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, accommodationserrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check for duplicates: %w", err)
	}
	if other.ID != selfID {
		return slugConflict(slug)
	}
	return nil
}

func (s *accommodationService) mapRepoError(err error, ref, message string) error {
	switch {
	case errors.Is(err, accommodationserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Accommodation", ref)
	case errors.Is(err, accommodationserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid accommodation ID format")
	}

	s.cfg.Log.Error(message,
		"ref", ref,
		"error", err,
	)
	return apperrors.Internal(message, err)
}

func (s *accommodationService) publish(ctx context.Context, eventType string, a *model.Accommodation) {
	events.PublishBestEffort(ctx, s.publisher, s.cfg.Log, events.Event{
		Type:    eventType,
		Key:     a.ID,
		Payload: a,
	})
}

func (s *accommodationService) sanitize(a *model.Accommodation) {
	a.Slug = sanitizer.SanitizeSlug(a.Slug)
	a.Name = sanitizer.NormalizeName(a.Name)
	a.ShortDescription = sanitizer.TrimAndNormalize(a.ShortDescription)
	a.Description = sanitizer.NormalizeText(a.Description)
	a.Capacity = sanitizer.TrimAndNormalize(a.Capacity)
	a.Price = sanitizer.TrimAndNormalize(a.Price)
	a.Address = sanitizer.TrimAndNormalize(a.Address)
	a.Distance = sanitizer.TrimAndNormalize(a.Distance)
	a.Features = sanitizer.NormalizeFeatures(a.Features)
	a.MainImage = sanitizer.SanitizeImageRef(a.MainImage)
	a.Images = sanitizer.NormalizeImages(a.Images)
	a.Priority = sanitizer.NormalizePriority(a.Priority)

	if a.Slug == "" && a.Name != "" {
		a.Slug = sanitizer.SanitizeSlug(a.Name)
	}
}

func (s *accommodationService) merge(existing *model.Accommodation, updates *model.AccommodationUpdate) *model.Accommodation {
	merged := *existing

	if updates.Slug != nil && strings.TrimSpace(*updates.Slug) != "" {
		merged.Slug = *updates.Slug
	}
	if updates.Name != nil {
		merged.Name = *updates.Name
	}
	if updates.ShortDescription != nil {
		merged.ShortDescription = *updates.ShortDescription
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	if updates.Capacity != nil {
		merged.Capacity = *updates.Capacity
	}
	if updates.Price != nil {
		merged.Price = *updates.Price
	}
	if updates.Address != nil {
		merged.Address = *updates.Address
	}
	if updates.Distance != nil {
		merged.Distance = *updates.Distance
	}
	if updates.Features != nil {
		merged.Features = *updates.Features
	}
	if updates.MainImage != nil {
		merged.MainImage = *updates.MainImage
	}
	if updates.Images != nil {
		merged.Images = *updates.Images
	}
	if updates.Active != nil {
		merged.Active = *updates.Active
	}
	if updates.Priority != nil {
		merged.Priority = *updates.Priority
	}

	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt

	return &merged
}

func slugConflict(slug string) error {
	return apperrors.Conflict(fmt.Sprintf("Accommodation with slug %q already exists", slug))
}
