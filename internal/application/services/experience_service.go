package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/journeykit/journeykit-go/internal/apperror"
	"github.com/journeykit/journeykit-go/internal/domain/builder"
	"github.com/journeykit/journeykit-go/internal/domain/entities/flow"
	"github.com/journeykit/journeykit-go/internal/infrastructure/observability/logging"
	persistflow "github.com/journeykit/journeykit-go/internal/infrastructure/persistence/flow"
	"github.com/journeykit/journeykit-go/internal/infrastructure/security"
)

// ExperienceService orchestrates experience persistence around the builder
// store. Saves are full-replace: the store's screen tree overwrites whatever
// the experience previously held.
type ExperienceService struct {
	repo      *persistflow.ExperienceRepository
	logger    *logging.ChanneledLogger
	companyID string
}

// NewExperienceService creates a new experience service
func NewExperienceService(repo *persistflow.ExperienceRepository, logger *logging.ChanneledLogger, companyID string) *ExperienceService {
	return &ExperienceService{
		repo:      repo,
		logger:    logger,
		companyID: companyID,
	}
}

// Load fetches an experience and hydrates the store from it. The store is
// left bound to the experience so subsequent saves update rather than create.
func (s *ExperienceService) Load(ctx context.Context, store *builder.Store, experienceID string) (*flow.Experience, error) {
	experience, err := s.repo.FindByID(ctx, experienceID, s.companyID)
	if err != nil {
		return nil, apperror.Storage("failed to load experience", err)
	}
	if experience == nil {
		return nil, apperror.NotFound("experience", experienceID)
	}

	store.HydrateFromExperience(experience)
	s.logger.Content().Info("Experience loaded into builder", "experienceId", experienceID, "screens", len(experience.Screens))
	return experience, nil
}

// Save persists the store's current screen tree. When the store is bound to
// an experience the save is an update; otherwise a new experience is created
// and the store becomes bound to it. Only one save per store may be in
// flight; concurrent attempts fail with builder.ErrSaveInFlight.
func (s *ExperienceService) Save(ctx context.Context, store *builder.Store, name string, description *string, createdBy string) (*flow.Experience, error) {
	if name == "" {
		return nil, apperror.ValidationFailed("experience name is required")
	}

	if err := store.BeginPersist(); err != nil {
		return nil, err
	}

	boundID := store.BoundExperienceID()
	experience := &flow.Experience{
		ID:          boundID,
		Name:        name,
		Description: description,
		CompanyID:   s.companyID,
		CreatedBy:   createdBy,
		Screens:     store.Screens(),
	}

	var err error
	if boundID == "" {
		experience.ID = security.GenerateULID()
		experience.Created = time.Now().UTC()
		err = s.repo.Create(ctx, experience)
	} else {
		now := time.Now().UTC()
		experience.Changed = &now
		err = s.repo.Update(ctx, experience)
	}

	if err != nil {
		store.EndPersist("", false)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("experience", boundID)
		}
		return nil, apperror.Storage("failed to save experience", err)
	}

	store.EndPersist(experience.ID, true)
	s.logger.Content().Info("Experience saved", "experienceId", experience.ID, "screens", len(experience.Screens), "created", boundID == "")
	return experience, nil
}

// Create persists a new experience outside any builder session.
func (s *ExperienceService) Create(ctx context.Context, name string, description *string, createdBy string, screens []*flow.Screen) (*flow.Experience, error) {
	if name == "" {
		return nil, apperror.ValidationFailed("experience name is required")
	}

	experience := &flow.Experience{
		ID:          security.GenerateULID(),
		Name:        name,
		Description: description,
		CompanyID:   s.companyID,
		CreatedBy:   createdBy,
		Screens:     screens,
		Created:     time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, experience); err != nil {
		return nil, apperror.Storage("failed to create experience", err)
	}

	s.logger.Content().Info("Experience created", "experienceId", experience.ID)
	return experience, nil
}

// Update replaces an experience's name, description and full screen tree.
func (s *ExperienceService) Update(ctx context.Context, experienceID, name string, description *string, screens []*flow.Screen) (*flow.Experience, error) {
	if name == "" {
		return nil, apperror.ValidationFailed("experience name is required")
	}

	now := time.Now().UTC()
	experience := &flow.Experience{
		ID:          experienceID,
		Name:        name,
		Description: description,
		CompanyID:   s.companyID,
		Screens:     screens,
		Changed:     &now,
	}
	if err := s.repo.Update(ctx, experience); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("experience", experienceID)
		}
		return nil, apperror.Storage("failed to update experience", err)
	}

	s.logger.Content().Info("Experience updated", "experienceId", experienceID)
	return experience, nil
}

// Publish marks an experience as published. Publishing an already published
// experience succeeds and leaves it published.
func (s *ExperienceService) Publish(ctx context.Context, experienceID string) error {
	if err := s.repo.Publish(ctx, experienceID, s.companyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("experience", experienceID)
		}
		return apperror.Storage("failed to publish experience", err)
	}
	s.logger.Content().Info("Experience published", "experienceId", experienceID)
	return nil
}

// PublishSession publishes the experience a builder session is bound to. The
// publish runs under the store's persist guard, so it is rejected while a save
// or another publish is in flight. Publication does not touch the screen tree,
// so the store's dirty flag and binding are left alone.
func (s *ExperienceService) PublishSession(ctx context.Context, store *builder.Store) error {
	experienceID := store.BoundExperienceID()
	if experienceID == "" {
		return apperror.ValidationFailed("session is not bound to a saved experience")
	}

	if err := store.BeginPersist(); err != nil {
		return err
	}
	defer store.EndPersist("", false)

	return s.Publish(ctx, experienceID)
}

// Delete removes an experience and its screen tree.
func (s *ExperienceService) Delete(ctx context.Context, experienceID string) error {
	if err := s.repo.Delete(ctx, experienceID, s.companyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("experience", experienceID)
		}
		return apperror.Storage("failed to delete experience", err)
	}
	s.logger.Content().Info("Experience deleted", "experienceId", experienceID)
	return nil
}

// List returns the experiences visible at the given access level: members of
// the organization see everything, everyone else sees only published
// experiences.
func (s *ExperienceService) List(ctx context.Context, level AccessLevel) ([]*flow.Experience, error) {
	publishedOnly := level == AccessNoAccess
	experiences, err := s.repo.FindAllByCompany(ctx, s.companyID, publishedOnly)
	if err != nil {
		return nil, apperror.Storage("failed to list experiences", err)
	}
	return experiences, nil
}

// Get returns a single experience, applying the same visibility rule as List.
// An unpublished experience is forbidden to anyone outside the organization.
func (s *ExperienceService) Get(ctx context.Context, experienceID string, level AccessLevel) (*flow.Experience, error) {
	experience, err := s.repo.FindByID(ctx, experienceID, s.companyID)
	if err != nil {
		return nil, apperror.Storage(fmt.Sprintf("failed to get experience %s", experienceID), err)
	}
	if experience == nil {
		return nil, apperror.NotFound("experience", experienceID)
	}
	if !experience.IsPublished && level == AccessNoAccess {
		return nil, apperror.Forbidden("experience is not published")
	}
	return experience, nil
}
