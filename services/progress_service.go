package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amuzant/Crewmates/models"
	"github.com/amuzant/Crewmates/repositories"
)

type ProgressInput struct {
	Content string `json:"content"`
}

type ProgressService interface {
	Post(ctx context.Context, actor Actor, projectID int, input ProgressInput) (*models.Progress, error)
	Update(ctx context.Context, actor Actor, projectID int, input ProgressInput) (*models.Progress, error)
	Delete(ctx context.Context, actor Actor, projectID int) error
	ListByProject(ctx context.Context, actor Actor, projectID int) ([]models.Progress, error)
}

type progressService struct {
	progressRepo repositories.ProgressRepository
	projectRepo  repositories.ProjectRepository
	now          func() time.Time
}

func NewProgressService(progressRepo repositories.ProgressRepository, projectRepo repositories.ProjectRepository) ProgressService {
	return &progressService{
		progressRepo: progressRepo,
		projectRepo:  projectRepo,
		now:          time.Now,
	}
}

func (s *progressService) requireMember(ctx context.Context, actor Actor, projectID int) error {
	if actor.IsAdmin() {
		return nil
	}
	member, err := s.projectRepo.IsMember(ctx, projectID, actor.UserID)
	if err != nil {
		return err
	}
	if !member {
		return ErrForbiddenOperation
	}
	return nil
}

// Post writes the actor's progress note for the project, replacing any
// previous one.
func (s *progressService) Post(ctx context.Context, actor Actor, projectID int, input ProgressInput) (*models.Progress, error) {
	input.Content = strings.TrimSpace(input.Content)
	if input.Content == "" {
		return nil, ErrMissingFields
	}

	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, repositories.ErrProjectNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	if err := s.requireMember(ctx, actor, projectID); err != nil {
		return nil, err
	}

	progress := &models.Progress{
		ProjectID: projectID,
		UserID:    actor.UserID,
		Content:   input.Content,
	}
	if err := s.progressRepo.Upsert(ctx, progress); err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}
	return progress, nil
}

func (s *progressService) Update(ctx context.Context, actor Actor, projectID int, input ProgressInput) (*models.Progress, error) {
	input.Content = strings.TrimSpace(input.Content)
	if input.Content == "" {
		return nil, ErrMissingFields
	}

	progress, err := s.progressRepo.Update(ctx, projectID, actor.UserID, input.Content, s.now())
	if err != nil {
		if errors.Is(err, repositories.ErrProgressNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}
	return progress, nil
}

func (s *progressService) Delete(ctx context.Context, actor Actor, projectID int) error {
	if err := s.progressRepo.Delete(ctx, projectID, actor.UserID); err != nil {
		if errors.Is(err, repositories.ErrProgressNotFound) {
			return ErrProgressNotFound
		}
		return fmt.Errorf("failed to delete progress: %w", err)
	}
	return nil
}

func (s *progressService) ListByProject(ctx context.Context, actor Actor, projectID int) ([]models.Progress, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, repositories.ErrProjectNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	if err := s.requireMember(ctx, actor, projectID); err != nil {
		return nil, err
	}

	entries, err := s.progressRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	if entries == nil {
		entries = []models.Progress{}
	}
	return entries, nil
}
