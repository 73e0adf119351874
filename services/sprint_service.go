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

type CreateSprintInput struct {
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	HasPrize  bool   `json:"hasPrize"`
	PrizeID   *int   `json:"prizeId,omitempty"`
}

type SprintService interface {
	Create(ctx context.Context, input CreateSprintInput) (*models.Sprint, error)
	GetByID(ctx context.Context, id int) (*models.Sprint, error)
	List(ctx context.Context) ([]models.Sprint, error)
	ListUnrankedProjects(ctx context.Context, sprintID int) ([]models.Project, error)
}

type sprintService struct {
	sprintRepo  repositories.SprintRepository
	projectRepo repositories.ProjectRepository
	prizeRepo   repositories.PrizeRepository
	now         func() time.Time
}

func NewSprintService(
	sprintRepo repositories.SprintRepository,
	projectRepo repositories.ProjectRepository,
	prizeRepo repositories.PrizeRepository,
) SprintService {
	return &sprintService{
		sprintRepo:  sprintRepo,
		projectRepo: projectRepo,
		prizeRepo:   prizeRepo,
		now:         time.Now,
	}
}

func parseSprintDate(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDateFormat
}

// Create validates the name and date range and enforces the no-overlap
// invariant across all sprints.
func (s *sprintService) Create(ctx context.Context, input CreateSprintInput) (*models.Sprint, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" || input.StartDate == "" || input.EndDate == "" {
		return nil, ErrMissingFields
	}

	start, err := parseSprintDate(input.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseSprintDate(input.EndDate)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, ErrSprintInvalidRange
	}

	today := s.now().Truncate(24 * time.Hour)
	if start.Before(today) {
		return nil, ErrSprintStartInPast
	}

	overlap, err := s.sprintRepo.FindOverlapping(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to check sprint overlap: %w", err)
	}
	if overlap != nil {
		return nil, ErrSprintOverlap
	}

	sprint := &models.Sprint{
		Name:      input.Name,
		StartDate: start,
		EndDate:   end,
		HasPrize:  input.HasPrize,
	}
	if input.HasPrize && input.PrizeID != nil {
		if _, err := s.prizeRepo.GetByID(ctx, *input.PrizeID); err != nil {
			if errors.Is(err, repositories.ErrPrizeNotFound) {
				return nil, ErrPrizeNotFound
			}
			return nil, err
		}
		sprint.PrizeID = input.PrizeID
	}

	if err := s.sprintRepo.Create(ctx, sprint); err != nil {
		return nil, fmt.Errorf("failed to create sprint: %w", err)
	}
	return sprint, nil
}

func (s *sprintService) GetByID(ctx context.Context, id int) (*models.Sprint, error) {
	sprint, err := s.sprintRepo.GetByIDWithPrize(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSprintNotFound) {
			return nil, ErrSprintNotFound
		}
		return nil, err
	}
	return sprint, nil
}

func (s *sprintService) List(ctx context.Context) ([]models.Sprint, error) {
	sprints, err := s.sprintRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sprints: %w", err)
	}
	if sprints == nil {
		sprints = []models.Sprint{}
	}
	return sprints, nil
}

// ListUnrankedProjects returns the sprint's projects still missing a ranking
// row, the candidate list for the ranking board.
func (s *sprintService) ListUnrankedProjects(ctx context.Context, sprintID int) ([]models.Project, error) {
	if _, err := s.sprintRepo.GetByID(ctx, sprintID); err != nil {
		if errors.Is(err, repositories.ErrSprintNotFound) {
			return nil, ErrSprintNotFound
		}
		return nil, err
	}

	projects, err := s.projectRepo.ListUnrankedBySprint(ctx, sprintID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unranked projects: %w", err)
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, nil
}
