package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amuzant/Crewmates/models"
	"github.com/amuzant/Crewmates/repositories"
	"golang.org/x/sync/errgroup"
)

// awardConcurrency bounds the member fan-out of a single award task.
const awardConcurrency = 4

// AwardService hands out trophy badges and sprint prizes to project members.
// Both operations are idempotent: the badges (user_id, type) and
// prize_winners (prize_id, user_id) unique constraints absorb re-runs, so the
// outbox dispatcher can retry a half-finished task safely.
type AwardService interface {
	GrantProjectBadges(ctx context.Context, projectID int, badgeType models.BadgeType) error
	AwardSprintPrize(ctx context.Context, projectID, sprintID int) error
}

type awardService struct {
	projectRepo repositories.ProjectRepository
	badgeRepo   repositories.BadgeRepository
	prizeRepo   repositories.PrizeRepository
	sprintRepo  repositories.SprintRepository
	logger      *slog.Logger
}

func NewAwardService(
	projectRepo repositories.ProjectRepository,
	badgeRepo repositories.BadgeRepository,
	prizeRepo repositories.PrizeRepository,
	sprintRepo repositories.SprintRepository,
	logger *slog.Logger,
) AwardService {
	return &awardService{
		projectRepo: projectRepo,
		badgeRepo:   badgeRepo,
		prizeRepo:   prizeRepo,
		sprintRepo:  sprintRepo,
		logger:      logger,
	}
}

// GrantProjectBadges gives every current member of the project one badge of
// the given type, skipping members who already hold it.
func (s *awardService) GrantProjectBadges(ctx context.Context, projectID int, badgeType models.BadgeType) error {
	members, err := s.projectRepo.ListMembers(ctx, projectID)
	if err != nil {
		if errors.Is(err, repositories.ErrProjectNotFound) {
			return nil // project deleted since the ranking was recorded
		}
		return fmt.Errorf("failed to list members of project %d: %w", projectID, err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(awardConcurrency)

	for _, member := range members {
		badge := &models.Badge{
			UserID:      member.ID,
			Type:        badgeType,
			Name:        badgeType.DisplayName(),
			Description: badgeType.Description(),
		}
		g.Go(func() error {
			created, err := s.badgeRepo.GrantIfAbsent(gCtx, badge)
			if err != nil {
				return fmt.Errorf("failed to grant %s to user %d: %w", badgeType, badge.UserID, err)
			}
			if created {
				s.logger.Info("badge granted",
					slog.Int("user_id", badge.UserID),
					slog.String("type", string(badgeType)))
			}
			return nil
		})
	}

	return g.Wait()
}

// AwardSprintPrize puts the sprint's configured prize into every project
// member's won set. No-op when the sprint has no prize.
func (s *awardService) AwardSprintPrize(ctx context.Context, projectID, sprintID int) error {
	sprint, err := s.sprintRepo.GetByIDWithPrize(ctx, sprintID)
	if err != nil {
		if errors.Is(err, repositories.ErrSprintNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load sprint %d: %w", sprintID, err)
	}
	if !sprint.HasPrize || sprint.Prize == nil {
		return nil
	}

	members, err := s.projectRepo.ListMembers(ctx, projectID)
	if err != nil {
		if errors.Is(err, repositories.ErrProjectNotFound) {
			return nil
		}
		return fmt.Errorf("failed to list members of project %d: %w", projectID, err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(awardConcurrency)

	prizeID := sprint.Prize.ID
	for _, member := range members {
		userID := member.ID
		g.Go(func() error {
			created, err := s.prizeRepo.AddWinnerIfAbsent(gCtx, prizeID, userID)
			if err != nil {
				return fmt.Errorf("failed to award prize %d to user %d: %w", prizeID, userID, err)
			}
			if created {
				s.logger.Info("prize awarded",
					slog.Int("user_id", userID),
					slog.Int("prize_id", prizeID),
					slog.Int("sprint_id", sprintID))
			}
			return nil
		})
	}

	return g.Wait()
}
