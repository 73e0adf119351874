package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/amuzant/Crewmates/models"
	"github.com/amuzant/Crewmates/repositories"
)

// RankingBroadcaster pushes leaderboard events to websocket subscribers of a
// sprint room. Satisfied by *live.Hub.
type RankingBroadcaster interface {
	BroadcastToSprint(sprintID int, eventType string, payload interface{})
}

const (
	eventRankingsUpdated = "RANKINGS_UPDATED"
	eventSprintCompleted = "SPRINT_COMPLETED"
)

type RankingInput struct {
	ProjectID int `json:"projectId"`
	Rank      int `json:"rank"`
}

type RankingStatus struct {
	IsComplete  bool       `json:"isComplete"`
	LastUpdated *time.Time `json:"lastUpdated"`
}

type RankingService interface {
	SubmitRankings(ctx context.Context, sprintID int, inputs []RankingInput) ([]models.Ranking, error)
	ListRankings(ctx context.Context, sprintID int) ([]models.Ranking, error)
	CompleteSprint(ctx context.Context, sprintID int) (*RankingStatus, error)
	GetStatus(ctx context.Context, sprintID int) (*RankingStatus, error)
}

type rankingService struct {
	beginTx     func(ctx context.Context) (dbTx, error)
	sprintRepo  repositories.SprintRepository
	rankingRepo repositories.RankingRepository
	outboxRepo  repositories.OutboxRepository
	hub         RankingBroadcaster
	logger      *slog.Logger
}

func NewRankingService(
	db *sql.DB,
	sprintRepo repositories.SprintRepository,
	rankingRepo repositories.RankingRepository,
	outboxRepo repositories.OutboxRepository,
	hub RankingBroadcaster,
	logger *slog.Logger,
) RankingService {
	return &rankingService{
		beginTx:     beginTxFrom(db),
		sprintRepo:  sprintRepo,
		rankingRepo: rankingRepo,
		outboxRepo:  outboxRepo,
		hub:         hub,
		logger:      logger,
	}
}

// validateRankings rejects submissions whose ranks are not a dense 1..N
// sequence or which mention the same project twice. Submissions are rejected
// rather than re-densified so the persisted leaderboard always matches what
// the admin saw on screen.
func validateRankings(inputs []RankingInput) error {
	if len(inputs) == 0 {
		return ErrRankingEmpty
	}

	ranks := make([]int, 0, len(inputs))
	seenProjects := make(map[int]struct{}, len(inputs))
	for _, in := range inputs {
		if in.Rank <= 0 || in.ProjectID <= 0 {
			return ErrRankingInvalid
		}
		if _, dup := seenProjects[in.ProjectID]; dup {
			return ErrRankingInvalid
		}
		seenProjects[in.ProjectID] = struct{}{}
		ranks = append(ranks, in.Rank)
	}

	sort.Ints(ranks)
	for i, r := range ranks {
		if r != i+1 {
			return ErrRankingInvalid
		}
	}
	return nil
}

// SubmitRankings replaces the sprint's ranking set, marks the sprint complete
// and enqueues the award side effects, all in one transaction. The awards
// themselves run later on the outbox dispatcher; their failures never reach
// this caller.
func (s *rankingService) SubmitRankings(ctx context.Context, sprintID int, inputs []RankingInput) ([]models.Ranking, error) {
	if err := validateRankings(inputs); err != nil {
		return nil, err
	}

	sprint, err := s.sprintRepo.GetByID(ctx, sprintID)
	if err != nil {
		if errors.Is(err, repositories.ErrSprintNotFound) {
			return nil, ErrSprintNotFound
		}
		return nil, fmt.Errorf("failed to load sprint %d: %w", sprintID, err)
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.rankingRepo.DeleteBySprint(ctx, tx, sprintID); err != nil {
		return nil, fmt.Errorf("failed to delete old rankings: %w", err)
	}

	for _, in := range inputs {
		ranking := &models.Ranking{SprintID: sprintID, ProjectID: in.ProjectID, Rank: in.Rank}
		if err := s.rankingRepo.Create(ctx, tx, ranking); err != nil {
			if errors.Is(err, repositories.ErrRankingUnknownProject) {
				return nil, ErrRankingUnknownProject
			}
			return nil, fmt.Errorf("failed to create ranking for project %d: %w", in.ProjectID, err)
		}
	}

	now := time.Now()
	if err := s.sprintRepo.MarkCompleted(ctx, tx, sprintID, now); err != nil {
		return nil, fmt.Errorf("failed to mark sprint completed: %w", err)
	}

	for _, in := range inputs {
		if badgeType, ok := models.BadgeTypeForRank(in.Rank); ok {
			err := s.outboxRepo.Enqueue(ctx, tx, models.TaskAwardBadges, models.AwardBadgesPayload{
				ProjectID: in.ProjectID,
				Rank:      in.Rank,
				BadgeType: badgeType,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to enqueue badge award: %w", err)
			}
		}
		if in.Rank == 1 && sprint.HasPrize {
			err := s.outboxRepo.Enqueue(ctx, tx, models.TaskAwardPrize, models.AwardPrizePayload{
				ProjectID: in.ProjectID,
				SprintID:  sprintID,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to enqueue prize award: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ranking transaction: %w", err)
	}

	rankings, err := s.rankingRepo.ListBySprint(ctx, sprintID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload rankings: %w", err)
	}

	if s.hub != nil {
		s.hub.BroadcastToSprint(sprintID, eventRankingsUpdated, rankings)
	}
	s.logger.Info("rankings recorded",
		slog.Int("sprint_id", sprintID),
		slog.Int("count", len(rankings)))

	return rankings, nil
}

func (s *rankingService) ListRankings(ctx context.Context, sprintID int) ([]models.Ranking, error) {
	if _, err := s.sprintRepo.GetByID(ctx, sprintID); err != nil {
		if errors.Is(err, repositories.ErrSprintNotFound) {
			return nil, ErrSprintNotFound
		}
		return nil, err
	}

	rankings, err := s.rankingRepo.ListBySprint(ctx, sprintID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rankings for sprint %d: %w", sprintID, err)
	}
	if rankings == nil {
		rankings = []models.Ranking{}
	}
	return rankings, nil
}

// CompleteSprint flips the completion flag without touching rankings, for
// sprints whose ranking rows already exist.
func (s *rankingService) CompleteSprint(ctx context.Context, sprintID int) (*RankingStatus, error) {
	now := time.Now()
	if err := s.sprintRepo.MarkCompleted(ctx, nil, sprintID, now); err != nil {
		if errors.Is(err, repositories.ErrSprintNotFound) {
			return nil, ErrSprintNotFound
		}
		return nil, fmt.Errorf("failed to complete sprint %d: %w", sprintID, err)
	}

	if s.hub != nil {
		s.hub.BroadcastToSprint(sprintID, eventSprintCompleted, map[string]interface{}{"sprint_id": sprintID})
	}

	return &RankingStatus{IsComplete: true, LastUpdated: &now}, nil
}

func (s *rankingService) GetStatus(ctx context.Context, sprintID int) (*RankingStatus, error) {
	sprint, err := s.sprintRepo.GetByID(ctx, sprintID)
	if err != nil {
		if errors.Is(err, repositories.ErrSprintNotFound) {
			return nil, ErrSprintNotFound
		}
		return nil, err
	}
	return &RankingStatus{IsComplete: sprint.IsCompleted, LastUpdated: sprint.LastUpdated}, nil
}
