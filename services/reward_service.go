package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/amuzant/Crewmates/models"
	"github.com/amuzant/Crewmates/repositories"
)

type CreateRewardInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Cost        int     `json:"cost"`
}

type ClaimRewardResult struct {
	Claim   *models.RewardClaim `json:"claim"`
	Balance int                 `json:"balance"`
}

type RewardService interface {
	Create(ctx context.Context, actor Actor, input CreateRewardInput) (*models.Reward, error)
	List(ctx context.Context) ([]models.Reward, error)
	Claim(ctx context.Context, actor Actor, rewardID int) (*ClaimRewardResult, error)
}

type rewardService struct {
	beginTx    func(ctx context.Context) (dbTx, error)
	rewardRepo repositories.RewardRepository
	userRepo   repositories.UserRepository
	pointsRepo repositories.PointsRepository
}

func NewRewardService(
	db *sql.DB,
	rewardRepo repositories.RewardRepository,
	userRepo repositories.UserRepository,
	pointsRepo repositories.PointsRepository,
) RewardService {
	return &rewardService{
		beginTx:    beginTxFrom(db),
		rewardRepo: rewardRepo,
		userRepo:   userRepo,
		pointsRepo: pointsRepo,
	}
}

func (s *rewardService) Create(ctx context.Context, actor Actor, input CreateRewardInput) (*models.Reward, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbiddenOperation
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" || input.Cost <= 0 {
		return nil, ErrValidationFailed
	}

	reward := &models.Reward{
		Name:        input.Name,
		Description: input.Description,
		Cost:        input.Cost,
		IsActive:    true,
	}
	if err := s.rewardRepo.Create(ctx, reward); err != nil {
		return nil, fmt.Errorf("failed to create reward: %w", err)
	}
	return reward, nil
}

func (s *rewardService) List(ctx context.Context) ([]models.Reward, error) {
	rewards, err := s.rewardRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rewards: %w", err)
	}
	if rewards == nil {
		rewards = []models.Reward{}
	}
	return rewards, nil
}

// Claim exchanges points for a reward. The balance check, the ledger entry
// and the deduction commit atomically, with the balance row locked so
// concurrent claims cannot overspend.
func (s *rewardService) Claim(ctx context.Context, actor Actor, rewardID int) (*ClaimRewardResult, error) {
	reward, err := s.rewardRepo.GetByID(ctx, rewardID)
	if err != nil {
		if errors.Is(err, repositories.ErrRewardNotFound) {
			return nil, ErrRewardNotFound
		}
		return nil, err
	}
	if !reward.IsActive {
		return nil, ErrRewardNotFound
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	balance, err := s.userRepo.GetBalanceForUpdate(ctx, tx, actor.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if balance < reward.Cost {
		return nil, ErrNotEnoughPoints
	}

	claim := &models.RewardClaim{RewardID: rewardID, UserID: actor.UserID}
	if err := s.rewardRepo.CreateClaim(ctx, tx, claim); err != nil {
		return nil, fmt.Errorf("failed to record reward claim: %w", err)
	}

	entry := &models.PointsEntry{
		UserID:   actor.UserID,
		Amount:   -reward.Cost,
		Reason:   fmt.Sprintf("Reward: %s", reward.Name),
		IsReward: true,
	}
	if err := s.pointsRepo.Create(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to record points entry: %w", err)
	}

	newBalance, err := s.userRepo.AdjustPointsBalance(ctx, tx, actor.UserID, -reward.Cost)
	if err != nil {
		return nil, fmt.Errorf("failed to deduct points: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reward claim: %w", err)
	}

	return &ClaimRewardResult{Claim: claim, Balance: newBalance}, nil
}
