package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/amuzant/Crewmates/models"
	"github.com/amuzant/Crewmates/repositories"
)

const spinCost = 10

// wheelSegments is the fixed lucky-wheel prize table. The winning segment is
// picked server-side with uniform probability.
var wheelSegments = []int{100, 50, 200, 75, 150, 25}

type GrantPointsInput struct {
	UserID int    `json:"userId"`
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
}

type GrantPointsResult struct {
	Points *models.PointsEntry `json:"points"`
	User   *models.User        `json:"user"`
}

type SpinResult struct {
	Segment int `json:"segment"`
	Points  int `json:"points"`
	Balance int `json:"balance"`
}

type PointsService interface {
	Grant(ctx context.Context, input GrantPointsInput) (*GrantPointsResult, error)
	Spin(ctx context.Context, userID int) (*SpinResult, error)
	History(ctx context.Context, userID int) ([]models.PointsEntry, error)
}

type pointsService struct {
	beginTx    func(ctx context.Context) (dbTx, error)
	pointsRepo repositories.PointsRepository
	userRepo   repositories.UserRepository
	pick       func(n int) int
}

func NewPointsService(db *sql.DB, pointsRepo repositories.PointsRepository, userRepo repositories.UserRepository) PointsService {
	return &pointsService{
		beginTx:    beginTxFrom(db),
		pointsRepo: pointsRepo,
		userRepo:   userRepo,
		pick:       rand.Intn,
	}
}

// Grant appends one ledger row and adjusts the denormalized balance by the
// same signed amount, in a single transaction.
func (s *pointsService) Grant(ctx context.Context, input GrantPointsInput) (*GrantPointsResult, error) {
	input.Reason = strings.TrimSpace(input.Reason)
	if input.UserID <= 0 || input.Amount == 0 || input.Reason == "" {
		return nil, ErrMissingFields
	}

	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %d: %w", input.UserID, err)
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	entry := &models.PointsEntry{
		UserID: input.UserID,
		Amount: input.Amount,
		Reason: input.Reason,
	}
	if err := s.pointsRepo.Create(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to create ledger entry: %w", err)
	}

	balance, err := s.userRepo.AdjustPointsBalance(ctx, tx, input.UserID, input.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit points transaction: %w", err)
	}

	user.PointsBalance = balance
	return &GrantPointsResult{Points: entry, User: user}, nil
}

// Spin runs one lucky-wheel round: re-validates the balance inside the
// transaction, writes the -10 cost row, picks the winning segment, writes the
// win row and settles the balance. Nothing persists when the balance is short.
func (s *pointsService) Spin(ctx context.Context, userID int) (*SpinResult, error) {
	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	balance, err := s.userRepo.GetBalanceForUpdate(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to lock user %d: %w", userID, err)
	}
	if balance < spinCost {
		return nil, ErrNotEnoughPoints
	}

	cost := &models.PointsEntry{UserID: userID, Amount: -spinCost, Reason: "Lucky Wheel Spin"}
	if err := s.pointsRepo.Create(ctx, tx, cost); err != nil {
		return nil, fmt.Errorf("failed to record spin cost: %w", err)
	}

	segment := s.pick(len(wheelSegments))
	won := wheelSegments[segment]
	win := &models.PointsEntry{
		UserID: userID,
		Amount: won,
		Reason: fmt.Sprintf("Lucky Wheel: Won %d points", won),
	}
	if err := s.pointsRepo.Create(ctx, tx, win); err != nil {
		return nil, fmt.Errorf("failed to record spin win: %w", err)
	}

	newBalance, err := s.userRepo.AdjustPointsBalance(ctx, tx, userID, won-spinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit spin transaction: %w", err)
	}

	return &SpinResult{Segment: segment, Points: won, Balance: newBalance}, nil
}

func (s *pointsService) History(ctx context.Context, userID int) ([]models.PointsEntry, error) {
	entries, err := s.pointsRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list points for user %d: %w", userID, err)
	}
	if entries == nil {
		entries = []models.PointsEntry{}
	}
	return entries, nil
}
