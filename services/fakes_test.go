package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/amuzant/Crewmates/models"
	"github.com/amuzant/Crewmates/repositories"
)

var errFakeNotConfigured = errors.New("fake method not configured")

// fakeTx satisfies dbTx so transactional paths can run without a database.
// Statement execution is never reached; the repositories are faked too.
type fakeTx struct {
	committed  bool
	rolledBack bool
	commitErr  error
}

func (f *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, errFakeNotConfigured
}

func (f *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, errFakeNotConfigured
}

func (f *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (f *fakeTx) Commit() error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback() error {
	f.rolledBack = true
	return nil
}

func useTx(tx *fakeTx) func(ctx context.Context) (dbTx, error) {
	return func(ctx context.Context) (dbTx, error) { return tx, nil }
}

type fakeUserRepo struct {
	CreateFunc              func(ctx context.Context, user *models.User) error
	GetByIDFunc             func(ctx context.Context, id int) (*models.User, error)
	GetByEmailFunc          func(ctx context.Context, email string) (*models.User, error)
	ListFunc                func(ctx context.Context) ([]models.User, error)
	UpdateProfileFunc       func(ctx context.Context, id int, displayName string) (*models.User, error)
	UpdateAvatarKeyFunc     func(ctx context.Context, id int, avatarKey *string) error
	GetBalanceForUpdateFunc func(ctx context.Context, exec repositories.SQLExecutor, userID int) (int, error)
	AdjustPointsBalanceFunc func(ctx context.Context, exec repositories.SQLExecutor, userID int, delta int) (int, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if f.CreateFunc == nil {
		return errFakeNotConfigured
	}
	return f.CreateFunc(ctx, user)
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	if f.GetByIDFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.GetByIDFunc(ctx, id)
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.GetByEmailFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.GetByEmailFunc(ctx, email)
}

func (f *fakeUserRepo) List(ctx context.Context) ([]models.User, error) {
	if f.ListFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.ListFunc(ctx)
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, id int, displayName string) (*models.User, error) {
	if f.UpdateProfileFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.UpdateProfileFunc(ctx, id, displayName)
}

func (f *fakeUserRepo) UpdateAvatarKey(ctx context.Context, id int, avatarKey *string) error {
	if f.UpdateAvatarKeyFunc == nil {
		return errFakeNotConfigured
	}
	return f.UpdateAvatarKeyFunc(ctx, id, avatarKey)
}

func (f *fakeUserRepo) GetBalanceForUpdate(ctx context.Context, exec repositories.SQLExecutor, userID int) (int, error) {
	if f.GetBalanceForUpdateFunc == nil {
		return 0, errFakeNotConfigured
	}
	return f.GetBalanceForUpdateFunc(ctx, exec, userID)
}

func (f *fakeUserRepo) AdjustPointsBalance(ctx context.Context, exec repositories.SQLExecutor, userID int, delta int) (int, error) {
	if f.AdjustPointsBalanceFunc == nil {
		return 0, errFakeNotConfigured
	}
	return f.AdjustPointsBalanceFunc(ctx, exec, userID, delta)
}

type fakeSprintRepo struct {
	CreateFunc           func(ctx context.Context, sprint *models.Sprint) error
	GetByIDFunc          func(ctx context.Context, id int) (*models.Sprint, error)
	GetByIDWithPrizeFunc func(ctx context.Context, id int) (*models.Sprint, error)
	ListFunc             func(ctx context.Context) ([]models.Sprint, error)
	FindOverlappingFunc  func(ctx context.Context, start, end time.Time) (*models.Sprint, error)
	MarkCompletedFunc    func(ctx context.Context, exec repositories.SQLExecutor, id int, at time.Time) error
}

func (f *fakeSprintRepo) Create(ctx context.Context, sprint *models.Sprint) error {
	if f.CreateFunc == nil {
		return errFakeNotConfigured
	}
	return f.CreateFunc(ctx, sprint)
}

func (f *fakeSprintRepo) GetByID(ctx context.Context, id int) (*models.Sprint, error) {
	if f.GetByIDFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.GetByIDFunc(ctx, id)
}

func (f *fakeSprintRepo) GetByIDWithPrize(ctx context.Context, id int) (*models.Sprint, error) {
	if f.GetByIDWithPrizeFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.GetByIDWithPrizeFunc(ctx, id)
}

func (f *fakeSprintRepo) List(ctx context.Context) ([]models.Sprint, error) {
	if f.ListFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.ListFunc(ctx)
}

func (f *fakeSprintRepo) FindOverlapping(ctx context.Context, start, end time.Time) (*models.Sprint, error) {
	if f.FindOverlappingFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.FindOverlappingFunc(ctx, start, end)
}

func (f *fakeSprintRepo) MarkCompleted(ctx context.Context, exec repositories.SQLExecutor, id int, at time.Time) error {
	if f.MarkCompletedFunc == nil {
		return errFakeNotConfigured
	}
	return f.MarkCompletedFunc(ctx, exec, id, at)
}

type fakeProjectRepo struct {
	CreateFunc               func(ctx context.Context, project *models.Project, leaderID int) error
	GetByIDFunc              func(ctx context.Context, id int) (*models.Project, error)
	DeleteFunc               func(ctx context.Context, id int) error
	ListAllFunc              func(ctx context.Context) ([]models.Project, error)
	ListForUserFunc          func(ctx context.Context, userID int) ([]models.Project, error)
	ListUnrankedBySprintFunc func(ctx context.Context, sprintID int) ([]models.Project, error)
	ListMembersFunc          func(ctx context.Context, projectID int) ([]models.User, error)
	ListLeadersFunc          func(ctx context.Context, projectID int) ([]models.User, error)
	AddMemberFunc            func(ctx context.Context, projectID, userID int) error
	RemoveMemberFunc         func(ctx context.Context, projectID, userID int) error
	IsMemberFunc             func(ctx context.Context, projectID, userID int) (bool, error)
	IsLeaderFunc             func(ctx context.Context, projectID, userID int) (bool, error)
}

func (f *fakeProjectRepo) Create(ctx context.Context, project *models.Project, leaderID int) error {
	if f.CreateFunc == nil {
		return errFakeNotConfigured
	}
	return f.CreateFunc(ctx, project, leaderID)
}

func (f *fakeProjectRepo) GetByID(ctx context.Context, id int) (*models.Project, error) {
	if f.GetByIDFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.GetByIDFunc(ctx, id)
}

func (f *fakeProjectRepo) Delete(ctx context.Context, id int) error {
	if f.DeleteFunc == nil {
		return errFakeNotConfigured
	}
	return f.DeleteFunc(ctx, id)
}

func (f *fakeProjectRepo) ListAll(ctx context.Context) ([]models.Project, error) {
	if f.ListAllFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.ListAllFunc(ctx)
}

func (f *fakeProjectRepo) ListForUser(ctx context.Context, userID int) ([]models.Project, error) {
	if f.ListForUserFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.ListForUserFunc(ctx, userID)
}

func (f *fakeProjectRepo) ListUnrankedBySprint(ctx context.Context, sprintID int) ([]models.Project, error) {
	if f.ListUnrankedBySprintFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.ListUnrankedBySprintFunc(ctx, sprintID)
}

func (f *fakeProjectRepo) ListMembers(ctx context.Context, projectID int) ([]models.User, error) {
	if f.ListMembersFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.ListMembersFunc(ctx, projectID)
}

func (f *fakeProjectRepo) ListLeaders(ctx context.Context, projectID int) ([]models.User, error) {
	if f.ListLeadersFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.ListLeadersFunc(ctx, projectID)
}

func (f *fakeProjectRepo) AddMember(ctx context.Context, projectID, userID int) error {
	if f.AddMemberFunc == nil {
		return errFakeNotConfigured
	}
	return f.AddMemberFunc(ctx, projectID, userID)
}

func (f *fakeProjectRepo) RemoveMember(ctx context.Context, projectID, userID int) error {
	if f.RemoveMemberFunc == nil {
		return errFakeNotConfigured
	}
	return f.RemoveMemberFunc(ctx, projectID, userID)
}

func (f *fakeProjectRepo) IsMember(ctx context.Context, projectID, userID int) (bool, error) {
	if f.IsMemberFunc == nil {
		return false, errFakeNotConfigured
	}
	return f.IsMemberFunc(ctx, projectID, userID)
}

func (f *fakeProjectRepo) IsLeader(ctx context.Context, projectID, userID int) (bool, error) {
	if f.IsLeaderFunc == nil {
		return false, errFakeNotConfigured
	}
	return f.IsLeaderFunc(ctx, projectID, userID)
}

type fakeBadgeRepo struct {
	GrantIfAbsentFunc func(ctx context.Context, badge *models.Badge) (bool, error)
	ListByUserFunc    func(ctx context.Context, userID int) ([]models.Badge, error)
}

func (f *fakeBadgeRepo) GrantIfAbsent(ctx context.Context, badge *models.Badge) (bool, error) {
	if f.GrantIfAbsentFunc == nil {
		return false, errFakeNotConfigured
	}
	return f.GrantIfAbsentFunc(ctx, badge)
}

func (f *fakeBadgeRepo) ListByUser(ctx context.Context, userID int) ([]models.Badge, error) {
	if f.ListByUserFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.ListByUserFunc(ctx, userID)
}

type fakePrizeRepo struct {
	CreateFunc                   func(ctx context.Context, prize *models.Prize) error
	GetByIDFunc                  func(ctx context.Context, id int) (*models.Prize, error)
	ListFunc                     func(ctx context.Context) ([]models.Prize, error)
	UpdatePhotoKeyFunc           func(ctx context.Context, id int, photoKey *string) error
	AddWinnerIfAbsentFunc        func(ctx context.Context, prizeID, userID int) (bool, error)
	HasWinnerFunc                func(ctx context.Context, prizeID, userID int) (bool, error)
	ListUnacknowledgedByUserFunc func(ctx context.Context, userID int) ([]models.Prize, error)
	GetClaimFunc                 func(ctx context.Context, prizeID, userID int) (*models.PrizeClaim, error)
	UpsertAcknowledgedFunc       func(ctx context.Context, prizeID, userID int) (*models.PrizeClaim, error)
	SetClaimedFunc               func(ctx context.Context, prizeID, userID int, at time.Time) (*models.PrizeClaim, error)
}

func (f *fakePrizeRepo) Create(ctx context.Context, prize *models.Prize) error {
	if f.CreateFunc == nil {
		return errFakeNotConfigured
	}
	return f.CreateFunc(ctx, prize)
}

func (f *fakePrizeRepo) GetByID(ctx context.Context, id int) (*models.Prize, error) {
	if f.GetByIDFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.GetByIDFunc(ctx, id)
}

func (f *fakePrizeRepo) List(ctx context.Context) ([]models.Prize, error) {
	if f.ListFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.ListFunc(ctx)
}

func (f *fakePrizeRepo) UpdatePhotoKey(ctx context.Context, id int, photoKey *string) error {
	if f.UpdatePhotoKeyFunc == nil {
		return errFakeNotConfigured
	}
	return f.UpdatePhotoKeyFunc(ctx, id, photoKey)
}

func (f *fakePrizeRepo) AddWinnerIfAbsent(ctx context.Context, prizeID, userID int) (bool, error) {
	if f.AddWinnerIfAbsentFunc == nil {
		return false, errFakeNotConfigured
	}
	return f.AddWinnerIfAbsentFunc(ctx, prizeID, userID)
}

func (f *fakePrizeRepo) HasWinner(ctx context.Context, prizeID, userID int) (bool, error) {
	if f.HasWinnerFunc == nil {
		return false, errFakeNotConfigured
	}
	return f.HasWinnerFunc(ctx, prizeID, userID)
}

func (f *fakePrizeRepo) ListUnacknowledgedByUser(ctx context.Context, userID int) ([]models.Prize, error) {
	if f.ListUnacknowledgedByUserFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.ListUnacknowledgedByUserFunc(ctx, userID)
}

func (f *fakePrizeRepo) GetClaim(ctx context.Context, prizeID, userID int) (*models.PrizeClaim, error) {
	if f.GetClaimFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.GetClaimFunc(ctx, prizeID, userID)
}

func (f *fakePrizeRepo) UpsertAcknowledged(ctx context.Context, prizeID, userID int) (*models.PrizeClaim, error) {
	if f.UpsertAcknowledgedFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.UpsertAcknowledgedFunc(ctx, prizeID, userID)
}

func (f *fakePrizeRepo) SetClaimed(ctx context.Context, prizeID, userID int, at time.Time) (*models.PrizeClaim, error) {
	if f.SetClaimedFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.SetClaimedFunc(ctx, prizeID, userID, at)
}

type fakeRewardRepo struct {
	CreateFunc      func(ctx context.Context, reward *models.Reward) error
	GetByIDFunc     func(ctx context.Context, id int) (*models.Reward, error)
	ListActiveFunc  func(ctx context.Context) ([]models.Reward, error)
	CreateClaimFunc func(ctx context.Context, exec repositories.SQLExecutor, claim *models.RewardClaim) error
}

func (f *fakeRewardRepo) Create(ctx context.Context, reward *models.Reward) error {
	if f.CreateFunc == nil {
		return errFakeNotConfigured
	}
	return f.CreateFunc(ctx, reward)
}

func (f *fakeRewardRepo) GetByID(ctx context.Context, id int) (*models.Reward, error) {
	if f.GetByIDFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.GetByIDFunc(ctx, id)
}

func (f *fakeRewardRepo) ListActive(ctx context.Context) ([]models.Reward, error) {
	if f.ListActiveFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.ListActiveFunc(ctx)
}

func (f *fakeRewardRepo) CreateClaim(ctx context.Context, exec repositories.SQLExecutor, claim *models.RewardClaim) error {
	if f.CreateClaimFunc == nil {
		return errFakeNotConfigured
	}
	return f.CreateClaimFunc(ctx, exec, claim)
}

type fakePointsRepo struct {
	CreateFunc     func(ctx context.Context, exec repositories.SQLExecutor, entry *models.PointsEntry) error
	ListByUserFunc func(ctx context.Context, userID int) ([]models.PointsEntry, error)
	SumByUserFunc  func(ctx context.Context, userID int) (int, error)
}

func (f *fakePointsRepo) Create(ctx context.Context, exec repositories.SQLExecutor, entry *models.PointsEntry) error {
	if f.CreateFunc == nil {
		return errFakeNotConfigured
	}
	return f.CreateFunc(ctx, exec, entry)
}

func (f *fakePointsRepo) ListByUser(ctx context.Context, userID int) ([]models.PointsEntry, error) {
	if f.ListByUserFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.ListByUserFunc(ctx, userID)
}

func (f *fakePointsRepo) SumByUser(ctx context.Context, userID int) (int, error) {
	if f.SumByUserFunc == nil {
		return 0, errFakeNotConfigured
	}
	return f.SumByUserFunc(ctx, userID)
}

type fakeRankingRepo struct {
	DeleteBySprintFunc func(ctx context.Context, exec repositories.SQLExecutor, sprintID int) error
	CreateFunc         func(ctx context.Context, exec repositories.SQLExecutor, ranking *models.Ranking) error
	ListBySprintFunc   func(ctx context.Context, sprintID int) ([]models.Ranking, error)
}

func (f *fakeRankingRepo) DeleteBySprint(ctx context.Context, exec repositories.SQLExecutor, sprintID int) error {
	if f.DeleteBySprintFunc == nil {
		return errFakeNotConfigured
	}
	return f.DeleteBySprintFunc(ctx, exec, sprintID)
}

func (f *fakeRankingRepo) Create(ctx context.Context, exec repositories.SQLExecutor, ranking *models.Ranking) error {
	if f.CreateFunc == nil {
		return errFakeNotConfigured
	}
	return f.CreateFunc(ctx, exec, ranking)
}

func (f *fakeRankingRepo) ListBySprint(ctx context.Context, sprintID int) ([]models.Ranking, error) {
	if f.ListBySprintFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.ListBySprintFunc(ctx, sprintID)
}

type fakeOutboxRepo struct {
	EnqueueFunc func(ctx context.Context, exec repositories.SQLExecutor, kind models.OutboxTaskKind, payload interface{}) error
}

func (f *fakeOutboxRepo) Enqueue(ctx context.Context, exec repositories.SQLExecutor, kind models.OutboxTaskKind, payload interface{}) error {
	if f.EnqueueFunc == nil {
		return errFakeNotConfigured
	}
	return f.EnqueueFunc(ctx, exec, kind, payload)
}

func (f *fakeOutboxRepo) ClaimDue(ctx context.Context, now time.Time, limit int) ([]models.OutboxTask, error) {
	return nil, errFakeNotConfigured
}

func (f *fakeOutboxRepo) MarkDone(ctx context.Context, id int64) error {
	return errFakeNotConfigured
}

func (f *fakeOutboxRepo) Reschedule(ctx context.Context, id int64, nextAttempt time.Time, taskErr string) error {
	return errFakeNotConfigured
}

func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id int64, taskErr string) error {
	return errFakeNotConfigured
}

type fakeBroadcaster struct {
	events []string
}

func (f *fakeBroadcaster) BroadcastToSprint(sprintID int, eventType string, payload interface{}) {
	f.events = append(f.events, eventType)
}

type fakeMessageRepo struct {
	CreateFunc        func(ctx context.Context, message *models.Message) error
	GetByIDFunc       func(ctx context.Context, id int) (*models.Message, error)
	ListDirectFunc    func(ctx context.Context, userA, userB int) ([]models.Message, error)
	ListByChatFunc    func(ctx context.Context, chatID int) ([]models.Message, error)
	UpdateContentFunc func(ctx context.Context, id, senderID int, content string, at time.Time) (*models.Message, error)
	SoftDeleteFunc    func(ctx context.Context, id, senderID int) error
}

func (f *fakeMessageRepo) Create(ctx context.Context, message *models.Message) error {
	if f.CreateFunc == nil {
		return errFakeNotConfigured
	}
	return f.CreateFunc(ctx, message)
}

func (f *fakeMessageRepo) GetByID(ctx context.Context, id int) (*models.Message, error) {
	if f.GetByIDFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.GetByIDFunc(ctx, id)
}

func (f *fakeMessageRepo) ListDirect(ctx context.Context, userA, userB int) ([]models.Message, error) {
	if f.ListDirectFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.ListDirectFunc(ctx, userA, userB)
}

func (f *fakeMessageRepo) ListByChat(ctx context.Context, chatID int) ([]models.Message, error) {
	if f.ListByChatFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.ListByChatFunc(ctx, chatID)
}

func (f *fakeMessageRepo) UpdateContent(ctx context.Context, id, senderID int, content string, at time.Time) (*models.Message, error) {
	if f.UpdateContentFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.UpdateContentFunc(ctx, id, senderID, content, at)
}

func (f *fakeMessageRepo) SoftDelete(ctx context.Context, id, senderID int) error {
	if f.SoftDeleteFunc == nil {
		return errFakeNotConfigured
	}
	return f.SoftDeleteFunc(ctx, id, senderID)
}

type fakeChatRepo struct {
	CreateGroupFunc func(ctx context.Context, chat *models.Chat, memberIDs []int) error
	GetByIDFunc     func(ctx context.Context, id int) (*models.Chat, error)
	NameExistsFunc  func(ctx context.Context, name string) (bool, error)
	ListForUserFunc func(ctx context.Context, userID int) ([]models.Chat, error)
	ListMembersFunc func(ctx context.Context, chatID int) ([]models.ChatMember, error)
	IsMemberFunc    func(ctx context.Context, chatID, userID int) (bool, error)
}

func (f *fakeChatRepo) CreateGroup(ctx context.Context, chat *models.Chat, memberIDs []int) error {
	if f.CreateGroupFunc == nil {
		return errFakeNotConfigured
	}
	return f.CreateGroupFunc(ctx, chat, memberIDs)
}

func (f *fakeChatRepo) GetByID(ctx context.Context, id int) (*models.Chat, error) {
	if f.GetByIDFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.GetByIDFunc(ctx, id)
}

func (f *fakeChatRepo) NameExists(ctx context.Context, name string) (bool, error) {
	if f.NameExistsFunc == nil {
		return false, errFakeNotConfigured
	}
	return f.NameExistsFunc(ctx, name)
}

func (f *fakeChatRepo) ListForUser(ctx context.Context, userID int) ([]models.Chat, error) {
	if f.ListForUserFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.ListForUserFunc(ctx, userID)
}

func (f *fakeChatRepo) ListMembers(ctx context.Context, chatID int) ([]models.ChatMember, error) {
	if f.ListMembersFunc == nil {
		return nil, errFakeNotConfigured
	}
	return f.ListMembersFunc(ctx, chatID)
}

func (f *fakeChatRepo) IsMember(ctx context.Context, chatID, userID int) (bool, error) {
	if f.IsMemberFunc == nil {
		return false, errFakeNotConfigured
	}
	return f.IsMemberFunc(ctx, chatID, userID)
}
