package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amuzant/Crewmates/models"
	"github.com/amuzant/Crewmates/repositories"
)

func TestCreateProject(t *testing.T) {
	t.Run("team member cannot create", func(t *testing.T) {
		svc := NewProjectService(&fakeProjectRepo{}, &fakeUserRepo{})
		actor := Actor{UserID: 7, Role: models.RoleTeamMember}
		_, err := svc.Create(context.Background(), actor, CreateProjectInput{Name: "Apollo"})
		assert.ErrorIs(t, err, ErrForbiddenOperation)
	})

	t.Run("leader becomes the first member", func(t *testing.T) {
		var creatorID int
		projectRepo := &fakeProjectRepo{
			CreateFunc: func(ctx context.Context, project *models.Project, leaderID int) error {
				creatorID = leaderID
				project.ID = 3
				return nil
			},
		}
		svc := NewProjectService(projectRepo, &fakeUserRepo{})
		actor := Actor{UserID: 7, Role: models.RoleTeamLeader}
		project, err := svc.Create(context.Background(), actor, CreateProjectInput{Name: "  Apollo  "})
		require.NoError(t, err)
		assert.Equal(t, 7, creatorID)
		assert.Equal(t, "Apollo", project.Name)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		svc := NewProjectService(&fakeProjectRepo{}, &fakeUserRepo{})
		actor := Actor{UserID: 1, Role: models.RoleAdmin}
		_, err := svc.Create(context.Background(), actor, CreateProjectInput{Name: "   "})
		assert.ErrorIs(t, err, ErrMissingFields)
	})
}

func TestAddProjectMember(t *testing.T) {
	knownUser := &fakeUserRepo{
		GetByIDFunc: func(ctx context.Context, id int) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
	}

	t.Run("non-leader is refused", func(t *testing.T) {
		projectRepo := &fakeProjectRepo{
			IsLeaderFunc: func(ctx context.Context, projectID, userID int) (bool, error) {
				return false, nil
			},
		}
		svc := NewProjectService(projectRepo, knownUser)
		actor := Actor{UserID: 7, Role: models.RoleTeamLeader}
		err := svc.AddMember(context.Background(), actor, 3, 8)
		assert.ErrorIs(t, err, ErrForbiddenOperation)
	})

	t.Run("unknown user is refused", func(t *testing.T) {
		projectRepo := &fakeProjectRepo{}
		userRepo := &fakeUserRepo{
			GetByIDFunc: func(ctx context.Context, id int) (*models.User, error) {
				return nil, repositories.ErrUserNotFound
			},
		}
		svc := NewProjectService(projectRepo, userRepo)
		actor := Actor{UserID: 1, Role: models.RoleAdmin}
		err := svc.AddMember(context.Background(), actor, 3, 99)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("re-adding a member is a no-op", func(t *testing.T) {
		projectRepo := &fakeProjectRepo{
			AddMemberFunc: func(ctx context.Context, projectID, userID int) error {
				return repositories.ErrProjectMemberConflict
			},
		}
		svc := NewProjectService(projectRepo, knownUser)
		actor := Actor{UserID: 1, Role: models.RoleAdmin}
		err := svc.AddMember(context.Background(), actor, 3, 8)
		assert.NoError(t, err)
	})
}

func TestRemoveProjectMember(t *testing.T) {
	t.Run("non-member removal reports the membership, not the project", func(t *testing.T) {
		projectRepo := &fakeProjectRepo{
			RemoveMemberFunc: func(ctx context.Context, projectID, userID int) error {
				return repositories.ErrProjectMemberNotFound
			},
		}
		svc := NewProjectService(projectRepo, &fakeUserRepo{})
		err := svc.RemoveMember(context.Background(), Actor{UserID: 1, Role: models.RoleAdmin}, 3, 8)
		assert.ErrorIs(t, err, ErrProjectMemberNotFound)
	})

	t.Run("member is removed", func(t *testing.T) {
		removed := false
		projectRepo := &fakeProjectRepo{
			RemoveMemberFunc: func(ctx context.Context, projectID, userID int) error {
				removed = true
				return nil
			},
		}
		svc := NewProjectService(projectRepo, &fakeUserRepo{})
		err := svc.RemoveMember(context.Background(), Actor{UserID: 1, Role: models.RoleAdmin}, 3, 8)
		require.NoError(t, err)
		assert.True(t, removed)
	})
}

func TestListProjects(t *testing.T) {
	t.Run("admin sees every project", func(t *testing.T) {
		projectRepo := &fakeProjectRepo{
			ListAllFunc: func(ctx context.Context) ([]models.Project, error) {
				return []models.Project{{ID: 1}, {ID: 2}}, nil
			},
		}
		svc := NewProjectService(projectRepo, &fakeUserRepo{})
		projects, err := svc.List(context.Background(), Actor{UserID: 1, Role: models.RoleAdmin})
		require.NoError(t, err)
		assert.Len(t, projects, 2)
	})

	t.Run("member sees only their projects", func(t *testing.T) {
		projectRepo := &fakeProjectRepo{
			ListForUserFunc: func(ctx context.Context, userID int) ([]models.Project, error) {
				assert.Equal(t, 7, userID)
				return []models.Project{{ID: 2}}, nil
			},
		}
		svc := NewProjectService(projectRepo, &fakeUserRepo{})
		projects, err := svc.List(context.Background(), Actor{UserID: 7, Role: models.RoleTeamMember})
		require.NoError(t, err)
		assert.Len(t, projects, 1)
	})
}
