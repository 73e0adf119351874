package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amuzant/Crewmates/models"
	"github.com/amuzant/Crewmates/repositories"
)

type CreateProjectInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	SprintID    *int    `json:"sprintId,omitempty"`
}

type ProjectService interface {
	Create(ctx context.Context, actor Actor, input CreateProjectInput) (*models.Project, error)
	GetByID(ctx context.Context, actor Actor, id int) (*models.Project, error)
	Delete(ctx context.Context, actor Actor, id int) error
	List(ctx context.Context, actor Actor) ([]models.Project, error)
	AddMember(ctx context.Context, actor Actor, projectID, userID int) error
	RemoveMember(ctx context.Context, actor Actor, projectID, userID int) error
}

// Actor identifies the authenticated caller for access decisions.
type Actor struct {
	UserID int
	Role   models.UserRole
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

type projectService struct {
	projectRepo repositories.ProjectRepository
	userRepo    repositories.UserRepository
}

func NewProjectService(projectRepo repositories.ProjectRepository, userRepo repositories.UserRepository) ProjectService {
	return &projectService{projectRepo: projectRepo, userRepo: userRepo}
}

// Create makes a project with the actor as its first leader and member.
// Team members cannot create projects.
func (s *projectService) Create(ctx context.Context, actor Actor, input CreateProjectInput) (*models.Project, error) {
	if actor.Role == models.RoleTeamMember {
		return nil, ErrForbiddenOperation
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, ErrMissingFields
	}

	project := &models.Project{Name: input.Name, Description: input.Description, SprintID: input.SprintID}
	if err := s.projectRepo.Create(ctx, project, actor.UserID); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

func (s *projectService) GetByID(ctx context.Context, actor Actor, id int) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrProjectNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	members, err := s.projectRepo.ListMembers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list project members: %w", err)
	}
	leaders, err := s.projectRepo.ListLeaders(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list project leaders: %w", err)
	}
	project.Members = members
	project.Leaders = leaders
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, actor Actor, id int) error {
	if !actor.IsAdmin() {
		leader, err := s.projectRepo.IsLeader(ctx, id, actor.UserID)
		if err != nil {
			return err
		}
		if !leader {
			return ErrForbiddenOperation
		}
	}

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrProjectNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// List returns every project for admins and the actor's own projects
// otherwise.
func (s *projectService) List(ctx context.Context, actor Actor) ([]models.Project, error) {
	var (
		projects []models.Project
		err      error
	)
	if actor.IsAdmin() {
		projects, err = s.projectRepo.ListAll(ctx)
	} else {
		projects, err = s.projectRepo.ListForUser(ctx, actor.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, nil
}

func (s *projectService) requireManager(ctx context.Context, actor Actor, projectID int) error {
	if actor.IsAdmin() {
		return nil
	}
	leader, err := s.projectRepo.IsLeader(ctx, projectID, actor.UserID)
	if err != nil {
		return err
	}
	if !leader {
		return ErrForbiddenOperation
	}
	return nil
}

func (s *projectService) AddMember(ctx context.Context, actor Actor, projectID, userID int) error {
	if err := s.requireManager(ctx, actor, projectID); err != nil {
		return err
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.projectRepo.AddMember(ctx, projectID, userID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrProjectNotFound):
			return ErrProjectNotFound
		case errors.Is(err, repositories.ErrProjectMemberConflict):
			// Adding an existing member is idempotent.
			return nil
		}
		return fmt.Errorf("failed to add project member: %w", err)
	}
	return nil
}

func (s *projectService) RemoveMember(ctx context.Context, actor Actor, projectID, userID int) error {
	if err := s.requireManager(ctx, actor, projectID); err != nil {
		return err
	}

	if err := s.projectRepo.RemoveMember(ctx, projectID, userID); err != nil {
		if errors.Is(err, repositories.ErrProjectMemberNotFound) {
			return ErrProjectMemberNotFound
		}
		return fmt.Errorf("failed to remove project member: %w", err)
	}
	return nil
}
