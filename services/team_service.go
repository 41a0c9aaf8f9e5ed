package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/gridclash/arena-api/media"
	"github.com/gridclash/arena-api/models"
	"github.com/gridclash/arena-api/store"
)

// inviteCodeAttempts bounds the random-candidate loop. If every attempt
// collides the code falls back to timestamp digits; the unique index on
// teams.invite_code remains the actual uniqueness guarantee.
const inviteCodeAttempts = 10

type TeamService interface {
	Create(ctx context.Context, input CreateTeamInput, actor Actor) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	ListByOwner(ctx context.Context, ownerID int) ([]models.Team, error)
	Update(ctx context.Context, id int, input UpdateTeamInput, actor Actor) (*models.Team, error)
	// Delete cascades: members and registrations first, then the team.
	Delete(ctx context.Context, id int, actor Actor) error

	AddMember(ctx context.Context, teamID int, input AddMemberInput, actor Actor) (*models.TeamMember, error)
	RemoveMember(ctx context.Context, teamID, memberID int, actor Actor) error
	JoinByInviteCode(ctx context.Context, code string, actor Actor) (*models.Team, error)

	UploadLogo(ctx context.Context, teamID int, contentType string, r io.Reader, actor Actor) (*models.Team, error)
}

type CreateTeamInput struct {
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	GameType    models.GameType `json:"game_type"`
}

type UpdateTeamInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type AddMemberInput struct {
	Username string            `json:"username"`
	GameID   string            `json:"game_id"`
	Role     models.MemberRole `json:"role"`
}

type teamService struct {
	store    store.Store
	uploader media.FileUploader
}

func NewTeamService(st store.Store, uploader media.FileUploader) TeamService {
	return &teamService{store: st, uploader: uploader}
}

func (s *teamService) Create(ctx context.Context, input CreateTeamInput, actor Actor) (*models.Team, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrValidationFailed)
	}
	if !input.GameType.Valid() {
		return nil, ErrInvalidGameType
	}

	code, err := s.generateInviteCode(ctx)
	if err != nil {
		return nil, err
	}

	team := &models.Team{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     actor.UserID,
		GameType:    input.GameType,
		InviteCode:  code,
	}

	if err := s.store.CreateTeam(ctx, team); err != nil {
		switch {
		case errors.Is(err, store.ErrTeamNameTaken):
			return nil, ErrTeamNameTaken
		case errors.Is(err, store.ErrInviteCodeTaken):
			// The fallback code lost a collision race after all. Surface
			// it as a retryable conflict rather than inventing a loop here.
			return nil, fmt.Errorf("%w: invite code collision, retry the request", ErrValidationFailed)
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	owner, err := s.store.GetUser(ctx, actor.UserID)
	if err == nil {
		captain := &models.TeamMember{
			TeamID:   team.ID,
			Username: owner.Username,
			GameID:   owner.GameID,
			Role:     models.MemberCaptain,
		}
		if err := s.store.CreateTeamMember(ctx, captain); err == nil {
			team.Members = []models.TeamMember{*captain}
		}
	}

	return team, nil
}

// generateInviteCode draws random 6-digit candidates and checks each one
// against existing teams. Best effort only: after the attempt budget it
// falls back to the low-order digits of the current timestamp, accepting
// the tiny residual collision chance.
func (s *teamService) generateInviteCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < inviteCodeAttempts; attempt++ {
		code := fmt.Sprintf("%06d", 100000+rand.IntN(900000))

		_, err := s.store.GetTeamByInviteCode(ctx, code)
		if errors.Is(err, store.ErrTeamNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check invite code: %w", err)
		}
	}
	return fmt.Sprintf("%06d", time.Now().UnixNano()%1_000_000), nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.store.GetTeam(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}

	members, err := s.store.ListTeamMembers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of team %d: %w", id, err)
	}
	team.Members = members
	s.fillLogoURL(team)
	return team, nil
}

func (s *teamService) List(ctx context.Context) ([]models.Team, error) {
	teams, err := s.store.ListTeams(ctx)
	if err != nil {
		return nil, err
	}
	for i := range teams {
		s.fillLogoURL(&teams[i])
	}
	return teams, nil
}

func (s *teamService) ListByOwner(ctx context.Context, ownerID int) ([]models.Team, error) {
	teams, err := s.store.ListTeamsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range teams {
		s.fillLogoURL(&teams[i])
	}
	return teams, nil
}

func (s *teamService) Update(ctx context.Context, id int, input UpdateTeamInput, actor Actor) (*models.Team, error) {
	if err := s.authorizeOwner(ctx, id, actor); err != nil {
		return nil, err
	}

	team, err := s.store.UpdateTeam(ctx, id, models.TeamUpdate{
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrTeamNotFound):
			return nil, ErrTeamNotFound
		case errors.Is(err, store.ErrTeamNameTaken):
			return nil, ErrTeamNameTaken
		}
		return nil, fmt.Errorf("failed to update team %d: %w", id, err)
	}
	s.fillLogoURL(team)
	return team, nil
}

func (s *teamService) Delete(ctx context.Context, id int, actor Actor) error {
	if err := s.authorizeOwner(ctx, id, actor); err != nil {
		return err
	}

	members, err := s.store.ListTeamMembers(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list members of team %d: %w", id, err)
	}
	for _, member := range members {
		if err := s.store.DeleteTeamMember(ctx, member.ID); err != nil && !errors.Is(err, store.ErrMemberNotFound) {
			return fmt.Errorf("failed to delete member %d: %w", member.ID, err)
		}
	}

	registrations, err := s.store.ListRegistrationsByTeam(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list registrations of team %d: %w", id, err)
	}
	for _, reg := range registrations {
		if err := s.store.DeleteRegistration(ctx, reg.ID); err != nil && !errors.Is(err, store.ErrRegistrationNotFound) {
			return fmt.Errorf("failed to delete registration %d: %w", reg.ID, err)
		}
	}

	if err := s.store.DeleteTeam(ctx, id); err != nil {
		if errors.Is(err, store.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team %d: %w", id, err)
	}
	return nil
}

func (s *teamService) AddMember(ctx context.Context, teamID int, input AddMemberInput, actor Actor) (*models.TeamMember, error) {
	if err := s.authorizeOwner(ctx, teamID, actor); err != nil {
		return nil, err
	}
	if input.Username == "" {
		return nil, fmt.Errorf("%w: member username is required", ErrValidationFailed)
	}
	if !input.Role.Valid() {
		return nil, ErrInvalidMemberRole
	}

	member := &models.TeamMember{
		TeamID:   teamID,
		Username: input.Username,
		GameID:   input.GameID,
		Role:     input.Role,
	}
	if err := s.store.CreateTeamMember(ctx, member); err != nil {
		if errors.Is(err, store.ErrMemberExists) {
			return nil, ErrMemberExists
		}
		if errors.Is(err, store.ErrInvalidTeamRef) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to add member to team %d: %w", teamID, err)
	}
	return member, nil
}

func (s *teamService) RemoveMember(ctx context.Context, teamID, memberID int, actor Actor) error {
	if err := s.authorizeOwner(ctx, teamID, actor); err != nil {
		return err
	}

	member, err := s.store.GetTeamMember(ctx, memberID)
	if err != nil {
		if errors.Is(err, store.ErrMemberNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to get member %d: %w", memberID, err)
	}
	if member.TeamID != teamID {
		return ErrMemberNotFound
	}

	if err := s.store.DeleteTeamMember(ctx, memberID); err != nil {
		if errors.Is(err, store.ErrMemberNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to remove member %d: %w", memberID, err)
	}
	return nil
}

func (s *teamService) JoinByInviteCode(ctx context.Context, code string, actor Actor) (*models.Team, error) {
	team, err := s.store.GetTeamByInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to look up invite code: %w", err)
	}

	user, err := s.store.GetUser(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", actor.UserID, err)
	}

	member := &models.TeamMember{
		TeamID:   team.ID,
		Username: user.Username,
		GameID:   user.GameID,
		Role:     models.MemberRegular,
	}
	if err := s.store.CreateTeamMember(ctx, member); err != nil {
		if errors.Is(err, store.ErrMemberExists) {
			return nil, ErrMemberExists
		}
		return nil, fmt.Errorf("failed to join team %d: %w", team.ID, err)
	}
	return s.GetByID(ctx, team.ID)
}

func (s *teamService) UploadLogo(ctx context.Context, teamID int, contentType string, r io.Reader, actor Actor) (*models.Team, error) {
	if err := s.authorizeOwner(ctx, teamID, actor); err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, fmt.Errorf("%w: media storage is not configured", ErrValidationFailed)
	}

	key := fmt.Sprintf("teams/%d/logo-%s", teamID, uuid.NewString())
	result, err := s.uploader.Upload(ctx, key, contentType, r)
	if err != nil {
		return nil, fmt.Errorf("failed to upload team logo: %w", err)
	}

	team, err := s.store.UpdateTeam(ctx, teamID, models.TeamUpdate{LogoKey: &result.Key})
	if err != nil {
		if errors.Is(err, store.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to persist team logo key: %w", err)
	}
	s.fillLogoURL(team)
	return team, nil
}

func (s *teamService) authorizeOwner(ctx context.Context, teamID int, actor Actor) error {
	if actor.IsAdmin() {
		return nil
	}

	team, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, store.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	if team.OwnerID != actor.UserID {
		return ErrOwnerOnly
	}
	return nil
}

func (s *teamService) fillLogoURL(team *models.Team) {
	if s.uploader != nil && team.LogoKey != nil {
		url := s.uploader.GetPublicURL(*team.LogoKey)
		team.LogoURL = &url
	}
}
