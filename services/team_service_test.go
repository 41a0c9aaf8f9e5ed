package services

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gridclash/arena-api/models"
	"github.com/gridclash/arena-api/store"
	"github.com/gridclash/arena-api/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var inviteCodePattern = regexp.MustCompile(`^[0-9]{6}$`)

func seedUser(t *testing.T, st store.Store) *models.User {
	t.Helper()
	user := &models.User{
		Username: gofakeit.Username(),
		Email:    gofakeit.Email(),
		Phone:    fmt.Sprintf("9%09d", gofakeit.Number(0, 999999999)),
		GameID:   gofakeit.Gamertag(),
		Role:     models.RoleUser,
	}
	require.NoError(t, st.CreateUser(context.Background(), user))
	return user
}

func seedTournament(t *testing.T, st store.Store, mode models.TeamMode) *models.Tournament {
	t.Helper()
	tournament := &models.Tournament{
		Title:     gofakeit.AppName(),
		StartTime: time.Now().Add(24 * time.Hour),
		MapName:   "Erangel",
		TeamMode:  mode,
		GameType:  models.GameBGMI,
		MaxSlots:  16,
		Status:    models.StatusUpcoming,
	}
	require.NoError(t, st.CreateTournament(context.Background(), tournament))
	return tournament
}

func TestCreateTeamGeneratesInviteCodeAndCaptain(t *testing.T) {
	st := storetest.New()
	svc := NewTeamService(st, nil)
	ctx := context.Background()

	owner := seedUser(t, st)
	team, err := svc.Create(ctx, CreateTeamInput{
		Name:     "AlphaSquad",
		GameType: models.GameBGMI,
	}, Actor{UserID: owner.ID, Role: models.RoleUser})
	require.NoError(t, err)

	assert.Regexp(t, inviteCodePattern, team.InviteCode)
	assert.Equal(t, owner.ID, team.OwnerID)

	require.Len(t, team.Members, 1, "owner must be auto-added to the roster")
	assert.Equal(t, owner.Username, team.Members[0].Username)
	assert.Equal(t, models.MemberCaptain, team.Members[0].Role)
}

func TestCreateTeamValidation(t *testing.T) {
	st := storetest.New()
	svc := NewTeamService(st, nil)
	ctx := context.Background()
	owner := seedUser(t, st)
	actor := Actor{UserID: owner.ID, Role: models.RoleUser}

	_, err := svc.Create(ctx, CreateTeamInput{GameType: models.GameBGMI}, actor)
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.Create(ctx, CreateTeamInput{Name: "X", GameType: "chess"}, actor)
	assert.ErrorIs(t, err, ErrInvalidGameType)

	_, err = svc.Create(ctx, CreateTeamInput{Name: "Taken", GameType: models.GameBGMI}, actor)
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateTeamInput{Name: "Taken", GameType: models.GameBGMI}, actor)
	assert.ErrorIs(t, err, ErrTeamNameTaken)
}

func TestInviteCodesStayUniqueAcrossTeams(t *testing.T) {
	st := storetest.New()
	svc := NewTeamService(st, nil)
	ctx := context.Background()
	owner := seedUser(t, st)
	actor := Actor{UserID: owner.ID, Role: models.RoleUser}

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		team, err := svc.Create(ctx, CreateTeamInput{
			Name:     fmt.Sprintf("team-%d", i),
			GameType: models.GameBGMI,
		}, actor)
		require.NoError(t, err)
		assert.Regexp(t, inviteCodePattern, team.InviteCode)
		assert.False(t, seen[team.InviteCode], "invite code %s issued twice", team.InviteCode)
		seen[team.InviteCode] = true
	}
}

// collidingStore makes every invite-code lookup hit, forcing the
// generator through all of its attempts and onto the fallback.
type collidingStore struct {
	store.Store
}

func (c collidingStore) GetTeamByInviteCode(context.Context, string) (*models.Team, error) {
	return &models.Team{}, nil
}

func TestInviteCodeFallbackAfterExhaustedAttempts(t *testing.T) {
	svc := &teamService{store: collidingStore{storetest.New()}}

	code, err := svc.generateInviteCode(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, inviteCodePattern, code, "fallback code must keep the 6-digit format")
}

func TestTeamUpdateAuthorization(t *testing.T) {
	st := storetest.New()
	svc := NewTeamService(st, nil)
	ctx := context.Background()

	owner := seedUser(t, st)
	stranger := seedUser(t, st)
	team, err := svc.Create(ctx, CreateTeamInput{Name: "Owned", GameType: models.GameBGMI},
		Actor{UserID: owner.ID, Role: models.RoleUser})
	require.NoError(t, err)

	newName := "Renamed"
	_, err = svc.Update(ctx, team.ID, UpdateTeamInput{Name: &newName},
		Actor{UserID: stranger.ID, Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrOwnerOnly)

	updated, err := svc.Update(ctx, team.ID, UpdateTeamInput{Name: &newName},
		Actor{UserID: stranger.ID, Role: models.RoleAdmin})
	require.NoError(t, err, "admins bypass the ownership check")
	assert.Equal(t, newName, updated.Name)
}

func TestJoinByInviteCode(t *testing.T) {
	st := storetest.New()
	svc := NewTeamService(st, nil)
	ctx := context.Background()

	owner := seedUser(t, st)
	joiner := seedUser(t, st)
	team, err := svc.Create(ctx, CreateTeamInput{Name: "Joinable", GameType: models.GameFreeFire},
		Actor{UserID: owner.ID, Role: models.RoleUser})
	require.NoError(t, err)

	joined, err := svc.JoinByInviteCode(ctx, team.InviteCode, Actor{UserID: joiner.ID, Role: models.RoleUser})
	require.NoError(t, err)
	require.Len(t, joined.Members, 2)
	assert.Equal(t, models.MemberRegular, joined.Members[1].Role)

	_, err = svc.JoinByInviteCode(ctx, team.InviteCode, Actor{UserID: joiner.ID, Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrMemberExists)

	_, err = svc.JoinByInviteCode(ctx, "000000", Actor{UserID: joiner.ID, Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestDeleteTeamCascades(t *testing.T) {
	st := storetest.New()
	svc := NewTeamService(st, nil)
	ctx := context.Background()

	owner := seedUser(t, st)
	actor := Actor{UserID: owner.ID, Role: models.RoleUser}
	team, err := svc.Create(ctx, CreateTeamInput{Name: "Doomed", GameType: models.GameBGMI}, actor)
	require.NoError(t, err)

	_, err = svc.AddMember(ctx, team.ID, AddMemberInput{
		Username: gofakeit.Username(),
		GameID:   gofakeit.Gamertag(),
		Role:     models.MemberRegular,
	}, actor)
	require.NoError(t, err)

	tournament := seedTournament(t, st, models.ModeDuo)
	teamID := team.ID
	reg := &models.Registration{
		TournamentID:  tournament.ID,
		TeamID:        &teamID,
		UserID:        owner.ID,
		Status:        models.RegistrationPending,
		PaymentStatus: models.PaymentPaid,
	}
	require.NoError(t, st.CreateRegistration(ctx, reg))

	require.NoError(t, svc.Delete(ctx, team.ID, actor))

	_, err = st.GetTeam(ctx, team.ID)
	assert.ErrorIs(t, err, store.ErrTeamNotFound)

	members, err := st.ListTeamMembers(ctx, team.ID)
	require.NoError(t, err)
	assert.Empty(t, members, "roster entries must be removed with the team")

	regs, err := st.ListRegistrationsByTeam(ctx, team.ID)
	require.NoError(t, err)
	assert.Empty(t, regs, "registrations must be removed with the team")
}
