package services

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gridclash/arena-api/models"
	"github.com/gridclash/arena-api/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedTeamWithMembers creates a team with the requested roster size,
// owner included.
func seedTeamWithMembers(t *testing.T, st *storetest.Memory, svc TeamService, ownerID, members int) *models.Team {
	t.Helper()
	ctx := context.Background()

	team, err := svc.Create(ctx, CreateTeamInput{
		Name:     gofakeit.AppName() + gofakeit.LetterN(4),
		GameType: models.GameBGMI,
	}, Actor{UserID: ownerID, Role: models.RoleUser})
	require.NoError(t, err)

	for i := 1; i < members; i++ {
		_, err := svc.AddMember(ctx, team.ID, AddMemberInput{
			Username: gofakeit.Username(),
			GameID:   gofakeit.Gamertag(),
			Role:     models.MemberRegular,
		}, Actor{UserID: ownerID, Role: models.RoleUser})
		require.NoError(t, err)
	}
	return team
}

func TestRegisterSquadRequiresFourMembers(t *testing.T) {
	st := storetest.New()
	teamSvc := NewTeamService(st, nil)
	svc := NewRegistrationService(st)
	ctx := context.Background()

	owner := seedUser(t, st)
	actor := Actor{UserID: owner.ID, Role: models.RoleUser}
	tournament := seedTournament(t, st, models.ModeSquad)
	team := seedTeamWithMembers(t, st, teamSvc, owner.ID, 3)

	_, err := svc.Register(ctx, RegisterTeamInput{TournamentID: tournament.ID, TeamID: &team.ID}, actor)
	require.ErrorIs(t, err, ErrTeamTooSmall)
	assert.Contains(t, err.Error(), "4", "the shortfall message names the required size")
	assert.Contains(t, err.Error(), "3")

	_, err = teamSvc.AddMember(ctx, team.ID, AddMemberInput{
		Username: gofakeit.Username(),
		GameID:   gofakeit.Gamertag(),
		Role:     models.MemberRegular,
	}, actor)
	require.NoError(t, err)

	reg, err := svc.Register(ctx, RegisterTeamInput{TournamentID: tournament.ID, TeamID: &team.ID}, actor)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationPending, reg.Status)
}

func TestRegisterSoloIgnoresTeam(t *testing.T) {
	st := storetest.New()
	svc := NewRegistrationService(st)
	ctx := context.Background()

	user := seedUser(t, st)
	tournament := seedTournament(t, st, models.ModeSolo)

	bogusTeamID := 9999
	reg, err := svc.Register(ctx, RegisterTeamInput{TournamentID: tournament.ID, TeamID: &bogusTeamID},
		Actor{UserID: user.ID, Role: models.RoleUser})
	require.NoError(t, err)
	assert.Nil(t, reg.TeamID, "solo entries never carry a team reference")
	assert.Equal(t, user.ID, reg.UserID)
}

func TestRegisterDuplicateRejected(t *testing.T) {
	st := storetest.New()
	teamSvc := NewTeamService(st, nil)
	svc := NewRegistrationService(st)
	ctx := context.Background()

	owner := seedUser(t, st)
	actor := Actor{UserID: owner.ID, Role: models.RoleUser}
	tournament := seedTournament(t, st, models.ModeDuo)
	team := seedTeamWithMembers(t, st, teamSvc, owner.ID, 2)

	_, err := svc.Register(ctx, RegisterTeamInput{TournamentID: tournament.ID, TeamID: &team.ID}, actor)
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterTeamInput{TournamentID: tournament.ID, TeamID: &team.ID}, actor)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	regs, err := st.ListRegistrationsByTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Len(t, regs, 1, "the duplicate attempt must not create a second row")
}

func TestRegisterCapacityAndStatus(t *testing.T) {
	st := storetest.New()
	svc := NewRegistrationService(st)
	ctx := context.Background()

	tournament := seedTournament(t, st, models.ModeSolo)
	full, err := st.UpdateTournament(ctx, tournament.ID, models.TournamentUpdate{MaxSlots: intPtr(1)})
	require.NoError(t, err)

	first := seedUser(t, st)
	second := seedUser(t, st)

	_, err = svc.Register(ctx, RegisterTeamInput{TournamentID: full.ID},
		Actor{UserID: first.ID, Role: models.RoleUser})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterTeamInput{TournamentID: full.ID},
		Actor{UserID: second.ID, Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrTournamentFull)

	live := models.StatusLive
	_, err = st.UpdateTournament(ctx, tournament.ID, models.TournamentUpdate{Status: &live})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterTeamInput{TournamentID: tournament.ID},
		Actor{UserID: second.ID, Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrTournamentClosed)
}

func TestRegisterOnlyOwnerEntersTeam(t *testing.T) {
	st := storetest.New()
	teamSvc := NewTeamService(st, nil)
	svc := NewRegistrationService(st)
	ctx := context.Background()

	owner := seedUser(t, st)
	stranger := seedUser(t, st)
	tournament := seedTournament(t, st, models.ModeDuo)
	team := seedTeamWithMembers(t, st, teamSvc, owner.ID, 2)

	_, err := svc.Register(ctx, RegisterTeamInput{TournamentID: tournament.ID, TeamID: &team.ID},
		Actor{UserID: stranger.ID, Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrOwnerOnly)
}

func TestFreeTournamentMarksPaymentPaid(t *testing.T) {
	st := storetest.New()
	svc := NewRegistrationService(st)
	ctx := context.Background()

	user := seedUser(t, st)
	tournament := seedTournament(t, st, models.ModeSolo)

	reg, err := svc.Register(ctx, RegisterTeamInput{TournamentID: tournament.ID},
		Actor{UserID: user.ID, Role: models.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, reg.PaymentStatus)
}

func TestUnregisterAuthorization(t *testing.T) {
	st := storetest.New()
	svc := NewRegistrationService(st)
	ctx := context.Background()

	user := seedUser(t, st)
	other := seedUser(t, st)
	tournament := seedTournament(t, st, models.ModeSolo)

	reg, err := svc.Register(ctx, RegisterTeamInput{TournamentID: tournament.ID},
		Actor{UserID: user.ID, Role: models.RoleUser})
	require.NoError(t, err)

	err = svc.Unregister(ctx, reg.ID, Actor{UserID: other.ID, Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Unregister(ctx, reg.ID, Actor{UserID: user.ID, Role: models.RoleUser})
	require.NoError(t, err)

	err = svc.Unregister(ctx, reg.ID, Actor{UserID: user.ID, Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrRegistrationNotFound)
}

func intPtr(v int) *int { return &v }
