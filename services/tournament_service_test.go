package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gridclash/arena-api/cache"
	"github.com/gridclash/arena-api/models"
	"github.com/gridclash/arena-api/notify"
	"github.com/gridclash/arena-api/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTournamentFixture(t *testing.T) (TournamentService, NotificationService, *storetest.Memory) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := notify.NewHub(logger)
	go hub.Run()

	st := storetest.New()
	notifications := NewNotificationService(st, hub, cache.NewUnreadCache(nil), logger)
	return NewTournamentService(st, hub, nil, notifications, logger), notifications, st
}

func validCreateInput() CreateTournamentInput {
	return CreateTournamentInput{
		Title:     "Weekend Clash",
		StartTime: time.Now().Add(48 * time.Hour),
		MapName:   "Erangel",
		TeamMode:  models.ModeSquad,
		GameType:  models.GameBGMI,
		MaxSlots:  16,
	}
}

func TestCreateTournamentAdminOnly(t *testing.T) {
	svc, _, st := newTournamentFixture(t)
	ctx := context.Background()
	admin := seedUser(t, st)

	_, err := svc.Create(ctx, validCreateInput(), Actor{UserID: admin.ID, Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrAdminOnly)

	created, err := svc.Create(ctx, validCreateInput(), Actor{UserID: admin.ID, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.StatusUpcoming, created.Status, "new tournaments always start upcoming")
	assert.Equal(t, admin.ID, created.CreatedBy)
}

func TestCreateTournamentValidation(t *testing.T) {
	svc, _, st := newTournamentFixture(t)
	ctx := context.Background()
	admin := Actor{UserID: seedUser(t, st).ID, Role: models.RoleAdmin}

	input := validCreateInput()
	input.MaxSlots = 0
	_, err := svc.Create(ctx, input, admin)
	assert.ErrorIs(t, err, ErrValidationFailed)

	input = validCreateInput()
	input.TeamMode = "trio"
	_, err = svc.Create(ctx, input, admin)
	assert.ErrorIs(t, err, ErrInvalidTeamMode)

	input = validCreateInput()
	input.Paid = true
	input.EntryFee = 0
	_, err = svc.Create(ctx, input, admin)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestStatusTransitions(t *testing.T) {
	svc, _, st := newTournamentFixture(t)
	ctx := context.Background()
	admin := Actor{UserID: seedUser(t, st).ID, Role: models.RoleAdmin}

	created, err := svc.Create(ctx, validCreateInput(), admin)
	require.NoError(t, err)

	completed := models.StatusCompleted
	_, err = svc.Update(ctx, created.ID, UpdateTournamentInput{Status: &completed}, admin)
	assert.ErrorIs(t, err, ErrInvalidTransition, "upcoming cannot skip straight to completed")

	live := models.StatusLive
	_, err = svc.Update(ctx, created.ID, UpdateTournamentInput{Status: &live}, admin)
	assert.ErrorIs(t, err, ErrRoomCredentialsNeeded, "going live requires room credentials")

	roomID, roomPass := "ROOM42", "hunter2"
	updated, err := svc.Update(ctx, created.ID, UpdateTournamentInput{
		Status:       &live,
		RoomID:       &roomID,
		RoomPassword: &roomPass,
	}, admin)
	require.NoError(t, err)
	assert.Equal(t, models.StatusLive, updated.Status)

	updated, err = svc.Update(ctx, created.ID, UpdateTournamentInput{Status: &completed}, admin)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)

	upcoming := models.StatusUpcoming
	_, err = svc.Update(ctx, created.ID, UpdateTournamentInput{Status: &upcoming}, admin)
	assert.ErrorIs(t, err, ErrInvalidTransition, "completed is terminal")
}

func TestRoomCredentialVisibility(t *testing.T) {
	svc, _, st := newTournamentFixture(t)
	regSvc := NewRegistrationService(st)
	ctx := context.Background()

	admin := Actor{UserID: seedUser(t, st).ID, Role: models.RoleAdmin}
	input := validCreateInput()
	input.TeamMode = models.ModeSolo
	created, err := svc.Create(ctx, input, admin)
	require.NoError(t, err)

	roomID, roomPass := "ROOM42", "hunter2"
	_, err = svc.Update(ctx, created.ID, UpdateTournamentInput{RoomID: &roomID, RoomPassword: &roomPass}, admin)
	require.NoError(t, err)

	registrant := seedUser(t, st)
	outsider := seedUser(t, st)
	_, err = regSvc.Register(ctx, RegisterTeamInput{TournamentID: created.ID},
		Actor{UserID: registrant.ID, Role: models.RoleUser})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, created.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, got.RoomID, "anonymous readers never see credentials")

	outsiderActor := Actor{UserID: outsider.ID, Role: models.RoleUser}
	got, err = svc.GetByID(ctx, created.ID, &outsiderActor)
	require.NoError(t, err)
	assert.Nil(t, got.RoomID)

	registrantActor := Actor{UserID: registrant.ID, Role: models.RoleUser}
	got, err = svc.GetByID(ctx, created.ID, &registrantActor)
	require.NoError(t, err)
	require.NotNil(t, got.RoomID)
	assert.Equal(t, roomID, *got.RoomID)
	assert.Equal(t, 1, got.RegisteredCount)

	got, err = svc.GetByID(ctx, created.ID, &admin)
	require.NoError(t, err)
	require.NotNil(t, got.RoomID)

	list, err := svc.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].RoomID, "the public list always strips credentials")
}

func TestPublishingCredentialsNotifiesRegistrants(t *testing.T) {
	svc, notifications, st := newTournamentFixture(t)
	regSvc := NewRegistrationService(st)
	ctx := context.Background()

	admin := Actor{UserID: seedUser(t, st).ID, Role: models.RoleAdmin}
	input := validCreateInput()
	input.TeamMode = models.ModeSolo
	created, err := svc.Create(ctx, input, admin)
	require.NoError(t, err)

	registrant := seedUser(t, st)
	_, err = regSvc.Register(ctx, RegisterTeamInput{TournamentID: created.ID},
		Actor{UserID: registrant.ID, Role: models.RoleUser})
	require.NoError(t, err)

	roomID, roomPass := "ROOM42", "hunter2"
	_, err = svc.Update(ctx, created.ID, UpdateTournamentInput{RoomID: &roomID, RoomPassword: &roomPass}, admin)
	require.NoError(t, err)

	list, err := notifications.ListForUser(ctx, registrant.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "room_credentials", list[0].Kind)

	// Re-sending the same room id is not a publish event.
	_, err = svc.Update(ctx, created.ID, UpdateTournamentInput{RoomID: &roomID}, admin)
	require.NoError(t, err)
	list, err = notifications.ListForUser(ctx, registrant.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDeleteTournamentCascadesRegistrations(t *testing.T) {
	svc, _, st := newTournamentFixture(t)
	regSvc := NewRegistrationService(st)
	ctx := context.Background()

	admin := Actor{UserID: seedUser(t, st).ID, Role: models.RoleAdmin}
	input := validCreateInput()
	input.TeamMode = models.ModeSolo
	created, err := svc.Create(ctx, input, admin)
	require.NoError(t, err)

	registrant := seedUser(t, st)
	reg, err := regSvc.Register(ctx, RegisterTeamInput{TournamentID: created.ID},
		Actor{UserID: registrant.ID, Role: models.RoleUser})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID, admin))

	_, err = st.GetRegistration(ctx, reg.ID)
	assert.Error(t, err, "registrations go with the tournament")
}
