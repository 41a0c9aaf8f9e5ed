package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/gridclash/arena-api/cache"
	"github.com/gridclash/arena-api/notify"
	"github.com/gridclash/arena-api/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotificationFixture(t *testing.T) (NotificationService, *storetest.Memory) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := notify.NewHub(logger)
	go hub.Run()

	st := storetest.New()
	return NewNotificationService(st, hub, cache.NewUnreadCache(nil), logger), st
}

func TestCreateTargetedNotification(t *testing.T) {
	svc, st := newNotificationFixture(t)
	ctx := context.Background()

	user := seedUser(t, st)
	n, err := svc.Create(ctx, CreateNotificationInput{
		UserID:  &user.ID,
		Title:   "Room details published",
		Message: "check the tournament page",
		Kind:    "room_credentials",
	})
	require.NoError(t, err)
	require.NotNil(t, n.UserID)
	assert.Equal(t, user.ID, *n.UserID)

	missing := 404404
	_, err = svc.Create(ctx, CreateNotificationInput{UserID: &missing, Title: "x"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Create(ctx, CreateNotificationInput{UserID: &user.ID})
	assert.ErrorIs(t, err, ErrValidationFailed, "title is mandatory")
}

func TestBroadcastVisibleToEveryUser(t *testing.T) {
	svc, st := newNotificationFixture(t)
	ctx := context.Background()

	alice := seedUser(t, st)
	bob := seedUser(t, st)

	_, err := svc.Create(ctx, CreateNotificationInput{Title: "Maintenance tonight"})
	require.NoError(t, err)

	for _, userID := range []int{alice.ID, bob.ID} {
		list, err := svc.ListForUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Nil(t, list[0].UserID)
	}
}

func TestUnreadCountAndMarkReadIdempotence(t *testing.T) {
	svc, st := newNotificationFixture(t)
	ctx := context.Background()

	user := seedUser(t, st)
	other := seedUser(t, st)

	broadcast, err := svc.Create(ctx, CreateNotificationInput{Title: "broadcast"})
	require.NoError(t, err)
	targeted, err := svc.Create(ctx, CreateNotificationInput{UserID: &user.ID, Title: "targeted"})
	require.NoError(t, err)

	count, err := svc.UnreadCount(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = svc.UnreadCount(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "the targeted notification is invisible to others")

	require.NoError(t, svc.MarkRead(ctx, user.ID, targeted.ID))
	require.NoError(t, svc.MarkRead(ctx, user.ID, targeted.ID), "second mark is a no-op")
	assert.Equal(t, 1, st.ReadPairCount(targeted.ID), "exactly one read-pair after repeated marks")

	count, err = svc.UnreadCount(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	unread, err := svc.ListUnread(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, broadcast.ID, unread[0].ID)
}

func TestMarkReadRespectsRecipient(t *testing.T) {
	svc, st := newNotificationFixture(t)
	ctx := context.Background()

	recipient := seedUser(t, st)
	snoop := seedUser(t, st)

	targeted, err := svc.Create(ctx, CreateNotificationInput{UserID: &recipient.ID, Title: "private"})
	require.NoError(t, err)

	err = svc.MarkRead(ctx, snoop.ID, targeted.ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound,
		"a foreign targeted notification behaves as if it does not exist")

	err = svc.MarkRead(ctx, recipient.ID, 987654)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

// Broadcast read-state is tracked per user: one user reading it must not
// clear it for anyone else.
func TestBroadcastReadStatePerUser(t *testing.T) {
	svc, st := newNotificationFixture(t)
	ctx := context.Background()

	alice := seedUser(t, st)
	bob := seedUser(t, st)

	broadcast, err := svc.Create(ctx, CreateNotificationInput{Title: "patch notes"})
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(ctx, alice.ID, broadcast.ID))

	count, err := svc.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = svc.UnreadCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
