package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/gridclash/arena-api/models"
	"github.com/gridclash/arena-api/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureBootstrapAdmin(t *testing.T) {
	st := storetest.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewAdminService(st, logger)
	ctx := context.Background()

	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, "sysadmin", "sysadmin-password"))

	admin, err := st.GetAdminByUsername(ctx, "sysadmin")
	require.NoError(t, err)
	assert.True(t, admin.Protected)

	user, err := st.GetUserByUsername(ctx, "sysadmin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.True(t, user.Protected)

	// Running again against the same username is a no-op.
	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, "sysadmin", "sysadmin-password"))
}

func TestEnsureBootstrapAdminUnderChangedUsername(t *testing.T) {
	st := storetest.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewAdminService(st, logger)
	ctx := context.Background()

	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, "ops-alpha", "first-password"))

	// A redeploy with a different ADMIN_USERNAME must not abort on the
	// placeholder contact fields of the earlier bootstrap user.
	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, "ops-bravo", "second-password"))

	first, err := st.GetUserByUsername(ctx, "ops-alpha")
	require.NoError(t, err)
	second, err := st.GetUserByUsername(ctx, "ops-bravo")
	require.NoError(t, err)
	assert.NotEqual(t, first.Phone, second.Phone)
	assert.NotEqual(t, first.Email, second.Email)
}
