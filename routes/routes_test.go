package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gridclash/arena-api/cache"
	"github.com/gridclash/arena-api/handlers"
	"github.com/gridclash/arena-api/middleware"
	"github.com/gridclash/arena-api/notify"
	"github.com/gridclash/arena-api/services"
	"github.com/gridclash/arena-api/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "routes-test-secret"

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := storetest.New()
	hub := notify.NewHub(logger)
	go hub.Run()

	notificationService := services.NewNotificationService(st, hub, cache.NewUnreadCache(nil), logger)
	teamService := services.NewTeamService(st, nil)
	authService := services.NewAuthService(st)
	userService := services.NewUserService(st, teamService)
	tournamentService := services.NewTournamentService(st, hub, nil, notificationService, logger)
	registrationService := services.NewRegistrationService(st)
	adminService := services.NewAdminService(st, logger)
	dashboardService := services.NewDashboardService(st)

	require.NoError(t, adminService.EnsureBootstrapAdmin(context.Background(), "sysadmin", "sysadmin-password"))

	auth := middleware.NewAuthenticator(testSecret)
	return New(Handlers{
		Auth:         handlers.NewAuthHandler(authService, userService, testSecret),
		User:         handlers.NewUserHandler(userService),
		Team:         handlers.NewTeamHandler(teamService),
		Tournament:   handlers.NewTournamentHandler(tournamentService),
		Registration: handlers.NewRegistrationHandler(registrationService),
		Notification: handlers.NewNotificationHandler(notificationService),
		Admin:        handlers.NewAdminHandler(adminService, dashboardService),
		WebSocket:    handlers.NewWebSocketHandler(hub, logger),
	}, auth, []string{"*"})
}

func doJSON(t *testing.T, api http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func signup(t *testing.T, api http.Handler, username string) string {
	t.Helper()

	rec := doJSON(t, api, http.MethodPost, "/api/register", "", map[string]interface{}{
		"username": username,
		"password": "longenoughpassword",
		"email":    username + "@example.com",
		"phone":    fmt.Sprintf("9%09d", 100000000+len(username)),
		"game_id":  username + "-ign",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	return login(t, api, username, "longenoughpassword")
}

func login(t *testing.T, api http.Handler, username, password string) string {
	t.Helper()

	rec := doJSON(t, api, http.MethodPost, "/api/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	token, ok := decode(t, rec)["token"].(string)
	require.True(t, ok, "login response must carry a token")
	return token
}

func TestFullTournamentFlow(t *testing.T) {
	api := newTestAPI(t)

	aliceToken := signup(t, api, "alice")
	adminToken := login(t, api, "sysadmin", "sysadmin-password")

	// Alice checks her own profile.
	rec := doJSON(t, api, http.MethodGet, "/api/user", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", decode(t, rec)["username"])

	// She founds a team and is auto-rostered as captain.
	rec = doJSON(t, api, http.MethodPost, "/api/teams", aliceToken, map[string]string{
		"name":      "AlphaSquad",
		"game_type": "bgmi",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	team := decode(t, rec)
	teamID := int(team["id"].(float64))
	inviteCode := team["invite_code"].(string)
	assert.Regexp(t, `^[0-9]{6}$`, inviteCode)
	assert.Len(t, team["members"], 1)

	// Bob joins with the invite code.
	bobToken := signup(t, api, "bob")
	rec = doJSON(t, api, http.MethodPost, "/api/teams/join", bobToken, map[string]string{
		"invite_code": inviteCode,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decode(t, rec)["members"], 2)

	// Only admins create tournaments.
	tournamentBody := map[string]interface{}{
		"title":      "Friday Night Squads",
		"start_time": "2026-09-04T19:00:00Z",
		"map_name":   "Erangel",
		"team_mode":  "squad",
		"game_type":  "bgmi",
		"max_slots":  16,
	}
	rec = doJSON(t, api, http.MethodPost, "/api/tournaments", aliceToken, tournamentBody)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, api, http.MethodPost, "/api/tournaments", adminToken, tournamentBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tournamentID := int(decode(t, rec)["id"].(float64))

	// A two-member team is too small for squad mode; the message names
	// the required and actual sizes.
	rec = doJSON(t, api, http.MethodPost,
		fmt.Sprintf("/api/tournaments/%d/register", tournamentID), aliceToken,
		map[string]int{"team_id": teamID})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	msg := decode(t, rec)["error"].(string)
	assert.Contains(t, msg, "4")
	assert.Contains(t, msg, "2")

	// Fill the roster and register for real.
	for _, name := range []string{"carol", "dave"} {
		rec = doJSON(t, api, http.MethodPost,
			fmt.Sprintf("/api/teams/%d/members", teamID), aliceToken,
			map[string]string{"username": name, "game_id": name + "-ign", "role": "member"})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	rec = doJSON(t, api, http.MethodPost,
		fmt.Sprintf("/api/tournaments/%d/register", tournamentID), aliceToken,
		map[string]int{"team_id": teamID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Registering the same team twice is rejected.
	rec = doJSON(t, api, http.MethodPost,
		fmt.Sprintf("/api/tournaments/%d/register", tournamentID), aliceToken,
		map[string]int{"team_id": teamID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Publishing room credentials notifies the registrant.
	rec = doJSON(t, api, http.MethodPut,
		fmt.Sprintf("/api/tournaments/%d", tournamentID), adminToken,
		map[string]string{"room_id": "ROOM99", "room_password": "squadsonly"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, api, http.MethodGet, "/api/notifications/unread", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["unread_count"])

	rec = doJSON(t, api, http.MethodGet, "/api/notifications", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var notifications []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notifications))
	require.Len(t, notifications, 1)
	notificationID := int(notifications[0]["id"].(float64))

	// Registered users see the room credentials; anonymous readers do not.
	rec = doJSON(t, api, http.MethodGet, fmt.Sprintf("/api/tournaments/%d", tournamentID), aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ROOM99", decode(t, rec)["room_id"])

	rec = doJSON(t, api, http.MethodGet, fmt.Sprintf("/api/tournaments/%d", tournamentID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, decode(t, rec), "room_id")

	// Reading the notification is idempotent.
	for i := 0; i < 2; i++ {
		rec = doJSON(t, api, http.MethodPut,
			fmt.Sprintf("/api/notifications/%d/read", notificationID), aliceToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec = doJSON(t, api, http.MethodGet, "/api/notifications/unread", aliceToken, nil)
	assert.Equal(t, float64(0), decode(t, rec)["unread_count"])

	// The dashboard stays admin-only.
	rec = doJSON(t, api, http.MethodGet, "/api/admin/dashboard", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, api, http.MethodGet, "/api/admin/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode(t, rec)
	assert.Equal(t, float64(1), stats["teams"])
	assert.Equal(t, float64(1), stats["tournaments"])
	assert.Equal(t, float64(1), stats["registrations"])
}

func TestAuthenticationRequired(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, http.MethodGet, "/api/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, api, http.MethodGet, "/api/user", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Public reads work without a token.
	rec = doJSON(t, api, http.MethodGet, "/api/tournaments", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, api, http.MethodGet, "/api/teams", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDuplicateRegistrationFields(t *testing.T) {
	api := newTestAPI(t)
	signup(t, api, "erin")

	rec := doJSON(t, api, http.MethodPost, "/api/register", "", map[string]interface{}{
		"username": "erin",
		"password": "longenoughpassword",
		"email":    "other@example.com",
		"phone":    "9888888888",
		"game_id":  "erin2",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "username")
}
