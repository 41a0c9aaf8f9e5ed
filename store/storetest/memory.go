// Package storetest provides an in-memory Store for service and handler
// tests. It enforces the same uniqueness rules as the real backends and
// returns the same sentinel errors, so tests exercise the full error
// mapping without a database.
package storetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gridclash/arena-api/models"
	"github.com/gridclash/arena-api/store"
)

type readPair struct {
	userID         int
	notificationID int
}

type Memory struct {
	mu sync.Mutex

	users         map[int]models.User
	admins        map[int]models.Admin
	teams         map[int]models.Team
	members       map[int]models.TeamMember
	tournaments   map[int]models.Tournament
	registrations map[int]models.Registration
	notifications map[int]models.Notification
	reads         map[readPair]time.Time

	nextID int
}

var _ store.Store = (*Memory)(nil)

func New() *Memory {
	return &Memory{
		users:         make(map[int]models.User),
		admins:        make(map[int]models.Admin),
		teams:         make(map[int]models.Team),
		members:       make(map[int]models.TeamMember),
		tournaments:   make(map[int]models.Tournament),
		registrations: make(map[int]models.Registration),
		notifications: make(map[int]models.Notification),
		reads:         make(map[readPair]time.Time),
	}
}

func (m *Memory) id() int {
	m.nextID++
	return m.nextID
}

// --- users ---

func (m *Memory) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		switch {
		case u.Username == user.Username:
			return store.ErrUsernameTaken
		case u.Email == user.Email:
			return store.ErrEmailTaken
		case u.Phone == user.Phone:
			return store.ErrPhoneTaken
		}
	}

	user.ID = m.id()
	user.CreatedAt = time.Now()
	m.users[user.ID] = *user
	return nil
}

func (m *Memory) GetUser(_ context.Context, id int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

func (m *Memory) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *Memory) GetUserByPhone(_ context.Context, phone string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Phone == phone {
			u := u
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *Memory) ListUsers(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) UpdateUser(_ context.Context, id int, upd models.UserUpdate) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}

	for otherID, other := range m.users {
		if otherID == id {
			continue
		}
		if upd.Username != nil && other.Username == *upd.Username {
			return nil, store.ErrUsernameTaken
		}
		if upd.Email != nil && other.Email == *upd.Email {
			return nil, store.ErrEmailTaken
		}
		if upd.Phone != nil && other.Phone == *upd.Phone {
			return nil, store.ErrPhoneTaken
		}
	}

	if upd.Username != nil {
		u.Username = *upd.Username
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	if upd.PhoneVerified != nil {
		u.PhoneVerified = *upd.PhoneVerified
	}
	if upd.GameID != nil {
		u.GameID = *upd.GameID
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}

	m.users[id] = u
	return &u, nil
}

func (m *Memory) DeleteUser(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

// --- admins ---

func (m *Memory) CreateAdmin(_ context.Context, admin *models.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Username == admin.Username {
			return store.ErrUsernameTaken
		}
	}
	admin.ID = m.id()
	admin.CreatedAt = time.Now()
	m.admins[admin.ID] = *admin
	return nil
}

func (m *Memory) GetAdminByUsername(_ context.Context, username string) (*models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Username == username {
			a := a
			return &a, nil
		}
	}
	return nil, store.ErrAdminNotFound
}

// --- teams ---

func (m *Memory) CreateTeam(_ context.Context, team *models.Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.teams {
		if t.Name == team.Name {
			return store.ErrTeamNameTaken
		}
		if t.InviteCode == team.InviteCode {
			return store.ErrInviteCodeTaken
		}
	}

	team.ID = m.id()
	team.CreatedAt = time.Now()
	m.teams[team.ID] = *team
	return nil
}

func (m *Memory) GetTeam(_ context.Context, id int) (*models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.teams[id]
	if !ok {
		return nil, store.ErrTeamNotFound
	}
	return &t, nil
}

func (m *Memory) GetTeamByName(_ context.Context, name string) (*models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.teams {
		if t.Name == name {
			t := t
			return &t, nil
		}
	}
	return nil, store.ErrTeamNotFound
}

func (m *Memory) GetTeamByInviteCode(_ context.Context, code string) (*models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.teams {
		if t.InviteCode == code {
			t := t
			return &t, nil
		}
	}
	return nil, store.ErrTeamNotFound
}

func (m *Memory) ListTeams(_ context.Context) ([]models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Team, 0, len(m.teams))
	for _, t := range m.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) ListTeamsByOwner(_ context.Context, ownerID int) ([]models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Team
	for _, t := range m.teams {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) UpdateTeam(_ context.Context, id int, upd models.TeamUpdate) (*models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.teams[id]
	if !ok {
		return nil, store.ErrTeamNotFound
	}

	if upd.Name != nil {
		for otherID, other := range m.teams {
			if otherID != id && other.Name == *upd.Name {
				return nil, store.ErrTeamNameTaken
			}
		}
		t.Name = *upd.Name
	}
	if upd.Description != nil {
		t.Description = upd.Description
	}
	if upd.LogoKey != nil {
		t.LogoKey = upd.LogoKey
	}

	m.teams[id] = t
	return &t, nil
}

func (m *Memory) DeleteTeam(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.teams[id]; !ok {
		return store.ErrTeamNotFound
	}
	delete(m.teams, id)
	return nil
}

// --- team members ---

func (m *Memory) CreateTeamMember(_ context.Context, member *models.TeamMember) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.teams[member.TeamID]; !ok {
		return store.ErrInvalidTeamRef
	}
	for _, existing := range m.members {
		if existing.TeamID == member.TeamID && existing.Username == member.Username {
			return store.ErrMemberExists
		}
	}

	member.ID = m.id()
	m.members[member.ID] = *member
	return nil
}

func (m *Memory) GetTeamMember(_ context.Context, id int) (*models.TeamMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	member, ok := m.members[id]
	if !ok {
		return nil, store.ErrMemberNotFound
	}
	return &member, nil
}

func (m *Memory) ListTeamMembers(_ context.Context, teamID int) ([]models.TeamMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.TeamMember
	for _, member := range m.members {
		if member.TeamID == teamID {
			out = append(out, member)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) CountTeamMembers(ctx context.Context, teamID int) (int, error) {
	members, _ := m.ListTeamMembers(ctx, teamID)
	return len(members), nil
}

func (m *Memory) DeleteTeamMember(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.members[id]; !ok {
		return store.ErrMemberNotFound
	}
	delete(m.members, id)
	return nil
}

// --- tournaments ---

func (m *Memory) CreateTournament(_ context.Context, t *models.Tournament) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.id()
	t.CreatedAt = time.Now()
	m.tournaments[t.ID] = *t
	return nil
}

func (m *Memory) GetTournament(_ context.Context, id int) (*models.Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tournaments[id]
	if !ok {
		return nil, store.ErrTournamentNotFound
	}
	return &t, nil
}

func (m *Memory) ListTournaments(_ context.Context) ([]models.Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Tournament, 0, len(m.tournaments))
	for _, t := range m.tournaments {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) ListTournamentsByStatus(_ context.Context, status models.TournamentStatus) ([]models.Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Tournament
	for _, t := range m.tournaments {
		if t.Status == status {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) UpdateTournament(_ context.Context, id int, upd models.TournamentUpdate) (*models.Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tournaments[id]
	if !ok {
		return nil, store.ErrTournamentNotFound
	}

	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Description != nil {
		t.Description = upd.Description
	}
	if upd.StartTime != nil {
		t.StartTime = *upd.StartTime
	}
	if upd.MapName != nil {
		t.MapName = *upd.MapName
	}
	if upd.TeamMode != nil {
		t.TeamMode = *upd.TeamMode
	}
	if upd.GameType != nil {
		t.GameType = *upd.GameType
	}
	if upd.Paid != nil {
		t.Paid = *upd.Paid
	}
	if upd.EntryFee != nil {
		t.EntryFee = *upd.EntryFee
	}
	if upd.PrizePool != nil {
		t.PrizePool = *upd.PrizePool
	}
	if upd.MaxSlots != nil {
		t.MaxSlots = *upd.MaxSlots
	}
	if upd.Status != nil {
		t.Status = *upd.Status
	}
	if upd.RoomID != nil {
		t.RoomID = upd.RoomID
	}
	if upd.RoomPassword != nil {
		t.RoomPassword = upd.RoomPassword
	}
	if upd.BannerKey != nil {
		t.BannerKey = upd.BannerKey
	}

	m.tournaments[id] = t
	return &t, nil
}

func (m *Memory) DeleteTournament(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tournaments[id]; !ok {
		return store.ErrTournamentNotFound
	}
	delete(m.tournaments, id)
	return nil
}

// --- registrations ---

func (m *Memory) CreateRegistration(_ context.Context, reg *models.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tournaments[reg.TournamentID]; !ok {
		return store.ErrInvalidTournamentRef
	}
	if reg.TeamID != nil {
		if _, ok := m.teams[*reg.TeamID]; !ok {
			return store.ErrInvalidTeamRef
		}
	}

	for _, existing := range m.registrations {
		if existing.TournamentID != reg.TournamentID {
			continue
		}
		if reg.TeamID != nil && existing.TeamID != nil && *existing.TeamID == *reg.TeamID {
			return store.ErrAlreadyRegistered
		}
		if reg.TeamID == nil && existing.TeamID == nil && existing.UserID == reg.UserID {
			return store.ErrAlreadyRegistered
		}
	}

	reg.ID = m.id()
	reg.CreatedAt = time.Now()
	m.registrations[reg.ID] = *reg
	return nil
}

func (m *Memory) GetRegistration(_ context.Context, id int) (*models.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.registrations[id]
	if !ok {
		return nil, store.ErrRegistrationNotFound
	}
	return &reg, nil
}

func (m *Memory) ListRegistrationsByTournament(_ context.Context, tournamentID int) ([]models.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Registration
	for _, reg := range m.registrations {
		if reg.TournamentID == tournamentID {
			out = append(out, reg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) ListRegistrationsByUser(_ context.Context, userID int) ([]models.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Registration
	for _, reg := range m.registrations {
		if reg.UserID == userID {
			out = append(out, reg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) ListRegistrationsByTeam(_ context.Context, teamID int) ([]models.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Registration
	for _, reg := range m.registrations {
		if reg.TeamID != nil && *reg.TeamID == teamID {
			out = append(out, reg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) CountRegistrations(ctx context.Context, tournamentID int) (int, error) {
	regs, _ := m.ListRegistrationsByTournament(ctx, tournamentID)
	return len(regs), nil
}

func (m *Memory) CheckRegistration(_ context.Context, tournamentID int, teamID *int, userID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, reg := range m.registrations {
		if reg.TournamentID != tournamentID {
			continue
		}
		if teamID != nil && reg.TeamID != nil && *reg.TeamID == *teamID {
			return true, nil
		}
		if teamID == nil && reg.TeamID == nil && reg.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) UpdateRegistration(_ context.Context, id int, upd models.RegistrationUpdate) (*models.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	reg, ok := m.registrations[id]
	if !ok {
		return nil, store.ErrRegistrationNotFound
	}

	if upd.Slot != nil {
		reg.Slot = upd.Slot
	}
	if upd.Status != nil {
		reg.Status = *upd.Status
	}
	if upd.PaymentStatus != nil {
		reg.PaymentStatus = *upd.PaymentStatus
	}

	m.registrations[id] = reg
	return &reg, nil
}

func (m *Memory) DeleteRegistration(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.registrations[id]; !ok {
		return store.ErrRegistrationNotFound
	}
	delete(m.registrations, id)
	return nil
}

// --- notifications ---

func (m *Memory) CreateNotification(_ context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n.UserID != nil {
		if _, ok := m.users[*n.UserID]; !ok {
			return store.ErrInvalidUserRef
		}
	}

	n.ID = m.id()
	n.CreatedAt = time.Now()
	m.notifications[n.ID] = *n
	return nil
}

func (m *Memory) GetNotification(_ context.Context, id int) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok {
		return nil, store.ErrNotificationNotFound
	}
	return &n, nil
}

func (m *Memory) visibleLocked(userID int) []models.Notification {
	var out []models.Notification
	for _, n := range m.notifications {
		if n.UserID == nil || *n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *Memory) ListNotificationsForUser(_ context.Context, userID int) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visibleLocked(userID), nil
}

func (m *Memory) DeleteNotification(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.notifications[id]; !ok {
		return store.ErrNotificationNotFound
	}
	delete(m.notifications, id)
	return nil
}

func (m *Memory) MarkNotificationRead(_ context.Context, userID, notificationID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.notifications[notificationID]; !ok {
		return store.ErrNotificationNotFound
	}

	pair := readPair{userID: userID, notificationID: notificationID}
	if _, ok := m.reads[pair]; ok {
		return nil
	}
	m.reads[pair] = time.Now()
	return nil
}

func (m *Memory) ListUnreadNotifications(_ context.Context, userID int) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Notification
	for _, n := range m.visibleLocked(userID) {
		if _, read := m.reads[readPair{userID: userID, notificationID: n.ID}]; !read {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *Memory) CountUnreadNotifications(ctx context.Context, userID int) (int, error) {
	unread, _ := m.ListUnreadNotifications(ctx, userID)
	return len(unread), nil
}

// ReadPairCount reports how many read-pairs exist for a notification,
// letting tests assert idempotent marking.
func (m *Memory) ReadPairCount(notificationID int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for pair := range m.reads {
		if pair.notificationID == notificationID {
			count++
		}
	}
	return count
}
