package services

import (
	"context"
	"fmt"

	"github.com/gridclash/arena-api/models"
	"github.com/gridclash/arena-api/store"
	"golang.org/x/sync/errgroup"
)

type DashboardStats struct {
	Users                int `json:"users"`
	Teams                int `json:"teams"`
	Tournaments          int `json:"tournaments"`
	UpcomingTournaments  int `json:"upcoming_tournaments"`
	LiveTournaments      int `json:"live_tournaments"`
	CompletedTournaments int `json:"completed_tournaments"`
	Registrations        int `json:"registrations"`
}

type DashboardService interface {
	Stats(ctx context.Context, actor Actor) (*DashboardStats, error)
}

type dashboardService struct {
	store store.Store
}

func NewDashboardService(st store.Store) DashboardService {
	return &dashboardService{store: st}
}

// Stats gathers the admin-dashboard aggregates with one storage round
// trip per figure, issued concurrently.
func (s *dashboardService) Stats(ctx context.Context, actor Actor) (*DashboardStats, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}

	stats := &DashboardStats{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		users, err := s.store.ListUsers(ctx)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		stats.Users = len(users)
		return nil
	})

	g.Go(func() error {
		teams, err := s.store.ListTeams(ctx)
		if err != nil {
			return fmt.Errorf("failed to list teams: %w", err)
		}
		stats.Teams = len(teams)
		return nil
	})

	g.Go(func() error {
		tournaments, err := s.store.ListTournaments(ctx)
		if err != nil {
			return fmt.Errorf("failed to list tournaments: %w", err)
		}
		stats.Tournaments = len(tournaments)
		for _, t := range tournaments {
			switch t.Status {
			case models.StatusUpcoming:
				stats.UpcomingTournaments++
			case models.StatusLive:
				stats.LiveTournaments++
			case models.StatusCompleted:
				stats.CompletedTournaments++
			}
		}

		total := 0
		for _, t := range tournaments {
			count, err := s.store.CountRegistrations(ctx, t.ID)
			if err != nil {
				return fmt.Errorf("failed to count registrations of tournament %d: %w", t.ID, err)
			}
			total += count
		}
		stats.Registrations = total
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
