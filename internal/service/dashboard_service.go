package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/gym-admin-console/internal/models"
)

// DashboardSummary is the landing view of an admin.
type DashboardSummary struct {
	Identity    models.Identity `json:"identity"`
	GymCount    *int            `json:"gym_count,omitempty"`
	UserCount   int             `json:"user_count"`
	GeneratedAt time.Time       `json:"generated_at"`
}

type dashboardGyms interface {
	List(ctx context.Context) ([]models.Gym, error)
}

type dashboardUsers interface {
	List(ctx context.Context) ([]models.User, error)
}

// DashboardService aggregates backend counts for the dashboard.
type DashboardService struct {
	gyms   dashboardGyms
	users  dashboardUsers
	logger *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(gyms dashboardGyms, users dashboardUsers, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{gyms: gyms, users: users, logger: logger}
}

// Summary builds the dashboard for identity. Gym totals are only gathered
// for superadmins, who are the only role allowed to manage gyms.
func (s *DashboardService) Summary(ctx context.Context, identity *models.Identity) (*DashboardSummary, error) {
	summary := &DashboardSummary{GeneratedAt: time.Now().UTC()}
	if identity != nil {
		summary.Identity = *identity
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	summary.UserCount = len(users)

	if identity.HasRole(models.RoleSuperAdmin) {
		gyms, err := s.gyms.List(ctx)
		if err != nil {
			return nil, err
		}
		count := len(gyms)
		summary.GymCount = &count
	}

	return summary, nil
}
