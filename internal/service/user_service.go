package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/RushabhBarot/CityFix/internal/models"
)

// ErrNotApprovable rejects approval of accounts that are not workers.
var ErrNotApprovable = errors.New("only worker accounts can be approved")

// UserService covers profile lookups and the admin worker directory.
type UserService struct {
	users UserStore
	log   zerolog.Logger
}

func NewUserService(users UserStore, log zerolog.Logger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) Profile(ctx context.Context, id string) (models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) ProfileByEmail(ctx context.Context, email string) (models.User, error) {
	return s.users.FindByEmail(ctx, email)
}

// PendingWorkers lists worker accounts awaiting admin approval.
func (s *UserService) PendingWorkers(ctx context.Context) ([]models.User, error) {
	return s.users.ListByRoleAndActive(ctx, models.RoleWorker, false)
}

// ApproveWorker activates a pending worker account. Approving twice is a
// no-op that still succeeds.
func (s *UserService) ApproveWorker(ctx context.Context, workerID string) (models.User, error) {
	user, err := s.users.GetByID(ctx, workerID)
	if err != nil {
		return models.User{}, err
	}
	if user.Role != models.RoleWorker {
		return models.User{}, ErrNotApprovable
	}

	if err := s.users.SetActive(ctx, workerID, true); err != nil {
		return models.User{}, err
	}
	user.Active = true

	s.log.Info().Str("worker_id", workerID).Msg("worker approved")
	return user, nil
}

// ActiveWorkers lists approved workers, optionally narrowed to a department.
func (s *UserService) ActiveWorkers(ctx context.Context, department *models.Department) ([]models.User, error) {
	if department != nil {
		return s.users.ListActiveWorkersByDepartment(ctx, *department)
	}
	return s.users.ListByRoleAndActive(ctx, models.RoleWorker, true)
}
