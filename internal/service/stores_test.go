package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/RushabhBarot/CityFix/internal/models"
	"github.com/RushabhBarot/CityFix/internal/repository"
)

// In-memory stores mirroring the postgres repositories, including their
// sentinel errors, so services behave identically under test.

type memUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]models.User)}
}

func (s *memUserStore) Create(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = user
	return nil
}

func (s *memUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (s *memUserStore) SetActive(_ context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.Active = active
	user.UpdatedAt = time.Now()
	s.users[id] = user
	return nil
}

func (s *memUserStore) ListByRoleAndActive(_ context.Context, role models.UserRole, active bool) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.User
	for _, user := range s.users {
		if user.Role == role && user.Active == active {
			out = append(out, user)
		}
	}
	return out, nil
}

func (s *memUserStore) ListActiveWorkersByDepartment(_ context.Context, department models.Department) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.User
	for _, user := range s.users {
		if user.Role == models.RoleWorker && user.Active &&
			user.Department != nil && *user.Department == department {
			out = append(out, user)
		}
	}
	return out, nil
}

func (s *memUserStore) CountByRoleAndActive(_ context.Context, role models.UserRole, active bool) (int64, error) {
	users, _ := s.ListByRoleAndActive(context.Background(), role, active)
	return int64(len(users)), nil
}

type memReportStore struct {
	mu      sync.Mutex
	reports map[string]models.Report
}

func newMemReportStore() *memReportStore {
	return &memReportStore{reports: make(map[string]models.Report)}
}

func (s *memReportStore) Create(_ context.Context, report models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.ID] = report
	return nil
}

func (s *memReportStore) GetByID(_ context.Context, id string) (models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	report, ok := s.reports[id]
	if !ok {
		return models.Report{}, repository.ErrReportNotFound
	}
	return report, nil
}

func (s *memReportStore) Update(_ context.Context, report models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[report.ID]; !ok {
		return repository.ErrReportNotFound
	}
	s.reports[report.ID] = report
	return nil
}

func (s *memReportStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[id]; !ok {
		return repository.ErrReportNotFound
	}
	delete(s.reports, id)
	return nil
}

func (s *memReportStore) ListByCitizen(_ context.Context, citizenID string) ([]models.Report, error) {
	filter := models.ReportFilter{CitizenID: &citizenID}
	return s.List(context.Background(), filter)
}

func (s *memReportStore) ListByWorker(_ context.Context, workerID string, status *models.ReportStatus) ([]models.Report, error) {
	filter := models.ReportFilter{AssignedWorkerID: &workerID, Status: status}
	return s.List(context.Background(), filter)
}

func (s *memReportStore) List(_ context.Context, filter models.ReportFilter) ([]models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Report
	for _, report := range s.reports {
		if filter.Matches(report) {
			out = append(out, report)
		}
	}
	return out, nil
}

func (s *memReportStore) Assign(_ context.Context, reportID string, workerID string) (models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	report, ok := s.reports[reportID]
	if !ok {
		return models.Report{}, repository.ErrReportNotFound
	}
	if report.AssignedWorkerID != nil {
		return models.Report{}, repository.ErrAlreadyAssigned
	}
	report.AssignedWorkerID = &workerID
	report.Status = models.StatusAssigned
	report.UpdatedAt = time.Now()
	s.reports[reportID] = report
	return report, nil
}

func (s *memReportStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.reports)), nil
}

func (s *memReportStore) CountByStatus(_ context.Context, status models.ReportStatus) (int64, error) {
	reports, _ := s.List(context.Background(), models.ReportFilter{Status: &status})
	return int64(len(reports)), nil
}

type memFileStore struct {
	mu      sync.Mutex
	uploads []string
}

func (s *memFileStore) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads = append(s.uploads, key)
	return fmt.Sprintf("https://files.test/%s", key), nil
}
