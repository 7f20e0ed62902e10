package service

import (
	"context"
	"io"

	"github.com/RushabhBarot/CityFix/internal/models"
)

// UserStore is the persistence surface the services need for user records.
// *repository.UserRepository satisfies it; tests plug in an in-memory fake.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	GetByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	SetActive(ctx context.Context, id string, active bool) error
	ListByRoleAndActive(ctx context.Context, role models.UserRole, active bool) ([]models.User, error)
	ListActiveWorkersByDepartment(ctx context.Context, department models.Department) ([]models.User, error)
	CountByRoleAndActive(ctx context.Context, role models.UserRole, active bool) (int64, error)
}

// ReportStore is the persistence surface for reports.
type ReportStore interface {
	Create(ctx context.Context, report models.Report) error
	GetByID(ctx context.Context, id string) (models.Report, error)
	Update(ctx context.Context, report models.Report) error
	Delete(ctx context.Context, id string) error
	ListByCitizen(ctx context.Context, citizenID string) ([]models.Report, error)
	ListByWorker(ctx context.Context, workerID string, status *models.ReportStatus) ([]models.Report, error)
	List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error)
	Assign(ctx context.Context, reportID string, workerID string) (models.Report, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.ReportStatus) (int64, error)
}

// FileStore accepts a byte stream and returns an opaque public URL.
type FileStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}
