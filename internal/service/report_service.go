package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/RushabhBarot/CityFix/internal/ids"
	"github.com/RushabhBarot/CityFix/internal/models"
)

// ErrNotReportOwner rejects citizen operations on a report owned by someone
// else. It is distinct from a role failure: the role check already passed.
var ErrNotReportOwner = errors.New("not the owner of this report")

// ReportService owns the report state machine:
// PENDING -> ASSIGNED -> IN_PROGRESS -> COMPLETED. It is the only writer of
// report state.
type ReportService struct {
	reports ReportStore
	files   FileStore
	log     zerolog.Logger
	now     func() time.Time
}

func NewReportService(reports ReportStore, files FileStore, log zerolog.Logger) *ReportService {
	return &ReportService{
		reports: reports,
		files:   files,
		log:     log,
		now:     time.Now,
	}
}

type CreateReportInput struct {
	Description string
	Location    string
	Latitude    float64
	Longitude   float64
	Department  models.Department
	BeforePhoto *Photo
}

// Create files a new report for the citizen. The before photo, when given,
// is stored first so the report never references a URL that does not exist.
func (s *ReportService) Create(ctx context.Context, input CreateReportInput, citizenID string) (models.Report, error) {
	var beforeURL *string
	if input.BeforePhoto != nil {
		url, err := uploadPhoto(ctx, s.files, "reports/before", *input.BeforePhoto)
		if err != nil {
			return models.Report{}, err
		}
		beforeURL = &url
	}

	now := s.now()
	report := models.Report{
		ID:             ids.New(),
		Description:    input.Description,
		Location:       input.Location,
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
		Status:         models.StatusPending,
		Department:     input.Department,
		CitizenID:      citizenID,
		CreatedAt:      now,
		UpdatedAt:      now,
		BeforePhotoURL: beforeURL,
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return models.Report{}, err
	}

	s.log.Info().Str("report_id", report.ID).Str("citizen_id", citizenID).Msg("report created")
	return report, nil
}

func (s *ReportService) ListMine(ctx context.Context, citizenID string) ([]models.Report, error) {
	return s.reports.ListByCitizen(ctx, citizenID)
}

// ReportPatch is a partial update: only fields that are non-nil are applied,
// so an absent field can never clear a stored value.
type ReportPatch struct {
	Rating          *int
	CitizenVerified *bool
	Status          *models.ReportStatus
	AfterPhotoURL   *string
	CompletedAt     *time.Time
}

// UpdateAsOwner applies a patch on behalf of the owning citizen.
func (s *ReportService) UpdateAsOwner(ctx context.Context, reportID string, patch ReportPatch, citizenID string) (models.Report, error) {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return models.Report{}, err
	}
	if report.CitizenID != citizenID {
		return models.Report{}, ErrNotReportOwner
	}

	if patch.Rating != nil {
		report.Rating = patch.Rating
	}
	if patch.CitizenVerified != nil {
		report.CitizenVerified = *patch.CitizenVerified
	}
	if patch.Status != nil {
		report.Status = *patch.Status
	}
	if patch.AfterPhotoURL != nil {
		report.AfterPhotoURL = patch.AfterPhotoURL
	}
	if patch.CompletedAt != nil {
		report.CompletedAt = patch.CompletedAt
	}
	report.UpdatedAt = s.now()

	if err := s.reports.Update(ctx, report); err != nil {
		return models.Report{}, err
	}
	return report, nil
}

// Delete removes the report outright. Ownership is the only restriction:
// even a completed report can be deleted by the citizen who filed it.
func (s *ReportService) Delete(ctx context.Context, reportID string, citizenID string) error {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return err
	}
	if report.CitizenID != citizenID {
		return ErrNotReportOwner
	}
	return s.reports.Delete(ctx, reportID)
}

// ListAssignedToWorker returns the worker's queue, narrowed by status when
// one is given.
func (s *ReportService) ListAssignedToWorker(ctx context.Context, workerID string, status *models.ReportStatus) ([]models.Report, error) {
	return s.reports.ListByWorker(ctx, workerID, status)
}

type AdvanceStatusInput struct {
	Status     models.ReportStatus
	Remarks    *string
	AfterPhoto *Photo
}

// AdvanceStatus moves a report to the given status on behalf of a worker.
// Any authenticated worker may advance any report; the role gate is the only
// restriction. Reaching COMPLETED stamps the completion time, and an after
// photo, when attached, is stored and recorded.
func (s *ReportService) AdvanceStatus(ctx context.Context, reportID string, input AdvanceStatusInput) (models.Report, error) {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return models.Report{}, err
	}

	now := s.now()
	report.Status = input.Status
	report.UpdatedAt = now

	if input.Status == models.StatusCompleted {
		report.CompletedAt = &now
	}
	if input.Remarks != nil {
		report.Remarks = input.Remarks
	}
	if input.AfterPhoto != nil && len(input.AfterPhoto.Data) > 0 {
		url, err := uploadPhoto(ctx, s.files, "reports/after", *input.AfterPhoto)
		if err != nil {
			return models.Report{}, err
		}
		report.AfterPhotoURL = &url
	}

	if err := s.reports.Update(ctx, report); err != nil {
		return models.Report{}, err
	}

	s.log.Info().
		Str("report_id", report.ID).
		Str("status", string(report.Status)).
		Msg("report status updated")
	return report, nil
}

// ListAll is the admin view over every report, filtered by the AND of all
// present predicates.
func (s *ReportService) ListAll(ctx context.Context, filter models.ReportFilter) ([]models.Report, error) {
	return s.reports.List(ctx, filter)
}

// Assign binds a worker to a report exactly once and moves it to ASSIGNED.
// A second assignment attempt fails with repository.ErrAlreadyAssigned and
// leaves the first assignment in place.
func (s *ReportService) Assign(ctx context.Context, reportID string, workerID string) (models.Report, error) {
	report, err := s.reports.Assign(ctx, reportID, workerID)
	if err != nil {
		return models.Report{}, err
	}

	s.log.Info().
		Str("report_id", report.ID).
		Str("worker_id", workerID).
		Msg("report assigned")
	return report, nil
}
