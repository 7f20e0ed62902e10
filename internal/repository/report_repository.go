package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RushabhBarot/CityFix/internal/models"
)

var (
	ErrReportNotFound = errors.New("report not found")
	// ErrAlreadyAssigned means another assignment won the race; the first
	// writer wins and this one must not overwrite it.
	ErrAlreadyAssigned = errors.New("report already assigned")
)

const reportColumns = `
	id, description, location, latitude, longitude, status, department,
	citizen_id, assigned_worker_id, created_at, updated_at, completed_at,
	before_photo_url, after_photo_url, remarks, citizen_verified, rating
`

type ReportRepository struct {
	pool *pgxpool.Pool
}

func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

func (r *ReportRepository) Create(ctx context.Context, report models.Report) error {
	const query = `
		INSERT INTO reports (
			id, description, location, latitude, longitude, status, department,
			citizen_id, assigned_worker_id, created_at, updated_at, completed_at,
			before_photo_url, after_photo_url, remarks, citizen_verified, rating
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		)
	`

	_, err := r.pool.Exec(ctx, query,
		report.ID,
		report.Description,
		report.Location,
		report.Latitude,
		report.Longitude,
		report.Status,
		report.Department,
		report.CitizenID,
		report.AssignedWorkerID,
		report.CreatedAt,
		report.UpdatedAt,
		report.CompletedAt,
		report.BeforePhotoURL,
		report.AfterPhotoURL,
		report.Remarks,
		report.CitizenVerified,
		report.Rating,
	)
	return err
}

func (r *ReportRepository) GetByID(ctx context.Context, id string) (models.Report, error) {
	const query = `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// Update persists every mutable field of the report. Partial-update
// semantics are resolved in the service layer before the row is written.
func (r *ReportRepository) Update(ctx context.Context, report models.Report) error {
	const query = `
		UPDATE reports SET
			status = $2,
			assigned_worker_id = $3,
			updated_at = $4,
			completed_at = $5,
			after_photo_url = $6,
			remarks = $7,
			citizen_verified = $8,
			rating = $9
		WHERE id = $1
	`

	cmd, err := r.pool.Exec(ctx, query,
		report.ID,
		report.Status,
		report.AssignedWorkerID,
		report.UpdatedAt,
		report.CompletedAt,
		report.AfterPhotoURL,
		report.Remarks,
		report.CitizenVerified,
		report.Rating,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrReportNotFound
	}
	return nil
}

func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrReportNotFound
	}
	return nil
}

func (r *ReportRepository) ListByCitizen(ctx context.Context, citizenID string) ([]models.Report, error) {
	const query = `SELECT ` + reportColumns + ` FROM reports WHERE citizen_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, citizenID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *ReportRepository) ListByWorker(ctx context.Context, workerID string, status *models.ReportStatus) ([]models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE assigned_worker_id = $1`
	args := []any{workerID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// List applies the filter's present predicates as an AND conjunction.
func (r *ReportRepository) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error) {
	var (
		conditions []string
		args       []any
	)

	addCondition := func(column string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if filter.Status != nil {
		addCondition("status", *filter.Status)
	}
	if filter.Department != nil {
		addCondition("department", *filter.Department)
	}
	if filter.CitizenID != nil {
		addCondition("citizen_id", *filter.CitizenID)
	}
	if filter.AssignedWorkerID != nil {
		addCondition("assigned_worker_id", *filter.AssignedWorkerID)
	}
	if filter.Verified != nil {
		addCondition("citizen_verified", *filter.Verified)
	}

	query := `SELECT ` + reportColumns + ` FROM reports`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// Assign binds a worker exactly once. The conditional UPDATE makes the
// store the arbiter under concurrent assignment attempts.
func (r *ReportRepository) Assign(ctx context.Context, reportID string, workerID string) (models.Report, error) {
	const query = `
		UPDATE reports SET
			assigned_worker_id = $2,
			status = $3,
			updated_at = NOW()
		WHERE id = $1 AND assigned_worker_id IS NULL
		RETURNING ` + reportColumns

	report, err := r.scanOne(r.pool.QueryRow(ctx, query, reportID, workerID, models.StatusAssigned))
	if err == nil {
		return report, nil
	}
	if !errors.Is(err, ErrReportNotFound) {
		return models.Report{}, err
	}

	// No row matched: either the report is gone or it is already assigned.
	if _, getErr := r.GetByID(ctx, reportID); getErr != nil {
		return models.Report{}, getErr
	}
	return models.Report{}, ErrAlreadyAssigned
}

func (r *ReportRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reports`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ReportRepository) CountByStatus(ctx context.Context, status models.ReportStatus) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reports WHERE status = $1`, status).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ReportRepository) scanOne(row pgx.Row) (models.Report, error) {
	var report models.Report
	if err := row.Scan(
		&report.ID,
		&report.Description,
		&report.Location,
		&report.Latitude,
		&report.Longitude,
		&report.Status,
		&report.Department,
		&report.CitizenID,
		&report.AssignedWorkerID,
		&report.CreatedAt,
		&report.UpdatedAt,
		&report.CompletedAt,
		&report.BeforePhotoURL,
		&report.AfterPhotoURL,
		&report.Remarks,
		&report.CitizenVerified,
		&report.Rating,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Report{}, ErrReportNotFound
		}
		return models.Report{}, err
	}
	return report, nil
}

func (r *ReportRepository) scanAll(rows pgx.Rows) ([]models.Report, error) {
	var reports []models.Report
	for rows.Next() {
		report, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}
