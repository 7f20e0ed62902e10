package models

import "time"

// ReportStatus is the report lifecycle state. The natural order is
// PENDING -> ASSIGNED -> IN_PROGRESS -> COMPLETED; COMPLETED is terminal.
type ReportStatus string

const (
	StatusPending    ReportStatus = "PENDING"
	StatusAssigned   ReportStatus = "ASSIGNED"
	StatusInProgress ReportStatus = "IN_PROGRESS"
	StatusCompleted  ReportStatus = "COMPLETED"
)

func ParseReportStatus(s string) (ReportStatus, bool) {
	switch ReportStatus(s) {
	case StatusPending, StatusAssigned, StatusInProgress, StatusCompleted:
		return ReportStatus(s), true
	}
	return "", false
}

type Report struct {
	ID          string
	Description string
	Location    string
	Latitude    float64
	Longitude   float64

	Status     ReportStatus
	Department Department

	// CitizenID is the owner and never changes after creation.
	CitizenID        string
	AssignedWorkerID *string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time

	BeforePhotoURL *string
	AfterPhotoURL  *string

	// Remarks is the worker's note left with a status update.
	Remarks *string

	CitizenVerified bool
	Rating          *int
}

// ReportFilter narrows an admin listing. Each predicate applies only when
// its field is set; present predicates are ANDed.
type ReportFilter struct {
	Status           *ReportStatus
	Department       *Department
	CitizenID        *string
	AssignedWorkerID *string
	Verified         *bool
}

// Matches reports whether r satisfies every present predicate. The SQL
// listing and the in-memory stores used in tests both defer to it.
func (f ReportFilter) Matches(r Report) bool {
	if f.Status != nil && r.Status != *f.Status {
		return false
	}
	if f.Department != nil && r.Department != *f.Department {
		return false
	}
	if f.CitizenID != nil && r.CitizenID != *f.CitizenID {
		return false
	}
	if f.AssignedWorkerID != nil {
		if r.AssignedWorkerID == nil || *r.AssignedWorkerID != *f.AssignedWorkerID {
			return false
		}
	}
	if f.Verified != nil && r.CitizenVerified != *f.Verified {
		return false
	}
	return true
}
