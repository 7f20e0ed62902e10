package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RushabhBarot/CityFix/internal/models"
	"github.com/RushabhBarot/CityFix/internal/service"
)

type reportResponse struct {
	ID               string     `json:"id"`
	Description      string     `json:"description"`
	Location         string     `json:"location"`
	Latitude         float64    `json:"latitude"`
	Longitude        float64    `json:"longitude"`
	Status           string     `json:"status"`
	Department       string     `json:"department"`
	CitizenID        string     `json:"citizenId"`
	AssignedWorkerID *string    `json:"assignedWorkerId,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	BeforePhotoURL   *string    `json:"beforePhotoUrl,omitempty"`
	AfterPhotoURL    *string    `json:"afterPhotoUrl,omitempty"`
	Remarks          *string    `json:"remarks,omitempty"`
	CitizenVerified  bool       `json:"citizenVerified"`
	Rating           *int       `json:"rating,omitempty"`
}

func newReportResponse(report models.Report) reportResponse {
	return reportResponse{
		ID:               report.ID,
		Description:      report.Description,
		Location:         report.Location,
		Latitude:         report.Latitude,
		Longitude:        report.Longitude,
		Status:           string(report.Status),
		Department:       string(report.Department),
		CitizenID:        report.CitizenID,
		AssignedWorkerID: report.AssignedWorkerID,
		CreatedAt:        report.CreatedAt,
		UpdatedAt:        report.UpdatedAt,
		CompletedAt:      report.CompletedAt,
		BeforePhotoURL:   report.BeforePhotoURL,
		AfterPhotoURL:    report.AfterPhotoURL,
		Remarks:          report.Remarks,
		CitizenVerified:  report.CitizenVerified,
		Rating:           report.Rating,
	}
}

func newReportResponses(reports []models.Report) []reportResponse {
	resp := make([]reportResponse, 0, len(reports))
	for _, report := range reports {
		resp = append(resp, newReportResponse(report))
	}
	return resp
}

type createReportForm struct {
	Description string  `form:"description" binding:"required"`
	Location    string  `form:"location" binding:"required"`
	Latitude    float64 `form:"latitude"`
	Longitude   float64 `form:"longitude"`
	Department  string  `form:"department" binding:"required"`
	CitizenID   string  `form:"citizenId" binding:"required"`
}

// CreateReport files a new report from a multipart draft with an optional
// before photo.
func (h HandlerSet) CreateReport(c *gin.Context) {
	var form createReportForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	department, ok := models.ParseDepartment(form.Department)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown department"})
		return
	}

	beforePhoto, err := formPhoto(c, "beforePhoto")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid photo upload"})
		return
	}

	report, err := h.reportService.Create(c.Request.Context(), service.CreateReportInput{
		Description: form.Description,
		Location:    form.Location,
		Latitude:    form.Latitude,
		Longitude:   form.Longitude,
		Department:  department,
		BeforePhoto: beforePhoto,
	}, form.CitizenID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": newReportResponse(report)})
}

func (h HandlerSet) MyReports(c *gin.Context) {
	citizenID := c.Query("citizenId")
	if citizenID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "citizenId required"})
		return
	}

	reports, err := h.reportService.ListMine(c.Request.Context(), citizenID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": newReportResponses(reports)})
}

type updateReportRequest struct {
	Rating          *int       `json:"rating" binding:"omitempty,min=1,max=5"`
	CitizenVerified *bool      `json:"citizenVerified"`
	Status          *string    `json:"status"`
	AfterPhotoURL   *string    `json:"afterPhotoUrl"`
	CompletedAt     *time.Time `json:"completedAt"`
}

// UpdateReport applies a citizen's partial update. Absent fields are left
// untouched.
func (h HandlerSet) UpdateReport(c *gin.Context) {
	reportID := c.Query("reportId")
	citizenID := c.Query("citizenId")
	if reportID == "" || citizenID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reportId and citizenId required"})
		return
	}

	var req updateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := service.ReportPatch{
		Rating:          req.Rating,
		CitizenVerified: req.CitizenVerified,
		AfterPhotoURL:   req.AfterPhotoURL,
		CompletedAt:     req.CompletedAt,
	}
	if req.Status != nil {
		status, ok := models.ParseReportStatus(*req.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
			return
		}
		patch.Status = &status
	}

	report, err := h.reportService.UpdateAsOwner(c.Request.Context(), reportID, patch, citizenID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": newReportResponse(report)})
}

func (h HandlerSet) DeleteReport(c *gin.Context) {
	reportID := c.Query("reportId")
	citizenID := c.Query("citizenId")
	if reportID == "" || citizenID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reportId and citizenId required"})
		return
	}

	if err := h.reportService.Delete(c.Request.Context(), reportID, citizenID); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) AssignedReports(c *gin.Context) {
	workerID := c.Query("workerId")
	if workerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "workerId required"})
		return
	}

	var status *models.ReportStatus
	if raw := c.Query("status"); raw != "" {
		parsed, ok := models.ParseReportStatus(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
			return
		}
		status = &parsed
	}

	reports, err := h.reportService.ListAssignedToWorker(c.Request.Context(), workerID, status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": newReportResponses(reports)})
}

type updateStatusForm struct {
	ReportID string `form:"reportId" binding:"required"`
	Status   string `form:"status" binding:"required"`
	Remarks  string `form:"remarks"`
}

// UpdateReportStatus lets a worker advance a report, optionally attaching an
// after photo when the work is done.
func (h HandlerSet) UpdateReportStatus(c *gin.Context) {
	var form updateStatusForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, ok := models.ParseReportStatus(form.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	afterPhoto, err := formPhoto(c, "afterPhoto")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid photo upload"})
		return
	}

	input := service.AdvanceStatusInput{
		Status:     status,
		AfterPhoto: afterPhoto,
	}
	if form.Remarks != "" {
		input.Remarks = &form.Remarks
	}

	report, err := h.reportService.AdvanceStatus(c.Request.Context(), form.ReportID, input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": newReportResponse(report)})
}

// AllReports is the admin listing filtered by the AND of the present query
// parameters.
func (h HandlerSet) AllReports(c *gin.Context) {
	var filter models.ReportFilter

	if raw := c.Query("status"); raw != "" {
		status, ok := models.ParseReportStatus(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("department"); raw != "" {
		department, ok := models.ParseDepartment(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown department"})
			return
		}
		filter.Department = &department
	}
	if raw := c.Query("citizenId"); raw != "" {
		filter.CitizenID = &raw
	}
	if raw := c.Query("assignedWorkerId"); raw != "" {
		filter.AssignedWorkerID = &raw
	}
	if raw := c.Query("verified"); raw != "" {
		verified := raw == "true"
		filter.Verified = &verified
	}

	reports, err := h.reportService.ListAll(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": newReportResponses(reports)})
}

func (h HandlerSet) AssignReport(c *gin.Context) {
	reportID := c.Query("reportId")
	workerID := c.Query("workerId")
	if reportID == "" || workerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reportId and workerId required"})
		return
	}

	report, err := h.reportService.Assign(c.Request.Context(), reportID, workerID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": newReportResponse(report)})
}
