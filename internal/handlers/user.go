package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RushabhBarot/CityFix/internal/models"
)

type userResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	MobileNumber string    `json:"mobileNumber,omitempty"`
	AvatarURL    *string   `json:"avatarUrl,omitempty"`
	Active       bool      `json:"active"`
	Department   *string   `json:"department,omitempty"`
	IDCardURL    *string   `json:"idCardUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func newUserResponse(user models.User) userResponse {
	resp := userResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         string(user.Role),
		MobileNumber: user.MobileNumber,
		AvatarURL:    user.AvatarURL,
		Active:       user.Active,
		IDCardURL:    user.IDCardURL,
		CreatedAt:    user.CreatedAt,
	}
	if user.Department != nil {
		department := string(*user.Department)
		resp.Department = &department
	}
	return resp
}

func newUserResponses(users []models.User) []userResponse {
	resp := make([]userResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, newUserResponse(user))
	}
	return resp
}

func (h HandlerSet) Profile(c *gin.Context) {
	user, err := h.userService.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

func (h HandlerSet) ProfileByEmail(c *gin.Context) {
	user, err := h.userService.ProfileByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

func (h HandlerSet) PendingWorkers(c *gin.Context) {
	workers, err := h.userService.PendingWorkers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workers": newUserResponses(workers)})
}

func (h HandlerSet) ApproveWorker(c *gin.Context) {
	worker, err := h.userService.ApproveWorker(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"worker": newUserResponse(worker)})
}

func (h HandlerSet) ActiveWorkers(c *gin.Context) {
	var department *models.Department
	if raw := c.Query("department"); raw != "" {
		parsed, ok := models.ParseDepartment(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown department"})
			return
		}
		department = &parsed
	}

	workers, err := h.userService.ActiveWorkers(c.Request.Context(), department)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workers": newUserResponses(workers)})
}
