package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/RushabhBarot/CityFix/internal/models"
	"github.com/RushabhBarot/CityFix/internal/service"
)

type registerForm struct {
	Name         string `form:"name" binding:"required"`
	Email        string `form:"email" binding:"required,email"`
	Password     string `form:"password" binding:"required,min=8"`
	Role         string `form:"role" binding:"required"`
	MobileNumber string `form:"mobileNumber"`
	Department   string `form:"department"`
}

type authResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         userResponse `json:"user"`
}

// RegisterUser accepts a multipart profile. Workers may attach an id card
// photo and must name a department; everyone may attach an avatar.
func (h HandlerSet) RegisterUser(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, ok := models.ParseRole(form.Role)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}

	input := service.RegisterInput{
		Name:         form.Name,
		Email:        form.Email,
		Password:     form.Password,
		Role:         role,
		MobileNumber: form.MobileNumber,
	}

	if form.Department != "" {
		department, ok := models.ParseDepartment(form.Department)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown department"})
			return
		}
		input.Department = &department
	}

	avatar, err := formPhoto(c, "avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid avatar upload"})
		return
	}
	input.Avatar = avatar

	idCard, err := formPhoto(c, "idCard")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id card upload"})
		return
	}
	input.IDCard = idCard

	tokens, err := h.authService.Register(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	sendTokens(c, tokens)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	sendTokens(c, tokens)
}

// Refresh exchanges the Bearer refresh token for a fresh access token.
func (h HandlerSet) Refresh(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
		return
	}
	refreshToken := strings.TrimPrefix(authHeader, "Bearer ")

	tokens, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		h.respondError(c, err)
		return
	}

	sendTokens(c, tokens)
}

func sendTokens(c *gin.Context, tokens service.SessionTokens) {
	c.JSON(http.StatusOK, authResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         newUserResponse(tokens.User),
	})
}

// formPhoto reads an optional multipart file field fully into memory.
// A missing field is not an error.
func formPhoto(c *gin.Context, field string) (*service.Photo, error) {
	file, _, err := c.Request.FormFile(field)
	if err != nil {
		// Absent field, or a non-multipart request that has no files.
		return nil, nil
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &service.Photo{Data: data}, nil
}
