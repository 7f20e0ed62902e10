package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/RushabhBarot/CityFix/internal/config"
	"github.com/RushabhBarot/CityFix/internal/media"
	"github.com/RushabhBarot/CityFix/internal/middleware"
	"github.com/RushabhBarot/CityFix/internal/models"
	"github.com/RushabhBarot/CityFix/internal/repository"
	"github.com/RushabhBarot/CityFix/internal/service"
	"github.com/RushabhBarot/CityFix/internal/storage"
)

type HandlerSet struct {
	log           zerolog.Logger
	cfg           *config.AppConfig
	authService   *service.AuthService
	reportService *service.ReportService
	userService   *service.UserService
	statsService  *service.StatsService
	db            *pgxpool.Pool
	cache         *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	reportRepo := repository.NewReportRepository(db)

	return HandlerSet{
		log:           log,
		cfg:           cfg,
		authService:   service.NewAuthService(userRepo, store, cfg, log),
		reportService: service.NewReportService(reportRepo, store, log),
		userService:   service.NewUserService(userRepo, log),
		statsService:  service.NewStatsService(reportRepo, userRepo, cache, cfg.Stats.CacheTTL, log),
		db:            db,
		cache:         cache,
	}
}

// StatsService exposes the aggregator for the background refresh job.
func (h HandlerSet) StatsService() *service.StatsService {
	return h.statsService
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", h.RegisterUser)
	auth.POST("/login", h.Login)
	auth.POST("/refresh", h.Refresh)

	reports := v1.Group("/reports", middleware.Authenticate(h.cfg))
	{
		citizen := middleware.RequireRoles(models.RoleCitizen)
		reports.POST("", citizen, h.CreateReport)
		reports.GET("/me", citizen, h.MyReports)
		reports.PUT("", citizen, h.UpdateReport)
		reports.DELETE("", citizen, h.DeleteReport)

		worker := middleware.RequireRoles(models.RoleWorker)
		reports.GET("/assigned", worker, h.AssignedReports)
		reports.POST("/update-status", worker, h.UpdateReportStatus)

		admin := middleware.RequireRoles(models.RoleAdmin)
		reports.GET("", admin, h.AllReports)
		reports.POST("/assign", admin, h.AssignReport)
	}

	users := v1.Group("/users", middleware.Authenticate(h.cfg))
	{
		users.GET("/profile/:id", h.Profile)
		users.GET("/profile/email/:email", h.ProfileByEmail)

		admin := users.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
		admin.GET("/pending-workers", h.PendingWorkers)
		admin.PUT("/approve-worker/:id", h.ApproveWorker)
		admin.GET("/active-workers", h.ActiveWorkers)
	}

	v1.GET("/stats/dashboard", h.DashboardStats)
}

// respondError translates domain failures into the stable status per kind:
// 401 unauthenticated, 403 forbidden, 404 absent, 409 conflict, 400 bad
// input. Anything else is a 500 with the details kept in the log.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotReportOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrUserNotFound), errors.Is(err, repository.ErrReportNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrEmailTaken), errors.Is(err, repository.ErrAlreadyAssigned):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotApprovable),
		errors.Is(err, service.ErrDepartmentRequired),
		errors.Is(err, media.ErrUnsupportedType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
	}
}
