// Package http exposes the REST API.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jdevries/timeflow/internal/service"
)

type Handler struct {
	companies *service.CompanyService
	projects  *service.ProjectService
	services  *service.ServiceService
	entries   *service.TimeEntryService
	reports   *service.ReportService
	log       zerolog.Logger
}

func NewHandler(
	companies *service.CompanyService,
	projects *service.ProjectService,
	services *service.ServiceService,
	entries *service.TimeEntryService,
	reports *service.ReportService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		companies: companies,
		projects:  projects,
		services:  services,
		entries:   entries,
		reports:   reports,
		log:       log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.POST("/companies", h.createCompany)
	protected.GET("/companies", h.listCompanies)
	protected.GET("/companies/:id", h.getCompany)
	protected.PUT("/companies/:id", h.updateCompany)
	protected.DELETE("/companies/:id", h.deleteCompany)

	protected.POST("/projects", h.createProject)
	protected.GET("/projects", h.listProjects)
	protected.GET("/projects/:id", h.getProject)
	protected.PUT("/projects/:id", h.updateProject)
	protected.DELETE("/projects/:id", h.deleteProject)

	protected.POST("/services", h.createService)
	protected.GET("/services/:id", h.getService)
	protected.PUT("/services/:id", h.updateService)
	protected.DELETE("/services/:id", h.deleteService)
	protected.GET("/services/project/:id/summary", h.projectServicesSummary)

	protected.POST("/time-entries", h.createTimeEntry)
	protected.GET("/time-entries", h.listTimeEntries)
	protected.GET("/time-entries/available-hours", h.availableHours)
	protected.GET("/time-entries/employees", h.listEmployees)
	protected.PUT("/time-entries/:id", h.updateTimeEntry)
	protected.DELETE("/time-entries/:id", h.deleteTimeEntry)

	protected.GET("/reports/timesheet", h.exportTimesheet)
	protected.GET("/reports/projects/:id/summary.pdf", h.exportProjectSummaryPDF)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, service.ErrInvalidInput
	}
	return parsed, nil
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
