package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/jdevries/timeflow/internal/http/middleware"
	"github.com/jdevries/timeflow/internal/model"
	"github.com/jdevries/timeflow/internal/service"
)

// legacySentinel is what the original API reported for unlimited allocations.
// Kept for response compatibility; the core never sees it.
var legacySentinel = decimal.NewFromInt(999999)

func legacyHours(hours model.AvailableHours) decimal.Decimal {
	if hours.Unlimited() {
		return legacySentinel
	}
	return hours.Hours()
}

type timeEntryCreateRequest struct {
	CompanyID   int64            `json:"company_id" binding:"required"`
	ProjectID   int64            `json:"project_id" binding:"required"`
	Date        string           `json:"date" binding:"required"`
	ServiceID   *int64           `json:"service_id"`
	Comment     *string          `json:"comment"`
	HoursWorked *decimal.Decimal `json:"hours_worked"`
	StartTime   *string          `json:"start_time"`
	EndTime     *string          `json:"end_time"`
}

type timeEntryUpdateRequest struct {
	ServiceID   *int64           `json:"service_id"`
	Comment     *string          `json:"comment"`
	HoursWorked *decimal.Decimal `json:"hours_worked"`
	StartTime   *string          `json:"start_time"`
	EndTime     *string          `json:"end_time"`
}

type timeEntryResponse struct {
	ID           int64           `json:"id"`
	EmployeeID   int64           `json:"employee_id"`
	CompanyID    int64           `json:"company_id"`
	CompanyName  string          `json:"company_name"`
	ProjectID    int64           `json:"project_id"`
	ProjectName  string          `json:"project_name"`
	ServiceID    *int64          `json:"service_id"`
	ServiceName  *string         `json:"service_name"`
	ServiceColor *string         `json:"service_color"`
	Date         string          `json:"date"`
	HoursWorked  decimal.Decimal `json:"hours_worked"`
	StartTime    *string         `json:"start_time"`
	EndTime      *string         `json:"end_time"`
	Comment      *string         `json:"comment"`
	CreatedAt    string          `json:"created_at"`
}

func toTimeEntryResponse(d model.TimeEntryDetail) timeEntryResponse {
	resp := timeEntryResponse{
		ID:           d.ID,
		EmployeeID:   d.EmployeeID,
		CompanyID:    d.CompanyID,
		CompanyName:  d.CompanyName,
		ProjectID:    d.ProjectID,
		ProjectName:  d.ProjectName,
		ServiceID:    d.ServiceID,
		ServiceName:  d.ServiceName,
		ServiceColor: d.ServiceColor,
		Date:         formatDate(d.Date),
		HoursWorked:  d.HoursWorked,
		Comment:      d.Comment,
		CreatedAt:    d.CreatedAt.Format(time.RFC3339),
	}
	if d.StartTime != nil {
		formatted := d.StartTime.String()
		resp.StartTime = &formatted
	}
	if d.EndTime != nil {
		formatted := d.EndTime.String()
		resp.EndTime = &formatted
	}
	return resp
}

func parseTimeOfDay(field string, raw *string) (*model.TimeOfDay, bool, string) {
	if raw == nil {
		return nil, true, ""
	}
	parsed, err := model.ParseTimeOfDay(*raw)
	if err != nil {
		return nil, false, "invalid " + field
	}
	return &parsed, true, ""
}

func (h *Handler) createTimeEntry(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req timeEntryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}
	start, ok, msg := parseTimeOfDay("start_time", req.StartTime)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	end, ok, msg := parseTimeOfDay("end_time", req.EndTime)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	entry, err := h.entries.Create(c.Request.Context(), principal, service.TimeEntryInput{
		CompanyID:   req.CompanyID,
		ProjectID:   req.ProjectID,
		Date:        date,
		ServiceID:   req.ServiceID,
		Comment:     req.Comment,
		HoursWorked: req.HoursWorked,
		StartTime:   start,
		EndTime:     end,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTimeEntryResponse(*entry))
}

func (h *Handler) listTimeEntries(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var filter service.TimeEntryListFilter
	if raw := c.Query("start_date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
			return
		}
		filter.StartDate = &parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
			return
		}
		filter.EndDate = &parsed
	}
	if raw := c.Query("employee_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employee_id"})
			return
		}
		filter.EmployeeID = &id
	}

	entries, err := h.entries.List(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	items := make([]timeEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, toTimeEntryResponse(entry))
	}
	c.JSON(http.StatusOK, gin.H{"time_entries": items, "total": len(items)})
}

func (h *Handler) updateTimeEntry(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req timeEntryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, ok, msg := parseTimeOfDay("start_time", req.StartTime)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	end, ok, msg := parseTimeOfDay("end_time", req.EndTime)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	entry, err := h.entries.Update(c.Request.Context(), principal, id, model.TimeEntryPatch{
		ServiceID:   req.ServiceID,
		Comment:     req.Comment,
		HoursWorked: req.HoursWorked,
		StartTime:   start,
		EndTime:     end,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTimeEntryResponse(*entry))
}

func (h *Handler) deleteTimeEntry(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.entries.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "time entry deleted"})
}

type availableHoursResponse struct {
	CompanyID      int64           `json:"company_id"`
	CompanyName    string          `json:"company_name"`
	ProjectID      int64           `json:"project_id"`
	ProjectName    string          `json:"project_name"`
	AvailableHours decimal.Decimal `json:"available_hours"`
	UsedHours      decimal.Decimal `json:"used_hours"`
	RemainingHours decimal.Decimal `json:"remaining_hours"`
	UnlimitedHours bool            `json:"unlimited_hours"`
}

func (h *Handler) availableHours(c *gin.Context) {
	usage, err := h.entries.AvailableHoursOverview(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	items := make([]availableHoursResponse, 0, len(usage))
	for _, row := range usage {
		item := availableHoursResponse{
			CompanyID:      row.CompanyID,
			CompanyName:    row.CompanyName,
			ProjectID:      row.ProjectID,
			ProjectName:    row.ProjectName,
			AvailableHours: legacyHours(row.Hours),
			UsedHours:      row.UsedHours,
			UnlimitedHours: row.Hours.Unlimited(),
		}
		if row.Hours.Unlimited() {
			item.RemainingHours = legacySentinel
		} else {
			item.RemainingHours = row.Hours.Remaining(row.UsedHours)
		}
		items = append(items, item)
	}
	c.JSON(http.StatusOK, gin.H{"project_companies": items})
}

func (h *Handler) listEmployees(c *gin.Context) {
	employees, err := h.entries.Employees(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	type employeeResponse struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	items := make([]employeeResponse, 0, len(employees))
	for _, employee := range employees {
		items = append(items, employeeResponse{ID: employee.ID, Name: employee.Name, Email: employee.Email})
	}
	c.JSON(http.StatusOK, gin.H{"employees": items})
}
