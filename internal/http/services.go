package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/jdevries/timeflow/internal/model"
	"github.com/jdevries/timeflow/internal/service"
)

type serviceCreateRequest struct {
	ProjectID    int64            `json:"project_id" binding:"required"`
	CompanyID    *int64           `json:"company_id"`
	Name         string           `json:"name"`
	PriceType    string           `json:"price_type"`
	BudgetHours  *decimal.Decimal `json:"budget_hours"`
	FixedPrice   *decimal.Decimal `json:"fixed_price"`
	HourlyRate   *decimal.Decimal `json:"hourly_rate"`
	StartDate    *string          `json:"start_date"`
	EndDate      *string          `json:"end_date"`
	ServiceColor *string          `json:"service_color"`
}

type serviceUpdateRequest struct {
	CompanyID    *int64           `json:"company_id"`
	Name         *string          `json:"name"`
	PriceType    *string          `json:"price_type"`
	BudgetHours  *decimal.Decimal `json:"budget_hours"`
	FixedPrice   *decimal.Decimal `json:"fixed_price"`
	HourlyRate   *decimal.Decimal `json:"hourly_rate"`
	StartDate    *string          `json:"start_date"`
	EndDate      *string          `json:"end_date"`
	ServiceColor *string          `json:"service_color"`
}

type serviceResponse struct {
	ID           int64            `json:"id"`
	ProjectID    int64            `json:"project_id"`
	CompanyID    *int64           `json:"company_id"`
	Name         string           `json:"name"`
	PriceType    string           `json:"price_type"`
	BudgetHours  decimal.Decimal  `json:"budget_hours"`
	FixedPrice   *decimal.Decimal `json:"fixed_price"`
	HourlyRate   *decimal.Decimal `json:"hourly_rate"`
	StartDate    *string          `json:"start_date"`
	EndDate      *string          `json:"end_date"`
	ServiceColor *string          `json:"service_color"`
	CreatedAt    string           `json:"created_at"`
}

func toServiceResponse(s model.Service) serviceResponse {
	resp := serviceResponse{
		ID:           s.ID,
		ProjectID:    s.ProjectID,
		CompanyID:    s.CompanyID,
		Name:         s.Name,
		PriceType:    string(s.PriceType),
		BudgetHours:  s.BudgetHours,
		FixedPrice:   s.FixedPrice,
		HourlyRate:   s.HourlyRate,
		ServiceColor: s.ServiceColor,
		CreatedAt:    s.CreatedAt.Format(time.RFC3339),
	}
	if s.StartDate != nil {
		formatted := formatDate(*s.StartDate)
		resp.StartDate = &formatted
	}
	if s.EndDate != nil {
		formatted := formatDate(*s.EndDate)
		resp.EndDate = &formatted
	}
	return resp
}

func (h *Handler) createService(c *gin.Context) {
	var req serviceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	budget := decimal.Zero
	if req.BudgetHours != nil {
		budget = *req.BudgetHours
	}
	svc, err := h.services.Create(c.Request.Context(), service.ServiceInput{
		ProjectID:    req.ProjectID,
		CompanyID:    req.CompanyID,
		Name:         req.Name,
		PriceType:    model.PriceType(req.PriceType),
		BudgetHours:  budget,
		FixedPrice:   req.FixedPrice,
		HourlyRate:   req.HourlyRate,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		ServiceColor: req.ServiceColor,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toServiceResponse(*svc))
}

func (h *Handler) getService(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	svc, err := h.services.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toServiceResponse(*svc))
}

func (h *Handler) updateService(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req serviceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := model.ServicePatch{
		CompanyID:    req.CompanyID,
		Name:         req.Name,
		BudgetHours:  req.BudgetHours,
		FixedPrice:   req.FixedPrice,
		HourlyRate:   req.HourlyRate,
		ServiceColor: req.ServiceColor,
	}
	if req.PriceType != nil {
		priceType := model.PriceType(*req.PriceType)
		patch.PriceType = &priceType
	}
	if req.StartDate != nil {
		parsed, err := parseDate(*req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
			return
		}
		patch.StartDate = &parsed
	}
	if req.EndDate != nil {
		parsed, err := parseDate(*req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
			return
		}
		patch.EndDate = &parsed
	}

	svc, err := h.services.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toServiceResponse(*svc))
}

func (h *Handler) deleteService(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.services.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "service deleted"})
}

type serviceUsageResponse struct {
	serviceResponse
	SpentHours decimal.Decimal `json:"spent_hours"`
	BudgetCost decimal.Decimal `json:"budget_cost"`
	SpentCost  decimal.Decimal `json:"spent_cost"`
}

type servicesTotalsResponse struct {
	HoursBudget decimal.Decimal `json:"hours_budget"`
	HoursSpent  decimal.Decimal `json:"hours_spent"`
	CostBudget  decimal.Decimal `json:"cost_budget"`
	CostSpent   decimal.Decimal `json:"cost_spent"`
}

func (h *Handler) projectServicesSummary(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	summary, err := h.services.ProjectSummary(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	services := make([]serviceUsageResponse, 0, len(summary.Services))
	for _, usage := range summary.Services {
		services = append(services, serviceUsageResponse{
			serviceResponse: toServiceResponse(usage.Service),
			SpentHours:      usage.SpentHours,
			BudgetCost:      usage.BudgetCost,
			SpentCost:       usage.SpentCost,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"services": services,
		"totals": servicesTotalsResponse{
			HoursBudget: summary.Totals.HoursBudget,
			HoursSpent:  summary.Totals.HoursSpent,
			CostBudget:  summary.Totals.CostBudget,
			CostSpent:   summary.Totals.CostSpent,
		},
		"remaining_hours": legacyHours(summary.RemainingHours),
	})
}
