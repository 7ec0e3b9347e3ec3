package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/jdevries/timeflow/internal/model"
	"github.com/jdevries/timeflow/internal/service"
)

type companyLinkRequest struct {
	CompanyID      int64            `json:"company_id" binding:"required"`
	AvailableHours *decimal.Decimal `json:"available_hours"`
	UnlimitedHours bool             `json:"unlimited_hours"`
}

type projectRequest struct {
	ProjectName  *string              `json:"project_name"`
	Description  *string              `json:"description"`
	CompanyLinks []companyLinkRequest `json:"company_links"`
}

type companyLinkResponse struct {
	CompanyID      int64            `json:"company_id"`
	CompanyName    string           `json:"company_name"`
	AvailableHours *decimal.Decimal `json:"available_hours"`
	UnlimitedHours bool             `json:"unlimited_hours"`
}

type projectResponse struct {
	ID           int64                 `json:"id"`
	ProjectName  string                `json:"project_name"`
	Description  *string               `json:"description"`
	CompanyLinks []companyLinkResponse `json:"company_links"`
	CreatedAt    string                `json:"created_at"`
}

func toLinkInputs(links []companyLinkRequest) []model.AllocationInput {
	if links == nil {
		return nil
	}
	inputs := make([]model.AllocationInput, 0, len(links))
	for _, link := range links {
		input := model.AllocationInput{
			CompanyID: link.CompanyID,
			Unlimited: link.UnlimitedHours,
		}
		if link.AvailableHours != nil {
			input.AvailableHours = *link.AvailableHours
		}
		inputs = append(inputs, input)
	}
	return inputs
}

func toProjectResponse(p model.Project) projectResponse {
	links := make([]companyLinkResponse, 0, len(p.Links))
	for _, link := range p.Links {
		item := companyLinkResponse{
			CompanyID:      link.CompanyID,
			CompanyName:    link.CompanyName,
			UnlimitedHours: link.Hours.Unlimited(),
		}
		if !link.Hours.Unlimited() {
			hours := link.Hours.Hours()
			item.AvailableHours = &hours
		}
		links = append(links, item)
	}
	return projectResponse{
		ID:           p.ID,
		ProjectName:  p.ProjectName,
		Description:  p.Description,
		CompanyLinks: links,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}
}

func (h *Handler) createProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := ""
	if req.ProjectName != nil {
		name = *req.ProjectName
	}
	project, err := h.projects.Create(c.Request.Context(), service.ProjectInput{
		ProjectName: name,
		Description: req.Description,
		Links:       toLinkInputs(req.CompanyLinks),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProjectResponse(*project))
}

func (h *Handler) listProjects(c *gin.Context) {
	projects, err := h.projects.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	items := make([]projectResponse, 0, len(projects))
	for _, project := range projects {
		items = append(items, toProjectResponse(project))
	}
	c.JSON(http.StatusOK, gin.H{"projects": items, "total": len(items)})
}

func (h *Handler) getProject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	project, err := h.projects.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProjectResponse(*project))
}

func (h *Handler) updateProject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projects.Update(c.Request.Context(), id, service.ProjectUpdate{
		Patch: model.ProjectPatch{
			ProjectName: req.ProjectName,
			Description: req.Description,
		},
		Links: toLinkInputs(req.CompanyLinks),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProjectResponse(*project))
}

func (h *Handler) deleteProject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.projects.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}
