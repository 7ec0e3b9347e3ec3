package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jdevries/timeflow/internal/model"
	"github.com/jdevries/timeflow/internal/service"
)

type companyRequest struct {
	CompanyName     *string              `json:"company_name"`
	VisitAddress    *string              `json:"visit_address"`
	ContactDetails  model.ContactDetails `json:"contact_details"`
	CompanySize     *string              `json:"company_size"`
	Branch          *string              `json:"branch"`
	RelationManager *string              `json:"relation_manager"`
}

type companyResponse struct {
	ID              int64                `json:"id"`
	CompanyName     string               `json:"company_name"`
	VisitAddress    *string              `json:"visit_address"`
	ContactDetails  model.ContactDetails `json:"contact_details"`
	CompanySize     *string              `json:"company_size"`
	Branch          *string              `json:"branch"`
	RelationManager *string              `json:"relation_manager"`
	CreatedAt       string               `json:"created_at"`
}

func toCompanyResponse(c model.Company) companyResponse {
	details := c.ContactDetails
	if details == nil {
		details = model.ContactDetails{}
	}
	return companyResponse{
		ID:              c.ID,
		CompanyName:     c.CompanyName,
		VisitAddress:    c.VisitAddress,
		ContactDetails:  details,
		CompanySize:     c.CompanySize,
		Branch:          c.Branch,
		RelationManager: c.RelationManager,
		CreatedAt:       c.CreatedAt.Format(time.RFC3339),
	}
}

func (h *Handler) createCompany(c *gin.Context) {
	var req companyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := ""
	if req.CompanyName != nil {
		name = *req.CompanyName
	}
	company, err := h.companies.Create(c.Request.Context(), service.CompanyInput{
		CompanyName:     name,
		VisitAddress:    req.VisitAddress,
		ContactDetails:  req.ContactDetails,
		CompanySize:     req.CompanySize,
		Branch:          req.Branch,
		RelationManager: req.RelationManager,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCompanyResponse(*company))
}

func (h *Handler) listCompanies(c *gin.Context) {
	companies, err := h.companies.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	items := make([]companyResponse, 0, len(companies))
	for _, company := range companies {
		items = append(items, toCompanyResponse(company))
	}
	c.JSON(http.StatusOK, gin.H{"companies": items, "total": len(items)})
}

func (h *Handler) getCompany(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	company, err := h.companies.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCompanyResponse(*company))
}

func (h *Handler) updateCompany(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req companyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	company, err := h.companies.Update(c.Request.Context(), id, model.CompanyPatch{
		CompanyName:     req.CompanyName,
		VisitAddress:    req.VisitAddress,
		ContactDetails:  req.ContactDetails,
		CompanySize:     req.CompanySize,
		Branch:          req.Branch,
		RelationManager: req.RelationManager,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCompanyResponse(*company))
}

func (h *Handler) deleteCompany(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.companies.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "company deleted"})
}
