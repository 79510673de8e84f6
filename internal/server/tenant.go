package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	tenantdomain "github.com/smallbiznis/numera/internal/tenant/domain"
	"gorm.io/datatypes"
)

type tenantRequest struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	InvoiceFormat string         `json:"invoice_format"`
	APIToken      string         `json:"api_token"`
	ContactID     string         `json:"contact_id"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

func (s *Server) ListTenants(c *gin.Context) {
	limit, err := parseOptionalInt(c.Query("limit"))
	if err != nil {
		AbortWithError(c, newValidationError("limit", "invalid_limit", "invalid limit"))
		return
	}
	offset, err := parseOptionalInt(c.Query("offset"))
	if err != nil {
		AbortWithError(c, newValidationError("offset", "invalid_offset", "invalid offset"))
		return
	}

	resp, err := s.tenantSvc.List(c.Request.Context(), tenantdomain.ListTenantRequest{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Tenants})
}

func (s *Server) GetTenant(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}
	setTenantID(c, id)

	item, err := s.tenantSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) CreateTenant(c *gin.Context) {
	var req tenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_json", "invalid request body"))
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}
	setTenantID(c, req.ID)

	item, err := s.tenantSvc.Create(c.Request.Context(), toTenant(req))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": item})
}

func (s *Server) UpdateTenant(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}
	setTenantID(c, id)

	var req tenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_json", "invalid request body"))
		return
	}
	req.ID = id

	item, err := s.tenantSvc.Update(c.Request.Context(), toTenant(req))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func toTenant(req tenantRequest) tenantdomain.Tenant {
	var metadata datatypes.JSONMap
	if req.Metadata != nil {
		metadata = datatypes.JSONMap(req.Metadata)
	}

	return tenantdomain.Tenant{
		ID:            strings.TrimSpace(req.ID),
		Name:          strings.TrimSpace(req.Name),
		InvoiceFormat: strings.TrimSpace(req.InvoiceFormat),
		APIToken:      strings.TrimSpace(req.APIToken),
		ContactID:     strings.TrimSpace(req.ContactID),
		Metadata:      metadata,
	}
}
