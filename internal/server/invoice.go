package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/numera/internal/invoice/domain"
)

type submitInvoiceRequest struct {
	TenantID      string                   `json:"tenant_id"`
	TransactionID string                   `json:"transaction_id"`
	Reference     string                   `json:"reference"`
	Items         []invoicedomain.LineItem `json:"items"`
	Tax           *invoicedomain.TaxSpec   `json:"tax,omitempty"`
}

type submitInvoiceResponse struct {
	InvoiceNumber string `json:"invoice_number"`
	Counter       int64  `json:"counter"`
	ProviderID    string `json:"provider_id,omitempty"`
}

func (s *Server) SubmitInvoice(c *gin.Context) {
	var req submitInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_json", "invalid request body"))
		return
	}

	setTenantID(c, req.TenantID)

	result, err := s.invoiceSvc.Submit(c.Request.Context(), invoicedomain.SubmitRequest{
		TenantID:      req.TenantID,
		TransactionID: req.TransactionID,
		Reference:     req.Reference,
		Items:         req.Items,
		Tax:           req.Tax,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": submitInvoiceResponse{
		InvoiceNumber: result.Number,
		Counter:       result.Counter,
		ProviderID:    result.ProviderID,
	}})
}
