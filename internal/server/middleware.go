package server

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/numera/internal/invoice/domain"
	obscontext "github.com/smallbiznis/numera/internal/observability/context"
	tenantdomain "github.com/smallbiznis/numera/internal/tenant/domain"
)

// setTenantID stamps the tenant onto the request context so the request
// log carries a tenant_id field.
func setTenantID(c *gin.Context, tenantID string) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return
	}
	c.Request = c.Request.WithContext(obscontext.WithTenantID(c.Request.Context(), tenantID))
}

// classifyErrorForLog labels a handler error for the request log without
// leaking request payloads.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}

	if vErr := asValidationErrors(err); vErr != nil {
		code := ""
		if len(vErr.Errors) > 0 {
			code = vErr.Errors[0].Code
		}
		return "validation_error", code
	}

	if downstream := asDownstreamError(err); downstream != nil {
		return "downstream_error", "downstream_error"
	}

	switch {
	case errors.Is(err, invoicedomain.ErrTenantNotConfigured):
		return "tenant_not_configured", "tenant_not_configured"
	case errors.Is(err, invoicedomain.ErrPoisonPill):
		return "transaction_poisoned", "transaction_poisoned"
	case errors.Is(err, invoicedomain.ErrNumbering):
		return "numbering_unavailable", "numbering_unavailable"
	case isValidationError(err):
		return "validation_error", validationErrorCode(err)
	case errors.Is(err, tenantdomain.ErrExists):
		return "conflict", "tenant_exists"
	case isNotFoundError(err):
		return "not_found", "not_found"
	default:
		return "internal_error", "internal_error"
	}
}
