package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	eventlogdomain "github.com/smallbiznis/numera/internal/eventlog/domain"
)

func (s *Server) ListEventLogs(c *gin.Context) {
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

	startAt, err := parseOptionalTime(c.Query("start_at"), false)
	if err != nil {
		AbortWithError(c, newValidationError("start_at", "invalid_start_at", "invalid start_at"))
		return
	}
	endAt, err := parseOptionalTime(c.Query("end_at"), true)
	if err != nil {
		AbortWithError(c, newValidationError("end_at", "invalid_end_at", "invalid end_at"))
		return
	}

	level, err := parseOptionalLevel(c.Query("level"))
	if err != nil {
		AbortWithError(c, newValidationError("level", "invalid_level", "invalid level"))
		return
	}

	resp, err := s.eventLogSvc.List(c.Request.Context(), eventlogdomain.ListFilter{
		TenantID: strings.TrimSpace(c.Query("tenant_id")),
		Level:    level,
		StartAt:  startAt,
		EndAt:    endAt,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Logs})
}
