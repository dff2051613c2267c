package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openhearth/charity-backend/internal/data/aggregates"
	"github.com/openhearth/charity-backend/internal/data/repos"
	"github.com/openhearth/charity-backend/internal/http/response"
	"github.com/openhearth/charity-backend/internal/services"
)

type AuditHandler struct {
	auditService services.AuditService
}

func NewAuditHandler(auditService services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (ah *AuditHandler) List(c *gin.Context) {
	filter := repos.AuditLogFilter{
		EntityName: strings.TrimSpace(c.Query("entity_name")),
	}
	if raw := c.Query("entity_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, string(aggregates.CodeValidation), err)
			return
		}
		filter.EntityID = id
	}
	if t, ok := parseTimeQuery(c, "from"); ok {
		filter.From = t
	}
	if t, ok := parseTimeQuery(c, "to"); ok {
		filter.To = t
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "0"))

	rows, total, err := ah.auditService.List(c.Request.Context(), filter)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	page, size := repos.ClampAuditPage(filter.Page, filter.PageSize)
	response.RespondOK(c, gin.H{
		"audit_logs": rows,
		"total":      total,
		"page":       page,
		"page_size":  size,
	})
}
