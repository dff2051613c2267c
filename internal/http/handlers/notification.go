package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openhearth/charity-backend/internal/data/aggregates"
	"github.com/openhearth/charity-backend/internal/data/repos"
	"github.com/openhearth/charity-backend/internal/domain"
	"github.com/openhearth/charity-backend/internal/http/response"
	"github.com/openhearth/charity-backend/internal/services"
)

type NotificationHandler struct {
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (nh *NotificationHandler) List(c *gin.Context) {
	filter := repos.NotificationFilter{
		Channel: domain.NotificationChannel(strings.TrimSpace(c.Query("channel"))),
		Unsent:  c.Query("unsent") == "true",
	}
	if raw := c.Query("project_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, string(aggregates.CodeValidation), err)
			return
		}
		filter.ProjectID = id
	}
	if raw := c.Query("donation_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, string(aggregates.CodeValidation), err)
			return
		}
		filter.DonationID = id
	}
	notifications, err := nh.notificationService.List(c.Request.Context(), filter)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"notifications": notifications})
}

// MarkSent is the delivery worker's callback. Idempotent per id.
func (nh *NotificationHandler) MarkSent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, string(aggregates.CodeValidation), err)
		return
	}
	notification, err := nh.notificationService.MarkSent(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"notification": notification})
}
