package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openhearth/charity-backend/internal/data/aggregates"
	"github.com/openhearth/charity-backend/internal/data/repos"
	"github.com/openhearth/charity-backend/internal/domain"
	"github.com/openhearth/charity-backend/internal/http/response"
	"github.com/openhearth/charity-backend/internal/services"
)

type DonationHandler struct {
	donationService services.DonationService
}

func NewDonationHandler(donationService services.DonationService) *DonationHandler {
	return &DonationHandler{donationService: donationService}
}

func (dh *DonationHandler) Create(c *gin.Context) {
	var req struct {
		ProjectID        uuid.UUID             `json:"project_id"`
		UserID           *uuid.UUID            `json:"user_id"`
		Amount           decimal.Decimal       `json:"amount"`
		Method           domain.DonationMethod `json:"method"`
		DonorName        *string               `json:"donor_name"`
		DonorEmail       *string               `json:"donor_email"`
		DonorPhone       *string               `json:"donor_phone"`
		PaymentReference *string               `json:"payment_reference"`
		DonatedAt        *time.Time            `json:"donated_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, string(aggregates.CodeValidation), err)
		return
	}
	donation, err := dh.donationService.Create(c.Request.Context(), services.CreateDonationInput{
		ProjectID:        req.ProjectID,
		UserID:           req.UserID,
		Amount:           req.Amount,
		Method:           req.Method,
		DonorName:        req.DonorName,
		DonorEmail:       req.DonorEmail,
		DonorPhone:       req.DonorPhone,
		PaymentReference: req.PaymentReference,
		DonatedAt:        req.DonatedAt,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"donation": donation})
}

func (dh *DonationHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, string(aggregates.CodeValidation), err)
		return
	}
	donation, err := dh.donationService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"donation": donation})
}

func (dh *DonationHandler) List(c *gin.Context) {
	var filter repos.DonationFilter
	if raw := c.Query("project_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, string(aggregates.CodeValidation), err)
			return
		}
		filter.ProjectID = id
	}
	donations, err := dh.donationService.List(c.Request.Context(), filter)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"donations": donations})
}

func (dh *DonationHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, string(aggregates.CodeValidation), err)
		return
	}
	if err := dh.donationService.Delete(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}
