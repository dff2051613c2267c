package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openhearth/charity-backend/internal/data/aggregates"
	"github.com/openhearth/charity-backend/internal/http/response"
	"github.com/openhearth/charity-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, string(aggregates.CodeValidation), err)
		return
	}
	token, user, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, string(aggregates.CodeOf(err)), err)
		return
	}
	expiresIn := int(ah.authService.AccessTTL().Seconds())
	response.RespondOK(c, gin.H{
		"access_token": token,
		"expires_in":   expiresIn,
		"user":         user,
	})
}
