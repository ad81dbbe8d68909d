package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/residate/internal/config"
	"github.com/BruksfildServices01/residate/internal/domain/business"
	"github.com/BruksfildServices01/residate/internal/httperr"
	"github.com/BruksfildServices01/residate/internal/httpresp"
	"github.com/BruksfildServices01/residate/internal/mailer"
	"github.com/BruksfildServices01/residate/internal/middleware"
	ucBusiness "github.com/BruksfildServices01/residate/internal/usecase/business"
)

type AuthHandler struct {
	register     *ucBusiness.Register
	authenticate *ucBusiness.Authenticate
	mail         *mailer.Client
	config       *config.Config
}

func NewAuthHandler(
	register *ucBusiness.Register,
	authenticate *ucBusiness.Authenticate,
	mail *mailer.Client,
	cfg *config.Config,
) *AuthHandler {
	return &AuthHandler{
		register:     register,
		authenticate: authenticate,
		mail:         mail,
		config:       cfg,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Location    string             `json:"location"`
	Category    string             `json:"category"`
	Description string             `json:"description"`
	Email       string             `json:"email"`
	Password    string             `json:"password"`
	Services    []business.Service `json:"services"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ForgotKeyRequest struct {
	Email string `json:"email"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	b, err := h.register.Execute(c.Request.Context(), ucBusiness.RegisterInput{
		ID:          req.ID,
		Name:        req.Name,
		Location:    req.Location,
		Category:    req.Category,
		Description: req.Description,
		Email:       req.Email,
		Password:    req.Password,
		Services:    req.Services,
		IsCustom:    true,
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_register")
		return
	}

	token, err := middleware.GenerateToken(h.config, b.ID, time.Now())
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not start a session.")
		return
	}

	httpresp.Created(c, gin.H{
		"business": b,
		"token":    token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	b, err := h.authenticate.Execute(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		httperr.FromError(c, err, "internal_error")
		return
	}

	token, err := middleware.GenerateToken(h.config, b.ID, time.Now())
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not start a session.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"business": b,
		"token":    token,
	})
}

// ForgotKey mails the recovery key. The provider response is passed
// through on success.
func (h *AuthHandler) ForgotKey(c *gin.Context) {
	var req ForgotKeyRequest
	_ = c.ShouldBindJSON(&req)

	email := strings.TrimSpace(req.Email)
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	resp, err := h.mail.SendRecovery(c.Request.Context(), email, h.config.RecoveryKey)
	if err != nil {
		slog.Error("recovery mail failed", "err", err)

		var apiErr *mailer.APIError
		if errors.As(err, &apiErr) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": apiErr.Body})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", resp)
}
