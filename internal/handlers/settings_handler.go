package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/residate/internal/audit"
	"github.com/BruksfildServices01/residate/internal/httperr"
	"github.com/BruksfildServices01/residate/internal/httpresp"
	"github.com/BruksfildServices01/residate/internal/settings"
	"github.com/BruksfildServices01/residate/internal/validators"
)

type SettingsHandler struct {
	store *settings.Store
	audit *audit.Dispatcher
}

func NewSettingsHandler(store *settings.Store, audit *audit.Dispatcher) *SettingsHandler {
	return &SettingsHandler{store: store, audit: audit}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	s, err := h.store.Get(c.Request.Context(), currentBusinessID(c))
	if err != nil {
		httperr.Internal(c, "failed_to_get_settings", "Could not load settings.")
		return
	}
	httpresp.OK(c, s)
}

// Update applies the fields present in the body.
func (h *SettingsHandler) Update(c *gin.Context) {
	var req settings.Preferences
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	if req.Email != nil && *req.Email != "" && !validators.IsEmailFormatValid(*req.Email) {
		httperr.BadRequest(c, "invalid_email", "Invalid email address.")
		return
	}

	s, err := h.store.Update(c.Request.Context(), currentBusinessID(c), req)
	if err != nil {
		httperr.Internal(c, "failed_to_update_settings", "Could not save settings.")
		return
	}

	writeAudit(h.audit, c, "settings_updated", "settings", currentBusinessID(c), nil)
	httpresp.OK(c, s)
}

func (h *SettingsHandler) GenerateAPIKey(c *gin.Context) {
	s, err := h.store.GenerateAPIKey(c.Request.Context(), currentBusinessID(c))
	if err != nil {
		httperr.Internal(c, "failed_to_generate_api_key", "Could not generate a key.")
		return
	}

	writeAudit(h.audit, c, "api_key_generated", "settings", currentBusinessID(c), nil)
	httpresp.OK(c, gin.H{"apiKey": s.APIKey})
}
