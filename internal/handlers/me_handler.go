package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/residate/internal/domain/business"
	"github.com/BruksfildServices01/residate/internal/httperr"
	"github.com/BruksfildServices01/residate/internal/httpresp"
	"github.com/BruksfildServices01/residate/internal/settings"
	ucBusiness "github.com/BruksfildServices01/residate/internal/usecase/business"
)

type MeHandler struct {
	businesses business.Repository
	tombstones business.Tombstones
	settings   *settings.Store
	softDelete *ucBusiness.SoftDelete
	hardDelete *ucBusiness.HardDelete
}

func NewMeHandler(
	businesses business.Repository,
	tombstones business.Tombstones,
	store *settings.Store,
	softDelete *ucBusiness.SoftDelete,
	hardDelete *ucBusiness.HardDelete,
) *MeHandler {
	return &MeHandler{
		businesses: businesses,
		tombstones: tombstones,
		settings:   store,
		softDelete: softDelete,
		hardDelete: hardDelete,
	}
}

type DeleteBusinessRequest struct {
	Confirmation string `json:"confirmation"`
	Hard         bool   `json:"hard"`
}

// owned loads the authenticated business, hiding tombstoned ones.
func (h *MeHandler) owned(c *gin.Context) (*business.Business, bool) {
	ctx := c.Request.Context()
	id := currentBusinessID(c)

	b, err := h.businesses.Get(ctx, id)
	if err != nil {
		httperr.Internal(c, "failed_to_get_business", "Could not load the business.")
		return nil, false
	}

	deleted, err := h.tombstones.DeletedIDs(ctx)
	if err != nil {
		httperr.Internal(c, "failed_to_get_business", "Could not load the business.")
		return nil, false
	}

	if _, gone := deleted[id]; b == nil || gone {
		httperr.NotFound(c, "business_not_found", "Business not found.")
		return nil, false
	}

	out := b.Public()
	return &out, true
}

func (h *MeHandler) GetMe(c *gin.Context) {
	b, ok := h.owned(c)
	if !ok {
		return
	}

	s, err := h.settings.Get(c.Request.Context(), b.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_get_settings", "Could not load settings.")
		return
	}

	httpresp.OK(c, gin.H{
		"business": b,
		"settings": s,
	})
}

func (h *MeHandler) GetBusiness(c *gin.Context) {
	b, ok := h.owned(c)
	if !ok {
		return
	}
	httpresp.OK(c, b)
}

// DeleteBusiness tombstones the business after the typed confirmation.
// With hard set the row is removed too; a refused removal is logged and the
// tombstone stands.
func (h *MeHandler) DeleteBusiness(c *gin.Context) {
	var req DeleteBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	id := currentBusinessID(c)
	if err := h.softDelete.Execute(c.Request.Context(), id, req.Confirmation, ownerActor); err != nil {
		httperr.FromError(c, err, "failed_to_delete_business")
		return
	}

	removed := false
	if req.Hard {
		if err := h.hardDelete.Execute(c.Request.Context(), id, ownerActor); err != nil {
			slog.Warn("hard delete refused, tombstone kept", "business_id", id, "err", err)
		} else {
			removed = true
		}
	}

	httpresp.OK(c, gin.H{
		"deleted": true,
		"removed": removed,
	})
}
