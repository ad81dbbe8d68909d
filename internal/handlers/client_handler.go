package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/residate/internal/httperr"
	"github.com/BruksfildServices01/residate/internal/httpresp"
	ucSlot "github.com/BruksfildServices01/residate/internal/usecase/slot"
)

type ClientHandler struct {
	listUC   *ucSlot.ListClients
	vipUC    *ucSlot.ToggleVIP
	removeUC *ucSlot.RemoveClient
}

func NewClientHandler(
	listUC *ucSlot.ListClients,
	vipUC *ucSlot.ToggleVIP,
	removeUC *ucSlot.RemoveClient,
) *ClientHandler {
	return &ClientHandler{listUC: listUC, vipUC: vipUC, removeUC: removeUC}
}

type ClientEmailRequest struct {
	Email string `json:"email"`
}

// ======================================================
// LIST CLIENTS (OWNER)
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.listUC.Execute(c.Request.Context(), currentBusinessID(c), c.Query("query"), time.Now())
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_clients")
		return
	}
	httpresp.List(c, clients)
}

func (h *ClientHandler) ToggleVIP(c *gin.Context) {
	var req ClientEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	n, err := h.vipUC.Execute(c.Request.Context(), currentBusinessID(c), req.Email, ownerActor)
	if err != nil {
		httperr.FromError(c, err, "failed_to_toggle_vip")
		return
	}
	httpresp.OK(c, gin.H{"updated": n})
}

// Remove deletes every slot of the client within the business.
func (h *ClientHandler) Remove(c *gin.Context) {
	var req ClientEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	n, err := h.removeUC.Execute(c.Request.Context(), currentBusinessID(c), req.Email, ownerActor)
	if err != nil {
		httperr.FromError(c, err, "failed_to_remove_client")
		return
	}
	httpresp.OK(c, gin.H{"removed": n})
}
