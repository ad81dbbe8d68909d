package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/residate/internal/domain/slot"
	"github.com/BruksfildServices01/residate/internal/dto"
	"github.com/BruksfildServices01/residate/internal/httperr"
	"github.com/BruksfildServices01/residate/internal/httpresp"
	ucSlot "github.com/BruksfildServices01/residate/internal/usecase/slot"
)

// ======================================================
// HANDLER
// ======================================================

type SlotHandler struct {
	listUC    *ucSlot.ListSlots
	blockUC   *ucSlot.BlockSlot
	releaseUC *ucSlot.ReleaseSlot
	toggleUC  *ucSlot.ToggleBlock
	resetUC   *ucSlot.ResetLedger
}

func NewSlotHandler(
	listUC *ucSlot.ListSlots,
	blockUC *ucSlot.BlockSlot,
	releaseUC *ucSlot.ReleaseSlot,
	toggleUC *ucSlot.ToggleBlock,
	resetUC *ucSlot.ResetLedger,
) *SlotHandler {
	return &SlotHandler{
		listUC:    listUC,
		blockUC:   blockUC,
		releaseUC: releaseUC,
		toggleUC:  toggleUC,
		resetUC:   resetUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type BlockSlotRequest struct {
	Reason string `json:"reason"`
}

type ResetLedgerRequest struct {
	Email string `json:"email"`
}

func toSlotDTO(s domain.Slot) dto.SlotListDTO {
	return dto.SlotListDTO{
		ID:          s.ID,
		Day:         s.Day,
		Hour:        s.Hour,
		Time:        dto.HourLabel(s.Hour),
		Status:      string(s.Status),
		Kind:        string(s.Kind),
		ClientName:  s.ClientName,
		ClientEmail: s.ClientEmail,
		Service:     s.Service,
		IsVIP:       s.IsVIP,
		CreatedAt:   s.Timestamp,
	}
}

// ======================================================
// LIST
// ======================================================

func (h *SlotHandler) List(c *gin.Context) {
	slots, err := h.listUC.Execute(c.Request.Context(), currentBusinessID(c), c.Query("status"))
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_slots")
		return
	}

	out := make([]dto.SlotListDTO, 0, len(slots))
	for _, s := range slots {
		out = append(out, toSlotDTO(s))
	}
	httpresp.List(c, out)
}

// ======================================================
// BLOCK / RELEASE / TOGGLE
// ======================================================

func (h *SlotHandler) Block(c *gin.Context) {
	key, err := slotKeyFromPath(c)
	if err != nil {
		httperr.FromError(c, err, "invalid_request")
		return
	}

	var req BlockSlotRequest
	_ = c.ShouldBindJSON(&req)

	s, err := h.blockUC.Execute(c.Request.Context(), ucSlot.BlockSlotInput{
		Key:    key,
		Reason: req.Reason,
		Actor:  ownerActor,
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_block_slot")
		return
	}
	httpresp.OK(c, toSlotDTO(*s))
}

func (h *SlotHandler) Release(c *gin.Context) {
	key, err := slotKeyFromPath(c)
	if err != nil {
		httperr.FromError(c, err, "invalid_request")
		return
	}

	if err := h.releaseUC.Execute(c.Request.Context(), key, ownerActor); err != nil {
		httperr.FromError(c, err, "failed_to_release_slot")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SlotHandler) Toggle(c *gin.Context) {
	key, err := slotKeyFromPath(c)
	if err != nil {
		httperr.FromError(c, err, "invalid_request")
		return
	}

	s, err := h.toggleUC.Execute(c.Request.Context(), key, ownerActor)
	if err != nil {
		httperr.FromError(c, err, "failed_to_toggle_slot")
		return
	}

	if s == nil {
		httpresp.OK(c, gin.H{
			"day":    key.Day,
			"hour":   key.Hour,
			"status": domain.StatusAvailable,
		})
		return
	}
	httpresp.OK(c, toSlotDTO(*s))
}

// ======================================================
// RESET
// ======================================================

func (h *SlotHandler) Reset(c *gin.Context) {
	var req ResetLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	n, err := h.resetUC.Execute(c.Request.Context(), currentBusinessID(c), req.Email, ownerActor)
	if err != nil {
		httperr.FromError(c, err, "failed_to_reset_ledger")
		return
	}
	httpresp.OK(c, gin.H{"removed": n})
}
