package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/residate/internal/calsync"
	"github.com/BruksfildServices01/residate/internal/httperr"
	"github.com/BruksfildServices01/residate/internal/httpresp"
)

type CalendarHandler struct {
	sync *calsync.Service
}

func NewCalendarHandler(sync *calsync.Service) *CalendarHandler {
	return &CalendarHandler{sync: sync}
}

type ConnectCalendarRequest struct {
	URL string `json:"url"`
}

func (h *CalendarHandler) Status(c *gin.Context) {
	st, err := h.sync.Status(c.Request.Context(), currentBusinessID(c))
	if err != nil {
		httperr.Internal(c, "failed_to_get_calendar", "Could not load calendar status.")
		return
	}
	httpresp.OK(c, st)
}

func (h *CalendarHandler) Connect(c *gin.Context) {
	var req ConnectCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	st, err := h.sync.Connect(c.Request.Context(), currentBusinessID(c), req.URL, ownerActor)
	h.respond(c, st, err)
}

func (h *CalendarHandler) Sync(c *gin.Context) {
	st, err := h.sync.Sync(c.Request.Context(), currentBusinessID(c))
	h.respond(c, st, err)
}

func (h *CalendarHandler) Disconnect(c *gin.Context) {
	st, err := h.sync.Disconnect(c.Request.Context(), currentBusinessID(c), ownerActor)
	if err != nil {
		httperr.Internal(c, "failed_to_disconnect_calendar", "Could not disconnect the calendar.")
		return
	}
	httpresp.OK(c, st)
}

// respond reports a failed fetch or parse as 502 with the error status so
// the owner sees what the sync recorded.
func (h *CalendarHandler) respond(c *gin.Context, st calsync.Status, err error) {
	if err == nil {
		httpresp.OK(c, st)
		return
	}
	if _, ok := httperr.Code(err); ok {
		httperr.FromError(c, err, "calendar_sync_failed")
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{
		"error_code": "calendar_sync_failed",
		"message":    "Sync failed. Check the feed address and try again.",
		"status":     st,
	})
}
