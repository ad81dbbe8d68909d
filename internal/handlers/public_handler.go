package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/residate/internal/booking"
	"github.com/BruksfildServices01/residate/internal/httperr"
	"github.com/BruksfildServices01/residate/internal/httpresp"
	ucBusiness "github.com/BruksfildServices01/residate/internal/usecase/business"
)

// ======================================================
// HANDLER
// ======================================================

type PublicHandler struct {
	directory *ucBusiness.Directory
	book      *booking.Book
	loc       *time.Location
}

func NewPublicHandler(
	directory *ucBusiness.Directory,
	book *booking.Book,
	loc *time.Location,
) *PublicHandler {
	return &PublicHandler{
		directory: directory,
		book:      book,
		loc:       loc,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type QuoteRequest struct {
	ServiceID string `json:"serviceId" binding:"required"`
}

type CreateBookingRequest struct {
	ServiceID  string `json:"serviceId" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Hour       *int   `json:"hour" binding:"required"`
	GuestName  string `json:"guestName"`
	GuestEmail string `json:"guestEmail"`
}

// ======================================================
// DIRECTORY
// ======================================================

func (h *PublicHandler) ListBusinesses(c *gin.Context) {
	items, err := h.directory.List(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "failed_to_list_businesses", "Could not load businesses.")
		return
	}
	httpresp.List(c, items)
}

func (h *PublicHandler) GetBusiness(c *gin.Context) {
	b, err := h.directory.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err, "failed_to_get_business")
		return
	}
	httpresp.OK(c, b)
}

// ======================================================
// BOOKING
// ======================================================

func (h *PublicHandler) Availability(c *gin.Context) {
	day, err := parseDayParam(c.Query("date"), h.loc)
	if err != nil {
		httperr.FromError(c, err, "invalid_day")
		return
	}

	hours, err := h.book.Availability(c.Request.Context(), c.Param("id"), day)
	if err != nil {
		httperr.FromError(c, err, "failed_to_get_availability")
		return
	}

	httpresp.OK(c, gin.H{
		"business_id": c.Param("id"),
		"date":        day,
		"hours":       hours,
	})
}

func (h *PublicHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "service_not_selected", "Select a service first.")
		return
	}

	q, err := h.book.QuoteService(c.Request.Context(), c.Param("id"), req.ServiceID)
	if err != nil {
		httperr.FromError(c, err, "failed_to_quote")
		return
	}
	httpresp.OK(c, q)
}

func (h *PublicHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	res, err := h.book.Execute(c.Request.Context(), booking.BookInput{
		BusinessID: c.Param("id"),
		ServiceID:  req.ServiceID,
		Date:       req.Date,
		Hour:       *req.Hour,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_book")
		return
	}

	httpresp.Created(c, res)
}
