package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func TooManyRequests(c *gin.Context, code, message string) {
	Write(c, http.StatusTooManyRequests, code, message)
}

// messages for the business codes the API can return
var messages = map[string]string{
	"invalid_request":         "Invalid request.",
	"invalid_day":             "Day must be a YYYY-MM-DD date.",
	"invalid_hour":            "Hour must be between 0 and 23.",
	"invalid_status":          "Unknown slot status.",
	"reserved_identity":       "This address is reserved.",
	"email_required":          "Email is required.",
	"invalid_email":           "Invalid email address.",
	"email_taken":             "This email is already associated with a business.",
	"duplicate_business":      "A business with this id already exists.",
	"business_not_found":      "Business not found.",
	"service_not_found":       "Service not found.",
	"slot_unavailable":        "This time is no longer available.",
	"date_in_past":            "Dates before today cannot be booked.",
	"invalid_step":            "This action is not allowed at the current step.",
	"invalid_feed_url":        "Invalid feed URL. Use the secret iCal address.",
	"calendar_not_connected":  "No calendar is connected.",
	"confirmation_mismatch":   "Confirmation does not match.",
	"invalid_credentials":     "Invalid email or password.",
	"name_required":           "Business name is required.",
	"service_not_selected":    "Select a service first.",
	"time_not_selected":       "Select a time first.",
	"outside_operating_hours": "Bookings are taken between 8:00 and 20:00.",
	"missing_url":             "The url parameter is required.",
}

// FromError writes the response for err. Business codes become 400 (404 and
// 409 for the lookup and uniqueness codes); anything else is a 500.
func FromError(c *gin.Context, err error, fallback string) {
	code, ok := Code(err)
	if !ok {
		Internal(c, fallback, "Unexpected error.")
		return
	}

	msg := messages[code]
	if msg == "" {
		msg = code
	}

	switch code {
	case "business_not_found", "service_not_found":
		NotFound(c, code, msg)
	case "email_taken", "duplicate_business", "slot_unavailable":
		Conflict(c, code, msg)
	case "invalid_credentials":
		Unauthorized(c, code, msg)
	case "confirmation_mismatch":
		Forbidden(c, code, msg)
	default:
		BadRequest(c, code, msg)
	}
}
