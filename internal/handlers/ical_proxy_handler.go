package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/residate/internal/calsync"
	"github.com/BruksfildServices01/residate/internal/httperr"
	"github.com/BruksfildServices01/residate/internal/logging"
)

const calendarContentType = "text/calendar; charset=utf-8"

// ICalProxyHandler fetches a feed server-side for browsers that cannot
// read it cross-origin.
type ICalProxyHandler struct {
	fetcher calsync.Fetcher
}

func NewICalProxyHandler(fetcher calsync.Fetcher) *ICalProxyHandler {
	return &ICalProxyHandler{fetcher: fetcher}
}

func (h *ICalProxyHandler) Get(c *gin.Context) {
	feedURL := c.Query("url")
	if feedURL == "" {
		httperr.BadRequest(c, "missing_url", "The url parameter is required.")
		return
	}

	body, err := h.fetcher.Fetch(c.Request.Context(), feedURL)
	if err != nil {
		slog.Warn("ical proxy fetch failed", "feed", logging.RedactURL(feedURL), "err", err)
		httperr.Internal(c, "feed_fetch_failed", "Failed to fetch calendar.")
		return
	}

	c.Data(200, calendarContentType, body)
}
