package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/residate/internal/domain/business"
	domain "github.com/BruksfildServices01/residate/internal/domain/slot"
	"github.com/BruksfildServices01/residate/internal/export"
	"github.com/BruksfildServices01/residate/internal/httperr"
	"github.com/BruksfildServices01/residate/internal/settings"
	ucBusiness "github.com/BruksfildServices01/residate/internal/usecase/business"
)

type ExportHandler struct {
	businesses business.Repository
	directory  *ucBusiness.Directory
	slots      domain.Repository
	settings   *settings.Store
	archiver   export.Archiver
	loc        *time.Location
	now        func() time.Time
}

func NewExportHandler(
	businesses business.Repository,
	directory *ucBusiness.Directory,
	slots domain.Repository,
	store *settings.Store,
	archiver export.Archiver,
	loc *time.Location,
) *ExportHandler {
	if archiver == nil {
		archiver = export.NoopArchiver{}
	}
	return &ExportHandler{
		businesses: businesses,
		directory:  directory,
		slots:      slots,
		settings:   store,
		archiver:   archiver,
		loc:        loc,
		now:        time.Now,
	}
}

func (h *ExportHandler) ICS(c *gin.Context) {
	ctx := c.Request.Context()
	id := currentBusinessID(c)

	b, err := h.businesses.Get(ctx, id)
	if err != nil {
		httperr.Internal(c, "failed_to_get_business", "Could not load the business.")
		return
	}
	if b == nil {
		httperr.NotFound(c, "business_not_found", "Business not found.")
		return
	}

	slots, err := h.slots.ListForBusiness(ctx, id)
	if err != nil {
		httperr.Internal(c, "failed_to_list_slots", "Could not load slots.")
		return
	}

	now := h.now()
	body, err := export.ICS(b.Public(), slots, h.loc, now)
	if err != nil {
		httperr.Internal(c, "failed_to_export", "Could not build the calendar.")
		return
	}

	h.send(c, id, "ics", calendarContentType, []byte(body), now)
}

func (h *ExportHandler) JSON(c *gin.Context) {
	ctx := c.Request.Context()
	id := currentBusinessID(c)

	s, err := h.settings.Get(ctx, id)
	if err != nil {
		httperr.Internal(c, "failed_to_get_settings", "Could not load settings.")
		return
	}

	slots, err := h.slots.ListForBusiness(ctx, id)
	if err != nil {
		httperr.Internal(c, "failed_to_list_slots", "Could not load slots.")
		return
	}

	businesses, err := h.directory.List(ctx)
	if err != nil {
		httperr.Internal(c, "failed_to_list_businesses", "Could not load businesses.")
		return
	}

	now := h.now()
	body, err := export.JSON(s, slots, businesses, now)
	if err != nil {
		httperr.Internal(c, "failed_to_export", "Could not build the export.")
		return
	}

	h.send(c, id, "json", "application/json; charset=utf-8", body, now)
}

// send archives the export and writes it as an attachment. Archive
// failures are logged; the download still succeeds.
func (h *ExportHandler) send(c *gin.Context, businessID, ext, contentType string, body []byte, now time.Time) {
	if key, err := h.archiver.Archive(c.Request.Context(), businessID, ext, contentType, body, now); err != nil {
		slog.Warn("export archive failed", "business_id", businessID, "ext", ext, "err", err)
	} else if key != "" {
		c.Header("X-Archive-Key", key)
	}

	filename := fmt.Sprintf("residate-%s-%s.%s", businessID, domain.DayKey(now), ext)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(200, contentType, body)
}
