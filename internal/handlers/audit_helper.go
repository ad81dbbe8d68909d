package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/residate/internal/audit"
	"github.com/BruksfildServices01/residate/internal/middleware"
)

const ownerActor = "owner"

func currentBusinessID(c *gin.Context) string {
	return c.GetString(middleware.ContextBusinessID)
}

// writeAudit records owner actions that do not go through a use case.
func writeAudit(
	d *audit.Dispatcher,
	c *gin.Context,
	action string,
	entity string,
	entityID string,
	meta any,
) {
	if d == nil {
		return
	}

	d.Dispatch(audit.Event{
		BusinessID: currentBusinessID(c),
		Actor:      ownerActor,
		Action:     action,
		Entity:     entity,
		EntityID:   entityID,
		Metadata:   meta,
	})
}
