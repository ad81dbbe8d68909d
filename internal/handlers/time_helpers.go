package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/residate/internal/domain/slot"
	"github.com/BruksfildServices01/residate/internal/httperr"
	"github.com/BruksfildServices01/residate/internal/timezone"
)

// slotKeyFromPath reads :day and :hour for the authenticated business.
func slotKeyFromPath(c *gin.Context) (domain.Key, error) {
	hour, err := strconv.Atoi(c.Param("hour"))
	if err != nil {
		return domain.Key{}, httperr.ErrBusiness("invalid_hour")
	}

	key := domain.Key{
		BusinessID: currentBusinessID(c),
		Day:        c.Param("day"),
		Hour:       hour,
	}
	if err := key.Validate(); err != nil {
		return domain.Key{}, err
	}
	return key, nil
}

// parseDayParam accepts an empty value as today.
func parseDayParam(raw string, loc *time.Location) (string, error) {
	if raw == "" {
		return timezone.Today(loc), nil
	}
	if _, err := time.ParseInLocation(domain.DayLayout, raw, loc); err != nil {
		return "", httperr.ErrBusiness("invalid_day")
	}
	return raw, nil
}
