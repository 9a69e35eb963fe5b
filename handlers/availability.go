package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"droply/models"
	scheduleSvc "droply/services/schedule"
	"droply/utils"
)

// windowQuery parses the from/to RFC 3339 query range, defaulting to the
// next 14 days.
func windowQuery(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from, to := now, now.AddDate(0, 0, 14)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed.UTC()
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed.UTC()
	}
	return from, to, nil
}

// SetAvailabilityHandler replaces the caller's weekly rules wholesale.
func (hb *HandlerBundle) SetAvailabilityHandler(c *gin.Context) {
	var req models.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	providerID := currentUserID(c)
	if err := hb.Schedule.SetRules(c.Request.Context(), providerID, req.Rules); err != nil {
		if errors.Is(err, scheduleSvc.ErrInvalidInterval) {
			utils.JSONError(c, http.StatusUnprocessableEntity, "invalid availability rule", err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to save availability", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetAvailabilityHandler returns a provider's weekly rules.
func (hb *HandlerBundle) GetAvailabilityHandler(c *gin.Context) {
	rules, err := hb.Schedule.GetRules(c.Request.Context(), c.Param("providerID"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load availability", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

// AddExceptionHandler blacks out an interval for the caller.
func (hb *HandlerBundle) AddExceptionHandler(c *gin.Context) {
	var exc models.AvailabilityException
	if err := c.ShouldBindJSON(&exc); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	exc.ProviderID = currentUserID(c)
	if err := hb.Schedule.AddException(c.Request.Context(), &exc); err != nil {
		if errors.Is(err, scheduleSvc.ErrInvalidInterval) {
			utils.JSONError(c, http.StatusUnprocessableEntity, "invalid exception interval", err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to save exception", err.Error())
		return
	}
	c.JSON(http.StatusCreated, exc)
}

// RemoveExceptionHandler deletes one of the caller's exceptions.
func (hb *HandlerBundle) RemoveExceptionHandler(c *gin.Context) {
	if err := hb.Schedule.RemoveException(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		utils.JSONError(c, http.StatusNotFound, "exception not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListExceptionsHandler returns the caller's exceptions in a window.
func (hb *HandlerBundle) ListExceptionsHandler(c *gin.Context) {
	from, to, err := windowQuery(c)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid time range", err.Error())
		return
	}

	excs, err := hb.Schedule.ListExceptions(c.Request.Context(), currentUserID(c), from, to)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load exceptions", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"exceptions": excs})
}

// OpenIntervalsHandler derives a provider's bookable windows.
func (hb *HandlerBundle) OpenIntervalsHandler(c *gin.Context) {
	from, to, err := windowQuery(c)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid time range", err.Error())
		return
	}

	intervals, err := hb.Schedule.OpenIntervals(c.Request.Context(), c.Param("providerID"), from, to)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to derive open intervals", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"intervals": intervals})
}
