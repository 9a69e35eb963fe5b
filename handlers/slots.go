package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"droply/models"
	scheduleSvc "droply/services/schedule"
	"droply/utils"
)

// CreateSlotHandler publishes a provider-authored bookable slot.
func (hb *HandlerBundle) CreateSlotHandler(c *gin.Context) {
	var req models.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	slot, err := hb.Schedule.CreateSlot(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		if errors.Is(err, scheduleSvc.ErrInvalidInterval) {
			utils.JSONError(c, http.StatusUnprocessableEntity, "invalid slot interval", err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to create slot", err.Error())
		return
	}
	c.JSON(http.StatusCreated, slot)
}

// DeleteSlotHandler removes one of the caller's slots.
func (hb *HandlerBundle) DeleteSlotHandler(c *gin.Context) {
	if err := hb.Schedule.DeleteSlot(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		utils.JSONError(c, http.StatusNotFound, "slot not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListSlotsHandler returns a provider's slots in a window.
func (hb *HandlerBundle) ListSlotsHandler(c *gin.Context) {
	from, to, err := windowQuery(c)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid time range", err.Error())
		return
	}

	slots, err := hb.Schedule.ListSlots(c.Request.Context(), c.Param("providerID"), from, to)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load slots", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// MaterializeSlotsHandler persists the caller's rule-derived windows as
// reservable slots.
func (hb *HandlerBundle) MaterializeSlotsHandler(c *gin.Context) {
	from, to, err := windowQuery(c)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid time range", err.Error())
		return
	}

	slots, err := hb.Schedule.MaterializeSlots(c.Request.Context(), currentUserID(c), from, to)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to materialize slots", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"slots": slots})
}

// ExportCalendarHandler renders a provider's slots as an iCalendar feed.
func (hb *HandlerBundle) ExportCalendarHandler(c *gin.Context) {
	providerID := c.Param("providerID")
	from, to, err := windowQuery(c)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid time range", err.Error())
		return
	}

	owner, err := hb.Users.GetByID(c.Request.Context(), providerID)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "provider not found", err.Error())
		return
	}
	slots, err := hb.Schedule.ListSlots(c.Request.Context(), providerID, from, to)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load slots", err.Error())
		return
	}

	c.Header("Content-Disposition", `attachment; filename="schedule.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(utils.GenerateICal(slots, *owner)))
}
