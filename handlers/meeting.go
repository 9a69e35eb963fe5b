package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	bookingSvc "droply/services/booking"
	meetingSvc "droply/services/meeting"
	"droply/utils"
)

// MeetingAccessHandler reports whether the caller may join right now.
func (hb *HandlerBundle) MeetingAccessHandler(c *gin.Context) {
	access, err := hb.Meetings.Access(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		hb.meetingError(c, err)
		return
	}
	c.JSON(http.StatusOK, access)
}

// JoinMeetingHandler admits the caller into the booking's room.
func (hb *HandlerBundle) JoinMeetingHandler(c *gin.Context) {
	result, err := hb.Meetings.Join(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		hb.meetingError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// EndMeetingHandler closes the session and records its duration.
func (hb *HandlerBundle) EndMeetingHandler(c *gin.Context) {
	if err := hb.Meetings.End(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		hb.meetingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ended"})
}

func (hb *HandlerBundle) meetingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, bookingSvc.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, "booking not found", err.Error())
	case errors.Is(err, meetingSvc.ErrNotParticipant):
		utils.JSONError(c, http.StatusForbidden, "not a participant", err.Error())
	case errors.Is(err, meetingSvc.ErrJoinWindowClosed):
		utils.JSONError(c, http.StatusConflict, "meeting not joinable", err.Error())
	case errors.Is(err, bookingSvc.ErrInvalidStateTransition):
		utils.JSONError(c, http.StatusConflict, "meeting not joinable", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "meeting operation failed", err.Error())
	}
}
