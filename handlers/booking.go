package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"

	"droply/models"
	bookingSvc "droply/services/booking"
	"droply/utils"
)

// ReserveSlotHandler claims a slot for the caller. For paid slots the
// response carries the checkout URL the client must complete.
func (hb *HandlerBundle) ReserveSlotHandler(c *gin.Context) {
	var req models.ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	req.ClientID = currentUserID(c)

	result, err := hb.Bookings.Reserve(c.Request.Context(), c.Param("slotID"), req)
	if err != nil {
		switch {
		case errors.Is(err, bookingSvc.ErrSlotNotFound):
			utils.JSONError(c, http.StatusNotFound, "slot not found", err.Error())
		case errors.Is(err, bookingSvc.ErrSlotAlreadyReserved):
			utils.JSONError(c, http.StatusConflict, "slot already reserved", err.Error())
		default:
			utils.JSONError(c, http.StatusInternalServerError, "reservation failed", err.Error())
		}
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetBookingHandler returns one of the caller's bookings.
func (hb *HandlerBundle) GetBookingHandler(c *gin.Context) {
	b, err := hb.Bookings.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, bookingSvc.ErrBookingNotFound) {
			utils.JSONError(c, http.StatusNotFound, "booking not found", err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to load booking", err.Error())
		return
	}
	if uid := currentUserID(c); uid != b.ProviderID && uid != b.ClientID {
		utils.JSONError(c, http.StatusForbidden, "not a participant", "")
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListBookingsHandler returns the caller's bookings on both sides of the
// marketplace.
func (hb *HandlerBundle) ListBookingsHandler(c *gin.Context) {
	asProvider, asClient, err := hb.Bookings.ListForUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load bookings", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"asProvider": asProvider, "asClient": asClient})
}

// CancelBookingHandler cancels before start time and re-opens the slot.
func (hb *HandlerBundle) CancelBookingHandler(c *gin.Context) {
	bookingID := c.Param("id")
	b, err := hb.Bookings.GetByID(c.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, bookingSvc.ErrBookingNotFound) {
			utils.JSONError(c, http.StatusNotFound, "booking not found", err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to load booking", err.Error())
		return
	}
	if uid := currentUserID(c); uid != b.ProviderID && uid != b.ClientID {
		utils.JSONError(c, http.StatusForbidden, "not a participant", "")
		return
	}

	if err := hb.Bookings.Cancel(c.Request.Context(), bookingID); err != nil {
		if errors.Is(err, bookingSvc.ErrInvalidStateTransition) {
			utils.JSONError(c, http.StatusConflict, "cannot cancel booking", err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "cancellation failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// StripeWebhookHandler receives asynchronous payment callbacks. The
// signature is verified before anything is trusted; duplicate deliveries
// are acknowledged without effect.
func (hb *HandlerBundle) StripeWebhookHandler(c *gin.Context) {
	logger := utils.GetLogger()

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 65536))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "failed to read payload", err.Error())
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), hb.StripeWebhookSecret)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "signature verification failed", err.Error())
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "malformed checkout session", err.Error())
			return
		}
		bookingID := session.ClientReferenceID
		if bookingID == "" {
			logger.Warn("checkout session without booking reference", zap.String("sessionId", session.ID))
			break
		}
		if err := hb.Bookings.ConfirmPayment(c.Request.Context(), bookingID); err != nil {
			if errors.Is(err, bookingSvc.ErrBookingNotFound) {
				utils.JSONError(c, http.StatusNotFound, "booking not found", err.Error())
				return
			}
			utils.JSONError(c, http.StatusInternalServerError, "payment confirmation failed", err.Error())
			return
		}
	default:
		logger.Debug("ignoring stripe event", zap.String("type", string(event.Type)))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
