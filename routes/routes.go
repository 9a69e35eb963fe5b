package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"droply/handlers"
	"droply/middleware"
)

// RegisterUserRoutes registers account endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.POST("/register", hb.RegisterUserHandler)
		api.POST("/login", hb.AuthenticateUserHandler)
		api.GET("/id/:id", hb.GetUserByIDHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthMiddleware())
		api.PUT("/fcm-token", hb.SetFCMTokenHandler)
	}
}

// RegisterScheduleRoutes registers availability and slot endpoints.
func RegisterScheduleRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/schedule")
	{
		// Public discovery endpoints.
		api.GET("/:providerID/availability", hb.GetAvailabilityHandler)
		api.GET("/:providerID/open", hb.OpenIntervalsHandler)
		api.GET("/:providerID/slots", hb.ListSlotsHandler)
		api.GET("/:providerID/calendar.ics", hb.ExportCalendarHandler)

		// Provider-owned schedule management.
		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.PUT("/availability", hb.SetAvailabilityHandler)
		protected.POST("/exceptions", hb.AddExceptionHandler)
		protected.GET("/exceptions", hb.ListExceptionsHandler)
		protected.DELETE("/exceptions/:id", hb.RemoveExceptionHandler)
		protected.POST("/slots", hb.CreateSlotHandler)
		protected.DELETE("/slots/:id", hb.DeleteSlotHandler)
		protected.POST("/slots/materialize", hb.MaterializeSlotsHandler)
	}
}

// RegisterBookingRoutes sets up the reservation lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Stripe calls this unauthenticated; the payload signature is verified
	// inside the handler.
	r.POST("/api/payments/webhook", hb.StripeWebhookHandler)

	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/reserve/:slotID", hb.ReserveSlotHandler)
		api.GET("", hb.ListBookingsHandler)
		api.GET("/:id", hb.GetBookingHandler)
		api.DELETE("/:id", hb.CancelBookingHandler)

		api.GET("/:id/meeting", hb.MeetingAccessHandler)
		api.POST("/:id/meeting/join", hb.JoinMeetingHandler)
		api.POST("/:id/meeting/end", hb.EndMeetingHandler)
	}
}

// RegisterProcurementRoutes sets up the agent-assisted purchasing endpoints.
func RegisterProcurementRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/procurement")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/rfqs", hb.SubmitRFQHandler)
		api.GET("/rfqs/:id", hb.GetRFQHandler)
		api.POST("/rfqs/:id/quotes", hb.RecordQuoteHandler)
		api.POST("/orders", hb.CreateOrderHandler)
		api.POST("/orders/:id/check-delay", hb.CheckOrderDelayHandler)
		api.PUT("/suppliers", hb.UpsertSupplierHandler)
		api.POST("/suppliers/:id/review", hb.ReviewSupplierHandler)
		api.POST("/contracts", hb.CreateContractHandler)
		api.POST("/contracts/scan", hb.ScanContractsHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Droply"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterUserRoutes(r, hb)
	RegisterScheduleRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterProcurementRoutes(r, hb)
}
