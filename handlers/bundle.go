// File: droply/handlers/bundle.go
package handlers

import (
	procurementRepo "droply/database/repository/procurement"
	bookingSvc "droply/services/booking"
	meetingSvc "droply/services/meeting"
	procurementSvc "droply/services/procurement"
	scheduleSvc "droply/services/schedule"
	userSvc "droply/services/user"
)

// HandlerBundle groups the endpoint handlers' dependencies in one struct.
type HandlerBundle struct {
	Users           userSvc.UserService
	Schedule        scheduleSvc.ScheduleService
	Bookings        bookingSvc.BookingService
	Meetings        meetingSvc.MeetingService
	Procurement     *procurementSvc.Manager
	ProcurementRepo procurementRepo.Repository

	// StripeWebhookSecret verifies payment callback signatures.
	StripeWebhookSecret string
}
