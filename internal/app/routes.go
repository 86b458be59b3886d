package app

import (
	"github.com/barkeep/barkeep/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Calendar view
	r.HandleFunc("/api/calendar/view", deps.CalendarHandler.GetView).Queries("from", "{from}", "to", "{to}").Methods("GET")
	r.HandleFunc("/api/calendar/hours", deps.CalendarHandler.GetVisibleHours).Methods("GET")

	// Events
	r.HandleFunc("/api/calendar/event", deps.CalendarHandler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/calendar/event/{eventId}", deps.CalendarHandler.UpdateEvent).Methods("PUT")
	r.HandleFunc("/api/calendar/event/{eventId}", deps.CalendarHandler.DeleteEvent).Methods("DELETE")
	r.HandleFunc("/api/calendar/event/{eventId}/schedule", deps.CalendarHandler.RescheduleEvent).Methods("PATCH")

	// Specials
	r.HandleFunc("/api/calendar/special", deps.CalendarHandler.CreateSpecial).Methods("POST")
	r.HandleFunc("/api/calendar/special/{specialId}", deps.CalendarHandler.UpdateSpecial).Methods("PUT")
	r.HandleFunc("/api/calendar/special/{specialId}", deps.CalendarHandler.DeleteSpecial).Methods("DELETE")

	// Announcements
	r.HandleFunc("/api/calendar/announcement", deps.CalendarHandler.CreateAnnouncement).Methods("POST")
	r.HandleFunc("/api/calendar/announcement/{announcementId}", deps.CalendarHandler.UpdateAnnouncement).Methods("PUT")
	r.HandleFunc("/api/calendar/announcement/{announcementId}", deps.CalendarHandler.DeleteAnnouncement).Methods("DELETE")

	// Display settings
	r.HandleFunc("/api/settings/visible-hours", deps.SettingsHandler.GetVisibleHours).Methods("GET")
	r.HandleFunc("/api/settings/visible-hours", deps.SettingsHandler.SetVisibleHours).Methods("PUT")
	r.HandleFunc("/api/settings/business-hours", deps.SettingsHandler.GetBusinessHours).Methods("GET")
	r.HandleFunc("/api/settings/business-hours", deps.SettingsHandler.SetBusinessHours).Methods("PUT")

	// Staff
	r.HandleFunc("/api/staff", deps.StaffHandler.GetMembers).Methods("GET")
	r.HandleFunc("/api/staff", deps.StaffHandler.CreateMember).Methods("POST")
	r.HandleFunc("/api/staff/{staffId}", deps.StaffHandler.UpdateMember).Methods("PUT")
	r.HandleFunc("/api/staff/{staffId}", deps.StaffHandler.DeleteMember).Methods("DELETE")

	// Shifts
	r.HandleFunc("/api/shift", deps.StaffHandler.GetShifts).Queries("from", "{from}", "to", "{to}").Methods("GET")
	r.HandleFunc("/api/shift", deps.StaffHandler.ScheduleShift).Methods("POST")
	r.HandleFunc("/api/shift/{shiftId}", deps.StaffHandler.UpdateShift).Methods("PUT")
	r.HandleFunc("/api/shift/{shiftId}", deps.StaffHandler.DeleteShift).Methods("DELETE")

	// Payroll
	r.HandleFunc("/api/payroll", deps.PayrollHandler.GetPeriodSummaries).Queries("from", "{from}", "to", "{to}").Methods("GET")

	// Purchase orders
	r.HandleFunc("/api/purchase-order", deps.PurchaseHandler.GetOrders).Methods("GET")
	r.HandleFunc("/api/purchase-order", deps.PurchaseHandler.CreateOrder).Methods("POST")
	r.HandleFunc("/api/purchase-order/{orderId}", deps.PurchaseHandler.GetOrder).Methods("GET")
	r.HandleFunc("/api/purchase-order/{orderId}", deps.PurchaseHandler.UpdateOrder).Methods("PUT")
	r.HandleFunc("/api/purchase-order/{orderId}/status", deps.PurchaseHandler.TransitionOrder).Methods("PATCH")
	r.HandleFunc("/api/purchase-order/{orderId}", deps.PurchaseHandler.DeleteOrder).Methods("DELETE")
}
