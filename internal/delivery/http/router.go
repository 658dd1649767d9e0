package http

import (
	"net/http"
	"time"

	"doctor-booking/internal/delivery/http/handler"
	"doctor-booking/internal/delivery/http/middleware"
	"doctor-booking/internal/domain/entity"
	"doctor-booking/pkg/response"

	"github.com/go-chi/httprate"
	"github.com/gorilla/mux"
)

type Router struct {
	router                *mux.Router
	doctorHandler         *handler.DoctorHandler
	doctorScheduleHandler *handler.DoctorScheduleHandler
	appointmentHandler    *handler.AppointmentHandler
	walletHandler         *handler.WalletHandler
	auditLogHandler       *handler.AuditLogHandler
	authMiddleware        *middleware.AuthMiddleware
	corsMiddleware        *middleware.CORSMiddleware
	rateLimitPerMinute    int
}

func NewRouter(
	doctorHandler *handler.DoctorHandler,
	doctorScheduleHandler *handler.DoctorScheduleHandler,
	appointmentHandler *handler.AppointmentHandler,
	walletHandler *handler.WalletHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	rateLimitPerMinute int,
) *Router {
	return &Router{
		router:                mux.NewRouter(),
		doctorHandler:         doctorHandler,
		doctorScheduleHandler: doctorScheduleHandler,
		appointmentHandler:    appointmentHandler,
		walletHandler:         walletHandler,
		auditLogHandler:       auditLogHandler,
		authMiddleware:        authMiddleware,
		corsMiddleware:        corsMiddleware,
		rateLimitPerMinute:    rateLimitPerMinute,
	}
}

func (r *Router) Setup() http.Handler {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Public schedule
	api.HandleFunc("/doctors/{doctorId}/schedule", r.doctorScheduleHandler.Render).Methods(http.MethodGet)

	// Schedule owner routes (the doctor or an admin)
	owner := api.PathPrefix("/doctors/{doctorId}").Subrouter()
	owner.Use(r.authMiddleware.Authenticate)
	owner.Use(middleware.RequireRole(entity.RoleIDAdmin, entity.RoleIDDoctor))
	owner.Use(middleware.RequireScheduleOwner)
	owner.HandleFunc("/schedule/{weekday}/slots", r.doctorScheduleHandler.AddSlot).Methods(http.MethodPost)
	owner.HandleFunc("/schedule/{weekday}/slots/{time}", r.doctorScheduleHandler.UpdateSlot).Methods(http.MethodPut)
	owner.HandleFunc("/schedule/{weekday}/slots/{time}", r.doctorScheduleHandler.DeleteSlot).Methods(http.MethodDelete)
	owner.HandleFunc("/appointments", r.appointmentHandler.DoctorAppointments).Methods(http.MethodGet)

	limiter := r.rateLimiter()

	// Booking and payment (patient, rate limited)
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.Use(middleware.RequirePatient)
	appointments.Use(limiter)
	appointments.HandleFunc("", r.appointmentHandler.Book).Methods(http.MethodPost)
	appointments.HandleFunc("/{id}/pay", r.appointmentHandler.Pay).Methods(http.MethodPost)
	appointments.HandleFunc("/{id}/cancel", r.appointmentHandler.Cancel).Methods(http.MethodPost)

	// Patient self-service
	me := api.PathPrefix("/me").Subrouter()
	me.Use(r.authMiddleware.Authenticate)
	me.Use(middleware.RequirePatient)
	me.HandleFunc("/appointments", r.appointmentHandler.MyAppointments).Methods(http.MethodGet)
	me.HandleFunc("/wallet", r.walletHandler.GetBalance).Methods(http.MethodGet)
	me.Handle("/wallet/charge", limiter(http.HandlerFunc(r.walletHandler.Charge))).Methods(http.MethodPost)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/appointments", r.appointmentHandler.ListByStatus).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{id}/complete", r.appointmentHandler.Complete).Methods(http.MethodPost)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}/status", r.doctorHandler.SetStatus).Methods(http.MethodPut)
	admin.HandleFunc("/doctors/{id}/availability", r.doctorHandler.SetAvailability).Methods(http.MethodPut)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.ListAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// CORS wraps the whole router so preflight requests never need a matching route
	return r.corsMiddleware.Handle(r.router)
}

// rateLimiter limits per authenticated user, falling back to the client IP.
func (r *Router) rateLimiter() func(http.Handler) http.Handler {
	return httprate.Limit(
		r.rateLimitPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(func(req *http.Request) (string, error) {
			if userID, ok := middleware.GetUserIDFromContext(req.Context()); ok {
				return "user:" + userID.String(), nil
			}
			return httprate.KeyByIP(req)
		}),
		httprate.WithLimitHandler(response.TooManyRequests),
	)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	response.Success(w, http.StatusOK, "ok", map[string]string{"status": "ok"})
}
