package http

import (
	"net/http"

	"clinic-booking/internal/delivery/http/handler"
	"clinic-booking/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	authHandler        *handler.AuthHandler
	patientHandler     *handler.PatientHandler
	doctorHandler      *handler.DoctorHandler
	appointmentHandler *handler.AppointmentHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
	securityMiddleware *middleware.SecurityHeadersMiddleware
	rateLimiter        *middleware.RateLimitMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	patientHandler *handler.PatientHandler,
	doctorHandler *handler.DoctorHandler,
	appointmentHandler *handler.AppointmentHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	securityMiddleware *middleware.SecurityHeadersMiddleware,
	rateLimiter *middleware.RateLimitMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		authHandler:        authHandler,
		patientHandler:     patientHandler,
		doctorHandler:      doctorHandler,
		appointmentHandler: appointmentHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
		securityMiddleware: securityMiddleware,
		rateLimiter:        rateLimiter,
	}
}

func (r *Router) Setup() *mux.Router {
	api := r.router.PathPrefix("/api").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)

	// Patient profile
	patients := api.PathPrefix("/patients").Subrouter()
	patients.Use(r.authMiddleware.Authenticate)
	patients.HandleFunc("/me", r.patientHandler.Me).Methods(http.MethodGet)

	// Doctor browsing (public)
	api.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id:[0-9]+}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)

	// Doctor management (admin only)
	admin := api.PathPrefix("/doctors").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)

	// Availability management (owning doctor or admin)
	availability := api.PathPrefix("/doctors").Subrouter()
	availability.Use(r.authMiddleware.Authenticate)
	availability.Use(middleware.RequireDoctor)
	availability.Use(middleware.RequireDoctorOwnership)
	availability.HandleFunc("/{id:[0-9]+}/availability", r.doctorHandler.UpdateAvailability).Methods(http.MethodPut)

	// Appointments (patients)
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.Use(middleware.RequirePatient)
	appointments.HandleFunc("", r.appointmentHandler.BookAppointment).Methods(http.MethodPost)
	appointments.HandleFunc("", r.appointmentHandler.GetMyAppointments).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}", r.appointmentHandler.CancelAppointment).Methods(http.MethodDelete)

	r.router.Use(r.securityMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)
	r.router.Use(r.rateLimiter.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
