package http

import (
	"net/http"

	"patient-portal/internal/delivery/http/handler"
	"patient-portal/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	registrationHandler *handler.RegistrationHandler
	appointmentHandler  *handler.AppointmentHandler
	doctorHandler       *handler.DoctorHandler
	faqHandler          *handler.FAQHandler
	clinicHandler       *handler.ClinicHandler
	khanzaHandler       *handler.KhanzaHandler
	auditLogHandler     *handler.AuditLogHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
}

func NewRouter(
	registrationHandler *handler.RegistrationHandler,
	appointmentHandler *handler.AppointmentHandler,
	doctorHandler *handler.DoctorHandler,
	faqHandler *handler.FAQHandler,
	clinicHandler *handler.ClinicHandler,
	khanzaHandler *handler.KhanzaHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		registrationHandler: registrationHandler,
		appointmentHandler:  appointmentHandler,
		doctorHandler:       doctorHandler,
		faqHandler:          faqHandler,
		clinicHandler:       clinicHandler,
		khanzaHandler:       khanzaHandler,
		auditLogHandler:     auditLogHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// Registration keeps its unversioned path; the portal frontend posts here
	r.router.HandleFunc("/api/registration", r.registrationHandler.Register).Methods(http.MethodPost, http.MethodOptions)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Public portal routes
	api.HandleFunc("/registration", r.registrationHandler.Register).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/clinics", r.clinicHandler.GetAll).Methods(http.MethodGet)
	api.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{slug}", r.doctorHandler.GetDoctorBySlug).Methods(http.MethodGet)
	api.HandleFunc("/faqs", r.faqHandler.GetPublished).Methods(http.MethodGet)

	// Staff routes (protected - admin or front desk)
	staff := api.PathPrefix("/admin").Subrouter()
	staff.Use(r.authMiddleware.Authenticate)
	staff.Use(middleware.RequireStaff)

	// Appointment management
	staff.HandleFunc("/appointments", r.appointmentHandler.GetAll).Methods(http.MethodGet)
	staff.HandleFunc("/appointments/{id}", r.appointmentHandler.GetByID).Methods(http.MethodGet)
	staff.HandleFunc("/appointments/{id}/status", r.appointmentHandler.UpdateStatus).Methods(http.MethodPatch, http.MethodPut)
	staff.HandleFunc("/patients/{nik}/appointments", r.appointmentHandler.GetByPatientNIK).Methods(http.MethodGet)

	// Khanza read bridge
	staff.HandleFunc("/khanza/schedules", r.khanzaHandler.GetDoctorSchedules).Methods(http.MethodGet)
	staff.HandleFunc("/khanza/patients/{mrn}", r.khanzaHandler.GetPatient).Methods(http.MethodGet)
	staff.HandleFunc("/khanza/patients/{mrn}/visits", r.khanzaHandler.GetPatientVisits).Methods(http.MethodGet)
	staff.HandleFunc("/khanza/visits/summary", r.khanzaHandler.GetVisitSummary).Methods(http.MethodGet)
	staff.HandleFunc("/khanza/inventory", r.khanzaHandler.GetInventory).Methods(http.MethodGet)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	// Doctor management (admin)
	admin.HandleFunc("/doctors", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.UpdateDoctor).Methods(http.MethodPut)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.DeleteDoctor).Methods(http.MethodDelete)

	// FAQ management (admin)
	admin.HandleFunc("/faqs", r.faqHandler.Create).Methods(http.MethodPost)
	admin.HandleFunc("/faqs", r.faqHandler.GetAll).Methods(http.MethodGet)
	admin.HandleFunc("/faqs/{id}", r.faqHandler.GetByID).Methods(http.MethodGet)
	admin.HandleFunc("/faqs/{id}", r.faqHandler.Update).Methods(http.MethodPut)
	admin.HandleFunc("/faqs/{id}", r.faqHandler.Delete).Methods(http.MethodDelete)

	// Audit trail (admin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Preflight requests match no method-restricted route; give them one so
	// the CORS middleware sees them
	r.router.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
