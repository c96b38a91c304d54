package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/nats-io/nats.go"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"planivo-backend/internal/audit"
	"planivo-backend/internal/auth"
	"planivo-backend/internal/cache"
	pmw "planivo-backend/internal/middleware"
	"planivo-backend/internal/realtime"
	"planivo-backend/internal/rpc"
	"planivo-backend/internal/services"
	"planivo-backend/internal/storage"
)

type Handler struct {
	store    *storage.Storage
	cache    cache.Client
	validate *validator.Validate
	recorder *audit.Recorder
	hub      *realtime.Hub
	nc       *nats.Conn
	payments *services.PaymentClient
	email    *services.EmailService
	rpc      *rpc.Client
}

func New(store *storage.Storage, cacheClient cache.Client, recorder *audit.Recorder,
	hub *realtime.Hub, nc *nats.Conn, payments *services.PaymentClient,
	email *services.EmailService, rpcClient *rpc.Client) *Handler {
	return &Handler{
		store:    store,
		cache:    cacheClient,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		recorder: recorder,
		hub:      hub,
		nc:       nc,
		payments: payments,
		email:    email,
		rpc:      rpcClient,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router, issuer *auth.TokenIssuer,
	authHandler *auth.Handler, rt *realtime.Handler) {

	r.Get("/healthz", h.Health)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Public, rate-limited.
	r.Group(func(r chi.Router) {
		r.Use(pmw.RateLimitLogin(h.cache))
		r.Post("/v1/auth/login", authHandler.Login)
	})
	r.Post("/v1/auth/logout", authHandler.Logout)

	r.Group(func(r chi.Router) {
		r.Use(pmw.RateLimitPublicSchedule(h.cache))
		r.Get("/v1/public/schedules/{token}", h.GetPublicSchedule)
	})

	r.Group(func(r chi.Router) {
		r.Use(pmw.RateLimitWebhook(h.cache))
		r.Post("/v1/billing/webhook", h.HandleBillingWebhook)
	})

	// Authenticated.
	r.Group(func(r chi.Router) {
		r.Use(issuer.Middleware)

		r.Get("/v1/auth/me", authHandler.Me)
		r.Post("/v1/realtime/credentials", rt.CreateCredentials)
		r.Get("/v1/ws", rt.Stream)

		r.Get("/v1/org", h.GetOrganization)
		r.With(auth.RequireRole(auth.RoleOrganizationAdmin)).
			Put("/v1/org", h.UpdateOrganization)

		r.Route("/v1/workspaces", func(r chi.Router) {
			r.Use(auth.RequireModule(auth.ModuleWorkspaces))
			r.Get("/", h.ListWorkspaces)
			r.Post("/", h.CreateWorkspace)
			r.Get("/{id}", h.GetWorkspace)
			r.Put("/{id}", h.UpdateWorkspace)
			r.Delete("/{id}", h.DeleteWorkspace)
		})

		r.Route("/v1/facilities", func(r chi.Router) {
			r.Use(auth.RequireModule(auth.ModuleFacilities))
			r.Get("/", h.ListFacilities)
			r.Post("/", h.CreateFacility)
			r.Get("/{id}", h.GetFacility)
			r.Put("/{id}", h.UpdateFacility)
			r.Delete("/{id}", h.DeleteFacility)
		})

		r.Route("/v1/departments", func(r chi.Router) {
			r.Use(auth.RequireModule(auth.ModuleFacilities))
			r.Get("/", h.ListDepartments)
			r.Post("/", h.CreateDepartment)
			r.Get("/{id}", h.GetDepartment)
			r.Put("/{id}", h.UpdateDepartment)
			r.Delete("/{id}", h.DeleteDepartment)
		})

		r.Route("/v1/staff", func(r chi.Router) {
			r.Use(auth.RequireModule(auth.ModuleStaff))
			r.Get("/", h.ListStaffMembers)
			r.Post("/", h.CreateStaffMember)
			r.Get("/me", h.GetMyStaffProfile)
			r.Get("/{id}", h.GetStaffMember)
			r.Put("/{id}", h.UpdateStaffMember)
			r.Post("/{id}/terminate", h.TerminateStaffMember)
			r.Get("/{id}/availability", h.GetStaffAvailability)
		})

		r.Route("/v1/schedules", func(r chi.Router) {
			r.Use(auth.RequireModule(auth.ModuleSchedules))
			r.Get("/", h.ListSchedules)
			r.Post("/", h.CreateSchedule)
			r.Get("/{id}", h.GetSchedule)
			r.Delete("/{id}", h.DeleteSchedule)
			r.Post("/{id}/publish", h.PublishSchedule)
			r.Post("/{id}/archive", h.ArchiveSchedule)
			r.Get("/{id}/shifts", h.ListShifts)
			r.Post("/{id}/shifts", h.CreateShift)
			r.Get("/{id}/share-tokens", h.ListShareTokens)
			r.Post("/{id}/share-tokens", h.CreateShareToken)
		})
		r.With(auth.RequireModule(auth.ModuleSchedules)).
			Delete("/v1/shifts/{id}", h.DeleteShift)
		r.With(auth.RequireModule(auth.ModuleSchedules)).
			Delete("/v1/share-tokens/{id}", h.RevokeShareToken)

		r.Route("/v1/vacations", func(r chi.Router) {
			r.Use(auth.RequireModule(auth.ModuleVacations))
			r.Get("/", h.ListVacations)
			r.Post("/", h.CreateVacation)
			r.Get("/{id}", h.GetVacation)
			r.With(auth.RequireRole(auth.RoleDepartmentHead)).
				Post("/{id}/approve", h.ApproveVacation)
			r.With(auth.RequireRole(auth.RoleDepartmentHead)).
				Post("/{id}/reject", h.RejectVacation)
			r.Post("/{id}/cancel", h.CancelVacation)
		})

		r.Route("/v1/tasks", func(r chi.Router) {
			r.Use(auth.RequireModule(auth.ModuleTasks))
			r.Get("/", h.ListTasks)
			r.Post("/", h.CreateTask)
			r.Get("/{id}", h.GetTask)
			r.Patch("/{id}", h.UpdateTask)
			r.Delete("/{id}", h.DeleteTask)
		})

		r.Route("/v1/trainings", func(r chi.Router) {
			r.Use(auth.RequireModule(auth.ModuleTrainings))
			r.Get("/", h.ListTrainingEvents)
			r.Post("/", h.CreateTrainingEvent)
			r.Get("/{id}", h.GetTrainingEvent)
			r.Get("/{id}/attendees", h.ListAttendees)
			r.Post("/{id}/attendees", h.RegisterAttendee)
			r.Delete("/{id}/attendees/{staffID}", h.UnregisterAttendee)
		})

		r.Route("/v1/clinics", func(r chi.Router) {
			r.Use(auth.RequireModule(auth.ModuleClinics))
			r.Get("/", h.ListClinics)
			r.Post("/", h.CreateClinic)
			r.Get("/{id}", h.GetClinic)
			r.Delete("/{id}", h.DeleteClinic)
		})

		r.Route("/v1/conversations", func(r chi.Router) {
			r.Use(auth.RequireModule(auth.ModuleMessages))
			r.Get("/", h.ListConversations)
			r.Post("/", h.CreateConversation)
			r.Get("/unread", h.UnreadCounts)
			r.Get("/{id}/messages", h.ListMessages)
			r.Post("/{id}/messages", h.CreateMessage)
			r.Post("/{id}/read", h.MarkConversationRead)
		})

		r.Route("/v1/billing", func(r chi.Router) {
			r.Use(auth.RequireModule(auth.ModuleBilling))
			r.Get("/subscription", h.GetSubscription)
			r.Get("/invoices", h.ListInvoices)
			r.Post("/checkout", h.CreateCheckoutSession)
		})

		r.With(auth.RequireModule(auth.ModuleAudit)).
			Get("/v1/audit", h.ListAuditLogs)

		r.Route("/v1/admin", func(r chi.Router) {
			r.Use(auth.RequireRole(auth.RoleOrganizationAdmin))
			r.Get("/users", h.ListUsers)
			r.Post("/users", h.CreateUser)
			r.Get("/users/{id}", h.GetUser)
			r.Patch("/users/{id}", h.UpdateUser)
			r.Delete("/users/{id}", h.DeleteUser)
		})
	})
}

// Health reports liveness and DB reachability
// @Summary Health check
// @Tags ops
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {string} string "Database unreachable"
// @Router /healthz [get]
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	if err := h.store.Ping(); err != nil {
		http.Error(w, "Database unreachable", http.StatusServiceUnavailable)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeValid decodes a JSON body into dst and runs struct validation.
func (h *Handler) decodeValid(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body")
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid field %q", verrs[0].Field())
		}
		return err
	}
	return nil
}

// decodeOptional decodes a JSON body into dst, treating an empty body
// as no input.
func decodeOptional(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// storageError maps storage sentinel errors onto HTTP statuses.
func storageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrOrgNotFound),
		errors.Is(err, storage.ErrUserNotFound),
		errors.Is(err, storage.ErrWorkspaceNotFound),
		errors.Is(err, storage.ErrFacilityNotFound),
		errors.Is(err, storage.ErrDepartmentNotFound),
		errors.Is(err, storage.ErrStaffNotFound),
		errors.Is(err, storage.ErrScheduleNotFound),
		errors.Is(err, storage.ErrShiftNotFound),
		errors.Is(err, storage.ErrVacationNotFound),
		errors.Is(err, storage.ErrTaskNotFound),
		errors.Is(err, storage.ErrTrainingNotFound),
		errors.Is(err, storage.ErrClinicNotFound),
		errors.Is(err, storage.ErrConversationNotFound),
		errors.Is(err, storage.ErrSubscriptionNotFound),
		errors.Is(err, storage.ErrShareTokenNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, storage.ErrSlugTaken),
		errors.Is(err, storage.ErrEmailTaken),
		errors.Is(err, storage.ErrBadTransition),
		errors.Is(err, storage.ErrVacationDecided),
		errors.Is(err, storage.ErrScheduleNotPublishable),
		errors.Is(err, storage.ErrTrainingFull),
		errors.Is(err, storage.ErrAlreadyRegistered),
		errors.Is(err, storage.ErrNotRegistered):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, storage.ErrNotParticipant):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, storage.ErrShareTokenRevoked),
		errors.Is(err, storage.ErrShareTokenExpired),
		errors.Is(err, storage.ErrShareTokenUsedUp):
		http.Error(w, err.Error(), http.StatusGone)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// identity pulls the authenticated caller; routes behind the auth
// middleware always have one.
func identity(r *http.Request) auth.Identity {
	id, _ := auth.IdentityFromContext(r.Context())
	return id
}
