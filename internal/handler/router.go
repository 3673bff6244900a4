package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pontaj-api/internal/middleware"
)

// Handlers - набор хендлеров API
type Handlers struct {
	Auth     *AuthHandler
	Business *BusinessHandler
	Employee *EmployeeHandler
	Plan     *PlanHandler
	Cell     *CellHandler
}

// Router настраивает маршруты API
type Router struct {
	mux            *chi.Mux
	logger         *slog.Logger
	handlers       Handlers
	tokens         middleware.TokenParser
	allowedOrigins []string
}

// NewRouter создаёт новый роутер
func NewRouter(handlers Handlers, tokens middleware.TokenParser, allowedOrigins []string, logger *slog.Logger) *Router {
	return &Router{
		mux:            chi.NewRouter(),
		logger:         logger,
		handlers:       handlers,
		tokens:         tokens,
		allowedOrigins: allowedOrigins,
	}
}

// Setup настраивает все маршруты
func (r *Router) Setup() http.Handler {
	r.mux.Use(middleware.Recoverer(r.logger))
	r.mux.Use(chimw.RequestID)
	r.mux.Use(middleware.Logger(r.logger))
	r.mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.mux.Use(middleware.ContentType)

	// Health check
	r.mux.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	h := r.handlers
	r.mux.Route("/auth", func(ar chi.Router) {
		ar.Post("/register", h.Auth.Register)
		ar.Post("/login", h.Auth.Login)
	})

	r.mux.Group(func(pr chi.Router) {
		pr.Use(middleware.Auth(r.tokens, r.logger))

		pr.Route("/businesses", func(br chi.Router) {
			br.Get("/", h.Business.List)
			br.Post("/", h.Business.Create)
			br.Put("/{id}", h.Business.Update)
			br.Delete("/{id}", h.Business.Delete)
			br.Get("/{id}/employees", h.Employee.List)
			br.Post("/{id}/employees", h.Employee.Create)
			br.Delete("/{id}/employees/{employeeId}", h.Employee.DeletePermanently)
		})

		pr.Route("/employees", func(er chi.Router) {
			er.Put("/{id}", h.Employee.Update)
			er.Delete("/{id}", h.Employee.Deactivate)
		})

		pr.Route("/month-plans", func(mr chi.Router) {
			mr.Get("/", h.Plan.List)
			mr.Post("/", h.Plan.FetchOrCreate)
			mr.Get("/{id}", h.Plan.Get)
			mr.Put("/{id}", h.Plan.Update)
			mr.Delete("/{id}", h.Plan.Delete)
			mr.Get("/{id}/grid", h.Plan.Grid)
			mr.Put("/{id}/employees/{employeeId}/resignation", h.Plan.SetResignation)
		})

		pr.Post("/cells", h.Cell.Upsert)
	})

	r.mux.NotFound(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	})
	r.mux.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
		w.Write([]byte(`{"error":"method not allowed"}`))
	})

	return r.mux
}
