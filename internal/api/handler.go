package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"mesas/m/domain"
	"mesas/m/internal/alerts"
	"mesas/m/internal/config"
	"mesas/m/internal/inventory"
	"mesas/m/internal/reports"
	"mesas/m/internal/stats"
	"mesas/m/internal/store"
)

type ctxKey string

const (
	ctxUserID ctxKey = "userID"
	ctxRole   ctxKey = "role"
)

// Dependencies are the collaborators a Handler serves requests with.
type Dependencies struct {
	Users       store.UserStore
	Inventory   *inventory.Manager
	Reports     *reports.Engine
	Stats       *stats.Service
	Clock       alerts.Clock
	Logger      *logrus.Logger
	Secret      string
	CORSOrigins []string
}

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	users       store.UserStore
	inventory   *inventory.Manager
	reports     *reports.Engine
	stats       *stats.Service
	clock       alerts.Clock
	logger      *logrus.Logger
	secret      string
	corsOrigins []string
}

// New constructs a Handler.
func New(deps Dependencies) *Handler {
	clock := deps.Clock
	if clock == nil {
		clock = alerts.SystemClock
	}
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &Handler{
		users:       deps.Users,
		inventory:   deps.Inventory,
		reports:     deps.Reports,
		stats:       deps.Stats,
		clock:       clock,
		logger:      logger,
		secret:      deps.Secret,
		corsOrigins: origins,
	}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: h.logger, NoColor: true}))
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Group(func(protected chi.Router) {
			protected.Use(h.authMiddleware)
			protected.Post("/reset-password", h.resetPassword)
		})
	})

	r.Group(func(pr chi.Router) {
		pr.Use(h.authMiddleware)

		pr.Route("/medicines", func(r chi.Router) {
			r.Get("/", h.listMedicines)
			r.Post("/", h.addMedicine)
			r.Get("/search", h.searchMedicines)
			r.Get("/{id}", h.getMedicine)
			r.Put("/{id}/stock", h.updateStock)
			r.Put("/{id}/expiry", h.updateExpiry)
			r.Delete("/{id}", h.deleteMedicine)
		})

		pr.Get("/alerts", h.listAlerts)

		pr.Route("/reports", func(r chi.Router) {
			r.Get("/", h.reportHistory)
			r.Post("/inventory", h.inventoryReport)
			r.Post("/expiry", h.expiryReport)
			r.Post("/stock", h.stockReport)
		})

		pr.Route("/admin", func(r chi.Router) {
			r.Get("/users", h.listUsers)
			r.Get("/stats", h.systemStats)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Helpers

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError turns an error from the core into a one-line failure.
// Data integrity and unexpected errors are logged; they never take the
// process down.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicate):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrDataIntegrity):
		config.LogError(h.logger, "api", funcName, r.URL.Path, nil, err)
		respondError(w, http.StatusInternalServerError, err.Error())
	default:
		config.LogError(h.logger, "api", funcName, r.URL.Path, nil, err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
