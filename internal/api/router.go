package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Stevekk11/Evidence-psich-spolku/internal/models"
)

// Routes constructs the chi router containing all API endpoints.
func (a *API) Routes() (http.Handler, error) {
	if a == nil {
		return nil, errors.New("nil api")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	allowed := a.config.AllowedOrigins
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           int((10 * time.Minute).Seconds()),
	}))
	r.Use(httprate.Limit(100, time.Minute))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", a.handleReady)
	r.Method("GET", "/metrics", promhttp.Handler())

	read := a.requireRoles(models.RoleAdmin, models.RoleChairman, models.RolePublic, models.RoleReadOnly)
	write := a.requireRoles(models.RoleAdmin, models.RoleChairman)
	review := a.requireRoles(models.RoleAdmin, models.RoleChairman, models.RoleReadOnly)

	r.Route("/api", func(r chi.Router) {
		r.Use(a.authenticate)

		r.Route("/clubs", func(r chi.Router) {
			r.With(read).Get("/", a.handleListClubs)
			r.With(write).Post("/", a.handleCreateClub)

			r.Route("/{id}", func(r chi.Router) {
				r.With(read).Get("/", a.handleGetClub)
				r.With(write).Put("/", a.handleUpdateClub)
				r.With(write).Post("/change-request", a.handleChangeRequest)
				r.With(write).Post("/statutes", a.handleUpdateStatutes)
				r.With(read).Get("/statutes", a.handleGetStatutes)
				r.With(review).Get("/export", a.handleExportClub)
			})
		})

		r.With(review).Get("/audit/statutes", a.handleListAudit)

		r.Route("/dogs", func(r chi.Router) {
			r.With(read).Get("/", a.handleListDogs)
			r.With(write).Post("/", a.handleCreateDog)
			r.With(read).Get("/{id}", a.handleGetDog)
			r.With(write).Put("/{id}", a.handleUpdateDog)
			r.With(write).Delete("/{id}", a.handleDeleteDog)
		})

		r.Route("/exhibitions", func(r chi.Router) {
			r.With(read).Get("/", a.handleListExhibitions)
			r.With(write).Post("/", a.handleCreateExhibition)
			r.With(read).Get("/{id}", a.handleGetExhibition)
			r.With(write).Put("/{id}", a.handleUpdateExhibition)
			r.With(write).Delete("/{id}", a.handleDeleteExhibition)
			r.With(read).Get("/{id}/results", a.handleListResults)
			r.With(write).Post("/{id}/results", a.handleCreateResult)
		})
	})

	return r, nil
}

func (a *API) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	if err := a.store.DB.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, errors.New("database unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
