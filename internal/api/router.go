// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fluecraft/fluecraft/internal/assets"
	"github.com/fluecraft/fluecraft/internal/config"
	"github.com/fluecraft/fluecraft/internal/middleware"
)

// Router assembles the complete HTTP surface.
type Router struct {
	cfg     *config.Config
	handler *Handler
	mw      *ChiMiddleware
}

// NewRouter creates the router from the shared handler.
func NewRouter(cfg *config.Config, handler *Handler) *Router {
	return &Router{
		cfg:     cfg,
		handler: handler,
		mw:      NewChiMiddleware(cfg),
	}
}

// Setup builds the chi mux.
//
// Layout:
//
//	/media/*           asset streaming, plain-text 404 (legacy frontend contract)
//	/api/v1/media/*    asset streaming, JSON envelope 404
//	/health*           liveness and readiness probes
//	/metrics           Prometheus exposition
//	/api/v1/*          the JSON catalog API
func (rt *Router) Setup() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	// Media routes skip the API CORS middleware: the assets handler
	// implements its own media CORS policy, including OPTIONS.
	r.Group(func(r chi.Router) {
		r.Use(rt.mw.RateLimitMedia())
		r.Handle("/media/*", rt.mediaHandler(assets.NotFoundPlain))
		r.Handle("/api/v1/media/*", rt.mediaHandler(assets.NotFoundJSON))
	})

	r.Group(func(r chi.Router) {
		r.Use(rt.mw.RateLimitMedia())
		r.Get("/health", rt.handler.Health)
		r.Get("/health/live", rt.handler.HealthLive)
		r.Get("/health/ready", rt.handler.HealthReady)
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.mw.CORS())
		r.Use(middleware.PrometheusMetrics)

		// Credential endpoints, tightly rate limited.
		r.Group(func(r chi.Router) {
			r.Use(rt.mw.RateLimitLogin())
			r.Post("/auth/login", rt.handler.Login)
		})
		r.Group(func(r chi.Router) {
			r.Use(rt.mw.RateLimitAuth())
			r.Post("/auth/register", rt.handler.Register)
		})

		// Public catalog endpoints. Authentication is optional here: uploads
		// record the creator when a token is presented.
		r.Group(func(r chi.Router) {
			r.Use(rt.mw.RateLimit())
			r.Use(rt.handler.OptionalAuthenticate)

			r.Get("/categories", rt.handler.ListCategories)
			r.Get("/categories/{id}", rt.handler.GetCategory)
			r.Get("/designs", rt.handler.ListDesigns)
			r.Get("/designs/{id}", rt.handler.GetDesign)
			r.Get("/designs/{id}/files", rt.handler.ListDesignFiles)

			r.Get("/model-types", rt.handler.ListModelTypes)
			r.Get("/models", rt.handler.GetModelByType)
			r.Get("/models/all", rt.handler.ListAllModels)
			r.Post("/convert/dwg", rt.handler.ConvertGLBToDWG)

			r.Post("/upload/glb", rt.handler.UploadGLB)
			r.Post("/upload/image", rt.handler.UploadImage)
			r.Post("/upload/model", rt.handler.Upload3DObject)

			r.Post("/contact", rt.handler.SubmitContactMessage)
		})

		// Authenticated endpoints.
		r.Group(func(r chi.Router) {
			r.Use(rt.mw.RateLimit())
			r.Use(rt.handler.Authenticate)

			r.Post("/auth/logout", rt.handler.Logout)
			r.Get("/auth/profile", rt.handler.Profile)
			r.Put("/auth/profile", rt.handler.UpdateProfile)
			r.Get("/stats", rt.handler.Stats)

			r.Get("/projects", rt.handler.ListProjects)
			r.Post("/projects", rt.handler.CreateProject)
			r.Get("/projects/{id}", rt.handler.GetProject)
			r.Put("/projects/{id}", rt.handler.UpdateProject)
			r.Delete("/projects/{id}", rt.handler.DeleteProject)

			r.Get("/orders", rt.handler.ListOrders)
			r.Post("/orders", rt.handler.CreateOrder)
			r.Get("/orders/{id}", rt.handler.GetOrder)
			r.Put("/orders/{id}/status", rt.handler.UpdateOrderStatus)
			r.Delete("/orders/{id}", rt.handler.DeleteOrder)

			r.Delete("/models", rt.handler.DeleteModelByType)
		})

		// Staff endpoints.
		r.Group(func(r chi.Router) {
			r.Use(rt.mw.RateLimit())
			r.Use(rt.handler.Authenticate)
			r.Use(rt.handler.RequireStaff)

			r.Post("/categories", rt.handler.CreateCategory)
			r.Put("/categories/{id}", rt.handler.UpdateCategory)
			r.Delete("/categories/{id}", rt.handler.DeleteCategory)

			r.Post("/designs", rt.handler.CreateDesign)
			r.Put("/designs/{id}", rt.handler.UpdateDesign)
			r.Delete("/designs/{id}", rt.handler.DeleteDesign)

			r.Get("/contact-messages", rt.handler.ListContactMessages)
			r.Put("/contact-messages/{id}/read", rt.handler.MarkContactMessageRead)
			r.Delete("/contact-messages/{id}", rt.handler.DeleteContactMessage)
		})
	})

	return r
}

// mediaHandler adapts the assets handler to a chi wildcard route.
func (rt *Router) mediaHandler(format assets.NotFoundFormat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rt.handler.assets.ServeFile(w, r, chi.URLParam(r, "*"), format)
	}
}
