package router

import (
	"net/http"

	"filippo.io/csrf"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"orgadmin/internal/controller"
	"orgadmin/internal/logger"
	"orgadmin/internal/views"
)

// NewRouter serves the JSON API with CORS and the HTML pages behind
// cross-origin request protection.
func NewRouter(c *controller.Controller, corsOrigins []string, log zerolog.Logger) http.Handler {
	api := http.NewServeMux()

	api.HandleFunc("GET /api/ping", c.Ping)
	api.HandleFunc("GET /api/organizations", c.GetOrganizations)
	api.HandleFunc("POST /api/organizations", c.NewOrganization)
	api.HandleFunc("GET /api/organizations/export.xlsx", c.ExportOrganizations)
	api.HandleFunc("GET /api/organizations/{organizationId}", c.GetOrganization)
	api.HandleFunc("GET /api/organizations/{organizationId}/users", c.GetOrganizationUsers)
	api.HandleFunc("POST /api/organizations/{organizationId}/users", c.NewOrganizationUser)
	api.HandleFunc("/api/", c.APINotFound)

	pages := http.NewServeMux()

	pages.HandleFunc("GET /{$}", c.OrganizationsPage)
	pages.HandleFunc("GET /organizations", c.OrganizationsPage)
	pages.HandleFunc("POST /organizations", c.CreateOrganization)
	pages.HandleFunc("GET /organizations/{organizationId}", c.OrganizationPage)
	pages.HandleFunc("POST /organizations/{organizationId}/users", c.CreateOrganizationUser)
	pages.Handle("GET /static/", views.StaticHandler())
	pages.HandleFunc("/", c.NotFound)

	mux := http.NewServeMux()
	mux.Handle("/api/", withCORS(corsOrigins, api))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/", csrf.New().Handler(pages))

	return logger.Requests(log)(mux)
}

func withCORS(allowedOrigins []string, h http.Handler) http.Handler {
	middleware := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return middleware.Handler(h)
}
