package main

import (
	"net/http"
	"strings"

	"github.com/rs/cors"

	"github.com/NordCoder/Carelink/internal/obs"
)

// withCORS allows the listed origins; "*" allows any. Bearer tokens travel in
// the Authorization header, so cookies and other credentials are never allowed.
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, o)
		}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:       []string{"Authorization", "Content-Type", obs.RequestIDHeader},
		ExposedHeaders:       []string{obs.RequestIDHeader},
		AllowCredentials:     false,
		OptionsSuccessStatus: http.StatusNoContent,
	})
	return c.Handler
}
