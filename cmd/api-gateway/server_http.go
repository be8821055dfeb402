package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	config "github.com/NordCoder/Carelink/internal/config/api-gateway"
	"github.com/NordCoder/Carelink/internal/domain/family"
	"github.com/NordCoder/Carelink/internal/domain/hospital"
	"github.com/NordCoder/Carelink/internal/domain/outbox"
	"github.com/NordCoder/Carelink/internal/domain/profile"
	"github.com/NordCoder/Carelink/internal/domain/user"
	"github.com/NordCoder/Carelink/internal/obs"
	"github.com/NordCoder/Carelink/internal/services/api-gateway/auth"
	autocallsvc "github.com/NordCoder/Carelink/internal/services/api-gateway/autocall"
	familysvc "github.com/NordCoder/Carelink/internal/services/api-gateway/family"
	hospitalsvc "github.com/NordCoder/Carelink/internal/services/api-gateway/hospital"
	profilesvc "github.com/NordCoder/Carelink/internal/services/api-gateway/profile"
	"github.com/NordCoder/Carelink/internal/services/api-gateway/users"
)

// services is everything the router needs. Binaries fill it from postgres,
// tests from the memory package.
type services struct {
	Users     user.Repo
	Profiles  profile.Repo
	Families  family.Repo
	Hospitals hospital.Repo
	Outbox    outbox.Repository // nil disables auto-call relaying

	AuthUC *auth.Usecase
	Authn  *auth.Authenticator
	Tx     autocallsvc.Transactor
	Health func(context.Context) error
}

func buildRouter(cfg *config.Config, logger *zap.Logger, s services) http.Handler {
	root := mux.NewRouter()
	root.Handle("/metrics", obs.MetricsHandler()).Methods(http.MethodGet)
	root.Handle("/healthz", obs.HealthHandler(s.Health)).Methods(http.MethodGet)
	root.Handle("/", smokePage(cfg.API.Prefix, logger)).Methods(http.MethodGet)

	var api *mux.Router
	if cfg.API.Prefix != "" {
		api = root.PathPrefix(cfg.API.Prefix).Subrouter()
	} else {
		api = root.NewRoute().Subrouter()
	}
	api.Use(obs.HTTPMetrics(routeTemplate))

	auth.NewHandler(s.AuthUC, logger).Mount(api)
	hospitalsvc.NewHandler(hospitalsvc.New(s.Hospitals), logger).Mount(api)

	private := api.NewRoute().Subrouter()
	private.Use(auth.RequireBearer(s.Authn, logger))
	users.NewHandler(users.New(s.Users, logger), logger).Mount(private)
	profilesvc.NewHandler(profilesvc.New(s.Profiles), logger).Mount(private)
	familysvc.NewHandler(familysvc.New(s.Families), logger).Mount(private)
	autocallsvc.NewHandler(autocallsvc.New(s.Outbox, s.Tx, nil, logger), logger).Mount(private)

	var h http.Handler = root
	h = obs.AccessLog(logger)(h)
	h = obs.RequestID(h)
	h = withCORS(cfg.Server.CORSOrigins)(h)
	h = otelhttp.NewHandler(h, "api-gateway",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
	return h
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

func buildHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
}

func serveHTTP(srv *http.Server, logger *zap.Logger) error {
	logger.Info("http listening", zap.String("addr", srv.Addr))
	return srv.ListenAndServe()
}
