package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cbodonnell/monstermaker/pkg/api/handlers"
	"github.com/cbodonnell/monstermaker/pkg/api/middleware"
	"github.com/cbodonnell/monstermaker/pkg/identity"
	"github.com/cbodonnell/monstermaker/pkg/log"
	"github.com/cbodonnell/monstermaker/pkg/repositories"
	"github.com/gorilla/mux"
)

type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port        int
	AllowOrigin string
	TLS         *TLSConfig
	Validator   identity.Validator
	Repository  repositories.Repository
}

// NewAPIServer creates a new http.Server for handling API requests
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: NewRouter(opts),
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

// NewRouter creates the route table for the API
func NewRouter(opts NewAPIServerOptions) *mux.Router {
	identityMiddleware := middleware.NewIdentityMiddleware(opts.Validator)

	router := mux.NewRouter()
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "This is the basic functionality of Monster Maker!")
	}).Methods(http.MethodGet)

	monsters := router.PathPrefix("/api/monsters").Subrouter()
	monsters.Use(corsMiddleware(opts.AllowOrigin), identityMiddleware)
	monsters.HandleFunc("", handlers.HandleListMonsters(opts.Repository)).Methods(http.MethodGet)
	monsters.HandleFunc("", handlers.HandleCreateMonster(opts.Repository)).Methods(http.MethodPost)
	monsters.HandleFunc("/{monster_id}", handlers.HandleGetMonster(opts.Repository)).Methods(http.MethodGet)
	monsters.HandleFunc("/{monster_id}", handlers.HandleUpdateMonster(opts.Repository)).Methods(http.MethodPut)
	monsters.HandleFunc("/{monster_id}", handlers.HandleDeleteMonster(opts.Repository)).Methods(http.MethodDelete)

	// preflight requests are answered by the CORS middleware
	monsters.PathPrefix("").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}).Methods(http.MethodOptions)

	return router
}

func corsMiddleware(allowOrigin string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", identity.HeaderUserToken)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Start starts the APIServer
func (s *APIServer) Start() {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return
		}
		log.Error("API server error: %v", err)
	}
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
