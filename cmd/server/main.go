package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/cbodonnell/monstermaker/pkg/api"
	"github.com/cbodonnell/monstermaker/pkg/identity"
	"github.com/cbodonnell/monstermaker/pkg/log"
	"github.com/cbodonnell/monstermaker/pkg/repositories"
	"github.com/cbodonnell/monstermaker/pkg/version"
)

func main() {
	port := flag.Int("port", 9090, "port to listen on")
	allowOrigin := flag.String("allow-origin", "*", "allowed CORS origin")
	migrations := flag.String("migrations", "./migrations", "path to the migrations directory")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting monster maker server version %s", version.Get())
	ctx := context.Background()

	rsURL := os.Getenv("MONSTERMAKER_RS_URL")
	if rsURL == "" {
		panic("MONSTERMAKER_RS_URL environment variable must be set")
	}
	validator := identity.NewRealmshaperClient(rsURL)

	connStr := os.Getenv("MONSTERMAKER_DATABASE_URL")
	if connStr == "" {
		connStr = "sqlite://monstermaker.db"
	}

	u, err := url.Parse(connStr)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse connection string: %v", err))
	}

	var repository repositories.Repository
	switch u.Scheme {
	case "sqlite":
		repository, err = repositories.NewSQLiteRepository(ctx, u.Host, *migrations+"/sqlite")
		if err != nil {
			panic(fmt.Sprintf("Failed to create SQLite repository: %v", err))
		}
	case "postgresql":
		repository, err = repositories.NewPostgresRepository(ctx, u.String(), *migrations+"/postgres")
		if err != nil {
			panic(fmt.Sprintf("Failed to create Postgres repository: %v", err))
		}
	default:
		panic(fmt.Sprintf("Unknown database type %s", u.Scheme))
	}
	defer repository.Close(ctx)

	apiServerOpts := api.NewAPIServerOptions{
		Port:        *port,
		AllowOrigin: *allowOrigin,
		Validator:   validator,
		Repository:  repository,
	}
	tlsCertFile := os.Getenv("MONSTERMAKER_TLS_CERT_FILE")
	tlsKeyFile := os.Getenv("MONSTERMAKER_TLS_KEY_FILE")
	if tlsCertFile != "" && tlsKeyFile != "" {
		apiServerOpts.TLS = &api.TLSConfig{
			CertFile: tlsCertFile,
			KeyFile:  tlsKeyFile,
		}
	}
	server := api.NewAPIServer(apiServerOpts)
	go server.Start()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	<-interrupt
	if err := server.Stop(ctx); err != nil {
		log.Error("Failed to stop server: %v", err)
	}
}
