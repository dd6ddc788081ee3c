package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"

	mwecho "github.com/labstack/echo/v4/middleware"
	mwsvc "winsbygroup.com/logitrack/internal/middleware"

	"winsbygroup.com/logitrack/internal/config"
	"winsbygroup.com/logitrack/internal/registration"
	"winsbygroup.com/logitrack/internal/sheets"
	"winsbygroup.com/logitrack/internal/sqlite"

	apihttp "winsbygroup.com/logitrack/internal/http/api"
)

type Server struct {
	Echo  *echo.Echo
	HTTP  *http.Server
	Store registration.Store

	closer io.Closer
}

// Close releases the store's resources, if any.
func (s *Server) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// pinger is implemented by stores that can report readiness cheaply.
type pinger interface {
	Ping(ctx context.Context) error
}

func Build(cfg *config.Config) (*Server, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	//
	// Store
	//
	store, closer, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	return build(cfg, store, closer, loc), nil
}

// BuildWithStore builds the server around an existing store.
func BuildWithStore(cfg *config.Config, store registration.Store) (*Server, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return build(cfg, store, nil, loc), nil
}

func openStore(cfg *config.Config) (registration.Store, io.Closer, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
			log.Printf("Creating database '%s'", cfg.DBPath)
		} else {
			log.Printf("Opening database '%s'", cfg.DBPath)
		}
		db, err := sqlx.Connect("sqlite3", cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
			db.Close()
			return nil, nil, err
		}
		if err := sqlite.RunMigrations(db.DB); err != nil {
			db.Close()
			return nil, nil, err
		}
		return sqlite.NewStore(db), db, nil

	case config.StoreSheets:
		if cfg.SpreadsheetID == "" {
			return nil, nil, errors.New("SPREADSHEET_ID is required for the sheets store")
		}
		log.Printf("Using spreadsheet '%s'", cfg.SpreadsheetID)
		return sheets.New(sheets.Config{
			SpreadsheetID: cfg.SpreadsheetID,
			Scope:         cfg.Scope,
			Credentials: sheets.CredentialSource{
				EnvVar: cfg.CredentialsEnv,
				File:   cfg.CredentialsFile,
			},
		}), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

func build(cfg *config.Config, store registration.Store, closer io.Closer, loc *time.Location) *Server {
	//
	// Domain services
	//
	registrationSvc := registration.NewService(store, loc)

	//
	// Handlers
	//
	apiHandler := apihttp.NewHandler(registrationSvc)

	//
	// Echo
	//
	e := echo.New()
	e.HideBanner = true

	// Health endpoints
	e.GET("/livez", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	e.GET("/readyz", func(c echo.Context) error {
		if p, ok := store.(pinger); ok {
			if err := p.Ping(c.Request().Context()); err != nil {
				return c.String(http.StatusServiceUnavailable, "Store not ready")
			}
		}
		return c.String(http.StatusOK, "Ready")
	})

	// Middleware
	e.Use(mwecho.RequestIDWithConfig(mwecho.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(mwecho.Logger())
	e.Use(mwecho.Recover())
	e.Use(mwecho.CORSWithConfig(mwecho.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
	}))

	// Public API
	apiGroup := e.Group("/api")
	apihttp.RegisterRoutes(apiGroup, apiHandler, mwsvc.APIKeyAuth(cfg.APIKey))

	//
	// HTTP server
	//
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      e,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &Server{
		Echo:   e,
		HTTP:   srv,
		Store:  store,
		closer: closer,
	}
}
