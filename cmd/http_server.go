package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bossrus/workflow-go/internal"
	"github.com/bossrus/workflow-go/internal/auth"
	"github.com/bossrus/workflow-go/internal/catalog"
	catalogPostgres "github.com/bossrus/workflow-go/internal/catalog/postgres"
	"github.com/bossrus/workflow-go/internal/flash"
	flashPostgres "github.com/bossrus/workflow-go/internal/flash/postgres"
	"github.com/bossrus/workflow-go/internal/invite"
	invitePostgres "github.com/bossrus/workflow-go/internal/invite/postgres"
	"github.com/bossrus/workflow-go/internal/mail"
	"github.com/bossrus/workflow-go/internal/notify"
	"github.com/bossrus/workflow-go/internal/readmodel"
	"github.com/bossrus/workflow-go/internal/transport"
	"github.com/bossrus/workflow-go/internal/transport/rest"
	"github.com/bossrus/workflow-go/internal/transport/ws"
	"github.com/bossrus/workflow-go/internal/user"
	userPostgres "github.com/bossrus/workflow-go/internal/user/postgres"
	"github.com/bossrus/workflow-go/internal/worklog"
	worklogPostgres "github.com/bossrus/workflow-go/internal/worklog/postgres"
	"github.com/bossrus/workflow-go/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Warm the read models from the database, then serve API requests and websocket notifications`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func startHTTPServer() {
	cfg, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	env := "development"
	if cfg.Logging.Format == "json" {
		env = "production"
	}
	logger.Init(env)
	log := logger.LoggerWrapper()

	db, err := initDB(cfg.Database)
	if err != nil {
		log.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	if err := buildApplication(cfg, db, router, log); err != nil {
		log.Error("failed to build application", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("server shutdown error", "error", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Error("database close error", "error", err)
			}
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	log.Info("server stopped")
}

// buildApplication wires repositories, read models, services and handlers.
// Every cache is warmed before the listener starts so the first request
// already sees the full committed state.
func buildApplication(cfg *internal.Config, db *gorm.DB, router *chi.Mux, log *slog.Logger) error {
	usersCache := readmodel.NewUsers()

	hub := ws.NewHub(usersCache, log)
	notifier := notify.NewNotifier(hub, log)

	audit := worklog.NewService(worklogPostgres.NewRepository(db), log)

	// Catalog collections share one service implementation, one per kind.
	catalogServices := make(map[string]*catalog.Service, len(catalog.Kinds()))
	catalogCaches := make(map[string]*readmodel.Catalog, len(catalog.Kinds()))
	for _, kind := range catalog.Kinds() {
		cache := readmodel.NewCatalog()
		catalogCaches[kind] = cache
		catalogServices[kind] = catalog.NewService(kind, catalogPostgres.NewRepository(db, kind), cache, notifier, audit, log)
	}

	mailer := mail.NewSender(cfg.Mail, usersCache,
		catalogCaches[catalog.KindFirms], catalogCaches[catalog.KindModifications], log)

	userService := user.NewService(userPostgres.NewRepository(db), usersCache, notifier, audit, mailer,
		log, cfg.Security.BCryptCost, cfg.Server.BaseURL)
	inviteService := invite.NewService(invitePostgres.NewRepository(db), usersCache, notifier, audit, log)
	flashService := flash.NewService(flashPostgres.NewRepository(db), usersCache, notifier, audit, log)

	if err := userService.LoadFromBase(); err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}
	for kind, service := range catalogServices {
		if err := service.LoadFromBase(); err != nil {
			return fmt.Errorf("failed to load %s: %w", kind, err)
		}
	}
	log.Info("read models loaded", "users", usersCache.Len())

	baseHandler := transport.NewBaseHandler(log)
	gate := auth.NewGate(usersCache, log)

	catalogHandlers := make(map[string]*catalog.Handler, len(catalogServices))
	for kind, service := range catalogServices {
		catalogHandlers[kind] = catalog.NewHandler(baseHandler, service)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to unwrap sql db: %w", err)
	}

	rest.RegisterAllRoutes(router, sqlDB, gate, rest.Handlers{
		Catalogs: catalogHandlers,
		Users:    user.NewHandler(baseHandler, userService),
		Invites:  invite.NewHandler(baseHandler, inviteService),
		Flashes:  flash.NewHandler(baseHandler, flashService),
		Worklog:  worklog.NewHandler(baseHandler, audit),
		Socket:   hub,
	}, log)

	return nil
}

func initDB(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(gormPostgres.Open(cfg.Source), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap sql db: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
