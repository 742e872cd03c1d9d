package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/Steerify/Suretruqs-sub000/internal/app"
	"github.com/Steerify/Suretruqs-sub000/internal/backend/rest"
	"github.com/Steerify/Suretruqs-sub000/internal/config"
	"github.com/Steerify/Suretruqs-sub000/internal/feed"
	"github.com/Steerify/Suretruqs-sub000/internal/handler"
	"github.com/Steerify/Suretruqs-sub000/internal/interp"
	"github.com/Steerify/Suretruqs-sub000/internal/push"
	"github.com/Steerify/Suretruqs-sub000/internal/session"
	syncpkg "github.com/Steerify/Suretruqs-sub000/internal/sync"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	// Initialize New Relic if enabled.
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	// Session token persistence.
	tokens := session.NewFileTokenStore(cfg.Token.Path)

	// Marketplace REST collaborators.
	restClient := rest.NewClient(cfg.Backend.BaseURL, tokens.Token)
	apis := syncpkg.APIs{
		Identity:      rest.NewIdentityAPI(restClient),
		Shipments:     rest.NewShipmentAPI(restClient),
		Users:         rest.NewUserAPI(restClient),
		Chat:          rest.NewChatAPI(restClient),
		Notifications: rest.NewNotificationAPI(restClient),
		Preferences:   rest.NewPreferenceAPI(restClient),
	}

	// Push channel; the token is re-read on every connect attempt.
	channel := push.NewClient(cfg.Push.URL, tokens.Token)

	// Position pipeline: push events feed the interpolator, the
	// interpolator feeds the SSE fan-out.
	positionFeed := feed.New()
	interpolator := interp.New(positionFeed, cfg.Interp.Duration, cfg.Interp.Frame)

	// Client-side system of record.
	reconciler := syncpkg.New(apis, channel, interpolator)

	// Session bootstrap.
	bootstrapper := session.New(tokens, apis.Identity, reconciler, channel)

	// Wire the local API server.
	server := wireServer(reconciler, bootstrapper, channel, positionFeed, nrApp, cfg)

	// Run the boot sequence in the background; the local API reports
	// Initializing until it settles.
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	go func() {
		defer bootCancel()
		bootstrapper.Run(bootCtx)
	}()

	// Start server in goroutine.
	go func() {
		log.Printf("Starting sync daemon on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down sync daemon...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	channel.Disconnect()
	interpolator.StopAll()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Sync daemon exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(reconciler *syncpkg.Reconciler, bootstrapper *session.Bootstrapper, channel *push.Client, positionFeed *feed.PositionFeed, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize handlers.
	shipmentHandler := handler.NewShipmentHandler(reconciler)
	driverHandler := handler.NewDriverHandler(reconciler)
	chatHandler := handler.NewChatHandler(reconciler)
	notificationHandler := handler.NewNotificationHandler(reconciler)
	positionHandler := handler.NewPositionHandler(reconciler, positionFeed)
	preferenceHandler := handler.NewPreferenceHandler(reconciler)
	sessionHandler := handler.NewSessionHandler(bootstrapper, reconciler, channel)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		ShipmentHandler:     shipmentHandler,
		DriverHandler:       driverHandler,
		ChatHandler:         chatHandler,
		NotificationHandler: notificationHandler,
		PositionHandler:     positionHandler,
		PreferenceHandler:   preferenceHandler,
		SessionHandler:      sessionHandler,
		Bootstrapper:        bootstrapper,
		NewRelicApp:         nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
