package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"

	_ "assetdeck/docs"
	"assetdeck/pkg/assets"
	"assetdeck/pkg/config"
	"assetdeck/pkg/db"
	"assetdeck/pkg/kv"
	"assetdeck/pkg/live"
	"assetdeck/pkg/notify"
	"assetdeck/pkg/session"
)

// @title           assetdeck API
// @version         1.0
// @description     Inventory of domains, hosting, ad accounts and social profiles with expiration tracking

// @BasePath  /

// @schemes   http https

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
	log.Println("Server exiting")
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer closeStore()

	hub := live.NewHub()
	defer hub.Close()

	var assetService assets.AssetService
	purgeAssets := session.AssetPurgerFunc(func(ctx context.Context, ownerID string) error {
		return assetService.DeleteAllAssetsByOwner(ctx, ownerID)
	})
	sessions := session.NewLocalProvider(store, signOutCleanup(purgeAssets, hub), nil)
	assetService = assets.NewAssetService(assets.NewAssetRepository(store), sessions, hub, nil)

	mailer := notify.NewLogMailer()
	if cfg.SendGridAPIKey != "" {
		mailer = notify.NewSendGridMailer(cfg.SendGridAPIKey, cfg.SendGridSenderEmail, cfg.SendGridSenderName)
	} else {
		log.Println("SENDGRID_API_KEY not set, reminder emails go to the log")
	}
	reminders := notify.NewReminderService(assetService, sessions, mailer, cfg.ReminderWindowDays, nil)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: cfg.CORSAllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	session.NewSessionHandler(sessions).RegisterRoutes(router)
	assets.NewAssetHandler(assetService).RegisterRoutes(router)
	live.NewHandler(hub, sessions, cfg.CORSAllowedOrigins).RegisterRoutes(router)
	notify.NewReminderHandler(reminders).RegisterRoutes(router)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Listening on :%s (tls=%t, env=%s)", cfg.Port, cfg.EnableTLS, cfg.AppEnv)
		return serve(srv, cfg)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// signOutCleanup purges the account's assets, then disconnects its live connections.
func signOutCleanup(purger session.AssetPurger, hub *live.Hub) session.AssetPurgerFunc {
	return func(ctx context.Context, ownerID string) error {
		if err := purger.DeleteAllAssetsByOwner(ctx, ownerID); err != nil {
			return err
		}
		hub.RemoveAccount(ownerID)
		return nil
	}
}

// openStore picks Postgres when DATABASE_URL is set and an in-memory store otherwise.
func openStore(ctx context.Context, cfg config.Config) (kv.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Println("DATABASE_URL not set, data is kept in memory")
		return kv.NewMemoryStore(), func() {}, nil
	}
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return kv.NewPostgresStore(pool), pool.Close, nil
}

func serve(srv *http.Server, cfg config.Config) error {
	var err error
	if !cfg.EnableTLS {
		err = srv.ListenAndServe()
	} else {
		tlsConfig, certFile, keyFile, tlsErr := buildTLSConfig(cfg)
		if tlsErr != nil {
			return tlsErr
		}
		srv.TLSConfig = tlsConfig
		err = srv.ListenAndServeTLS(certFile, keyFile)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
