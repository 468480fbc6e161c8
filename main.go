package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	gcfirestore "cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/config"
	"github.com/yeremiapane/bakery-app/database"
	"github.com/yeremiapane/bakery-app/delivery"
	"github.com/yeremiapane/bakery-app/identity"
	"github.com/yeremiapane/bakery-app/identity/firebase"
	"github.com/yeremiapane/bakery-app/identity/local"
	"github.com/yeremiapane/bakery-app/services"
	"github.com/yeremiapane/bakery-app/store/firestore"
	"github.com/yeremiapane/bakery-app/store/gormstore"
	"github.com/yeremiapane/bakery-app/utils"
	"gorm.io/gorm"
)

func main() {
	utils.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize DB (document store and/or local accounts)
	var db *gorm.DB
	if cfg.StoreBackend == "gorm" || cfg.IdentityBackend == "local" {
		db, err = config.InitDB(cfg)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
		}
		err = database.AutoMigrate(db, database.Options{
			Documents:     cfg.StoreBackend == "gorm",
			LocalIdentity: cfg.IdentityBackend == "local",
		})
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
		}
	}

	var repos *services.Repositories
	switch cfg.StoreBackend {
	case "gorm":
		// Inisialisasi change monitor
		monitor := gormstore.NewChangeMonitor(db)
		monitor.Interval = cfg.ChangeInterval
		monitor.Start()
		defer monitor.Stop()
		repos = services.NewGormRepositories(db, monitor)
	case "firestore":
		var client *gcfirestore.Client
		client, err = firestore.NewClient(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to open Firestore: %v", err)
		}
		defer client.Close()
		repos = services.NewFirestoreRepositories(client)
	default:
		utils.InfoLogger.Println("Warning: using in-memory store, data is lost on restart")
		repos = services.NewMemoryRepositories()
	}

	var provider identity.Provider
	switch cfg.IdentityBackend {
	case "firebase":
		authClient, err := firebase.NewAuthClient(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to init Firebase Auth: %v", err)
		}
		provider = firebase.NewProvider(authClient, cfg.FirebaseAPIKey)
	default:
		provider = local.NewProvider(db, cfg.JWTSecret)
	}

	geocoder := delivery.NewGeocoder(delivery.GeocoderConfig{
		BaseURL:   cfg.Geocoder.BaseURL,
		UserAgent: cfg.Geocoder.UserAgent,
		Language:  cfg.Geocoder.Language,
		City:      cfg.Store.City,
		Country:   cfg.Store.Country,
		Interval:  cfg.Geocoder.Interval,
		Timeout:   cfg.Geocoder.Timeout,
	}, nil)

	r, shutdown, err := buildApp(ctx, cfg, repos, provider, geocoder)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to start application: %v", err)
	}
	defer shutdown()

	// Set trusted proxies
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		utils.ErrorLogger.Printf("Error setting trusted proxies: %v", err)
	}

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	go func() {
		if err := r.Run(":" + cfg.Port); err != nil {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Println("Shutting down")
}
