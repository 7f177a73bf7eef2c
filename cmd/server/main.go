package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/fitmi/fitmi-backend/internal/config"
	"github.com/fitmi/fitmi-backend/internal/database"
	"github.com/fitmi/fitmi-backend/internal/handlers"
	"github.com/fitmi/fitmi-backend/internal/middleware"
	"github.com/fitmi/fitmi-backend/internal/routes"
	"github.com/fitmi/fitmi-backend/internal/services"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	if cfg.JWTSecret == "your-secret-key-change-in-production" && cfg.IsProduction() {
		log.Fatal("JWT_SECRET must be set in production")
	}

	// Connect to PostgreSQL (users)
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis (cache, rate limits, token denylist)
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Connect to MongoDB (health records)
	log.Printf("Connecting to MongoDB...")
	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.Disconnect()

	if err := database.EnsureRecordIndexes(context.Background()); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure health record indexes: %v", err)
	} else {
		log.Println("✅ MongoDB health record indexes ensured")
	}

	// Initialize Cloudinary service for profile photos
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		if err := handlers.InitCloudinaryService(cfg); err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
			log.Println("Profile photo uploads will not be available")
		} else {
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. Profile photo uploads will not be available")
	}

	// Wire services
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL, &services.RedisDenylist{})
	auth := services.NewAuthService(&services.PostgresUserStore{}, tokens)
	records := services.NewRecordService(&services.MongoRecordStore{}, &services.RedisRecordCache{})

	// Setup router
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Production: security headers + in-memory per-IP and login rate limits.
	// Non-production: Redis-based rate limit only
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity() {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, per-IP + login rate limiting)")
	} else {
		r.Use(middleware.RateLimitMiddleware)
	}

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r,
		handlers.NewAuthHandler(auth, tokens),
		handlers.NewRecordHandler(records),
		middleware.RequireAuth(tokens),
	)

	log.Println("📋 Registered routes:")
	log.Println("  GET    /health")
	log.Println("  POST   /api/register")
	log.Println("  POST   /api/login")
	log.Println("  POST   /api/logout")
	log.Println("  GET    /api/me")
	log.Println("  PUT    /api/users/{id}")
	log.Println("  POST   /api/users/{id}/photo")
	log.Println("  GET    /api/health-records/{userId}")
	log.Println("  POST   /api/health-records/{userId}")
	log.Println("  GET    /api/health-records/{userId}/{id}")
	log.Println("  PUT    /api/health-records/{userId}/{id}")
	log.Println("  DELETE /api/health-records/{userId}/{id}")

	log.Printf("🚀 FitMi backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
