package main

import (
	"context"
	"net/http"
	"os"

	"github.com/DJBertubin/AmazonCheck/internal/application"
	apiinfra "github.com/DJBertubin/AmazonCheck/internal/infrastructure/api"
	"github.com/DJBertubin/AmazonCheck/internal/infrastructure/cache"
	"github.com/DJBertubin/AmazonCheck/internal/infrastructure/repository"
	"github.com/DJBertubin/AmazonCheck/internal/infrastructure/spapi"
	"github.com/DJBertubin/AmazonCheck/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	// Get configuration from environment
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	mongoDatabase := os.Getenv("MONGODB_DATABASE")
	if mongoDatabase == "" {
		mongoDatabase = "amazoncheck"
	}

	clientID := os.Getenv("AMAZON_LWA_CLIENT_ID")
	clientSecret := os.Getenv("AMAZON_LWA_CLIENT_SECRET")
	appID := os.Getenv("AMAZON_SP_API_APP_ID")
	if clientID == "" || clientSecret == "" {
		logger.Fatal().Msg("AMAZON_LWA_CLIENT_ID and AMAZON_LWA_CLIENT_SECRET are required")
	}
	if appID == "" {
		logger.Fatal().Msg("AMAZON_SP_API_APP_ID is required")
	}

	apiBaseURL := os.Getenv("API_BASE_URL")
	frontendURL := os.Getenv("FRONTEND_URL")

	// Connect to MongoDB
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	db := client.Database(mongoDatabase)
	if err := repository.EnsureIndexes(context.Background(), db); err != nil {
		logger.Fatal().Err(err).Msg("Failed to create MongoDB indexes")
	}

	// Initialize repositories
	accountRepo := repository.NewMongoAccountRepository(db)
	connectionRepo := repository.NewMongoConnectionRepository(db)
	credentialRepo := repository.NewMongoCredentialRepository(db)
	catalogRepo := repository.NewMongoCatalogRepository(db)

	// Optional Redis cache for dashboard payloads
	responseCache := cache.NewRedisCache(os.Getenv("REDIS_ADDR"), os.Getenv("REDIS_PASSWORD"), logger)
	if responseCache == nil {
		logger.Info().Msg("REDIS_ADDR not set, dashboard caching disabled")
	}

	// Initialize SP-API infrastructure
	identity := spapi.AppIdentity{ClientID: clientID, ClientSecret: clientSecret}
	clientFactory := spapi.NewFactory(identity, logger)
	exchanger := spapi.NewExchanger(clientID, clientSecret)

	// Initialize application services
	connectService := application.NewConnectService(
		accountRepo, connectionRepo, credentialRepo, exchanger,
		appID, clientID, clientSecret, logger,
	)
	syncService := application.NewSyncService(credentialRepo, catalogRepo, clientFactory, logger)
	dashboardService := application.NewDashboardService(credentialRepo, catalogRepo, clientFactory, cacheOrNil(responseCache), logger)
	catalogService := application.NewCatalogService(credentialRepo, catalogRepo, clientFactory, logger)

	handler := apiinfra.NewHandler(
		accountRepo, connectionRepo, credentialRepo,
		connectService, syncService, dashboardService, catalogService,
		clientFactory, apiBaseURL, frontendURL, logger,
	)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Health check - must be public for monitoring
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	handler.Routes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info().Str("port", port).Msg("Starting API server")
	logger.Info().Msg("Swagger documentation available at http://localhost:" + port + "/swagger/index.html")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}

// cacheOrNil keeps a typed-nil *RedisCache from sneaking into the service's
// interface field as a non-nil value.
func cacheOrNil(c *cache.RedisCache) ports.ResponseCache {
	if c == nil {
		return nil
	}
	return c
}
