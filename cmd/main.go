package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/v2/mongo"
	mongooptions "go.mongodb.org/mongo-driver/v2/mongo/options"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	_ "user-accounts/docs"
	"user-accounts/internal/handlers"
	"user-accounts/internal/jwt"
	"user-accounts/internal/logger"
	"user-accounts/internal/middlewares"
	"user-accounts/internal/password"
	"user-accounts/internal/repositories"
	"user-accounts/internal/services"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// config holds every runtime setting, loaded from the environment.
type config struct {
	appHost  string
	appPort  string
	logLevel string

	mongoURI         string
	mongoDB          string
	mongoTimeoutSec  int
	redisAddr        string
	redisDB          int
	redisPassword    string
	profileCacheSec  int
	kafkaBrokers     string
	kafkaTopic       string
	minioEndpoint    string
	minioAccessKey   string
	minioSecretKey   string
	minioUseSSL      bool
	minioBucket      string
	minioPublicURL   string
	bcryptCost       int
	accessSecret     string
	refreshSecret    string
	accessExpSecond  int
	refreshExpSecond int
	corsOrigin       string

	googleClientID     string
	googleClientSecret string
	googleCallbackURL  string
}

// @title user-accounts API
// @version 1.0.0
// @description Service for user registration, authentication and profile management
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns the
// application configuration.
func parseConfig(path string) (*config, error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}
	getEnvInt := func(key string, defaultValue int) (int, error) {
		return strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	}

	cfg := &config{
		appHost:  getEnv("APP_HOST", "localhost"),
		appPort:  getEnv("APP_PORT", "8080"),
		logLevel: getEnv("APP_LOG_LEVEL", "info"),

		mongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		mongoDB:       getEnv("MONGO_DB", "user_accounts"),
		redisAddr:     fmt.Sprintf("%s:%s", getEnv("REDIS_HOST", "localhost"), getEnv("REDIS_PORT", "6379")),
		redisPassword: getEnv("REDIS_PASSWORD", ""),
		kafkaBrokers:  getEnv("KAFKA_BROKERS", ""),
		kafkaTopic:    getEnv("KAFKA_TOPIC", "account-events"),

		minioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		minioAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		minioSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		minioUseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",
		minioBucket:    getEnv("MINIO_BUCKET", "user-photos"),
		minioPublicURL: getEnv("MINIO_PUBLIC_URL", "http://localhost:9000"),

		accessSecret:  getEnv("ACCESS_TOKEN_SECRET", "access_secret_key"),
		refreshSecret: getEnv("REFRESH_TOKEN_SECRET", "refresh_secret_key"),
		corsOrigin:    getEnv("CORS_ORIGIN", "http://localhost:3000"),

		googleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		googleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		googleCallbackURL:  getEnv("GOOGLE_CALLBACK_URL", "http://localhost:8080/users/auth/google/callback"),
	}

	var err error
	if cfg.mongoTimeoutSec, err = getEnvInt("MONGO_OP_TIMEOUT_SECOND", 5); err != nil {
		return nil, err
	}
	if cfg.redisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.profileCacheSec, err = getEnvInt("PROFILE_CACHE_EXP_SECOND", 300); err != nil {
		return nil, err
	}
	if cfg.bcryptCost, err = getEnvInt("BCRYPT_COST", password.DefaultCost); err != nil {
		return nil, err
	}
	if cfg.accessExpSecond, err = getEnvInt("ACCESS_TOKEN_EXP_SECOND", 900); err != nil {
		return nil, err
	}
	if cfg.refreshExpSecond, err = getEnvInt("REFRESH_TOKEN_EXP_SECOND", 2592000); err != nil {
		return nil, err
	}

	return cfg, nil
}

// run initializes the logger, MongoDB, Redis, MinIO, Kafka, and the HTTP
// server. It sets up routes, applies middleware, and handles graceful
// shutdown.
func run(ctx context.Context, cfg *config) error {
	if err := logger.Initialize(cfg.logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.logLevel)

	// Connect to MongoDB
	mongoClient, err := mongo.Connect(mongooptions.Client().ApplyURI(cfg.mongoURI))
	if err != nil {
		return fmt.Errorf("mongodb connection error: %w", err)
	}
	defer mongoClient.Disconnect(context.Background())

	pingCtx, cancelPing := context.WithTimeout(ctx, 10*time.Second)
	defer cancelPing()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		return fmt.Errorf("mongodb ping failed: %w", err)
	}

	db := mongoClient.Database(cfg.mongoDB)
	if err := repositories.EnsureUserIndexes(pingCtx, db); err != nil {
		return fmt.Errorf("failed to ensure user indexes: %w", err)
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.redisAddr,
		Password: cfg.redisPassword,
		DB:       cfg.redisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection error: %w", err)
	}
	defer rdb.Close()

	// Connect to MinIO
	minioClient, err := minio.New(cfg.minioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.minioAccessKey, cfg.minioSecretKey, ""),
		Secure: cfg.minioUseSSL,
	})
	if err != nil {
		return fmt.Errorf("minio connection error: %w", err)
	}

	opTimeout := time.Duration(cfg.mongoTimeoutSec) * time.Second

	photoRepo := repositories.NewPhotoRepository(minioClient, cfg.minioBucket, cfg.minioPublicURL, opTimeout)
	if err := photoRepo.EnsureBucket(pingCtx); err != nil {
		return fmt.Errorf("failed to ensure photo bucket: %w", err)
	}

	// Kafka writer is optional; account events are skipped without it.
	var kafkaWriter services.KafkaWriter
	if cfg.kafkaBrokers != "" {
		w := &kafka.Writer{
			Addr:     kafka.TCP(cfg.kafkaBrokers),
			Topic:    cfg.kafkaTopic,
			Balancer: &kafka.LeastBytes{},
		}
		defer w.Close()
		kafkaWriter = w
	}

	// Initialize token issuer and password hasher
	tokens := jwt.New(
		cfg.accessSecret,
		cfg.refreshSecret,
		time.Duration(cfg.accessExpSecond)*time.Second,
		time.Duration(cfg.refreshExpSecond)*time.Second,
	)
	hasher := password.New(cfg.bcryptCost)

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db, opTimeout)
	userWriteRepo := repositories.NewUserWriteRepository(db, opTimeout)
	cacheRepo := repositories.NewProfileCacheRepository(rdb, time.Duration(cfg.profileCacheSec)*time.Second)

	// Initialize services
	authService := services.NewAuthService(userReadRepo, userWriteRepo, photoRepo, tokens, hasher, kafkaWriter)
	userService := services.NewUserService(userReadRepo, userWriteRepo, cacheRepo, hasher)

	// Google OAuth config
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.googleClientID,
		ClientSecret: cfg.googleClientSecret,
		RedirectURL:  cfg.googleCallbackURL,
		Scopes:       []string{"email", "profile"},
		Endpoint:     google.Endpoint,
	}

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.corsOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// Public routes
	r.Post("/users/register", handlers.NewRegisterHandler(authService))
	r.Post("/users/login", handlers.NewLoginHandler(authService))
	r.Post("/users/refresh", handlers.NewRefreshHandler(authService))
	r.Get("/users/auth/google", handlers.NewGoogleLoginHandler(oauthConfig))
	r.Get("/users/auth/google/callback", handlers.NewGoogleCallbackHandler(oauthConfig))

	// Protected routes with JWT middleware
	r.Group(func(r chi.Router) {
		r.Use(middlewares.AuthMiddleware(tokens))
		r.Post("/users/logout", handlers.NewLogoutHandler(authService))
		r.Get("/users/userProfile/{userId}", handlers.NewUserProfileHandler(userService))
		r.Get("/users/allUsers", handlers.NewAllUsersHandler(userService))
		r.Put("/users/profile/{userId}", handlers.NewProfileVisibilityHandler(userService))
		r.Put("/users/updateUser/{userId}", handlers.NewUpdateUserHandler(userService))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.appHost, cfg.appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.appHost, cfg.appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.appHost, cfg.appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
