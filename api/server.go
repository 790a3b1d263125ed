package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/platefeed/platefeed-backend/config"
	"github.com/platefeed/platefeed-backend/database"
	"github.com/platefeed/platefeed-backend/services"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(database database.Database) (Server, error) {
	c := config.New()

	// Ensure correct port is set
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	// Capture startup time
	startupTime := time.Now()

	svc, err := buildServices(database, c)
	if err != nil {
		return Server{}, err
	}

	router := newRouter(database, svc, withConfig(c), withStartupTime(startupTime))

	// Get timeout values from config with sensible defaults
	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return Server{server, startupTime}, nil
}

// buildServices assembles the service layer from config. Images go to
// S3 when a bucket is configured, otherwise to local disk.
func buildServices(database database.Database, c map[string]string) (serviceSet, error) {
	secret := config.GetString(c, "JWT_SECRET", "")
	if secret == "" {
		return serviceSet{}, fmt.Errorf("JWT_SECRET must be set")
	}
	tokenTTL := time.Duration(config.GetInt(c, "TOKEN_TTL_HOURS", 72)) * time.Hour

	blobStore, err := buildBlobStore(c)
	if err != nil {
		return serviceSet{}, err
	}
	images := services.NewImageService(blobStore)

	return serviceSet{
		auth:     services.NewAuthService(database.UserRepo(), []byte(secret), tokenTTL),
		composer: services.NewComposer(database.RecipeRepo(), database.TagRepo(), database.IngredientRepo(), images),
		favorites: services.NewFavoriteRelation(
			database.FavoriteRepo(), database.RecipeRepo()),
		shoppingCart: services.NewShoppingCartRelation(
			database.ShoppingCartRepo(), database.RecipeRepo()),
		subscriptions: services.NewSubscriptionService(
			database.SubscriptionRepo(), database.UserRepo(), database.RecipeRepo()),
		shoppingList: services.NewShoppingListService(database.ShoppingCartRepo()),
	}, nil
}

func buildBlobStore(c map[string]string) (services.BlobStore, error) {
	bucket := config.GetString(c, "S3_BUCKET", "")
	if bucket == "" {
		root := config.GetString(c, "MEDIA_ROOT", "./media")
		baseURL := config.GetString(c, "MEDIA_BASE_URL", "/media/")
		return services.NewDiskBlobStore(root, baseURL), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	baseURL := config.GetString(c, "S3_BASE_URL",
		fmt.Sprintf("https://%s.s3.amazonaws.com/", bucket))
	return services.NewS3BlobStore(s3.NewFromConfig(awsCfg), bucket, baseURL), nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(database database.Database, svc serviceSet, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)

	// Initialize all handlers
	handlers := initializeHandlers(database, svc)

	// Initialize auth middleware
	authMiddleware := newAuthMiddleware(svc.auth)

	// Apply CORS middleware
	acceptedOrigins := strings.Split(config.GetString(router.config, "ACCEPTED_ORIGINS", "*"), ",")
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   acceptedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Setup all route types
	setupRoutes(chiRouter, handlers, authMiddleware)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
