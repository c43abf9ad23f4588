package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"slices"
	"syscall"
	"time"

	_ "github.com/franciscosanchezn/gin-recipe-match-api/docs" // Import generated docs
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/auth"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/clients"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/config"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/controllers"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/database"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/events"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/middleware"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// shutdownTimeout bounds the drain of in-flight requests and match record writes
const shutdownTimeout = 10 * time.Second

type application struct {
	config    *config.Config
	db        *gorm.DB
	publisher events.Publisher

	catalog  services.CatalogService
	matching services.MatchingService
	oauth    *auth.OAuthService

	matchingController   *controllers.MatchingController
	recipeController     *controllers.RecipeController
	pantryController     *controllers.PantryController
	ingredientController *controllers.IngredientController
	authController       *controllers.AuthController
	clientController     *controllers.ClientController
}

// @title Recipe Match API
// @version 1.0
// @description Ranks recipes by how much of their ingredient list a pantry covers
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Load configuration
	configuration := loadConfig()

	// Initialize logger
	setUpLogger(configuration)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &application{config: configuration}
	app.db = setupDatabase(configuration)
	app.publisher = setupPublisher(ctx, configuration)
	app.setupServices(ctx)

	// Initialize Gin router
	router := app.setupRouter()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", configuration.Host, configuration.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")
	app.shutdown(srv)
	log.Info("Server exited")
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes every package logger with a JSON formatter and the configured level
func setUpLogger(conf *config.Config) {
	log.SetFormatter(&log.JSONFormatter{})

	level, err := log.ParseLevel(conf.LogLevel)
	if err != nil {
		level = config.LevelForEnvironment(conf.Environment)
		log.WithField("log_level", conf.LogLevel).Warn("Unknown LOG_LEVEL, using environment default")
	}
	log.SetLevel(level)

	database.SetLogLevel(level)
	services.SetLogLevel(level)
	events.SetLogLevel(level)
	auth.SetLogLevel(level)
	middleware.SetLogLevel(level)
	controllers.SetLogLevel(level)

	if conf.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase opens the database, migrates the schema and seeds the ingredient catalog
func setupDatabase(conf *config.Config) *gorm.DB {
	db, err := database.InitDatabase(conf.Database)
	checkPanicErr(err)
	checkPanicErr(database.Migrate(db))
	return db
}

// setupPublisher publishes to Redis when REDIS_URL is set and to the log otherwise
func setupPublisher(ctx context.Context, conf *config.Config) events.Publisher {
	if conf.RedisURL == "" {
		log.Info("REDIS_URL not set, domain events go to the log")
		return events.NewLogPublisher(nil)
	}

	publisher, err := events.NewRedisPublisher(ctx, conf.RedisURL)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, domain events go to the log")
		return events.NewLogPublisher(nil)
	}
	log.Info("Publishing domain events to Redis")
	return publisher
}

// setupServices wires stores, services and controllers
func (app *application) setupServices(ctx context.Context) {
	conf := app.config

	app.catalog = services.NewCatalogService(app.db)
	if _, err := app.catalog.Seed(ctx, services.DefaultCatalog); err != nil {
		log.WithError(err).Warn("Failed to seed ingredient catalog")
	}

	recipeStore := services.NewRecipeStore(app.db)
	retriever := services.NewRetriever(recipeStore)
	pantryStore := services.NewPantryStore(app.db)

	var pantryReader services.PantryReader = pantryStore
	if conf.PantryServiceURL != "" {
		log.WithField("pantry_service_url", conf.PantryServiceURL).Info("Reading pantries from the pantry service")
		pantryReader = clients.NewPantryClient(conf.PantryServiceURL, conf.PantryServiceToken)
	}

	app.matching = services.NewMatchingService(retriever, pantryReader, services.NewMatchRecordStore(app.db), app.publisher, services.MatchingOptions{
		Workers:            conf.MatchWorkers,
		PersistConcurrency: conf.PersistConcurrency,
	})
	app.oauth = auth.NewOAuthService(app.db, conf.JWTSecret)

	app.matchingController = controllers.NewMatchingController(app.matching)
	app.recipeController = controllers.NewRecipeController(services.NewRecipeService(recipeStore, retriever, app.publisher))
	app.pantryController = controllers.NewPantryController(services.NewPantryService(pantryStore, app.catalog, app.publisher))
	app.ingredientController = controllers.NewIngredientController(app.catalog)
	app.authController = controllers.NewAuthController(services.NewUserService(app.db), conf.JWTSecret)
	app.clientController = controllers.NewClientController(services.NewClientService(app.db))
}

// setupRouter initializes the Gin router and sets up the routes
// It returns the configured router
func (app *application) setupRouter() *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())
	router.Use(cors.New(corsConfig(app.config.CORSOrigins)))
	router.Use(middleware.RateLimit(middleware.NewRateLimiter(app.config.RateLimitRPS, app.config.RateLimitBurst)))

	app.setupRoutes(router)

	return router
}

func corsConfig(origins []string) cors.Config {
	conf := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		conf.AllowAllOrigins = true
		return conf
	}
	conf.AllowOrigins = origins
	conf.AllowCredentials = true
	return conf
}

// setupRoutes defines the routes for the Gin router
func (app *application) setupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", healthCheckHandler)

	requireAuth := middleware.OAuth2Auth([]byte(app.config.JWTSecret))

	v1 := router.Group("/api/v1")
	{
		matching := v1.Group("/matching")
		{
			matching.POST("/find-recipes", requireAuth, app.matchingController.FindRecipes)
			matching.POST("/calculate-match", app.matchingController.CalculateMatch)
		}

		recipes := v1.Group("/recipes")
		{
			recipes.GET("", app.recipeController.ListRecipes)
			recipes.GET("/:id", app.recipeController.GetRecipe)
			recipes.POST("", requireAuth, app.recipeController.CreateRecipe)
			recipes.PUT("/:id", requireAuth, app.recipeController.UpdateRecipe)
			recipes.DELETE("/:id", requireAuth, app.recipeController.DeleteRecipe)
		}

		pantry := v1.Group("/pantry", requireAuth)
		{
			pantry.GET("", app.pantryController.ListPantry)
			pantry.POST("", app.pantryController.AddPantryItem)
			pantry.DELETE("/:ingredientId", app.pantryController.RemovePantryItem)
		}

		ingredients := v1.Group("/ingredients")
		{
			ingredients.GET("", app.ingredientController.ListIngredients)
			ingredients.GET("/resolve", app.ingredientController.ResolveIngredient)
		}

		// Authentication routes (public but for auth purposes)
		authApi := v1.Group("/auth")
		{
			authApi.POST("/register", app.authController.Register)
			authApi.POST("/login", app.authController.Login)
		}

		v1.POST("/oauth/token", app.oauth.HandleToken)

		// Protected routes (requires a bearer token)
		protectedApi := v1.Group("/protected", requireAuth)
		{
			protectedApi.POST("/clients", app.clientController.CreateClient)
			protectedApi.GET("/clients", app.clientController.ListClients)
			protectedApi.DELETE("/clients/:id", app.clientController.DeleteClient)

			adminApi := protectedApi.Group("/admin", middleware.RequireRole(models.RoleAdmin))
			{
				adminApi.POST("/ingredients", app.ingredientController.CreateIngredient)
			}
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// shutdown drains HTTP requests, waits for background match record writes and closes collaborators
func (app *application) shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	done := make(chan struct{})
	go func() {
		app.matching.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		log.Warn("Timed out waiting for match records to be written")
	}

	if err := app.publisher.Close(); err != nil {
		log.WithError(err).Warn("Failed to close event publisher")
	}
	if sqlDB, err := app.db.DB(); err == nil {
		sqlDB.Close()
	}
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "gin-recipe-match-api",
	})
}
