package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/feastly/feastly-backend/internal/db"
	"github.com/feastly/feastly-backend/internal/handlers"
	"github.com/feastly/feastly-backend/internal/logger"
	"github.com/feastly/feastly-backend/internal/middleware"
	"github.com/feastly/feastly-backend/internal/repos"
	"github.com/feastly/feastly-backend/internal/server"
	"github.com/feastly/feastly-backend/internal/services"
	"github.com/feastly/feastly-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	mediaRoot := utils.GetEnv("MEDIA_ROOT", "media", log)
	baseURL := utils.GetEnv("BASE_URL", "http://localhost:8080", log)
	allowOrigins := strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", log), ",")

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	tagRepo := repos.NewTagRepo(thePG, log)
	ingredientRepo := repos.NewIngredientRepo(thePG, log)
	recipeRepo := repos.NewRecipeRepo(thePG, log)
	recipeIngredientRepo := repos.NewRecipeIngredientRepo(thePG, log)
	favoriteRepo := repos.NewFavoriteRepo(thePG, log)
	shoppingCartRepo := repos.NewShoppingCartRepo(thePG, log)
	subscriptionRepo := repos.NewSubscriptionRepo(thePG, log)

	// Services
	log.Info("Setting up services...")
	mediaService, err := services.NewMediaService(log, mediaRoot)
	if err != nil {
		log.Fatal("Could not init MediaService", "error", err)
	}
	authService := services.NewAuthService(
		thePG, log, userRepo, userTokenRepo, jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second,
		time.Duration(refreshTokenTTL)*time.Second,
	)
	userService := services.NewUserService(thePG, log, userRepo, subscriptionRepo, mediaService)
	tagService := services.NewTagService(thePG, log, tagRepo)
	ingredientService := services.NewIngredientService(thePG, log, ingredientRepo)
	recipeService := services.NewRecipeService(
		thePG, log, recipeRepo, ingredientRepo, tagRepo, recipeIngredientRepo,
		favoriteRepo, shoppingCartRepo, subscriptionRepo, mediaService, baseURL,
	)
	favoriteService := services.NewFavoriteService(thePG, log, recipeRepo, favoriteRepo)
	shoppingCartService := services.NewShoppingCartService(thePG, log, recipeRepo, shoppingCartRepo, recipeIngredientRepo)
	subscriptionService := services.NewSubscriptionService(thePG, log, userRepo, recipeRepo, subscriptionRepo)

	// Handlers
	log.Info("Setting up handlers...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, subscriptionService)
	tagHandler := handlers.NewTagHandler(tagService)
	ingredientHandler := handlers.NewIngredientHandler(ingredientService)
	recipeHandler := handlers.NewRecipeHandler(recipeService, favoriteService, shoppingCartService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:       authHandler,
		AuthMiddleware:    authMiddleware,
		UserHandler:       userHandler,
		TagHandler:        tagHandler,
		IngredientHandler: ingredientHandler,
		RecipeHandler:     recipeHandler,
		AllowOrigins:      allowOrigins,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
