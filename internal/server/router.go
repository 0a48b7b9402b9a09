package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/feastly/feastly-backend/internal/handlers"
	"github.com/feastly/feastly-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler       *handlers.AuthHandler
	AuthMiddleware    *middleware.AuthMiddleware
	UserHandler       *handlers.UserHandler
	TagHandler        *handlers.TagHandler
	IngredientHandler *handlers.IngredientHandler
	RecipeHandler     *handlers.RecipeHandler
	AllowOrigins      []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")

	// Public, viewer-aware reads
	public := api.Group("/")
	public.Use(cfg.AuthMiddleware.OptionalAuth())
	{
		public.POST("/auth/register", cfg.AuthHandler.Register)
		public.POST("/auth/login", cfg.AuthHandler.Login)
		public.POST("/auth/refresh", cfg.AuthHandler.Refresh)

		public.GET("/tags", cfg.TagHandler.List)
		public.GET("/tags/:id", cfg.TagHandler.Get)
		public.GET("/ingredients", cfg.IngredientHandler.List)
		public.GET("/ingredients/:id", cfg.IngredientHandler.Get)

		public.GET("/recipes", cfg.RecipeHandler.List)
		public.GET("/recipes/:id", cfg.RecipeHandler.Get)
		public.GET("/recipes/:id/get-link", cfg.RecipeHandler.GetLink)

		public.GET("/users", cfg.UserHandler.List)
	}

	// Authenticated
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.POST("/auth/logout", cfg.AuthHandler.Logout)

		protected.GET("/users/me", cfg.UserHandler.GetMe)
		protected.PUT("/users/me/avatar", cfg.UserHandler.SetAvatar)
		protected.DELETE("/users/me/avatar", cfg.UserHandler.ClearAvatar)
		protected.GET("/users/subscriptions", cfg.UserHandler.Subscriptions)
		protected.POST("/users/:id/subscribe", cfg.UserHandler.Subscribe)
		protected.DELETE("/users/:id/subscribe", cfg.UserHandler.Unsubscribe)

		protected.POST("/recipes", cfg.RecipeHandler.Create)
		protected.PATCH("/recipes/:id", cfg.RecipeHandler.Update)
		protected.PUT("/recipes/:id", cfg.RecipeHandler.Update)
		protected.DELETE("/recipes/:id", cfg.RecipeHandler.Delete)

		protected.POST("/recipes/:id/favorite", cfg.RecipeHandler.AddFavorite)
		protected.DELETE("/recipes/:id/favorite", cfg.RecipeHandler.RemoveFavorite)
		protected.POST("/recipes/:id/shopping_cart", cfg.RecipeHandler.AddToShoppingCart)
		protected.DELETE("/recipes/:id/shopping_cart", cfg.RecipeHandler.RemoveFromShoppingCart)
		protected.GET("/recipes/download_shopping_cart", cfg.RecipeHandler.DownloadShoppingCart)
	}

	// GET /users/:id is viewer-aware but public, unlike the other
	// /users routes; static segments like "me" still win over :id
	userDetail := api.Group("/")
	userDetail.Use(cfg.AuthMiddleware.OptionalAuth())
	userDetail.GET("/users/:id", cfg.UserHandler.Get)

	return router
}
