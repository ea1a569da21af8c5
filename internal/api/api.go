package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/xodiumx/foodgram/internal/middleware"
	"github.com/xodiumx/foodgram/internal/service"
)

// SetupAPI wires services and handlers onto the /api group. imageStore may
// be nil, in which case recipe images must already be plain URLs.
func SetupAPI(router *gin.Engine, db *gorm.DB, redisClient *redis.Client, jwtSecret string, imageStore service.ImageStore) {
	api := router.Group("/api")
	{
		// Initialize services
		authService := service.NewAuthService(db, redisClient, jwtSecret)
		recipeService := service.NewRecipeService(db)
		relationService := service.NewRelationService(db)
		shoppingListService := service.NewShoppingListService(db)
		imageService := service.NewImageService(imageStore)

		serializer := NewSerializer(db, recipeService, relationService)
		writeLimiter := middleware.NewRecipeWriteRateLimiter(redisClient)

		// Initialize handlers
		authHandler := NewAuthHandler(authService)
		userHandler := NewUserHandler(db, authService, relationService, serializer)
		tagHandler := NewTagHandler(db)
		ingredientHandler := NewIngredientHandler(db)
		recipeHandler := NewRecipeHandler(
			authService,
			recipeService,
			relationService,
			shoppingListService,
			imageService,
			serializer,
			writeLimiter,
		)

		// Register routes
		authHandler.RegisterRoutes(api)
		userHandler.RegisterRoutes(api)
		tagHandler.RegisterRoutes(api)
		ingredientHandler.RegisterRoutes(api)
		recipeHandler.RegisterRoutes(api)
	}
}
