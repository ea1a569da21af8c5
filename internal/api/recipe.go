package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xodiumx/foodgram/internal/middleware"
	"github.com/xodiumx/foodgram/internal/service"
	"github.com/xodiumx/foodgram/internal/types"
)

// RecipeHandler serves the recipe catalog, favorites, the shopping cart and
// the shopping list download.
type RecipeHandler struct {
	auth         *service.AuthService
	recipes      *service.RecipeService
	relations    *service.RelationService
	shoppingList *service.ShoppingListService
	images       *service.ImageService
	serializer   *Serializer
	writeLimiter *middleware.RateLimiter
}

func NewRecipeHandler(
	auth *service.AuthService,
	recipes *service.RecipeService,
	relations *service.RelationService,
	shoppingList *service.ShoppingListService,
	images *service.ImageService,
	serializer *Serializer,
	writeLimiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		auth:         auth,
		recipes:      recipes,
		relations:    relations,
		shoppingList: shoppingList,
		images:       images,
		serializer:   serializer,
		writeLimiter: writeLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	authRequired := middleware.AuthMiddleware(h.auth)
	authOptional := middleware.OptionalAuthMiddleware(h.auth)
	limited := h.writeLimiter.Middleware()

	recipes := router.Group("/recipes")
	{
		recipes.GET("", authOptional, h.ListRecipes)
		recipes.GET("/download_shopping_cart", authRequired, h.DownloadShoppingCart)
		recipes.GET("/:id", authOptional, h.GetRecipe)
		recipes.POST("", authRequired, limited, h.CreateRecipe)
		recipes.PATCH("/:id", authRequired, limited, h.UpdateRecipe)
		recipes.DELETE("/:id", authRequired, h.DeleteRecipe)
		recipes.POST("/:id/favorite", authRequired, h.Favorite)
		recipes.DELETE("/:id/favorite", authRequired, h.Unfavorite)
		recipes.POST("/:id/shopping_cart", authRequired, h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", authRequired, h.RemoveFromCart)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	viewer := middleware.CallerID(c)

	filter := types.RecipeFilter{
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      c.Query("is_favorited") == "1" || c.Query("is_favorited") == "true",
		IsInShoppingCart: c.Query("is_in_shopping_cart") == "1" || c.Query("is_in_shopping_cart") == "true",
		Query:            c.Query("q"),
	}
	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.Author = &id
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "6"))
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 6
	}

	recipes, total, err := h.recipes.List(c.Request.Context(), filter, viewer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipes"})
		return
	}

	results, err := h.serializer.Recipes(c.Request.Context(), recipes, viewer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to serialize recipes"})
		return
	}

	c.JSON(http.StatusOK, newPageResponse(total, filter.Page, filter.Limit, results))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resp, err := h.serializer.Recipe(c.Request.Context(), recipe, middleware.CallerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to serialize recipe"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	viewer := middleware.CallerID(c)

	imageURL, err := h.images.Resolve(c.Request.Context(), req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), *viewer, &req, imageURL)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resp, err := h.serializer.Recipe(c.Request.Context(), recipe, viewer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to serialize recipe"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	viewer := middleware.CallerID(c)

	var imageURL *string
	if req.Image != nil {
		resolved, err := h.images.Resolve(c.Request.Context(), *req.Image)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		imageURL = &resolved
	}

	recipe, err := h.recipes.Update(c.Request.Context(), id, *viewer, &req, imageURL)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resp, err := h.serializer.Recipe(c.Request.Context(), recipe, viewer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to serialize recipe"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}
	viewer := middleware.CallerID(c)

	if err := h.recipes.Delete(c.Request.Context(), id, *viewer); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) Favorite(c *gin.Context) {
	h.addRelation(c, h.relations.Favorite)
}

func (h *RecipeHandler) Unfavorite(c *gin.Context) {
	h.removeRelation(c, h.relations.Unfavorite)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addRelation(c, h.relations.AddToCart)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeRelation(c, h.relations.RemoveFromCart)
}

// addRelation creates a (user, recipe) join row and answers with the short
// recipe payload.
func (h *RecipeHandler) addRelation(c *gin.Context, add func(ctx context.Context, userID, recipeID uuid.UUID) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}
	viewer := middleware.CallerID(c)

	if err := add(c.Request.Context(), *viewer, id); err != nil {
		handleServiceError(c, err)
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.serializer.RecipeShort(recipe))
}

func (h *RecipeHandler) removeRelation(c *gin.Context, remove func(ctx context.Context, userID, recipeID uuid.UUID) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}
	viewer := middleware.CallerID(c)

	if err := remove(c.Request.Context(), *viewer, id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	viewer := middleware.CallerID(c)

	items, err := h.shoppingList.Aggregate(c.Request.Context(), *viewer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate shopping list"})
		return
	}

	pdf, err := h.shoppingList.RenderPDF(items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render shopping list"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_list.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
