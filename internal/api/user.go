package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/xodiumx/foodgram/internal/middleware"
	"github.com/xodiumx/foodgram/internal/models"
	"github.com/xodiumx/foodgram/internal/service"
	"github.com/xodiumx/foodgram/internal/types"
)

// UserHandler serves registration, profile reads and the subscription
// endpoints.
type UserHandler struct {
	db         *gorm.DB
	auth       *service.AuthService
	relations  *service.RelationService
	serializer *Serializer
}

func NewUserHandler(db *gorm.DB, auth *service.AuthService, relations *service.RelationService, serializer *Serializer) *UserHandler {
	return &UserHandler{
		db:         db,
		auth:       auth,
		relations:  relations,
		serializer: serializer,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.POST("", h.Signup)
		users.GET("", middleware.OptionalAuthMiddleware(h.auth), h.ListUsers)
		users.GET("/me", middleware.AuthMiddleware(h.auth), h.Me)
		users.POST("/set_password", middleware.AuthMiddleware(h.auth), h.SetPassword)
		users.GET("/subscriptions", middleware.AuthMiddleware(h.auth), h.Subscriptions)
		users.GET("/:id", middleware.OptionalAuthMiddleware(h.auth), h.GetUser)
		users.POST("/:id/subscribe", middleware.AuthMiddleware(h.auth), h.Subscribe)
		users.DELETE("/:id/subscribe", middleware.AuthMiddleware(h.auth), h.Unsubscribe)
	}
}

func (h *UserHandler) Signup(c *gin.Context) {
	var req types.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.Register(req.Email, req.Username, req.FirstName, req.LastName, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	// The password never appears in the response.
	c.JSON(http.StatusCreated, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 {
		limit = 10
	}

	var total int64
	if err := h.db.Model(&models.User{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users"})
		return
	}

	var users []models.User
	if err := h.db.Order("created_at").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users"})
		return
	}

	viewer := middleware.CallerID(c)
	results := make([]UserResponse, 0, len(users))
	for i := range users {
		resp, err := h.serializer.User(c.Request.Context(), &users[i], viewer)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to serialize users"})
			return
		}
		results = append(results, resp)
	}

	c.JSON(http.StatusOK, PageResponse{Count: total, Results: results})
}

func (h *UserHandler) Me(c *gin.Context) {
	viewer := middleware.CallerID(c)

	var user models.User
	if err := h.db.First(&user, "id = ?", *viewer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	resp, err := h.serializer.User(c.Request.Context(), &user, viewer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to serialize user"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch user"})
		return
	}

	resp, err := h.serializer.User(c.Request.Context(), &user, middleware.CallerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to serialize user"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	var req types.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	viewer := middleware.CallerID(c)
	if err := h.auth.SetPassword(*viewer, req.CurrentPassword, req.NewPassword); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	followeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	viewer := middleware.CallerID(c)

	if err := h.relations.Follow(c.Request.Context(), *viewer, followeeID); err != nil {
		handleServiceError(c, err)
		return
	}

	var followee models.User
	if err := h.db.First(&followee, "id = ?", followeeID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch user"})
		return
	}

	resp, err := h.serializer.Subscription(c.Request.Context(), &followee, viewer, recipesLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to serialize subscription"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	followeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	viewer := middleware.CallerID(c)

	if err := h.relations.Unfollow(c.Request.Context(), *viewer, followeeID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	viewer := middleware.CallerID(c)

	followees, err := h.relations.Followees(c.Request.Context(), *viewer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch subscriptions"})
		return
	}

	limit := recipesLimit(c)
	results := make([]SubscriptionResponse, 0, len(followees))
	for i := range followees {
		resp, err := h.serializer.Subscription(c.Request.Context(), &followees[i], viewer, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to serialize subscriptions"})
			return
		}
		results = append(results, resp)
	}

	c.JSON(http.StatusOK, PageResponse{Count: int64(len(results)), Results: results})
}

// recipesLimit reads the optional cap on nested recipe listings.
func recipesLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
