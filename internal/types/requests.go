package types

import "github.com/google/uuid"

// SignupRequest carries the registration payload.
type SignupRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=6,max=64"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required,min=6,max=64"`
	CurrentPassword string `json:"current_password" binding:"required"`
}

// IngredientAmount is one (ingredient, amount) entry in a recipe submission.
// Range checks live in the recipe service so they surface with the rest of
// the ingredient validation.
type IngredientAmount struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount" binding:"required"`
}

// CreateRecipeRequest carries the full payload for a new recipe. The image
// is either an URL or an inline base64 data URL.
type CreateRecipeRequest struct {
	Name        string             `json:"name" binding:"required,max=120"`
	Image       string             `json:"image" binding:"required"`
	Text        string             `json:"text" binding:"required,max=2000"`
	CookingTime int                `json:"cooking_time" binding:"required"`
	Ingredients []IngredientAmount `json:"ingredients" binding:"required"`
	Tags        []uuid.UUID        `json:"tags" binding:"required"`
}

// UpdateRecipeRequest supports partial updates: nil fields keep their prior
// value, and the tag / ingredient sets are replaced only when present.
type UpdateRecipeRequest struct {
	Name        *string             `json:"name" binding:"omitempty,max=120"`
	Image       *string             `json:"image"`
	Text        *string             `json:"text" binding:"omitempty,max=2000"`
	CookingTime *int                `json:"cooking_time"`
	Ingredients *[]IngredientAmount `json:"ingredients"`
	Tags        *[]uuid.UUID        `json:"tags"`
}

// RecipeFilter collects the recipe list query parameters.
type RecipeFilter struct {
	Author           *uuid.UUID
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
	Query            string
	Page             int
	Limit            int
}
