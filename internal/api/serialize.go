package api

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/xodiumx/foodgram/internal/models"
	"github.com/xodiumx/foodgram/internal/service"
)

// Serializer builds response representations. The viewer is always passed
// in explicitly; a nil viewer is an anonymous caller and gets every
// membership flag as false without touching the join tables.
type Serializer struct {
	db        *gorm.DB
	recipes   *service.RecipeService
	relations *service.RelationService
}

func NewSerializer(db *gorm.DB, recipes *service.RecipeService, relations *service.RelationService) *Serializer {
	return &Serializer{db: db, recipes: recipes, relations: relations}
}

// User decorates a user with the viewer's is_subscribed flag.
func (s *Serializer) User(ctx context.Context, user *models.User, viewer *uuid.UUID) (UserResponse, error) {
	resp := UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
	if viewer != nil {
		following, err := s.relations.IsFollowing(ctx, *viewer, user.ID)
		if err != nil {
			return UserResponse{}, err
		}
		resp.IsSubscribed = following
	}
	return resp, nil
}

// Recipe builds the full representation of a single recipe.
func (s *Serializer) Recipe(ctx context.Context, recipe *models.Recipe, viewer *uuid.UUID) (RecipeResponse, error) {
	responses, err := s.Recipes(ctx, []models.Recipe{*recipe}, viewer)
	if err != nil {
		return RecipeResponse{}, err
	}
	return responses[0], nil
}

// Recipes builds full representations for a page of recipes, batching the
// association and membership lookups.
func (s *Serializer) Recipes(ctx context.Context, recipes []models.Recipe, viewer *uuid.UUID) ([]RecipeResponse, error) {
	if len(recipes) == 0 {
		return []RecipeResponse{}, nil
	}

	recipeIDs := make([]uuid.UUID, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	seenAuthors := make(map[uuid.UUID]struct{}, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		if _, ok := seenAuthors[r.AuthorID]; !ok {
			seenAuthors[r.AuthorID] = struct{}{}
			authorIDs = append(authorIDs, r.AuthorID)
		}
	}

	tagsByRecipe, err := s.recipes.TagsByRecipe(ctx, recipeIDs)
	if err != nil {
		return nil, err
	}
	ingredientsByRecipe, err := s.recipes.IngredientsByRecipe(ctx, recipeIDs)
	if err != nil {
		return nil, err
	}

	var authors []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", authorIDs).Find(&authors).Error; err != nil {
		return nil, err
	}
	authorByID := make(map[uuid.UUID]models.User, len(authors))
	for _, a := range authors {
		authorByID[a.ID] = a
	}

	favorited := map[uuid.UUID]bool{}
	inCart := map[uuid.UUID]bool{}
	followed := map[uuid.UUID]bool{}
	if viewer != nil {
		if favorited, err = s.relations.FavoritedSet(ctx, *viewer, recipeIDs); err != nil {
			return nil, err
		}
		if inCart, err = s.relations.InCartSet(ctx, *viewer, recipeIDs); err != nil {
			return nil, err
		}
		var followeeIDs []uuid.UUID
		err = s.db.WithContext(ctx).Model(&models.Follow{}).
			Where("follower_id = ? AND followee_id IN ?", *viewer, authorIDs).
			Pluck("followee_id", &followeeIDs).Error
		if err != nil {
			return nil, err
		}
		for _, id := range followeeIDs {
			followed[id] = true
		}
	}

	responses := make([]RecipeResponse, len(recipes))
	for i, r := range recipes {
		author := authorByID[r.AuthorID]
		resp := RecipeResponse{
			ID: r.ID,
			Author: UserResponse{
				ID:           author.ID,
				Email:        author.Email,
				Username:     author.Username,
				FirstName:    author.FirstName,
				LastName:     author.LastName,
				IsSubscribed: followed[r.AuthorID],
			},
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.ImageURL,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		}

		resp.Tags = make([]TagResponse, 0, len(tagsByRecipe[r.ID]))
		for _, tag := range tagsByRecipe[r.ID] {
			resp.Tags = append(resp.Tags, TagResponse{
				ID:    tag.ID,
				Name:  tag.Name,
				Color: tag.Color,
				Slug:  tag.Slug,
			})
		}

		resp.Ingredients = make([]IngredientAmountResponse, 0, len(ingredientsByRecipe[r.ID]))
		for _, q := range ingredientsByRecipe[r.ID] {
			resp.Ingredients = append(resp.Ingredients, IngredientAmountResponse{
				ID:              q.IngredientID,
				Name:            q.Ingredient.Name,
				MeasurementUnit: q.Ingredient.MeasurementUnit,
				Amount:          q.Amount,
			})
		}

		responses[i] = resp
	}
	return responses, nil
}

// RecipeShort builds the compact representation.
func (s *Serializer) RecipeShort(recipe *models.Recipe) RecipeShortResponse {
	return RecipeShortResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}
}

// Subscription decorates a followee with their newest recipes, capped to
// recipesLimit, and the total recipe count.
func (s *Serializer) Subscription(ctx context.Context, user *models.User, viewer *uuid.UUID, recipesLimit int) (SubscriptionResponse, error) {
	userResp, err := s.User(ctx, user, viewer)
	if err != nil {
		return SubscriptionResponse{}, err
	}

	recipes, err := s.recipes.ListByAuthor(ctx, user.ID, recipesLimit)
	if err != nil {
		return SubscriptionResponse{}, err
	}
	count, err := s.recipes.CountByAuthor(ctx, user.ID)
	if err != nil {
		return SubscriptionResponse{}, err
	}

	resp := SubscriptionResponse{
		UserResponse: userResp,
		Recipes:      make([]RecipeShortResponse, 0, len(recipes)),
		RecipesCount: count,
	}
	for i := range recipes {
		resp.Recipes = append(resp.Recipes, s.RecipeShort(&recipes[i]))
	}
	return resp, nil
}
