package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xodiumx/foodgram/internal/models"
	"github.com/xodiumx/foodgram/internal/types"
)

// RecipeService owns the recipe aggregate: the recipe row plus its tag and
// ingredient-quantity association sets.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// validateIngredients rejects duplicate ingredient ids, out-of-range amounts
// and references to unknown ingredients.
func (s *RecipeService) validateIngredients(tx *gorm.DB, entries []types.IngredientAmount) error {
	seen := make(map[uuid.UUID]struct{}, len(entries))
	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.ID]; ok {
			return ErrDuplicateIngredient
		}
		seen[e.ID] = struct{}{}
		ids = append(ids, e.ID)

		if e.Amount < models.MinAmount || e.Amount > models.MaxAmount {
			return ErrAmountOutOfRange
		}
	}

	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return ErrIngredientNotFound
	}
	return nil
}

func (s *RecipeService) validateTags(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(&models.Tag{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return ErrTagNotFound
	}
	return nil
}

// Create persists the recipe with its tag set and ingredient quantities in a
// single transaction. imageURL comes from the media layer, author from the
// authenticated caller.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest, imageURL string) (*models.Recipe, error) {
	if req.CookingTime < models.MinCookingTime || req.CookingTime > models.MaxCookingTime {
		return nil, ErrCookingTimeOutOfRange
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		ImageURL:    imageURL,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Embedding:   GenerateEmbedding(req.Name + " " + req.Text),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.validateIngredients(tx, req.Ingredients); err != nil {
			return err
		}
		if err := s.validateTags(tx, req.Tags); err != nil {
			return err
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		return s.insertAssociations(tx, recipe.ID, req.Tags, req.Ingredients)
	})
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Update applies partial scalar updates and, when the request carries tag or
// ingredient sets, replaces the whole association set. The delete and
// reinsert happen in one transaction so readers never observe an empty set.
func (s *RecipeService) Update(ctx context.Context, recipeID, callerID uuid.UUID, req *types.UpdateRecipeRequest, imageURL *string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	if recipe.AuthorID != callerID {
		return nil, ErrNotAuthor
	}

	if req.Name != nil {
		recipe.Name = *req.Name
	}
	if imageURL != nil {
		recipe.ImageURL = *imageURL
	}
	if req.Text != nil {
		recipe.Text = *req.Text
	}
	if req.CookingTime != nil {
		if *req.CookingTime < models.MinCookingTime || *req.CookingTime > models.MaxCookingTime {
			return nil, ErrCookingTimeOutOfRange
		}
		recipe.CookingTime = *req.CookingTime
	}
	recipe.Embedding = GenerateEmbedding(recipe.Name + " " + recipe.Text)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.Ingredients != nil {
			if err := s.validateIngredients(tx, *req.Ingredients); err != nil {
				return err
			}
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.IngredientQuantity{}).Error; err != nil {
				return err
			}
		}
		if req.Tags != nil {
			if err := s.validateTags(tx, *req.Tags); err != nil {
				return err
			}
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeTag{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Save(&recipe).Error; err != nil {
			return err
		}

		var tags []uuid.UUID
		var ingredients []types.IngredientAmount
		if req.Tags != nil {
			tags = *req.Tags
		}
		if req.Ingredients != nil {
			ingredients = *req.Ingredients
		}
		return s.insertAssociations(tx, recipe.ID, tags, ingredients)
	})
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (s *RecipeService) insertAssociations(tx *gorm.DB, recipeID uuid.UUID, tags []uuid.UUID, ingredients []types.IngredientAmount) error {
	if len(tags) > 0 {
		recipeTags := make([]models.RecipeTag, 0, len(tags))
		for _, tagID := range tags {
			recipeTags = append(recipeTags, models.RecipeTag{RecipeID: recipeID, TagID: tagID})
		}
		if err := tx.Create(&recipeTags).Error; err != nil {
			return err
		}
	}
	if len(ingredients) > 0 {
		quantities := make([]models.IngredientQuantity, 0, len(ingredients))
		for _, entry := range ingredients {
			quantities = append(quantities, models.IngredientQuantity{
				RecipeID:     recipeID,
				IngredientID: entry.ID,
				Amount:       entry.Amount,
			})
		}
		if err := tx.Create(&quantities).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// Delete removes the recipe together with its association rows and any
// favorite or cart rows pointing at it. Ingredients, tags and users stay.
func (s *RecipeService) Delete(ctx context.Context, recipeID, callerID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	if recipe.AuthorID != callerID {
		return ErrNotAuthor
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.IngredientQuantity{},
			&models.RecipeTag{},
			&models.Favorite{},
			&models.ShoppingCartItem{},
		} {
			if err := tx.Where("recipe_id = ?", recipeID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Recipe{}, "id = ?", recipeID).Error
	})
}

// List applies the catalog filters and returns one page plus the unfiltered
// match count.
func (s *RecipeService) List(ctx context.Context, filter types.RecipeFilter, viewer *uuid.UUID) ([]models.Recipe, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if filter.Author != nil {
		query = query.Where("author_id = ?", *filter.Author)
	}

	if len(filter.TagSlugs) > 0 {
		// A recipe qualifies only when it carries every requested slug.
		sub := s.db.Model(&models.RecipeTag{}).
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs).
			Group("recipe_tags.recipe_id").
			Having("COUNT(DISTINCT tags.slug) = ?", len(filter.TagSlugs))
		query = query.Where("recipes.id IN (?)", sub)
	}

	if filter.IsFavorited {
		if viewer == nil {
			return []models.Recipe{}, 0, nil
		}
		sub := s.db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", *viewer)
		query = query.Where("recipes.id IN (?)", sub)
	}
	if filter.IsInShoppingCart {
		if viewer == nil {
			return []models.Recipe{}, 0, nil
		}
		sub := s.db.Model(&models.ShoppingCartItem{}).Select("recipe_id").Where("user_id = ?", *viewer)
		query = query.Where("recipes.id IN (?)", sub)
	}

	semantic := filter.Query != "" && s.db.Dialector.Name() == "postgres"
	if filter.Query != "" && !semantic {
		like := "%" + strings.ToLower(filter.Query) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(text) LIKE ?", like, like)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	ordered := query
	if semantic {
		vec := GenerateEmbedding(filter.Query)
		ordered = ordered.Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
		})
	} else {
		ordered = ordered.Order("created_at DESC")
	}

	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		ordered = ordered.Offset((page - 1) * filter.Limit).Limit(filter.Limit)
	}

	var recipes []models.Recipe
	if err := ordered.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// ListByAuthor returns the newest recipes of one author, capped to limit.
func (s *RecipeService) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).Where("author_id = ?", authorID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *RecipeService) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

// TagsByRecipe loads the tag sets for a batch of recipes.
func (s *RecipeService) TagsByRecipe(ctx context.Context, recipeIDs []uuid.UUID) (map[uuid.UUID][]models.Tag, error) {
	result := make(map[uuid.UUID][]models.Tag, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return result, nil
	}
	var rows []models.RecipeTag
	if err := s.db.WithContext(ctx).Preload("Tag").Where("recipe_id IN ?", recipeIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.RecipeID] = append(result[row.RecipeID], row.Tag)
	}
	return result, nil
}

// IngredientsByRecipe loads the ingredient quantities, with their catalog
// rows, for a batch of recipes.
func (s *RecipeService) IngredientsByRecipe(ctx context.Context, recipeIDs []uuid.UUID) (map[uuid.UUID][]models.IngredientQuantity, error) {
	result := make(map[uuid.UUID][]models.IngredientQuantity, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return result, nil
	}
	var rows []models.IngredientQuantity
	if err := s.db.WithContext(ctx).Preload("Ingredient").Where("recipe_id IN ?", recipeIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.RecipeID] = append(result[row.RecipeID], row)
	}
	return result, nil
}
