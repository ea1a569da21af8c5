package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xodiumx/foodgram/internal/testhelpers"
)

func createTestCatalog(t *testing.T, db *gorm.DB) (tagID, flourID, sugarID uuid.UUID) {
	t.Helper()
	tag := testhelpers.CreateTestTag(t, db, "Breakfast", "breakfast")
	flour := testhelpers.CreateTestIngredient(t, db, "flour", "g")
	sugar := testhelpers.CreateTestIngredient(t, db, "sugar", "g")
	return tag.ID, flour.ID, sugar.ID
}

func recipePayload(tagID, flourID uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"name":         "Pancakes",
		"image":        "https://example.com/pancakes.png",
		"text":         "Mix and fry",
		"cooking_time": 20,
		"ingredients": []map[string]interface{}{
			{"id": flourID, "amount": 200},
		},
		"tags": []uuid.UUID{tagID},
	}
}

func TestRecipeCRUD(t *testing.T) {
	router, db := SetupTestRouter(t)
	tagID, flourID, sugarID := createTestCatalog(t, db)
	_, token := LoginTestUser(t, router, db, "author")

	w := PerformRequest(router, http.MethodPost, "/api/recipes", recipePayload(tagID, flourID), token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created RecipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Pancakes", created.Name)
	assert.Equal(t, "author", created.Author.Username)
	require.Len(t, created.Ingredients, 1)
	assert.Equal(t, "flour", created.Ingredients[0].Name)
	assert.Equal(t, 200, created.Ingredients[0].Amount)
	require.Len(t, created.Tags, 1)
	assert.Equal(t, "breakfast", created.Tags[0].Slug)
	assert.False(t, created.IsFavorited)

	recipeURL := fmt.Sprintf("/api/recipes/%s", created.ID)

	t.Run("anonymous read", func(t *testing.T) {
		w := PerformRequest(router, http.MethodGet, recipeURL, nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var got RecipeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.False(t, got.IsFavorited)
		assert.False(t, got.IsInShoppingCart)
		assert.False(t, got.Author.IsSubscribed)
	})

	t.Run("partial update keeps ingredients", func(t *testing.T) {
		w := PerformRequest(router, http.MethodPatch, recipeURL, map[string]interface{}{
			"name": "Crepes",
		}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got RecipeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "Crepes", got.Name)
		assert.Len(t, got.Ingredients, 1)
	})

	t.Run("update replaces ingredient set when present", func(t *testing.T) {
		w := PerformRequest(router, http.MethodPatch, recipeURL, map[string]interface{}{
			"ingredients": []map[string]interface{}{
				{"id": sugarID, "amount": 75},
			},
		}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got RecipeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got.Ingredients, 1)
		assert.Equal(t, "sugar", got.Ingredients[0].Name)
	})

	t.Run("update replaces tag set when present", func(t *testing.T) {
		dinner := testhelpers.CreateTestTag(t, db, "Dinner", "dinner")
		w := PerformRequest(router, http.MethodPatch, recipeURL, map[string]interface{}{
			"tags": []uuid.UUID{dinner.ID},
		}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got RecipeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got.Tags, 1)
		assert.Equal(t, "dinner", got.Tags[0].Slug)
	})

	t.Run("update by non-author is forbidden", func(t *testing.T) {
		_, otherToken := LoginTestUser(t, router, db, "intruder")
		w := PerformRequest(router, http.MethodPatch, recipeURL, map[string]interface{}{
			"name": "Stolen",
		}, otherToken)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = PerformRequest(router, http.MethodDelete, recipeURL, nil, otherToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := PerformRequest(router, http.MethodDelete, recipeURL, nil, token)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = PerformRequest(router, http.MethodGet, recipeURL, nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRecipeValidationStatuses(t *testing.T) {
	router, db := SetupTestRouter(t)
	tagID, flourID, _ := createTestCatalog(t, db)
	_, token := LoginTestUser(t, router, db, "author")

	t.Run("anonymous create is unauthorized", func(t *testing.T) {
		w := PerformRequest(router, http.MethodPost, "/api/recipes", recipePayload(tagID, flourID), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("amount out of range", func(t *testing.T) {
		payload := recipePayload(tagID, flourID)
		payload["ingredients"] = []map[string]interface{}{{"id": flourID, "amount": 5001}}
		w := PerformRequest(router, http.MethodPost, "/api/recipes", payload, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate ingredient", func(t *testing.T) {
		payload := recipePayload(tagID, flourID)
		payload["ingredients"] = []map[string]interface{}{
			{"id": flourID, "amount": 10},
			{"id": flourID, "amount": 20},
		}
		w := PerformRequest(router, http.MethodPost, "/api/recipes", payload, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown tag", func(t *testing.T) {
		payload := recipePayload(tagID, flourID)
		payload["tags"] = []uuid.UUID{uuid.New()}
		w := PerformRequest(router, http.MethodPost, "/api/recipes", payload, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		w := PerformRequest(router, http.MethodPost, "/api/recipes", map[string]interface{}{
			"name": "Incomplete",
		}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFavoriteAndCartEndpoints(t *testing.T) {
	router, db := SetupTestRouter(t)
	tagID, flourID, _ := createTestCatalog(t, db)
	_, authorToken := LoginTestUser(t, router, db, "author")
	_, viewerToken := LoginTestUser(t, router, db, "viewer")

	w := PerformRequest(router, http.MethodPost, "/api/recipes", recipePayload(tagID, flourID), authorToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created RecipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	favoriteURL := fmt.Sprintf("/api/recipes/%s/favorite", created.ID)
	cartURL := fmt.Sprintf("/api/recipes/%s/shopping_cart", created.ID)

	w = PerformRequest(router, http.MethodPost, favoriteURL, nil, viewerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var short RecipeShortResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &short))
	assert.Equal(t, created.ID, short.ID)
	assert.Equal(t, created.Name, short.Name)

	t.Run("second favorite conflicts", func(t *testing.T) {
		w := PerformRequest(router, http.MethodPost, favoriteURL, nil, viewerToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("flags reflect the viewer", func(t *testing.T) {
		w := PerformRequest(router, http.MethodPost, cartURL, nil, viewerToken)
		require.Equal(t, http.StatusCreated, w.Code)

		w = PerformRequest(router, http.MethodGet, fmt.Sprintf("/api/recipes/%s", created.ID), nil, viewerToken)
		require.Equal(t, http.StatusOK, w.Code)
		var got RecipeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.True(t, got.IsFavorited)
		assert.True(t, got.IsInShoppingCart)

		// The author never favorited their own recipe.
		w = PerformRequest(router, http.MethodGet, fmt.Sprintf("/api/recipes/%s", created.ID), nil, authorToken)
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.False(t, got.IsFavorited)
	})

	t.Run("download shopping list", func(t *testing.T) {
		w := PerformRequest(router, http.MethodGet, "/api/recipes/download_shopping_cart", nil, viewerToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "shopping_list.pdf")
		assert.True(t, len(w.Body.Bytes()) > 0)
	})

	t.Run("remove", func(t *testing.T) {
		w := PerformRequest(router, http.MethodDelete, favoriteURL, nil, viewerToken)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = PerformRequest(router, http.MethodDelete, favoriteURL, nil, viewerToken)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = PerformRequest(router, http.MethodDelete, cartURL, nil, viewerToken)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestRecipeListEnvelope(t *testing.T) {
	router, db := SetupTestRouter(t)
	tagID, flourID, _ := createTestCatalog(t, db)
	_, token := LoginTestUser(t, router, db, "author")

	for i := 0; i < 3; i++ {
		payload := recipePayload(tagID, flourID)
		payload["name"] = fmt.Sprintf("Recipe %d", i)
		w := PerformRequest(router, http.MethodPost, "/api/recipes", payload, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := PerformRequest(router, http.MethodGet, "/api/recipes?page=1&limit=2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Count    int64            `json:"count"`
		Next     *int             `json:"next"`
		Previous *int             `json:"previous"`
		Results  []RecipeResponse `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.EqualValues(t, 3, page.Count)
	assert.Len(t, page.Results, 2)
	require.NotNil(t, page.Next)
	assert.Equal(t, 2, *page.Next)
	assert.Nil(t, page.Previous)

	t.Run("second page", func(t *testing.T) {
		w := PerformRequest(router, http.MethodGet, "/api/recipes?page=2&limit=2", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Len(t, page.Results, 1)
		assert.Nil(t, page.Next)
		require.NotNil(t, page.Previous)
		assert.Equal(t, 1, *page.Previous)
	})

	t.Run("tag filter", func(t *testing.T) {
		w := PerformRequest(router, http.MethodGet, "/api/recipes?tags=breakfast", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.EqualValues(t, 3, page.Count)

		w = PerformRequest(router, http.MethodGet, "/api/recipes?tags=dinner", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.EqualValues(t, 0, page.Count)
	})
}
