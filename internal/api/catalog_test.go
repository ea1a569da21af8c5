package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xodiumx/foodgram/internal/models"
	"github.com/xodiumx/foodgram/internal/testhelpers"
)

func TestTagEndpoints(t *testing.T) {
	router, db := SetupTestRouter(t)

	breakfast := testhelpers.CreateTestTag(t, db, "Breakfast", "breakfast")
	testhelpers.CreateTestTag(t, db, "Dinner", "dinner")

	w := PerformRequest(router, http.MethodGet, "/api/tags", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var tags []models.Tag
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tags))
	require.Len(t, tags, 2)
	assert.Equal(t, "breakfast", tags[0].Slug)

	t.Run("single tag", func(t *testing.T) {
		w := PerformRequest(router, http.MethodGet, fmt.Sprintf("/api/tags/%s", breakfast.ID), nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var tag models.Tag
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tag))
		assert.Equal(t, breakfast.ID, tag.ID)
	})

	t.Run("unknown tag", func(t *testing.T) {
		w := PerformRequest(router, http.MethodGet, fmt.Sprintf("/api/tags/%s", uuid.New()), nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestIngredientEndpoints(t *testing.T) {
	router, db := SetupTestRouter(t)

	flour := testhelpers.CreateTestIngredient(t, db, "Flour", "g")
	testhelpers.CreateTestIngredient(t, db, "Flaxseed", "g")
	testhelpers.CreateTestIngredient(t, db, "Sugar", "g")

	t.Run("prefix search", func(t *testing.T) {
		w := PerformRequest(router, http.MethodGet, "/api/ingredients?name=fl", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var ingredients []models.Ingredient
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingredients))
		assert.Len(t, ingredients, 2)

		// Prefix only: "ar" matches nothing even though Sugar contains it.
		w = PerformRequest(router, http.MethodGet, "/api/ingredients?name=ar", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingredients))
		assert.Empty(t, ingredients)
	})

	t.Run("no filter lists all", func(t *testing.T) {
		w := PerformRequest(router, http.MethodGet, "/api/ingredients", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var ingredients []models.Ingredient
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingredients))
		assert.Len(t, ingredients, 3)
	})

	t.Run("single ingredient", func(t *testing.T) {
		w := PerformRequest(router, http.MethodGet, fmt.Sprintf("/api/ingredients/%s", flour.ID), nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var ingredient models.Ingredient
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingredient))
		assert.Equal(t, "Flour", ingredient.Name)
	})
}
