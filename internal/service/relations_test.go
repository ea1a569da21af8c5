package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xodiumx/foodgram/internal/service"
	"github.com/xodiumx/foodgram/internal/testhelpers"
)

func TestFavorite(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRelationService(db)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, "viewer")
	author := testhelpers.CreateTestUser(t, db, "author")
	recipe := testhelpers.CreateTestRecipe(t, db, author.ID, "Pancakes")

	require.NoError(t, svc.Favorite(ctx, user.ID, recipe.ID))

	t.Run("second favorite is a conflict", func(t *testing.T) {
		assert.ErrorIs(t, svc.Favorite(ctx, user.ID, recipe.ID), service.ErrAlreadyFavorited)
	})

	t.Run("unknown recipe", func(t *testing.T) {
		assert.ErrorIs(t, svc.Favorite(ctx, user.ID, uuid.New()), service.ErrRecipeNotFound)
	})

	t.Run("remove and re-add", func(t *testing.T) {
		require.NoError(t, svc.Unfavorite(ctx, user.ID, recipe.ID))
		assert.ErrorIs(t, svc.Unfavorite(ctx, user.ID, recipe.ID), service.ErrNotFavorited)
		assert.NoError(t, svc.Favorite(ctx, user.ID, recipe.ID))
	})
}

func TestShoppingCart(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRelationService(db)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, "viewer")
	author := testhelpers.CreateTestUser(t, db, "author")
	recipe := testhelpers.CreateTestRecipe(t, db, author.ID, "Soup")

	require.NoError(t, svc.AddToCart(ctx, user.ID, recipe.ID))
	assert.ErrorIs(t, svc.AddToCart(ctx, user.ID, recipe.ID), service.ErrAlreadyInCart)

	require.NoError(t, svc.RemoveFromCart(ctx, user.ID, recipe.ID))
	assert.ErrorIs(t, svc.RemoveFromCart(ctx, user.ID, recipe.ID), service.ErrNotInCart)

	t.Run("cart and favorites are independent", func(t *testing.T) {
		require.NoError(t, svc.AddToCart(ctx, user.ID, recipe.ID))
		assert.NoError(t, svc.Favorite(ctx, user.ID, recipe.ID))
	})
}

func TestFollow(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRelationService(db)
	ctx := context.Background()

	anna := testhelpers.CreateTestUser(t, db, "anna")
	boris := testhelpers.CreateTestUser(t, db, "boris")

	t.Run("self follow forbidden", func(t *testing.T) {
		assert.ErrorIs(t, svc.Follow(ctx, anna.ID, anna.ID), service.ErrSelfFollow)
	})

	t.Run("unknown followee", func(t *testing.T) {
		assert.ErrorIs(t, svc.Follow(ctx, anna.ID, uuid.New()), service.ErrUserNotFound)
	})

	require.NoError(t, svc.Follow(ctx, anna.ID, boris.ID))
	assert.ErrorIs(t, svc.Follow(ctx, anna.ID, boris.ID), service.ErrAlreadyFollowing)

	t.Run("follow is directional", func(t *testing.T) {
		ok, err := svc.IsFollowing(ctx, anna.ID, boris.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = svc.IsFollowing(ctx, boris.ID, anna.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("followees in subscription order", func(t *testing.T) {
		vera := testhelpers.CreateTestUser(t, db, "vera")
		require.NoError(t, svc.Follow(ctx, anna.ID, vera.ID))

		users, err := svc.Followees(ctx, anna.ID)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, boris.ID, users[0].ID)
		assert.Equal(t, vera.ID, users[1].ID)
	})

	t.Run("unfollow", func(t *testing.T) {
		require.NoError(t, svc.Unfollow(ctx, anna.ID, boris.ID))
		assert.ErrorIs(t, svc.Unfollow(ctx, anna.ID, boris.ID), service.ErrNotFollowing)
	})
}

func TestMembershipSets(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRelationService(db)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, "viewer")
	author := testhelpers.CreateTestUser(t, db, "author")
	first := testhelpers.CreateTestRecipe(t, db, author.ID, "First")
	second := testhelpers.CreateTestRecipe(t, db, author.ID, "Second")

	require.NoError(t, svc.Favorite(ctx, user.ID, first.ID))
	require.NoError(t, svc.AddToCart(ctx, user.ID, second.ID))

	ids := []uuid.UUID{first.ID, second.ID}

	favorited, err := svc.FavoritedSet(ctx, user.ID, ids)
	require.NoError(t, err)
	assert.True(t, favorited[first.ID])
	assert.False(t, favorited[second.ID])

	inCart, err := svc.InCartSet(ctx, user.ID, ids)
	require.NoError(t, err)
	assert.False(t, inCart[first.ID])
	assert.True(t, inCart[second.ID])

	empty, err := svc.FavoritedSet(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
