package service

import "errors"

// Sentinel errors surfaced by the service layer. Handlers map these to HTTP
// statuses: validation and conflict errors to 400, missing rows to 404,
// permission problems to 403.
var (
	ErrUserExists        = errors.New("user with this email or username already exists")
	ErrUsernameForbidden = errors.New(`username "me" is not allowed`)
	ErrWrongCredentials  = errors.New("invalid credentials")
	ErrWrongPassword     = errors.New("current password is incorrect")

	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrNotAuthor          = errors.New("only the author can modify a recipe")

	ErrDuplicateIngredient   = errors.New("duplicate ingredient in request")
	ErrAmountOutOfRange      = errors.New("ingredient amount must be between 1 and 5000")
	ErrCookingTimeOutOfRange = errors.New("cooking time must be between 1 and 500 minutes")

	ErrAlreadyFavorited = errors.New("recipe is already favorited")
	ErrNotFavorited     = errors.New("recipe is not favorited")
	ErrAlreadyInCart    = errors.New("recipe is already in the shopping cart")
	ErrNotInCart        = errors.New("recipe is not in the shopping cart")

	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")
)
