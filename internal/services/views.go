package services

import (
	"sort"

	"github.com/feastly/feastly-backend/internal/types"
)

// UserView is the user representation with the viewer-dependent
// is_subscribed flag. The flag is derived at read time from the
// subscription edge, never stored.
type UserView struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Avatar       string `json:"avatar"`
	IsSubscribed bool   `json:"is_subscribed"`
}

type RecipeIngredientView struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeView is the full read shape of a recipe.
type RecipeView struct {
	ID                uint                   `json:"id"`
	Author            UserView               `json:"author"`
	Ingredients       []RecipeIngredientView `json:"ingredients"`
	Tags              []*types.Tag           `json:"tags"`
	IsFavorited       bool                   `json:"is_favorited"`
	IsInShoppingCart  bool                   `json:"is_in_shopping_cart"`
	Name              string                 `json:"name"`
	Image             string                 `json:"image"`
	Text              string                 `json:"text"`
	CookingTime       int                    `json:"cooking_time"`
}

// RecipeShortView is the minimal shape returned by the favorite and
// shopping cart toggles and embedded in subscription listings.
type RecipeShortView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// AuthorWithRecipesView is the subscription-listing shape: the author,
// their live recipe count and a possibly truncated list of recipes.
type AuthorWithRecipesView struct {
	UserView
	RecipesCount int64             `json:"recipes_count"`
	Recipes      []RecipeShortView `json:"recipes"`
}

func mapUserView(user *types.User, isSubscribed bool) UserView {
	return UserView{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Avatar:       user.Avatar,
		IsSubscribed: isSubscribed,
	}
}

func mapRecipeShortView(recipe *types.Recipe) RecipeShortView {
	return RecipeShortView{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}

func mapRecipeView(recipe *types.Recipe, authorSubscribed, favorited, inCart bool) RecipeView {
	ingredients := make([]RecipeIngredientView, 0, len(recipe.RecipeIngredients))
	for _, ri := range recipe.RecipeIngredients {
		ingredients = append(ingredients, RecipeIngredientView{
			ID:              ri.IngredientID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		})
	}
	tags := make([]*types.Tag, 0, len(recipe.Tags))
	for i := range recipe.Tags {
		tags = append(tags, &recipe.Tags[i])
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })
	return RecipeView{
		ID:               recipe.ID,
		Author:           mapUserView(&recipe.Author, authorSubscribed),
		Ingredients:      ingredients,
		Tags:             tags,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Name:             recipe.Name,
		Image:            recipe.Image,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}
}

func idSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
