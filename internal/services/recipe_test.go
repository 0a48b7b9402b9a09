package services

import (
	"context"
	"errors"
	"testing"

	"github.com/feastly/feastly-backend/internal/types"
)

func TestCreateRecipeWithIngredientsAndTags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "alice@example.com", "alice")
	flour := env.createIngredient(t, "Flour", "g")
	milk := env.createIngredient(t, "Milk", "ml")
	breakfast := env.createTag(t, "Breakfast", "breakfast")

	view, err := env.recipeService.Create(ctx, author.ID, CreateRecipeInput{
		Ingredients: []IngredientAmount{
			{ID: flour.ID, Amount: 100},
			{ID: milk.ID, Amount: 200},
		},
		Tags:        []uint{breakfast.ID},
		Image:       testImageDataURI(),
		Name:        "Pancakes",
		Text:        "mix and fry",
		CookingTime: 20,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if view.Author.ID != author.ID {
		t.Fatalf("author id = %d, want %d", view.Author.ID, author.ID)
	}
	if len(view.Ingredients) != 2 {
		t.Fatalf("expected 2 ingredients, got %d", len(view.Ingredients))
	}
	if len(view.Tags) != 1 || view.Tags[0].Slug != "breakfast" {
		t.Fatalf("unexpected tags: %+v", view.Tags)
	}
	if view.Image == "" || view.Image == testImageDataURI() {
		t.Fatalf("image must be stored and replaced with a path, got %q", view.Image)
	}
	if view.IsFavorited || view.IsInShoppingCart {
		t.Fatalf("fresh recipe must not be favorited or in cart")
	}
}

func TestCreateRecipeValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "alice@example.com", "alice")
	flour := env.createIngredient(t, "Flour", "g")

	valid := CreateRecipeInput{
		Ingredients: []IngredientAmount{{ID: flour.ID, Amount: 100}},
		Image:       testImageDataURI(),
		Name:        "Bread",
		Text:        "bake",
		CookingTime: 60,
	}

	cases := []struct {
		name   string
		mutate func(in *CreateRecipeInput)
	}{
		{"no ingredients", func(in *CreateRecipeInput) { in.Ingredients = nil }},
		{"duplicate ingredient", func(in *CreateRecipeInput) {
			in.Ingredients = []IngredientAmount{
				{ID: flour.ID, Amount: 100},
				{ID: flour.ID, Amount: 50},
			}
		}},
		{"unknown ingredient", func(in *CreateRecipeInput) {
			in.Ingredients = []IngredientAmount{{ID: 9999, Amount: 100}}
		}},
		{"zero amount", func(in *CreateRecipeInput) {
			in.Ingredients = []IngredientAmount{{ID: flour.ID, Amount: 0}}
		}},
		{"unknown tag", func(in *CreateRecipeInput) { in.Tags = []uint{9999} }},
		{"duplicate tag", func(in *CreateRecipeInput) {
			tag := env.createTag(t, "Dinner", "dinner")
			in.Tags = []uint{tag.ID, tag.ID}
		}},
		{"zero cooking time", func(in *CreateRecipeInput) { in.CookingTime = 0 }},
		{"missing name", func(in *CreateRecipeInput) { in.Name = "" }},
		{"bad image payload", func(in *CreateRecipeInput) { in.Image = "plain text" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := valid
			tc.mutate(&input)
			_, err := env.recipeService.Create(ctx, author.ID, input)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	// none of the rejected writes may leave a recipe behind
	if n := env.countRows(t, &types.Recipe{}); n != 0 {
		t.Fatalf("expected 0 persisted recipes after failed creates, got %d", n)
	}
	if n := env.countRows(t, &types.RecipeIngredient{}); n != 0 {
		t.Fatalf("expected 0 persisted recipe ingredients, got %d", n)
	}
}

func TestUpdateRecipeTagSemantics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "alice@example.com", "alice")
	flour := env.createIngredient(t, "Flour", "g")
	breakfast := env.createTag(t, "Breakfast", "breakfast")

	created := env.createRecipe(t, author, "Pancakes", CreateRecipeInput{
		Ingredients: []IngredientAmount{{ID: flour.ID, Amount: 100}},
		Tags:        []uint{breakfast.ID},
	})

	// omitting tags leaves them untouched
	newName := "Thin pancakes"
	updated, err := env.recipeService.Update(ctx, author.ID, created.ID, UpdateRecipeInput{Name: &newName})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != newName {
		t.Fatalf("name = %q, want %q", updated.Name, newName)
	}
	if len(updated.Tags) != 1 {
		t.Fatalf("tags must survive an update that omits them, got %d", len(updated.Tags))
	}

	// an explicit empty list clears them
	empty := []uint{}
	updated, err = env.recipeService.Update(ctx, author.ID, created.ID, UpdateRecipeInput{Tags: &empty})
	if err != nil {
		t.Fatalf("Update with empty tags failed: %v", err)
	}
	if len(updated.Tags) != 0 {
		t.Fatalf("expected tags cleared, got %d", len(updated.Tags))
	}
}

func TestUpdateRecipeIngredientsReplaced(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "alice@example.com", "alice")
	flour := env.createIngredient(t, "Flour", "g")
	milk := env.createIngredient(t, "Milk", "ml")

	created := env.createRecipe(t, author, "Bread", CreateRecipeInput{
		Ingredients: []IngredientAmount{{ID: flour.ID, Amount: 100}},
	})

	updated, err := env.recipeService.Update(ctx, author.ID, created.ID, UpdateRecipeInput{
		Ingredients: []IngredientAmount{{ID: milk.ID, Amount: 250}},
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if len(updated.Ingredients) != 1 || updated.Ingredients[0].ID != milk.ID {
		t.Fatalf("expected ingredient set replaced with milk, got %+v", updated.Ingredients)
	}
	if n := env.countRows(t, &types.RecipeIngredient{}); n != 1 {
		t.Fatalf("expected exactly 1 recipe ingredient row, got %d", n)
	}
}

func TestUpdateRecipeAuthorOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "alice@example.com", "alice")
	other := env.createUser(t, "bob@example.com", "bob")
	flour := env.createIngredient(t, "Flour", "g")
	created := env.createRecipe(t, author, "Bread", CreateRecipeInput{
		Ingredients: []IngredientAmount{{ID: flour.ID, Amount: 100}},
	})

	name := "Stolen bread"
	if _, err := env.recipeService.Update(ctx, other.ID, created.ID, UpdateRecipeInput{Name: &name}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden for non-author update, got %v", err)
	}
	if err := env.recipeService.Delete(ctx, other.ID, created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden for non-author delete, got %v", err)
	}
	if err := env.recipeService.Delete(ctx, author.ID, created.ID); err != nil {
		t.Fatalf("author delete failed: %v", err)
	}
	if _, err := env.recipeService.Get(ctx, 0, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if n := env.countRows(t, &types.RecipeIngredient{}); n != 0 {
		t.Fatalf("ingredient rows must go with the recipe, got %d", n)
	}
}

func TestRecipeViewerFlags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "alice@example.com", "alice")
	viewer := env.createUser(t, "bob@example.com", "bob")
	flour := env.createIngredient(t, "Flour", "g")
	created := env.createRecipe(t, author, "Bread", CreateRecipeInput{
		Ingredients: []IngredientAmount{{ID: flour.ID, Amount: 100}},
	})

	if _, err := env.favService.Add(ctx, viewer.ID, created.ID); err != nil {
		t.Fatalf("favorite failed: %v", err)
	}
	if _, err := env.subService.Subscribe(ctx, viewer.ID, author.ID, 0); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	view, err := env.recipeService.Get(ctx, viewer.ID, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !view.IsFavorited {
		t.Fatalf("expected is_favorited for viewer")
	}
	if view.IsInShoppingCart {
		t.Fatalf("did not expect is_in_shopping_cart")
	}
	if !view.Author.IsSubscribed {
		t.Fatalf("expected author to be marked subscribed for viewer")
	}

	// anonymous viewers always see false flags
	anon, err := env.recipeService.Get(ctx, 0, created.ID)
	if err != nil {
		t.Fatalf("anonymous Get failed: %v", err)
	}
	if anon.IsFavorited || anon.IsInShoppingCart || anon.Author.IsSubscribed {
		t.Fatalf("anonymous flags must be false, got %+v", anon)
	}
}

func TestRecipeListMembershipFiltersIgnoredForAnonymous(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "alice@example.com", "alice")
	flour := env.createIngredient(t, "Flour", "g")
	env.createRecipe(t, author, "Bread", CreateRecipeInput{
		Ingredients: []IngredientAmount{{ID: flour.ID, Amount: 100}},
	})

	favorited := true
	views, total, err := env.recipeService.List(ctx, 0, RecipeListFilter{IsFavorited: &favorited}, 0, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || len(views) != 1 {
		t.Fatalf("membership filter must be a no-op for anonymous viewers, got total=%d", total)
	}
}

func TestRecipeGetLink(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "alice@example.com", "alice")
	flour := env.createIngredient(t, "Flour", "g")
	created := env.createRecipe(t, author, "Bread", CreateRecipeInput{
		Ingredients: []IngredientAmount{{ID: flour.ID, Amount: 100}},
	})

	link, err := env.recipeService.GetLink(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetLink failed: %v", err)
	}
	if link == "" {
		t.Fatalf("expected non-empty link")
	}

	if _, err := env.recipeService.GetLink(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for missing recipe, got %v", err)
	}
}
