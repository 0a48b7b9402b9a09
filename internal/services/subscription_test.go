package services

import (
	"context"
	"errors"
	"testing"
)

func TestSubscribeToggle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	follower := env.createUser(t, "bob@example.com", "bob")
	author := env.createUser(t, "alice@example.com", "alice")

	view, err := env.subService.Subscribe(ctx, follower.ID, author.ID, 0)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if view.ID != author.ID || !view.IsSubscribed {
		t.Fatalf("unexpected author view: %+v", view)
	}
	if _, err := env.subService.Subscribe(ctx, follower.ID, author.ID, 0); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict on duplicate subscribe, got %v", err)
	}
	if err := env.subService.Unsubscribe(ctx, follower.ID, author.ID); err != nil {
		t.Fatalf("Unsubscribe failed: %v", err)
	}
	if err := env.subService.Unsubscribe(ctx, follower.ID, author.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict on unsubscribing while not subscribed, got %v", err)
	}
}

func TestSubscribeToSelfRejected(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", "alice")

	if _, err := env.subService.Subscribe(context.Background(), user.ID, user.ID, 0); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for self-subscription, got %v", err)
	}
}

func TestSubscribeToMissingUser(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", "alice")

	if _, err := env.subService.Subscribe(context.Background(), user.ID, 9999, 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := env.subService.Unsubscribe(context.Background(), user.ID, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListSubscriptionsRecipesLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	follower := env.createUser(t, "bob@example.com", "bob")
	author := env.createUser(t, "alice@example.com", "alice")
	flour := env.createIngredient(t, "Flour", "g")
	for _, name := range []string{"Bread", "Buns", "Bagels"} {
		env.createRecipe(t, author, name, CreateRecipeInput{
			Ingredients: []IngredientAmount{{ID: flour.ID, Amount: 100}},
		})
	}
	if _, err := env.subService.Subscribe(ctx, follower.ID, author.ID, 0); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	views, total, err := env.subService.ListSubscriptions(ctx, follower.ID, 0, 10, 2)
	if err != nil {
		t.Fatalf("ListSubscriptions failed: %v", err)
	}
	if total != 1 || len(views) != 1 {
		t.Fatalf("expected 1 followed author, got total=%d len=%d", total, len(views))
	}
	if views[0].RecipesCount != 3 {
		t.Fatalf("recipes_count must reflect the full count, got %d", views[0].RecipesCount)
	}
	if len(views[0].Recipes) != 2 {
		t.Fatalf("expected recipe list truncated to 2, got %d", len(views[0].Recipes))
	}

	// a non-positive limit disables truncation
	views, _, err = env.subService.ListSubscriptions(ctx, follower.ID, 0, 10, 0)
	if err != nil {
		t.Fatalf("ListSubscriptions without limit failed: %v", err)
	}
	if len(views[0].Recipes) != 3 {
		t.Fatalf("expected all 3 recipes, got %d", len(views[0].Recipes))
	}
}

func TestListSubscriptionsEmpty(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "bob@example.com", "bob")

	views, total, err := env.subService.ListSubscriptions(context.Background(), user.ID, 0, 10, 0)
	if err != nil {
		t.Fatalf("ListSubscriptions failed: %v", err)
	}
	if total != 0 || len(views) != 0 {
		t.Fatalf("expected empty subscription list, got total=%d len=%d", total, len(views))
	}
}
