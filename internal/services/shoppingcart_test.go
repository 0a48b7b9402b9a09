package services

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestShoppingCartToggle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "alice@example.com", "alice")
	viewer := env.createUser(t, "bob@example.com", "bob")
	flour := env.createIngredient(t, "Flour", "g")
	recipe := env.createRecipe(t, author, "Bread", CreateRecipeInput{
		Ingredients: []IngredientAmount{{ID: flour.ID, Amount: 100}},
	})

	short, err := env.cartService.Add(ctx, viewer.ID, recipe.ID)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if short.ID != recipe.ID {
		t.Fatalf("unexpected short view: %+v", short)
	}
	if _, err := env.cartService.Add(ctx, viewer.ID, recipe.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict on duplicate cart entry, got %v", err)
	}
	if err := env.cartService.Remove(ctx, viewer.ID, recipe.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := env.cartService.Remove(ctx, viewer.ID, recipe.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict on removing absent entry, got %v", err)
	}
}

func TestRenderShoppingListAggregates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "alice@example.com", "alice")
	viewer := env.createUser(t, "bob@example.com", "bob")
	flour := env.createIngredient(t, "Flour", "g")
	salt := env.createIngredient(t, "Salt", "g")
	milk := env.createIngredient(t, "Milk", "ml")

	bread := env.createRecipe(t, author, "Bread", CreateRecipeInput{
		Ingredients: []IngredientAmount{
			{ID: flour.ID, Amount: 100},
			{ID: salt.ID, Amount: 5},
		},
	})
	porridge := env.createRecipe(t, author, "Porridge", CreateRecipeInput{
		Ingredients: []IngredientAmount{
			{ID: flour.ID, Amount: 50},
			{ID: milk.ID, Amount: 200},
		},
	})

	if _, err := env.cartService.Add(ctx, viewer.ID, bread.ID); err != nil {
		t.Fatalf("cart add failed: %v", err)
	}
	if _, err := env.cartService.Add(ctx, viewer.ID, porridge.ID); err != nil {
		t.Fatalf("cart add failed: %v", err)
	}

	text, err := env.cartService.RenderShoppingList(ctx, viewer.ID)
	if err != nil {
		t.Fatalf("RenderShoppingList failed: %v", err)
	}
	want := strings.Join([]string{
		"Список покупок:",
		strings.Repeat("=", 40),
		"• Flour: 150 g",
		"• Milk: 200 ml",
		"• Salt: 5 g",
	}, "\n")
	if text != want {
		t.Fatalf("shopping list mismatch:\ngot:\n%s\nwant:\n%s", text, want)
	}
}

func TestRenderShoppingListNameTieBreaksOnUnit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "alice@example.com", "alice")
	viewer := env.createUser(t, "bob@example.com", "bob")
	sugarGrams := env.createIngredient(t, "Sugar", "g")
	sugarCups := env.createIngredient(t, "Sugar", "cup")

	cake := env.createRecipe(t, author, "Cake", CreateRecipeInput{
		Ingredients: []IngredientAmount{
			{ID: sugarGrams.ID, Amount: 10},
			{ID: sugarCups.ID, Amount: 2},
		},
	})
	if _, err := env.cartService.Add(ctx, viewer.ID, cake.ID); err != nil {
		t.Fatalf("cart add failed: %v", err)
	}

	text, err := env.cartService.RenderShoppingList(ctx, viewer.ID)
	if err != nil {
		t.Fatalf("RenderShoppingList failed: %v", err)
	}
	want := strings.Join([]string{
		"Список покупок:",
		strings.Repeat("=", 40),
		"• Sugar: 2 cup",
		"• Sugar: 10 g",
	}, "\n")
	if text != want {
		t.Fatalf("same-name rows must order by unit:\ngot:\n%s\nwant:\n%s", text, want)
	}
}

func TestRenderShoppingListEmpty(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.createUser(t, "bob@example.com", "bob")

	text, err := env.cartService.RenderShoppingList(context.Background(), viewer.ID)
	if err != nil {
		t.Fatalf("RenderShoppingList failed: %v", err)
	}
	want := strings.Join([]string{
		"Список покупок:",
		strings.Repeat("=", 40),
		"Корзина пуста!",
	}, "\n")
	if text != want {
		t.Fatalf("empty shopping list mismatch:\ngot:\n%s\nwant:\n%s", text, want)
	}
}

func TestShoppingListOnlyOwnCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "alice@example.com", "alice")
	bob := env.createUser(t, "bob@example.com", "bob")
	carol := env.createUser(t, "carol@example.com", "carol")
	flour := env.createIngredient(t, "Flour", "g")
	bread := env.createRecipe(t, author, "Bread", CreateRecipeInput{
		Ingredients: []IngredientAmount{{ID: flour.ID, Amount: 100}},
	})

	if _, err := env.cartService.Add(ctx, bob.ID, bread.ID); err != nil {
		t.Fatalf("cart add failed: %v", err)
	}

	text, err := env.cartService.RenderShoppingList(ctx, carol.ID)
	if err != nil {
		t.Fatalf("RenderShoppingList failed: %v", err)
	}
	if !strings.Contains(text, "Корзина пуста!") {
		t.Fatalf("carol's list must be empty, got:\n%s", text)
	}
}
