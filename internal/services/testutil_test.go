package services

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/feastly/feastly-backend/internal/logger"
	"github.com/feastly/feastly-backend/internal/repos"
	"github.com/feastly/feastly-backend/internal/types"
)

// testEnv wires the full service stack over an in-memory database so
// tests exercise the real repos and transaction paths.
type testEnv struct {
	db            *gorm.DB
	users         repos.UserRepo
	tokens        repos.UserTokenRepo
	tags          repos.TagRepo
	ingredients   repos.IngredientRepo
	recipes       repos.RecipeRepo
	recipeIngs    repos.RecipeIngredientRepo
	favorites     repos.FavoriteRepo
	carts         repos.ShoppingCartRepo
	subscriptions repos.SubscriptionRepo

	auth          AuthService
	userService   UserService
	tagService    TagService
	ingService    IngredientService
	recipeService RecipeService
	favService    FavoriteService
	cartService   ShoppingCartService
	subService    SubscriptionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log, err := logger.New("production")
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Subscription{},
		&types.Tag{},
		&types.Ingredient{},
		&types.Recipe{},
		&types.RecipeIngredient{},
		&types.Favorite{},
		&types.ShoppingCartEntry{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	media, err := NewMediaService(log, t.TempDir())
	if err != nil {
		t.Fatalf("failed to init media service: %v", err)
	}

	env := &testEnv{db: db}
	env.users = repos.NewUserRepo(db, log)
	env.tokens = repos.NewUserTokenRepo(db, log)
	env.tags = repos.NewTagRepo(db, log)
	env.ingredients = repos.NewIngredientRepo(db, log)
	env.recipes = repos.NewRecipeRepo(db, log)
	env.recipeIngs = repos.NewRecipeIngredientRepo(db, log)
	env.favorites = repos.NewFavoriteRepo(db, log)
	env.carts = repos.NewShoppingCartRepo(db, log)
	env.subscriptions = repos.NewSubscriptionRepo(db, log)

	env.auth = NewAuthService(db, log, env.users, env.tokens, "test-secret", time.Hour, 24*time.Hour)
	env.userService = NewUserService(db, log, env.users, env.subscriptions, media)
	env.tagService = NewTagService(db, log, env.tags)
	env.ingService = NewIngredientService(db, log, env.ingredients)
	env.recipeService = NewRecipeService(
		db, log,
		env.recipes, env.ingredients, env.tags, env.recipeIngs,
		env.favorites, env.carts, env.subscriptions,
		media, "http://localhost:8080",
	)
	env.favService = NewFavoriteService(db, log, env.recipes, env.favorites)
	env.cartService = NewShoppingCartService(db, log, env.recipes, env.carts, env.recipeIngs)
	env.subService = NewSubscriptionService(db, log, env.users, env.recipes, env.subscriptions)
	return env
}

func (env *testEnv) createUser(t *testing.T, email, username string) *types.User {
	t.Helper()
	user, err := env.auth.RegisterUser(context.Background(), &types.User{
		Email:     email,
		Username:  username,
		Password:  "Sup3rSecret!",
		FirstName: "Test",
		LastName:  "User",
	})
	if err != nil {
		t.Fatalf("failed to register %s: %v", username, err)
	}
	return user
}

func (env *testEnv) createTag(t *testing.T, name, slug string) *types.Tag {
	t.Helper()
	tag := &types.Tag{Name: name, Color: "#00ff00", Slug: slug}
	if err := env.db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create tag %s: %v", slug, err)
	}
	return tag
}

func (env *testEnv) createIngredient(t *testing.T, name, unit string) *types.Ingredient {
	t.Helper()
	ingredient := &types.Ingredient{Name: name, MeasurementUnit: unit}
	if err := env.db.Create(ingredient).Error; err != nil {
		t.Fatalf("failed to create ingredient %s: %v", name, err)
	}
	return ingredient
}

func testMediaLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("production")
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	return log
}

func testImageDataURI() string {
	payload := base64.StdEncoding.EncodeToString([]byte("not a real png"))
	return "data:image/png;base64," + payload
}

func (env *testEnv) createRecipe(t *testing.T, author *types.User, name string, input CreateRecipeInput) *RecipeView {
	t.Helper()
	if input.Name == "" {
		input.Name = name
	}
	if input.Image == "" {
		input.Image = testImageDataURI()
	}
	if input.Text == "" {
		input.Text = "cook it"
	}
	if input.CookingTime == 0 {
		input.CookingTime = 15
	}
	view, err := env.recipeService.Create(context.Background(), author.ID, input)
	if err != nil {
		t.Fatalf("failed to create recipe %s: %v", name, err)
	}
	return view
}

func (env *testEnv) countRows(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := env.db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}
