package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feastly/feastly-backend/internal/logger"
	"github.com/feastly/feastly-backend/internal/types"
	"github.com/feastly/feastly-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "feastly", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Subscription{},
		&types.Tag{},
		&types.Ingredient{},
		&types.Recipe{},
		&types.RecipeIngredient{},
		&types.Favorite{},
		&types.ShoppingCartEntry{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring constraints for postgres tables...")
	constraints := []struct {
		table string
		name  string
		ddl   string
	}{
		{"user_token", "fk_user_token_user_id",
			`FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE`},
		{"subscription", "fk_subscription_user_id",
			`FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE`},
		{"subscription", "fk_subscription_author_id",
			`FOREIGN KEY ("author_id") REFERENCES "user"("id") ON DELETE CASCADE`},
		{"subscription", "chk_subscription_not_self",
			`CHECK ("user_id" <> "author_id")`},
		{"recipe", "fk_recipe_author_id",
			`FOREIGN KEY ("author_id") REFERENCES "user"("id") ON DELETE CASCADE`},
		{"recipe_ingredient", "fk_recipe_ingredient_recipe_id",
			`FOREIGN KEY ("recipe_id") REFERENCES "recipe"("id") ON DELETE CASCADE`},
		{"recipe_ingredient", "fk_recipe_ingredient_ingredient_id",
			`FOREIGN KEY ("ingredient_id") REFERENCES "ingredient"("id") ON DELETE CASCADE`},
		{"recipe_ingredient", "chk_recipe_ingredient_amount",
			`CHECK ("amount" >= 1)`},
		{"recipe", "chk_recipe_cooking_time",
			`CHECK ("cooking_time" >= 1)`},
		{"favorite", "fk_favorite_user_id",
			`FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE`},
		{"favorite", "fk_favorite_recipe_id",
			`FOREIGN KEY ("recipe_id") REFERENCES "recipe"("id") ON DELETE CASCADE`},
		{"shopping_cart_entry", "fk_shopping_cart_entry_user_id",
			`FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE`},
		{"shopping_cart_entry", "fk_shopping_cart_entry_recipe_id",
			`FOREIGN KEY ("recipe_id") REFERENCES "recipe"("id") ON DELETE CASCADE`},
	}
	for _, c := range constraints {
		drop := fmt.Sprintf(`ALTER TABLE "%s" DROP CONSTRAINT IF EXISTS "%s"`, c.table, c.name)
		if err := s.db.Exec(drop).Error; err != nil {
			return fmt.Errorf("failed to drop constraint %s: %w", c.name, err)
		}
		add := fmt.Sprintf(`ALTER TABLE "%s" ADD CONSTRAINT "%s" %s`, c.table, c.name, c.ddl)
		if err := s.db.Exec(add).Error; err != nil {
			return fmt.Errorf("failed to add constraint %s: %w", c.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
