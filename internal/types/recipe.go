package types

import (
	"time"
)

type Recipe struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AuthorID    uint      `gorm:"not null;index;column:author_id" json:"author_id"`
	Name        string    `gorm:"size:200;not null;column:name" json:"name"`
	Image       string    `gorm:"not null;column:image" json:"image"`
	Text        string    `gorm:"not null;column:text" json:"text"`
	CookingTime int       `gorm:"not null;column:cooking_time" json:"cooking_time"`
	PubDate     time.Time `gorm:"not null;autoCreateTime;index;column:pub_date" json:"pub_date"`

	Author            User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Tags              []Tag              `gorm:"many2many:recipe_tag" json:"-"`
	RecipeIngredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"-"`
}

func (Recipe) TableName() string {
	return "recipe"
}

// RecipeIngredient joins a recipe to one ingredient with its amount.
// A recipe cannot list the same ingredient twice.
type RecipeIngredient struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	RecipeID     uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient_pair;column:recipe_id" json:"recipe_id"`
	IngredientID uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient_pair;column:ingredient_id" json:"ingredient_id"`
	Amount       int  `gorm:"not null;column:amount" json:"amount"`

	Ingredient Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"-"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredient"
}
