package repository

import (
	"github.com/ncb6206/SIKBOO/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	Member     MemberRepository
	Token      TokenRepository
	Recipe     RecipeSessionRepository
	Ingredient IngredientRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		Member:     NewMemberRepository(db),
		Token:      NewTokenRepository(db),
		Recipe:     NewRecipeSessionRepository(db),
		Ingredient: NewIngredientRepository(db),
	}
}
