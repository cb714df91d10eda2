package repository

import (
	"context"
	"time"

	"github.com/ncb6206/SIKBOO/internal/domain"
)

// MemberRepository defines methods for member operations
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id int64) (*domain.Member, error)
	GetByProvider(ctx context.Context, provider, providerID string) (*domain.Member, error)
	Update(ctx context.Context, member *domain.Member) error
}

// TokenRepository defines methods for refresh token operations
type TokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	DeleteByMemberID(ctx context.Context, memberID int64) (int64, error)
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RecipeSessionRepository defines methods for generation session operations
type RecipeSessionRepository interface {
	Create(ctx context.Context, session *domain.RecipeSession) error
	GetByID(ctx context.Context, id int64) (*domain.RecipeSession, error)
	ListByMemberID(ctx context.Context, memberID int64) ([]*domain.RecipeSession, error)
	MaxDisplayOrder(ctx context.Context, memberID int64) (int64, error)
	UpdateResult(ctx context.Context, id int64, title, detail string) error
	UpdateTitle(ctx context.Context, id int64, title string) error
	Reorder(ctx context.Context, memberID int64, rankedIDs []int64) error
	Delete(ctx context.Context, id int64) error
}

// IngredientRepository defines methods for inventory operations
type IngredientRepository interface {
	Create(ctx context.Context, ingredient *domain.Ingredient) error
	GetByID(ctx context.Context, id int64) (*domain.Ingredient, error)
	ListByMemberID(ctx context.Context, memberID int64, limit, offset int) ([]*domain.Ingredient, error)
	ListNamesByMemberID(ctx context.Context, memberID int64) ([]*domain.Ingredient, error)
	NamesByIDs(ctx context.Context, memberID int64, ids []int64) ([]string, error)
	Update(ctx context.Context, ingredient *domain.Ingredient) error
	Delete(ctx context.Context, id int64) error
}
