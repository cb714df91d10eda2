package service

import (
	"context"

	"github.com/ncb6206/SIKBOO/internal/domain"
	"github.com/ncb6206/SIKBOO/internal/dto"
)

// AuthService defines methods for session lifecycle operations
type AuthService interface {
	// CompleteLogin upserts the member matching an external identity and
	// issues a fresh token pair, replacing any prior refresh session.
	CompleteLogin(ctx context.Context, identity domain.ExternalIdentity) (*domain.Member, *domain.TokenPair, error)
	// Refresh rotates the presented refresh token into a new pair. Every
	// failure mode collapses to ErrUnauthorized.
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	// Logout revokes the member's refresh session. Best-effort: it never
	// fails, an unverifiable token simply revokes nothing.
	Logout(ctx context.Context, refreshToken string)
	GetMe(ctx context.Context, memberID int64) (*dto.MeResponse, error)
	// SweepExpiredTokens deletes refresh records past their expiry.
	SweepExpiredTokens(ctx context.Context) (int64, error)
}

// MemberService defines methods for profile and onboarding operations
type MemberService interface {
	GetProfile(ctx context.Context, memberID int64) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, memberID int64, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	CompleteOnboarding(ctx context.Context, memberID int64, req *dto.OnboardingRequest) (*dto.ProfileResponse, error)
}

// IngredientService defines methods for inventory operations
type IngredientService interface {
	Create(ctx context.Context, memberID int64, req *dto.CreateIngredientRequest) (*dto.IngredientResponse, error)
	List(ctx context.Context, memberID int64, page, size int) ([]dto.IngredientResponse, error)
	MyIngredients(ctx context.Context, memberID int64) ([]dto.IngredientNameResponse, error)
	Update(ctx context.Context, memberID, id int64, req *dto.UpdateIngredientRequest) (*dto.IngredientResponse, error)
	Delete(ctx context.Context, memberID, id int64) error
}

// RecipeService defines methods for generation session operations
type RecipeService interface {
	// Generate creates a placeholder session, enqueues the background job
	// and returns immediately.
	Generate(ctx context.Context, memberID int64, ingredientIDs []int64) (*dto.GenerateResponse, error)
	ListSessions(ctx context.Context, memberID int64) ([]dto.SessionSummary, error)
	SessionDetail(ctx context.Context, memberID, sessionID int64) (*dto.SessionDetail, error)
	RenameSession(ctx context.Context, memberID, sessionID int64, title string) error
	DeleteSession(ctx context.Context, memberID, sessionID int64) error
	ReorderSessions(ctx context.Context, memberID int64, orderedIDs []int64) error
	// LastSelection returns the member's most recent ingredient selection.
	LastSelection(ctx context.Context, memberID int64) ([]int64, error)
	// Shutdown stops accepting jobs and waits for in-flight generations.
	Shutdown()
}
