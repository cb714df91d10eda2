package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ncb6206/SIKBOO/internal/domain"
	"github.com/ncb6206/SIKBOO/internal/dto"
	"github.com/ncb6206/SIKBOO/internal/repository"
	"github.com/ncb6206/SIKBOO/internal/utils"
)

// authService implements AuthService interface
type authService struct {
	memberRepo repository.MemberRepository
	tokenRepo  repository.TokenRepository
	jwtManager *utils.JWTManager
	logger     *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	memberRepo repository.MemberRepository,
	tokenRepo repository.TokenRepository,
	jwtManager *utils.JWTManager,
	logger *zap.Logger,
) AuthService {
	return &authService{
		memberRepo: memberRepo,
		tokenRepo:  tokenRepo,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// CompleteLogin resolves the external identity to a member row, creating one
// on first login, and opens a fresh session for it.
func (s *authService) CompleteLogin(ctx context.Context, identity domain.ExternalIdentity) (*domain.Member, *domain.TokenPair, error) {
	member, err := s.memberRepo.GetByProvider(ctx, identity.Provider, identity.ProviderID)
	if errors.Is(err, repository.ErrNotFound) {
		member = &domain.Member{
			Name:       identity.Name,
			Role:       domain.RoleUser,
			Provider:   identity.Provider,
			ProviderID: identity.ProviderID,
			Diseases:   []string{},
			Allergies:  []string{},
		}
		err = s.memberRepo.Create(ctx, member)
		if errors.Is(err, repository.ErrDuplicateMember) {
			// Lost a race against a concurrent first login for the same account.
			member, err = s.memberRepo.GetByProvider(ctx, identity.Provider, identity.ProviderID)
		}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve member: %w", err)
	}

	pair, err := s.issuePair(ctx, member)
	if err != nil {
		return nil, nil, err
	}
	return member, pair, nil
}

// Refresh rotates the presented refresh token. The chain of checks mirrors
// issuance in reverse: signature, token type, a stored session matching the
// hash, ownership, stored expiry. Any break returns ErrUnauthorized with no
// distinction for the caller.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwtManager.Verify(refreshToken)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if claims.Type != domain.TokenTypeRefresh {
		return nil, ErrUnauthorized
	}

	record, err := s.tokenRepo.GetByTokenHash(ctx, hashToken(refreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get refresh session: %w", err)
	}

	if record.MemberID != claims.MemberID {
		return nil, ErrUnauthorized
	}
	if time.Now().After(record.ExpiresAt) {
		return nil, ErrUnauthorized
	}

	member, err := s.memberRepo.GetByID(ctx, claims.MemberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return s.issuePair(ctx, member)
}

// Logout revokes every refresh session of the token's owner. An unverifiable
// token revokes nothing; either way the caller clears cookies and returns 204.
func (s *authService) Logout(ctx context.Context, refreshToken string) {
	claims, err := s.jwtManager.Verify(refreshToken)
	if err != nil || claims.Type != domain.TokenTypeRefresh {
		return
	}

	if _, err := s.tokenRepo.DeleteByMemberID(ctx, claims.MemberID); err != nil {
		s.logger.Warn("logout: failed to delete refresh session",
			zap.Int64("member_id", claims.MemberID),
			zap.Error(err),
		)
	}
}

// GetMe gets the authenticated member's identity
func (s *authService) GetMe(ctx context.Context, memberID int64) (*dto.MeResponse, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return &dto.MeResponse{
		ID:   member.ID,
		Name: member.Name,
		Role: member.Role,
	}, nil
}

// SweepExpiredTokens deletes refresh records whose stored expiry has passed.
func (s *authService) SweepExpiredTokens(ctx context.Context) (int64, error) {
	return s.tokenRepo.DeleteExpiredBefore(ctx, time.Now())
}

// issuePair mints a new access/refresh pair and rotates the stored session:
// all prior records for the member are deleted before the new one is inserted,
// so at most one refresh session exists per account.
func (s *authService) issuePair(ctx context.Context, member *domain.Member) (*domain.TokenPair, error) {
	accessToken, err := s.jwtManager.IssueAccessToken(member.ID, []string{member.Role})
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refreshToken, err := s.jwtManager.IssueRefreshToken(member.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	if _, err := s.tokenRepo.DeleteByMemberID(ctx, member.ID); err != nil {
		return nil, fmt.Errorf("failed to revoke prior sessions: %w", err)
	}

	record := &domain.RefreshToken{
		MemberID:  member.ID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: time.Now().Add(s.jwtManager.RefreshTokenExpiry()),
	}
	if err := s.tokenRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store refresh session: %w", err)
	}

	return &domain.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// hashToken hashes a token using SHA256
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
