package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ncb6206/SIKBOO/internal/domain"
	"github.com/ncb6206/SIKBOO/internal/dto"
	"github.com/ncb6206/SIKBOO/internal/repository"
)

// memberService implements MemberService interface
type memberService struct {
	memberRepo repository.MemberRepository
}

// NewMemberService creates a new member service
func NewMemberService(memberRepo repository.MemberRepository) MemberService {
	return &memberService{memberRepo: memberRepo}
}

func (s *memberService) GetProfile(ctx context.Context, memberID int64) (*dto.ProfileResponse, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return profileResponse(member), nil
}

// UpdateProfile applies the non-nil fields and returns the updated profile.
func (s *memberService) UpdateProfile(ctx context.Context, memberID int64, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	if req.Name != nil {
		member.Name = *req.Name
	}
	if req.Diseases != nil {
		member.Diseases = *req.Diseases
	}
	if req.Allergies != nil {
		member.Allergies = *req.Allergies
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	return profileResponse(member), nil
}

// CompleteOnboarding stores the first-login health constraints and marks the
// member as onboarded. Calling it again simply overwrites the constraints.
func (s *memberService) CompleteOnboarding(ctx context.Context, memberID int64, req *dto.OnboardingRequest) (*dto.ProfileResponse, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	member.Diseases = req.Diseases
	member.Allergies = req.Allergies
	member.Onboarded = true
	if member.Diseases == nil {
		member.Diseases = []string{}
	}
	if member.Allergies == nil {
		member.Allergies = []string{}
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	return profileResponse(member), nil
}

func profileResponse(member *domain.Member) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		ID:        member.ID,
		Name:      member.Name,
		Diseases:  member.Diseases,
		Allergies: member.Allergies,
		Onboarded: member.Onboarded,
	}
}
