package acceptance

import (
	"encoding/json"
	"net/http"

	"github.com/ncb6206/SIKBOO/internal/dto"
)

func (s *Suite) TestProfile_OnboardingFlow() {
	memberID := s.createMember("newcomer")
	accessToken, _ := s.openSession(memberID)

	// Fresh members start not onboarded.
	resp := s.authedRequest(http.MethodGet, "/api/members/me", accessToken, nil)
	var profile dto.ProfileResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&profile))
	resp.Body.Close()
	s.False(profile.Onboarded)
	s.Empty(profile.Diseases)

	onboard := s.authedRequest(http.MethodPost, "/api/members/me/onboarding", accessToken, dto.OnboardingRequest{
		Diseases:  []string{"당뇨"},
		Allergies: []string{"갑각류"},
	})
	defer onboard.Body.Close()
	s.Equal(http.StatusOK, onboard.StatusCode)

	var onboarded dto.ProfileResponse
	s.Require().NoError(json.NewDecoder(onboard.Body).Decode(&onboarded))
	s.True(onboarded.Onboarded)
	s.Equal([]string{"당뇨"}, onboarded.Diseases)
	s.Equal([]string{"갑각류"}, onboarded.Allergies)
}

func (s *Suite) TestProfile_PartialUpdate() {
	memberID := s.createMember("renamer")
	accessToken, _ := s.openSession(memberID)

	name := "새이름"
	resp := s.authedRequest(http.MethodPatch, "/api/members/me", accessToken, dto.UpdateProfileRequest{
		Name: &name,
	})
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var profile dto.ProfileResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&profile))
	s.Equal("새이름", profile.Name)
}
