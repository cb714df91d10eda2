package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncb6206/SIKBOO/internal/dto"
	"github.com/ncb6206/SIKBOO/internal/service"
)

// MemberHandler handles profile and onboarding requests
type MemberHandler struct {
	memberService service.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// Profile returns the member profile including health constraints.
func (h *MemberHandler) Profile(c *gin.Context) {
	profile, err := h.memberService.GetProfile(c.Request.Context(), MemberID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile applies a partial profile update.
func (h *MemberHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	profile, err := h.memberService.UpdateProfile(c.Request.Context(), MemberID(c), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// CompleteOnboarding stores first-login health constraints.
func (h *MemberHandler) CompleteOnboarding(c *gin.Context) {
	var req dto.OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	profile, err := h.memberService.CompleteOnboarding(c.Request.Context(), MemberID(c), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *MemberHandler) writeError(c *gin.Context, err error) {
	if err == service.ErrUnauthorized {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "Unknown member",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error:   "Internal server error",
		Message: "Failed to process profile",
	})
}
