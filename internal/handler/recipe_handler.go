package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ncb6206/SIKBOO/internal/dto"
	"github.com/ncb6206/SIKBOO/internal/service"
)

// RecipeHandler handles generation session requests
type RecipeHandler struct {
	recipeService service.RecipeService
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(recipeService service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

// Generate starts a generation session and returns the placeholder row.
func (h *RecipeHandler) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.recipeService.Generate(c.Request.Context(), MemberID(c), req.IngredientIDs)
	if err != nil {
		h.writeError(c, err, "Failed to start generation")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListSessions returns the member's sessions in display order.
func (h *RecipeHandler) ListSessions(c *gin.Context) {
	sessions, err := h.recipeService.ListSessions(c.Request.Context(), MemberID(c))
	if err != nil {
		h.writeError(c, err, "Failed to list sessions")
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// SessionDetail returns one session with its stored payload.
func (h *RecipeHandler) SessionDetail(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	detail, err := h.recipeService.SessionDetail(c.Request.Context(), MemberID(c), id)
	if err != nil {
		h.writeError(c, err, "Failed to load session")
		return
	}

	c.JSON(http.StatusOK, detail)
}

// RenameSession updates a session title.
func (h *RecipeHandler) RenameSession(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req dto.RenameSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	if err := h.recipeService.RenameSession(c.Request.Context(), MemberID(c), id, req.Title); err != nil {
		h.writeError(c, err, "Failed to rename session")
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteSession removes a session.
func (h *RecipeHandler) DeleteSession(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	if err := h.recipeService.DeleteSession(c.Request.Context(), MemberID(c), id); err != nil {
		h.writeError(c, err, "Failed to delete session")
		return
	}

	c.Status(http.StatusNoContent)
}

// Reorder reassigns display ranks from the given id order.
func (h *RecipeHandler) Reorder(c *gin.Context) {
	var req dto.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	if err := h.recipeService.ReorderSessions(c.Request.Context(), MemberID(c), req.OrderedIDs); err != nil {
		h.writeError(c, err, "Failed to reorder sessions")
		return
	}

	c.Status(http.StatusNoContent)
}

// LastSelection returns the member's most recent ingredient selection.
func (h *RecipeHandler) LastSelection(c *gin.Context) {
	ids, err := h.recipeService.LastSelection(c.Request.Context(), MemberID(c))
	if err != nil {
		h.writeError(c, err, "Failed to load selection")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ingredientIds": ids})
}

func (h *RecipeHandler) sessionID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: "Invalid session id",
		})
		return 0, false
	}
	return id, true
}

func (h *RecipeHandler) writeError(c *gin.Context, err error, fallback string) {
	switch err {
	case service.ErrNotFound:
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "Not found",
			Message: "Session not found",
		})
	case service.ErrForbidden:
		c.JSON(http.StatusForbidden, dto.ErrorResponse{
			Error:   "Forbidden",
			Message: "Session belongs to another member",
		})
	case service.ErrUnauthorized:
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "Unknown member",
		})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal server error",
			Message: fallback,
		})
	}
}
