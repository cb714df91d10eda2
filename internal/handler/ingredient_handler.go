package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ncb6206/SIKBOO/internal/dto"
	"github.com/ncb6206/SIKBOO/internal/service"
)

// IngredientHandler handles inventory requests
type IngredientHandler struct {
	ingredientService service.IngredientService
}

// NewIngredientHandler creates a new ingredient handler
func NewIngredientHandler(ingredientService service.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredientService: ingredientService}
}

// Create registers one inventory entry; a missing expiry date is estimated
// from the category's shelf life.
func (h *IngredientHandler) Create(c *gin.Context) {
	var req dto.CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.ingredientService.Create(c.Request.Context(), MemberID(c), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// List returns one page of the member's inventory, newest first.
func (h *IngredientHandler) List(c *gin.Context) {
	page, ok := h.queryInt(c, "page", 1)
	if !ok {
		return
	}
	size, ok := h.queryInt(c, "size", 0)
	if !ok {
		return
	}

	ingredients, err := h.ingredientService.List(c.Request.Context(), MemberID(c), page, size)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ingredients)
}

// MyIngredients returns the id+name projection the selection picker lists.
func (h *IngredientHandler) MyIngredients(c *gin.Context) {
	names, err := h.ingredientService.MyIngredients(c.Request.Context(), MemberID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, names)
}

// Update mutates one inventory entry.
func (h *IngredientHandler) Update(c *gin.Context) {
	id, ok := h.ingredientID(c)
	if !ok {
		return
	}

	var req dto.UpdateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.ingredientService.Update(c.Request.Context(), MemberID(c), id, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Delete removes one inventory entry.
func (h *IngredientHandler) Delete(c *gin.Context) {
	id, ok := h.ingredientID(c)
	if !ok {
		return
	}

	if err := h.ingredientService.Delete(c.Request.Context(), MemberID(c), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *IngredientHandler) queryInt(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: "Invalid " + name + " parameter",
		})
		return 0, false
	}
	return v, true
}

func (h *IngredientHandler) ingredientID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: "Invalid ingredient id",
		})
		return 0, false
	}
	return id, true
}

func (h *IngredientHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "Not found",
			Message: "Ingredient not found",
		})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{
			Error:   "Forbidden",
			Message: "Ingredient belongs to another member",
		})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal server error",
			Message: "Failed to process ingredient",
		})
	}
}
