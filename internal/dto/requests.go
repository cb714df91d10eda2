package dto

import "encoding/json"

// GenerateRequest starts a recipe-generation session from selected ingredient ids.
type GenerateRequest struct {
	IngredientIDs []int64 `json:"ingredientIds" binding:"required"`
}

// GenerateResponse is returned immediately with the placeholder session.
type GenerateResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// SessionSummary is one row of the session list, ordered by display rank.
type SessionSummary struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	CreatedAt  string `json:"createdAt"`
	Generating bool   `json:"generating"`
}

// SessionDetail is the full view of one generation session. Result carries
// the stored recipe payload verbatim; while the job is still running it holds
// the empty placeholder document.
type SessionDetail struct {
	ID         int64           `json:"id"`
	Title      string          `json:"title"`
	CreatedAt  string          `json:"createdAt"`
	Generating bool            `json:"generating"`
	Result     json.RawMessage `json:"result"`
}

// IngredientResponse is one full inventory entry.
type IngredientResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Quantity    int     `json:"quantity"`
	Location    string  `json:"location"`
	PurchasedAt string  `json:"purchasedAt"`
	ExpiresAt   *string `json:"expiresAt"`
}

// IngredientNameResponse is the slim projection the recipe selection picker
// lists from.
type IngredientNameResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ReorderRequest reassigns display ranks; ids not owned by the caller are ignored.
type ReorderRequest struct {
	OrderedIDs []int64 `json:"orderedIds" binding:"required"`
}

// RenameSessionRequest updates a session title.
type RenameSessionRequest struct {
	Title string `json:"title" binding:"required"`
}

// MeResponse describes the authenticated member.
type MeResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// ProfileResponse is the member profile including health constraints.
type ProfileResponse struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Diseases  []string `json:"diseases"`
	Allergies []string `json:"allergies"`
	Onboarded bool     `json:"onboarded"`
}

// UpdateProfileRequest updates name and health constraints; nil fields are kept.
type UpdateProfileRequest struct {
	Name      *string   `json:"name"`
	Diseases  *[]string `json:"diseases"`
	Allergies *[]string `json:"allergies"`
}

// OnboardingRequest completes first-login onboarding.
type OnboardingRequest struct {
	Diseases  []string `json:"diseases"`
	Allergies []string `json:"allergies"`
}

// CreateIngredientRequest registers one inventory entry.
type CreateIngredientRequest struct {
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category"`
	Quantity    int     `json:"quantity"`
	Location    string  `json:"location" binding:"required,oneof=FRIDGE FREEZER PANTRY"`
	PurchasedAt string  `json:"purchasedAt"`
	ExpiresAt   *string `json:"expiresAt"`
}

// UpdateIngredientRequest mutates an inventory entry; nil fields are kept.
type UpdateIngredientRequest struct {
	Name      *string `json:"name"`
	Category  *string `json:"category"`
	Quantity  *int    `json:"quantity"`
	Location  *string `json:"location"`
	ExpiresAt *string `json:"expiresAt"`
}

// IngredientItem is the slim shape used by the generation tab.
type IngredientItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}
