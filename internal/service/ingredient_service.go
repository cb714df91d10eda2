package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ncb6206/SIKBOO/internal/domain"
	"github.com/ncb6206/SIKBOO/internal/dto"
	"github.com/ncb6206/SIKBOO/internal/repository"
)

const dateLayout = "2006-01-02"

// Default shelf life in days per category, keyed by storage location. Used
// when an entry arrives without an explicit expiry date.
var shelfLifeDays = map[string]map[string]int{
	domain.LocationFridge: {
		"채소": 7, "과일": 10, "육류": 3, "수산물": 2,
		"유제품": 10, "계란": 30, "가공식품": 90,
	},
	domain.LocationFreezer: {
		"육류": 90, "수산물": 60, "가공식품": 180,
	},
	domain.LocationPantry: {
		"곡물": 180, "가공식품": 365, "조미료": 365,
	},
}

// Fallback when the category is unknown for the location.
var defaultShelfLife = map[string]int{
	domain.LocationFridge:  7,
	domain.LocationFreezer: 90,
	domain.LocationPantry:  180,
}

// ingredientService implements IngredientService interface
type ingredientService struct {
	ingredientRepo repository.IngredientRepository
}

// NewIngredientService creates a new ingredient service
func NewIngredientService(ingredientRepo repository.IngredientRepository) IngredientService {
	return &ingredientService{ingredientRepo: ingredientRepo}
}

func (s *ingredientService) Create(ctx context.Context, memberID int64, req *dto.CreateIngredientRequest) (*dto.IngredientResponse, error) {
	purchasedAt := time.Now()
	if req.PurchasedAt != "" {
		parsed, err := time.Parse(dateLayout, req.PurchasedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid purchase date %q: %w", req.PurchasedAt, ErrInvalidInput)
		}
		purchasedAt = parsed
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	ing := &domain.Ingredient{
		MemberID:    memberID,
		Name:        req.Name,
		Category:    req.Category,
		Quantity:    quantity,
		Location:    req.Location,
		PurchasedAt: purchasedAt,
	}

	if req.ExpiresAt != nil {
		expires, err := time.Parse(dateLayout, *req.ExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("invalid expiry date %q: %w", *req.ExpiresAt, ErrInvalidInput)
		}
		ing.ExpiresAt = &expires
	} else {
		estimated := EstimateExpiry(req.Category, req.Location, purchasedAt)
		ing.ExpiresAt = &estimated
	}

	if err := s.ingredientRepo.Create(ctx, ing); err != nil {
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}
	return ingredientResponse(ing), nil
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func (s *ingredientService) List(ctx context.Context, memberID int64, page, size int) ([]dto.IngredientResponse, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	ingredients, err := s.ingredientRepo.ListByMemberID(ctx, memberID, size, (page-1)*size)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}

	out := make([]dto.IngredientResponse, 0, len(ingredients))
	for _, ing := range ingredients {
		out = append(out, *ingredientResponse(ing))
	}
	return out, nil
}

func (s *ingredientService) MyIngredients(ctx context.Context, memberID int64) ([]dto.IngredientNameResponse, error) {
	ingredients, err := s.ingredientRepo.ListNamesByMemberID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredient names: %w", err)
	}

	out := make([]dto.IngredientNameResponse, 0, len(ingredients))
	for _, ing := range ingredients {
		out = append(out, dto.IngredientNameResponse{ID: ing.ID, Name: ing.Name})
	}
	return out, nil
}

func (s *ingredientService) Update(ctx context.Context, memberID, id int64, req *dto.UpdateIngredientRequest) (*dto.IngredientResponse, error) {
	ing, err := s.owned(ctx, memberID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		ing.Name = *req.Name
	}
	if req.Category != nil {
		ing.Category = *req.Category
	}
	if req.Quantity != nil {
		ing.Quantity = *req.Quantity
	}
	if req.Location != nil {
		ing.Location = *req.Location
	}
	if req.ExpiresAt != nil {
		expires, err := time.Parse(dateLayout, *req.ExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("invalid expiry date %q: %w", *req.ExpiresAt, ErrInvalidInput)
		}
		ing.ExpiresAt = &expires
	}

	if err := s.ingredientRepo.Update(ctx, ing); err != nil {
		return nil, fmt.Errorf("failed to update ingredient: %w", err)
	}
	return ingredientResponse(ing), nil
}

func (s *ingredientService) Delete(ctx context.Context, memberID, id int64) error {
	if _, err := s.owned(ctx, memberID, id); err != nil {
		return err
	}
	if err := s.ingredientRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}
	return nil
}

// EstimateExpiry derives an expiry date from the category's typical shelf
// life at the given storage location.
func EstimateExpiry(category, location string, purchasedAt time.Time) time.Time {
	days, ok := shelfLifeDays[location][category]
	if !ok {
		days = defaultShelfLife[location]
		if days == 0 {
			days = 7
		}
	}
	return purchasedAt.AddDate(0, 0, days)
}

func (s *ingredientService) owned(ctx context.Context, memberID, id int64) (*domain.Ingredient, error) {
	ing, err := s.ingredientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	if ing.MemberID != memberID {
		return nil, ErrForbidden
	}
	return ing, nil
}

func ingredientResponse(ing *domain.Ingredient) *dto.IngredientResponse {
	resp := &dto.IngredientResponse{
		ID:          ing.ID,
		Name:        ing.Name,
		Category:    ing.Category,
		Quantity:    ing.Quantity,
		Location:    ing.Location,
		PurchasedAt: ing.PurchasedAt.Format(dateLayout),
	}
	if ing.ExpiresAt != nil {
		expires := ing.ExpiresAt.Format(dateLayout)
		resp.ExpiresAt = &expires
	}
	return resp
}
