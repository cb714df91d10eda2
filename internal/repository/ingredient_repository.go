package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/ncb6206/SIKBOO/internal/domain"
	"github.com/ncb6206/SIKBOO/pkg/database"
)

// ingredientRepository implements IngredientRepository interface
type ingredientRepository struct {
	db *database.Postgres
}

// NewIngredientRepository creates a new ingredient repository
func NewIngredientRepository(db *database.Postgres) IngredientRepository {
	return &ingredientRepository{db: db}
}

// Create creates a new inventory entry
func (r *ingredientRepository) Create(ctx context.Context, ingredient *domain.Ingredient) error {
	query := `
		INSERT INTO ingredient (member_id, ingredient_name, category, quantity, location, purchased_at, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ingredient_id
	`

	now := time.Now()
	if ingredient.CreatedAt.IsZero() {
		ingredient.CreatedAt = now
	}
	if ingredient.PurchasedAt.IsZero() {
		ingredient.PurchasedAt = now
	}

	err := r.db.DB.QueryRowContext(ctx, query,
		ingredient.MemberID,
		ingredient.Name,
		ingredient.Category,
		ingredient.Quantity,
		ingredient.Location,
		ingredient.PurchasedAt,
		ingredient.ExpiresAt,
		ingredient.CreatedAt,
	).Scan(&ingredient.ID)

	if err != nil {
		return fmt.Errorf("failed to create ingredient: %w", err)
	}

	return nil
}

// GetByID retrieves an ingredient by ID
func (r *ingredientRepository) GetByID(ctx context.Context, id int64) (*domain.Ingredient, error) {
	query := `
		SELECT ingredient_id, member_id, ingredient_name, category, quantity, location, purchased_at, expires_at, created_at
		FROM ingredient
		WHERE ingredient_id = $1
	`

	ingredient := &domain.Ingredient{}
	var expiresAt sql.NullTime

	err := r.db.DB.QueryRowContext(ctx, query, id).Scan(
		&ingredient.ID,
		&ingredient.MemberID,
		&ingredient.Name,
		&ingredient.Category,
		&ingredient.Quantity,
		&ingredient.Location,
		&ingredient.PurchasedAt,
		&expiresAt,
		&ingredient.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("ingredient with id %d not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}

	if expiresAt.Valid {
		ingredient.ExpiresAt = &expiresAt.Time
	}

	return ingredient, nil
}

// ListByMemberID retrieves one page of a member's inventory, newest first
func (r *ingredientRepository) ListByMemberID(ctx context.Context, memberID int64, limit, offset int) ([]*domain.Ingredient, error) {
	query := `
		SELECT ingredient_id, member_id, ingredient_name, category, quantity, location, purchased_at, expires_at, created_at
		FROM ingredient
		WHERE member_id = $1
		ORDER BY ingredient_id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.DB.QueryContext(ctx, query, memberID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []*domain.Ingredient
	for rows.Next() {
		ingredient := &domain.Ingredient{}
		var expiresAt sql.NullTime

		err := rows.Scan(
			&ingredient.ID,
			&ingredient.MemberID,
			&ingredient.Name,
			&ingredient.Category,
			&ingredient.Quantity,
			&ingredient.Location,
			&ingredient.PurchasedAt,
			&expiresAt,
			&ingredient.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}

		if expiresAt.Valid {
			ingredient.ExpiresAt = &expiresAt.Time
		}

		ingredients = append(ingredients, ingredient)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ingredients: %w", err)
	}

	return ingredients, nil
}

// ListNamesByMemberID returns id and name for every entry a member owns,
// the projection the selection picker works from.
func (r *ingredientRepository) ListNamesByMemberID(ctx context.Context, memberID int64) ([]*domain.Ingredient, error) {
	query := `
		SELECT ingredient_id, ingredient_name
		FROM ingredient
		WHERE member_id = $1
		ORDER BY ingredient_id DESC
	`

	rows, err := r.db.DB.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredient names: %w", err)
	}
	defer rows.Close()

	var ingredients []*domain.Ingredient
	for rows.Next() {
		ingredient := &domain.Ingredient{}
		if err := rows.Scan(&ingredient.ID, &ingredient.Name); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient name: %w", err)
		}
		ingredients = append(ingredients, ingredient)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ingredient names: %w", err)
	}

	return ingredients, nil
}

// NamesByIDs resolves selected ingredient ids to names, scoped to the owner.
// Ids that don't exist or belong to someone else are silently dropped.
func (r *ingredientRepository) NamesByIDs(ctx context.Context, memberID int64, ids []int64) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT ingredient_name
		FROM ingredient
		WHERE member_id = $1 AND ingredient_id = ANY($2)
	`

	rows, err := r.db.DB.QueryContext(ctx, query, memberID, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ingredient names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ingredient names: %w", err)
	}

	return names, nil
}

// Update updates an inventory entry
func (r *ingredientRepository) Update(ctx context.Context, ingredient *domain.Ingredient) error {
	query := `
		UPDATE ingredient
		SET ingredient_name = $2, category = $3, quantity = $4, location = $5, expires_at = $6
		WHERE ingredient_id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query,
		ingredient.ID,
		ingredient.Name,
		ingredient.Category,
		ingredient.Quantity,
		ingredient.Location,
		ingredient.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update ingredient: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("ingredient with id %d not found: %w", ingredient.ID, ErrNotFound)
	}

	return nil
}

// Delete deletes an inventory entry by ID
func (r *ingredientRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM ingredient WHERE ingredient_id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("ingredient with id %d not found: %w", id, ErrNotFound)
	}

	return nil
}
