package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ncb6206/SIKBOO/internal/domain"
	"github.com/ncb6206/SIKBOO/pkg/database"
)

// recipeSessionRepository implements RecipeSessionRepository interface
type recipeSessionRepository struct {
	db *database.Postgres
}

// NewRecipeSessionRepository creates a new generation session repository
func NewRecipeSessionRepository(db *database.Postgres) RecipeSessionRepository {
	return &recipeSessionRepository{db: db}
}

// Create inserts the placeholder session row
func (r *recipeSessionRepository) Create(ctx context.Context, session *domain.RecipeSession) error {
	query := `
		INSERT INTO recipe (member_id, recipe_name, recipe_detail, display_order, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING recipe_id
	`

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	err := r.db.DB.QueryRowContext(ctx, query,
		session.MemberID,
		session.Title,
		session.Detail,
		session.DisplayOrder,
		session.CreatedAt,
	).Scan(&session.ID)

	if err != nil {
		return fmt.Errorf("failed to create recipe session: %w", err)
	}

	return nil
}

// GetByID retrieves a session by ID
func (r *recipeSessionRepository) GetByID(ctx context.Context, id int64) (*domain.RecipeSession, error) {
	query := `
		SELECT recipe_id, member_id, recipe_name, recipe_detail, display_order, created_at
		FROM recipe
		WHERE recipe_id = $1
	`

	session := &domain.RecipeSession{}

	err := r.db.DB.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&session.MemberID,
		&session.Title,
		&session.Detail,
		&session.DisplayOrder,
		&session.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("recipe session with id %d not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get recipe session: %w", err)
	}

	return session, nil
}

// ListByMemberID retrieves all sessions for a member ordered by display rank
func (r *recipeSessionRepository) ListByMemberID(ctx context.Context, memberID int64) ([]*domain.RecipeSession, error) {
	query := `
		SELECT recipe_id, member_id, recipe_name, recipe_detail, display_order, created_at
		FROM recipe
		WHERE member_id = $1
		ORDER BY display_order ASC
	`

	rows, err := r.db.DB.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipe sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.RecipeSession
	for rows.Next() {
		session := &domain.RecipeSession{}
		err := rows.Scan(
			&session.ID,
			&session.MemberID,
			&session.Title,
			&session.Detail,
			&session.DisplayOrder,
			&session.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipe sessions: %w", err)
	}

	return sessions, nil
}

// MaxDisplayOrder returns the highest display rank for a member, 0 if none
func (r *recipeSessionRepository) MaxDisplayOrder(ctx context.Context, memberID int64) (int64, error) {
	query := `SELECT COALESCE(MAX(display_order), 0) FROM recipe WHERE member_id = $1`

	var max int64
	if err := r.db.DB.QueryRowContext(ctx, query, memberID).Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to get max display order: %w", err)
	}

	return max, nil
}

// UpdateResult writes the terminal title and payload onto an existing session
func (r *recipeSessionRepository) UpdateResult(ctx context.Context, id int64, title, detail string) error {
	query := `UPDATE recipe SET recipe_name = $2, recipe_detail = $3 WHERE recipe_id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id, title, detail)
	if err != nil {
		return fmt.Errorf("failed to update recipe session result: %w", err)
	}

	return r.requireRow(result, id)
}

// UpdateTitle renames a session
func (r *recipeSessionRepository) UpdateTitle(ctx context.Context, id int64, title string) error {
	query := `UPDATE recipe SET recipe_name = $2 WHERE recipe_id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id, title)
	if err != nil {
		return fmt.Errorf("failed to update recipe session title: %w", err)
	}

	return r.requireRow(result, id)
}

// Reorder assigns display ranks 1..N following rankedIDs within one
// transaction. The caller is responsible for ranking only ids owned by
// memberID; the member filter here keeps a foreign id from ever being moved.
func (r *recipeSessionRepository) Reorder(ctx context.Context, memberID int64, rankedIDs []int64) error {
	if len(rankedIDs) == 0 {
		return nil
	}

	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin reorder transaction: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE recipe SET display_order = $3 WHERE recipe_id = $1 AND member_id = $2`

	for i, id := range rankedIDs {
		if _, err := tx.ExecContext(ctx, query, id, memberID, int64(i+1)); err != nil {
			return fmt.Errorf("failed to reorder recipe session %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reorder: %w", err)
	}

	return nil
}

// Delete deletes a session by ID
func (r *recipeSessionRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM recipe WHERE recipe_id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe session: %w", err)
	}

	return r.requireRow(result, id)
}

func (r *recipeSessionRepository) requireRow(result sql.Result, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("recipe session with id %d not found: %w", id, ErrNotFound)
	}

	return nil
}
