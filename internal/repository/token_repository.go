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

// tokenRepository implements TokenRepository interface
type tokenRepository struct {
	db *database.Postgres
}

// NewTokenRepository creates a new refresh token repository
func NewTokenRepository(db *database.Postgres) TokenRepository {
	return &tokenRepository{db: db}
}

// Create creates a new refresh token record
func (r *tokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	query := `
		INSERT INTO refresh_token (member_id, token_hash, expire_date, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING refresh_id
	`

	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	err := r.db.DB.QueryRowContext(ctx, query,
		token.MemberID,
		token.TokenHash,
		token.ExpiresAt,
		token.CreatedAt,
	).Scan(&token.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return fmt.Errorf("token with hash already exists: %w", ErrDuplicateToken)
			}
		}
		return fmt.Errorf("failed to create refresh token: %w", err)
	}

	return nil
}

// GetByTokenHash retrieves a refresh token record by its hash
func (r *tokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	query := `
		SELECT refresh_id, member_id, token_hash, expire_date, created_at
		FROM refresh_token
		WHERE token_hash = $1
	`

	token := &domain.RefreshToken{}

	err := r.db.DB.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID,
		&token.MemberID,
		&token.TokenHash,
		&token.ExpiresAt,
		&token.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("token with hash not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get token by hash: %w", err)
	}

	return token, nil
}

// DeleteByMemberID deletes all refresh token records owned by a member.
// Rotation calls this before inserting the replacement, which is what keeps
// at most one active token per member.
func (r *tokenRepository) DeleteByMemberID(ctx context.Context, memberID int64) (int64, error) {
	query := `DELETE FROM refresh_token WHERE member_id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, memberID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete tokens by member id: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// DeleteExpiredBefore deletes all records whose expiry precedes cutoff
func (r *tokenRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM refresh_token WHERE expire_date < $1`

	result, err := r.db.DB.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
