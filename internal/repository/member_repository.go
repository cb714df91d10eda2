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

// memberRepository implements MemberRepository interface
type memberRepository struct {
	db *database.Postgres
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *database.Postgres) MemberRepository {
	return &memberRepository{db: db}
}

// Create creates a new member in the database
func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	query := `
		INSERT INTO member (name, role, provider, provider_id, diseases, allergies, onboarded, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING member_id
	`

	if member.Role == "" {
		member.Role = domain.RoleUser
	}
	if member.CreatedAt.IsZero() {
		member.CreatedAt = time.Now()
	}
	if member.Diseases == nil {
		member.Diseases = []string{}
	}
	if member.Allergies == nil {
		member.Allergies = []string{}
	}

	err := r.db.DB.QueryRowContext(ctx, query,
		member.Name,
		member.Role,
		member.Provider,
		member.ProviderID,
		pq.Array(member.Diseases),
		pq.Array(member.Allergies),
		member.Onboarded,
		member.CreatedAt,
	).Scan(&member.ID)

	if err != nil {
		// Unique constraint violation on (provider, provider_id)
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return fmt.Errorf("member %s/%s already exists: %w",
					member.Provider, member.ProviderID, ErrDuplicateMember)
			}
		}
		return fmt.Errorf("failed to create member: %w", err)
	}

	return nil
}

// GetByID retrieves a member by ID
func (r *memberRepository) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	query := `
		SELECT member_id, name, role, provider, provider_id, diseases, allergies, onboarded, created_at
		FROM member
		WHERE member_id = $1
	`

	return r.scanMember(r.db.DB.QueryRowContext(ctx, query, id), fmt.Sprintf("member with id %d", id))
}

// GetByProvider retrieves a member by its external identity
func (r *memberRepository) GetByProvider(ctx context.Context, provider, providerID string) (*domain.Member, error) {
	query := `
		SELECT member_id, name, role, provider, provider_id, diseases, allergies, onboarded, created_at
		FROM member
		WHERE provider = $1 AND provider_id = $2
	`

	return r.scanMember(
		r.db.DB.QueryRowContext(ctx, query, provider, providerID),
		fmt.Sprintf("member %s/%s", provider, providerID),
	)
}

// Update updates name, health data and onboarding flag
func (r *memberRepository) Update(ctx context.Context, member *domain.Member) error {
	query := `
		UPDATE member
		SET name = $2, diseases = $3, allergies = $4, onboarded = $5
		WHERE member_id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query,
		member.ID,
		member.Name,
		pq.Array(member.Diseases),
		pq.Array(member.Allergies),
		member.Onboarded,
	)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("member with id %d not found: %w", member.ID, ErrNotFound)
	}

	return nil
}

func (r *memberRepository) scanMember(row *sql.Row, what string) (*domain.Member, error) {
	member := &domain.Member{}

	err := row.Scan(
		&member.ID,
		&member.Name,
		&member.Role,
		&member.Provider,
		&member.ProviderID,
		pq.Array(&member.Diseases),
		pq.Array(&member.Allergies),
		&member.Onboarded,
		&member.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s not found: %w", what, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s: %w", what, err)
	}

	return member, nil
}
