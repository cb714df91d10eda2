package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ncb6206/SIKBOO/internal/domain"
	"github.com/ncb6206/SIKBOO/internal/generator"
	"github.com/ncb6206/SIKBOO/internal/repository"
)

// In-memory repository fakes backing the service tests.

type fakeMemberRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.Member
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{byID: make(map[int64]*domain.Member)}
}

func (r *fakeMemberRepo) Create(_ context.Context, member *domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.byID {
		if m.Provider == member.Provider && m.ProviderID == member.ProviderID {
			return repository.ErrDuplicateMember
		}
	}
	r.nextID++
	member.ID = r.nextID
	member.CreatedAt = time.Now()
	clone := *member
	r.byID[member.ID] = &clone
	return nil
}

func (r *fakeMemberRepo) GetByID(_ context.Context, id int64) (*domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *fakeMemberRepo) GetByProvider(_ context.Context, provider, providerID string) (*domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.byID {
		if m.Provider == provider && m.ProviderID == providerID {
			clone := *m
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeMemberRepo) Update(_ context.Context, member *domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[member.ID]; !ok {
		return repository.ErrNotFound
	}
	clone := *member
	r.byID[member.ID] = &clone
	return nil
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	nextID int64
	byHash map[string]*domain.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{byHash: make(map[string]*domain.RefreshToken)}
}

func (r *fakeTokenRepo) Create(_ context.Context, token *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byHash[token.TokenHash]; ok {
		return repository.ErrDuplicateToken
	}
	r.nextID++
	token.ID = r.nextID
	token.CreatedAt = time.Now()
	clone := *token
	r.byHash[token.TokenHash] = &clone
	return nil
}

func (r *fakeTokenRepo) GetByTokenHash(_ context.Context, tokenHash string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byHash[tokenHash]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *fakeTokenRepo) DeleteByMemberID(_ context.Context, memberID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for hash, t := range r.byHash {
		if t.MemberID == memberID {
			delete(r.byHash, hash)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeTokenRepo) DeleteExpiredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for hash, t := range r.byHash {
		if t.ExpiresAt.Before(cutoff) {
			delete(r.byHash, hash)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeTokenRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byHash)
}

// setExpiry rewrites the stored expiry for a token hash.
func (r *fakeTokenRepo) setExpiry(tokenHash string, expiresAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.byHash[tokenHash]; ok {
		t.ExpiresAt = expiresAt
	}
}

// setOwner rewrites the stored owner for a token hash.
func (r *fakeTokenRepo) setOwner(tokenHash string, memberID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.byHash[tokenHash]; ok {
		t.MemberID = memberID
	}
}

type fakeRecipeRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.RecipeSession
}

func newFakeRecipeRepo() *fakeRecipeRepo {
	return &fakeRecipeRepo{byID: make(map[int64]*domain.RecipeSession)}
}

func (r *fakeRecipeRepo) Create(_ context.Context, session *domain.RecipeSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	session.ID = r.nextID
	session.CreatedAt = time.Now()
	clone := *session
	r.byID[session.ID] = &clone
	return nil
}

func (r *fakeRecipeRepo) GetByID(_ context.Context, id int64) (*domain.RecipeSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *fakeRecipeRepo) ListByMemberID(_ context.Context, memberID int64) ([]*domain.RecipeSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.RecipeSession
	for _, s := range r.byID {
		if s.MemberID == memberID {
			clone := *s
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (r *fakeRecipeRepo) MaxDisplayOrder(_ context.Context, memberID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var max int64
	for _, s := range r.byID {
		if s.MemberID == memberID && s.DisplayOrder > max {
			max = s.DisplayOrder
		}
	}
	return max, nil
}

func (r *fakeRecipeRepo) UpdateResult(_ context.Context, id int64, title, detail string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Title = title
	s.Detail = detail
	return nil
}

func (r *fakeRecipeRepo) UpdateTitle(_ context.Context, id int64, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Title = title
	return nil
}

func (r *fakeRecipeRepo) Reorder(_ context.Context, memberID int64, rankedIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for rank, id := range rankedIDs {
		if s, ok := r.byID[id]; ok && s.MemberID == memberID {
			s.DisplayOrder = int64(rank) + 1
		}
	}
	return nil
}

func (r *fakeRecipeRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type fakeIngredientRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.Ingredient
}

func newFakeIngredientRepo() *fakeIngredientRepo {
	return &fakeIngredientRepo{byID: make(map[int64]*domain.Ingredient)}
}

func (r *fakeIngredientRepo) Create(_ context.Context, ing *domain.Ingredient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	ing.ID = r.nextID
	ing.CreatedAt = time.Now()
	clone := *ing
	r.byID[ing.ID] = &clone
	return nil
}

func (r *fakeIngredientRepo) GetByID(_ context.Context, id int64) (*domain.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ing, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *ing
	return &clone, nil
}

func (r *fakeIngredientRepo) ListByMemberID(_ context.Context, memberID int64, limit, offset int) ([]*domain.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Ingredient
	for _, ing := range r.byID {
		if ing.MemberID == memberID {
			clone := *ing
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeIngredientRepo) ListNamesByMemberID(_ context.Context, memberID int64) ([]*domain.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Ingredient
	for _, ing := range r.byID {
		if ing.MemberID == memberID {
			out = append(out, &domain.Ingredient{ID: ing.ID, Name: ing.Name})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeIngredientRepo) NamesByIDs(_ context.Context, memberID int64, ids []int64) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if ing, ok := r.byID[id]; ok && ing.MemberID == memberID {
			names = append(names, ing.Name)
		}
	}
	return names, nil
}

func (r *fakeIngredientRepo) Update(_ context.Context, ing *domain.Ingredient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[ing.ID]; !ok {
		return repository.ErrNotFound
	}
	clone := *ing
	r.byID[ing.ID] = &clone
	return nil
}

func (r *fakeIngredientRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// stubGenerator delegates to a function so each test controls the outcome.
type stubGenerator struct {
	fn func(ctx context.Context, input generator.Input) (*generator.Result, error)
}

func (g *stubGenerator) Generate(ctx context.Context, input generator.Input) (*generator.Result, error) {
	return g.fn(ctx, input)
}
