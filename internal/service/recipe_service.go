package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ncb6206/SIKBOO/internal/domain"
	"github.com/ncb6206/SIKBOO/internal/dto"
	"github.com/ncb6206/SIKBOO/internal/generator"
	"github.com/ncb6206/SIKBOO/internal/repository"
)

// generationJob carries everything a worker needs, resolved before enqueue so
// the job never touches request-scoped state.
type generationJob struct {
	sessionID int64
	memberID  int64
	input     generator.Input
}

// recipeService implements RecipeService. A fixed pool of workers drains the
// job queue; each job performs exactly one terminal write on its session and
// clears the registry entry on the way out.
type recipeService struct {
	recipeRepo     repository.RecipeSessionRepository
	ingredientRepo repository.IngredientRepository
	memberRepo     repository.MemberRepository
	gen            generator.RecipeGenerator
	registry       *GenerationRegistry
	selections     *SelectionCache
	logger         *zap.Logger
	timeout        time.Duration

	jobs chan generationJob
	wg   sync.WaitGroup
}

// NewRecipeService creates a recipe service and starts its worker pool.
func NewRecipeService(
	recipeRepo repository.RecipeSessionRepository,
	ingredientRepo repository.IngredientRepository,
	memberRepo repository.MemberRepository,
	gen generator.RecipeGenerator,
	registry *GenerationRegistry,
	selections *SelectionCache,
	logger *zap.Logger,
	workers int,
	timeout time.Duration,
) RecipeService {
	s := &recipeService{
		recipeRepo:     recipeRepo,
		ingredientRepo: ingredientRepo,
		memberRepo:     memberRepo,
		gen:            gen,
		registry:       registry,
		selections:     selections,
		logger:         logger,
		timeout:        timeout,
		jobs:           make(chan generationJob, 256),
	}

	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}

	return s
}

// Generate resolves the selection, writes the placeholder session and
// enqueues the background job. The response carries the placeholder so the
// client can render the session immediately.
func (s *recipeService) Generate(ctx context.Context, memberID int64, ingredientIDs []int64) (*dto.GenerateResponse, error) {
	names, err := s.ingredientRepo.NamesByIDs(ctx, memberID, ingredientIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ingredients: %w", err)
	}

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	maxOrder, err := s.recipeRepo.MaxDisplayOrder(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get display order: %w", err)
	}

	session := &domain.RecipeSession{
		MemberID:     memberID,
		Title:        domain.TitleGenerating,
		Detail:       generator.EmptyPayload(),
		DisplayOrder: maxOrder + 1,
	}
	if err := s.recipeRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if err := s.selections.Store(ctx, memberID, ingredientIDs); err != nil {
		s.logger.Warn("failed to cache selection", zap.Int64("member_id", memberID), zap.Error(err))
	}

	s.registry.Add(session.ID)
	s.jobs <- generationJob{
		sessionID: session.ID,
		memberID:  memberID,
		input: generator.Input{
			Ingredients: names,
			Diseases:    member.Diseases,
			Allergies:   member.Allergies,
		},
	}

	return &dto.GenerateResponse{ID: session.ID, Title: session.Title}, nil
}

// ListSessions returns the member's sessions in display order, flagging the
// ones with a job still in flight.
func (s *recipeService) ListSessions(ctx context.Context, memberID int64) ([]dto.SessionSummary, error) {
	sessions, err := s.recipeRepo.ListByMemberID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	out := make([]dto.SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, dto.SessionSummary{
			ID:         sess.ID,
			Title:      sess.Title,
			CreatedAt:  sess.CreatedAt.Format(time.RFC3339),
			Generating: s.registry.Contains(sess.ID),
		})
	}
	return out, nil
}

// SessionDetail returns one session with its stored payload.
func (s *recipeService) SessionDetail(ctx context.Context, memberID, sessionID int64) (*dto.SessionDetail, error) {
	sess, err := s.ownedSession(ctx, memberID, sessionID)
	if err != nil {
		return nil, err
	}

	return &dto.SessionDetail{
		ID:         sess.ID,
		Title:      sess.Title,
		CreatedAt:  sess.CreatedAt.Format(time.RFC3339),
		Generating: s.registry.Contains(sess.ID),
		Result:     json.RawMessage(sess.Detail),
	}, nil
}

// RenameSession updates a session title.
func (s *recipeService) RenameSession(ctx context.Context, memberID, sessionID int64, title string) error {
	if _, err := s.ownedSession(ctx, memberID, sessionID); err != nil {
		return err
	}
	if err := s.recipeRepo.UpdateTitle(ctx, sessionID, title); err != nil {
		return fmt.Errorf("failed to rename session: %w", err)
	}
	return nil
}

// DeleteSession removes a session. A still-running job keeps executing; its
// terminal write lands on a missing row and the registry entry is cleared
// here so the list stops flagging the id.
func (s *recipeService) DeleteSession(ctx context.Context, memberID, sessionID int64) error {
	if _, err := s.ownedSession(ctx, memberID, sessionID); err != nil {
		return err
	}
	if err := s.recipeRepo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.registry.Remove(sessionID)
	return nil
}

// ReorderSessions renumbers every session the member owns: ids from the
// request come first in the given order, remaining sessions follow in their
// previous relative order. Ids the member does not own are ignored.
func (s *recipeService) ReorderSessions(ctx context.Context, memberID int64, orderedIDs []int64) error {
	sessions, err := s.recipeRepo.ListByMemberID(ctx, memberID)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	owned := make(map[int64]struct{}, len(sessions))
	for _, sess := range sessions {
		owned[sess.ID] = struct{}{}
	}

	ranked := make([]int64, 0, len(sessions))
	placed := make(map[int64]struct{}, len(sessions))
	for _, id := range orderedIDs {
		if _, ok := owned[id]; !ok {
			continue
		}
		if _, dup := placed[id]; dup {
			continue
		}
		placed[id] = struct{}{}
		ranked = append(ranked, id)
	}
	for _, sess := range sessions {
		if _, done := placed[sess.ID]; done {
			continue
		}
		ranked = append(ranked, sess.ID)
	}

	if err := s.recipeRepo.Reorder(ctx, memberID, ranked); err != nil {
		return fmt.Errorf("failed to reorder sessions: %w", err)
	}
	return nil
}

// LastSelection returns the member's most recent ingredient selection, empty
// when nothing is cached.
func (s *recipeService) LastSelection(ctx context.Context, memberID int64) ([]int64, error) {
	return s.selections.Get(ctx, memberID)
}

// Shutdown closes the queue and waits for in-flight jobs to finish their
// terminal writes.
func (s *recipeService) Shutdown() {
	close(s.jobs)
	s.wg.Wait()
}

func (s *recipeService) worker() {
	defer s.wg.Done()
	for job := range s.jobs {
		s.runJob(job)
	}
}

// runJob performs the single terminal write for one session. Success stores
// the sanitized payload and a derived title; any failure, including timeout
// or an empty result, stores the failure title with the empty payload. The
// registry entry is cleared on every path.
func (s *recipeService) runJob(job generationJob) {
	defer s.registry.Remove(job.sessionID)

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	result, err := s.gen.Generate(ctx, job.input)
	if err != nil || result.IsEmpty() {
		if err != nil {
			s.logger.Warn("recipe generation failed",
				zap.Int64("session_id", job.sessionID),
				zap.Int64("member_id", job.memberID),
				zap.Error(err),
			)
		}
		s.finish(ctx, job.sessionID, domain.TitleGenerationFailed, generator.EmptyPayload())
		return
	}

	detail, err := json.Marshal(result)
	if err != nil {
		s.logger.Error("failed to encode generation result",
			zap.Int64("session_id", job.sessionID),
			zap.Error(err),
		)
		s.finish(ctx, job.sessionID, domain.TitleGenerationFailed, generator.EmptyPayload())
		return
	}

	s.finish(ctx, job.sessionID, result.SessionTitle(), string(detail))
}

func (s *recipeService) finish(ctx context.Context, sessionID int64, title, detail string) {
	// The write must land even when the generation context already expired.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	err := s.recipeRepo.UpdateResult(writeCtx, sessionID, title, detail)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("failed to store generation result",
			zap.Int64("session_id", sessionID),
			zap.Error(err),
		)
	}
}

func (s *recipeService) ownedSession(ctx context.Context, memberID, sessionID int64) (*domain.RecipeSession, error) {
	sess, err := s.recipeRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if sess.MemberID != memberID {
		return nil, ErrForbidden
	}
	return sess, nil
}
