package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/velles/review-cycle-service/internal/domain"
	"github.com/velles/review-cycle-service/internal/metrics"
)

// CycleRepository runs cycle mutations for one card inside a single
// transaction. The transaction is the unit of atomicity for a transition:
// a failure anywhere rolls everything back.
type CycleRepository interface {
	InTransition(ctx context.Context, cardID string, fn func(tx CycleTx) error) error
}

// CycleTx is the set of cycle mutations available inside one transition
// transaction.
type CycleTx interface {
	// OpenCycle returns the card's cycle with a null closedAt, or nil.
	OpenCycle(ctx context.Context, cardID string) (*domain.ReviewCycle, error)
	// MaxCycleNumber returns the highest cycle number for the card, 0 if none.
	MaxCycleNumber(ctx context.Context, cardID string) (int, error)
	// CreateCycle inserts a new open cycle. It returns false without error
	// when the open-cycle uniqueness constraint rejects the insert, which
	// means a concurrent transition already opened one.
	CreateCycle(ctx context.Context, cycle domain.ReviewCycle) (bool, error)
	CloseCycle(ctx context.Context, cycleID string, closedAt time.Time) error
	DeleteCycle(ctx context.Context, cycleID string) error
	CountEvaluations(ctx context.Context, cycleID string) (int, error)
	// LatestCycle returns the card's cycle with the highest number, or nil.
	LatestCycle(ctx context.Context, cardID string) (*domain.ReviewCycle, error)
	ClearFinal(ctx context.Context, cardID string) error
	MarkFinal(ctx context.Context, cycleID string) error
	LockAll(ctx context.Context, cardID string, lockedAt time.Time) error
	ClearLocks(ctx context.Context, cardID string) error
}

// TransitionEvent is one committed card-list move as reported by the board
// layer. Now is optional; when absent the service clock is used.
type TransitionEvent struct {
	CardID        string
	ProjectID     string
	From          domain.ListRef
	To            domain.ListRef
	BoardSettings domain.BoardSettings
	Now           *time.Time
}

// LifecycleService is the review-cycle state machine. Every card-list move
// runs through ApplyTransition exactly once.
type LifecycleService struct {
	cycles          CycleRepository
	policy          domain.ListNamePolicy
	transientWindow time.Duration
	metrics         *metrics.Metrics
	nowFunc         func() time.Time
}

func NewLifecycleService(
	cycles CycleRepository,
	policy domain.ListNamePolicy,
	transientWindow time.Duration,
	m *metrics.Metrics,
	nowFunc func() time.Time,
) *LifecycleService {
	if nowFunc == nil {
		nowFunc = time.Now
	}
	return &LifecycleService{
		cycles:          cycles,
		policy:          policy,
		transientWindow: transientWindow,
		metrics:         m,
		nowFunc:         nowFunc,
	}
}

// ApplyTransition classifies the move and applies every triggered lifecycle
// effect atomically. Re-delivering the same event is a no-op.
func (s *LifecycleService) ApplyTransition(ctx context.Context, ev TransitionEvent) (domain.TransitionResult, error) {
	if ev.CardID == "" {
		return domain.TransitionResult{}, domain.NewDomainError(domain.ErrorCodeValidation, "card id is required")
	}

	overrides := ev.BoardSettings.ReviewListIDs
	fromReview := domain.IsReviewList(ev.From, overrides, s.policy)
	toReview := domain.IsReviewList(ev.To, overrides, s.policy)
	fromDone := domain.IsDoneList(ev.From, s.policy)
	toDone := domain.IsDoneList(ev.To, s.policy)

	res := domain.TransitionResult{
		EnteredReview:    toReview && !fromReview,
		LeftReview:       fromReview && !toReview,
		MovedToDone:      toDone && !fromDone,
		ReopenedFromDone: fromDone && !toDone,
	}

	if !res.EnteredReview && !res.LeftReview && !res.MovedToDone && !res.ReopenedFromDone {
		return res, nil
	}

	now := s.nowFunc()
	if ev.Now != nil {
		now = *ev.Now
	}

	err := s.cycles.InTransition(ctx, ev.CardID, func(tx CycleTx) error {
		if res.EnteredReview {
			if err := s.openCycle(ctx, tx, ev, now, &res); err != nil {
				return err
			}
		}
		if res.LeftReview {
			if err := s.closeCycle(ctx, tx, ev.CardID, now, &res); err != nil {
				return err
			}
		}
		if res.MovedToDone {
			if err := s.finalizeAndLock(ctx, tx, ev.CardID, now, &res); err != nil {
				return err
			}
		}
		if res.ReopenedFromDone {
			if err := s.reopen(ctx, tx, ev.CardID, &res); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.TransitionResult{}, fmt.Errorf("apply transition for card %s: %w", ev.CardID, err)
	}

	if s.metrics != nil {
		s.metrics.RecordTransition(res.CycleOpened, res.CycleClosed, res.TransientDeleted, res.Locked, res.Unlocked)
	}

	return res, nil
}

func (s *LifecycleService) openCycle(ctx context.Context, tx CycleTx, ev TransitionEvent, now time.Time, res *domain.TransitionResult) error {
	open, err := tx.OpenCycle(ctx, ev.CardID)
	if err != nil {
		return fmt.Errorf("find open cycle: %w", err)
	}
	if open != nil {
		return nil
	}

	maxNumber, err := tx.MaxCycleNumber(ctx, ev.CardID)
	if err != nil {
		return fmt.Errorf("max cycle number: %w", err)
	}

	cycle := domain.ReviewCycle{
		ID:          uuid.NewString(),
		CardID:      ev.CardID,
		ProjectID:   ev.ProjectID,
		CycleNumber: maxNumber + 1,
		OpenedAt:    now,
	}

	created, err := tx.CreateCycle(ctx, cycle)
	if err != nil {
		return fmt.Errorf("create cycle: %w", err)
	}
	if !created {
		// A concurrent transition won the open-cycle constraint; this one
		// degrades to the idempotent no-op path.
		return nil
	}

	res.CycleOpened = true
	res.OpenedCycleID = cycle.ID
	return nil
}

func (s *LifecycleService) closeCycle(ctx context.Context, tx CycleTx, cardID string, now time.Time, res *domain.TransitionResult) error {
	open, err := tx.OpenCycle(ctx, cardID)
	if err != nil {
		return fmt.Errorf("find open cycle: %w", err)
	}
	if open == nil {
		return nil
	}

	// Transient-cycle rule: a drag through review that stayed under the
	// debounce window and collected no evaluations never happened.
	if now.Sub(open.OpenedAt) < s.transientWindow {
		count, err := tx.CountEvaluations(ctx, open.ID)
		if err != nil {
			return fmt.Errorf("count evaluations: %w", err)
		}
		if count == 0 {
			if err := tx.DeleteCycle(ctx, open.ID); err != nil {
				return fmt.Errorf("delete transient cycle: %w", err)
			}
			res.TransientDeleted = true
			return nil
		}
	}

	if err := tx.CloseCycle(ctx, open.ID, now); err != nil {
		return fmt.Errorf("close cycle: %w", err)
	}
	res.CycleClosed = true
	res.ClosedCycleID = open.ID
	return nil
}

func (s *LifecycleService) finalizeAndLock(ctx context.Context, tx CycleTx, cardID string, now time.Time, res *domain.TransitionResult) error {
	if err := tx.ClearFinal(ctx, cardID); err != nil {
		return fmt.Errorf("clear final: %w", err)
	}

	latest, err := tx.LatestCycle(ctx, cardID)
	if err != nil {
		return fmt.Errorf("latest cycle: %w", err)
	}
	if latest != nil {
		if err := tx.MarkFinal(ctx, latest.ID); err != nil {
			return fmt.Errorf("mark final: %w", err)
		}
		res.FinalCycleID = latest.ID
	}

	if err := tx.LockAll(ctx, cardID, now); err != nil {
		return fmt.Errorf("lock cycles: %w", err)
	}
	res.Locked = true
	return nil
}

func (s *LifecycleService) reopen(ctx context.Context, tx CycleTx, cardID string, res *domain.TransitionResult) error {
	if err := tx.ClearFinal(ctx, cardID); err != nil {
		return fmt.Errorf("clear final: %w", err)
	}
	if err := tx.ClearLocks(ctx, cardID); err != nil {
		return fmt.Errorf("clear locks: %w", err)
	}
	res.Unlocked = true
	return nil
}
