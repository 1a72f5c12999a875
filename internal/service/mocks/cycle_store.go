package mocks

import (
	"context"
	"time"

	"github.com/velles/review-cycle-service/internal/domain"
	"github.com/velles/review-cycle-service/internal/service"
)

// FakeCycleStore is an in-memory CycleRepository. Lifecycle tests need the
// mutations of one transition to be observable by the next, so unlike the
// static mocks this fake keeps real state.
type FakeCycleStore struct {
	Cycles           []domain.ReviewCycle
	EvaluationCounts map[string]int

	TxErr error
	// RejectCreate simulates the open-cycle uniqueness constraint firing for
	// a concurrent transition.
	RejectCreate bool
}

func (f *FakeCycleStore) InTransition(ctx context.Context, cardID string, fn func(tx service.CycleTx) error) error {
	if f.TxErr != nil {
		return f.TxErr
	}
	return fn(f)
}

func (f *FakeCycleStore) OpenCycle(ctx context.Context, cardID string) (*domain.ReviewCycle, error) {
	for i := range f.Cycles {
		if f.Cycles[i].CardID == cardID && f.Cycles[i].ClosedAt == nil {
			c := f.Cycles[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (f *FakeCycleStore) MaxCycleNumber(ctx context.Context, cardID string) (int, error) {
	max := 0
	for i := range f.Cycles {
		if f.Cycles[i].CardID == cardID && f.Cycles[i].CycleNumber > max {
			max = f.Cycles[i].CycleNumber
		}
	}
	return max, nil
}

func (f *FakeCycleStore) CreateCycle(ctx context.Context, cycle domain.ReviewCycle) (bool, error) {
	if f.RejectCreate {
		return false, nil
	}
	for i := range f.Cycles {
		if f.Cycles[i].CardID == cycle.CardID && f.Cycles[i].ClosedAt == nil {
			return false, nil
		}
	}
	f.Cycles = append(f.Cycles, cycle)
	return true, nil
}

func (f *FakeCycleStore) CloseCycle(ctx context.Context, cycleID string, closedAt time.Time) error {
	for i := range f.Cycles {
		if f.Cycles[i].ID == cycleID {
			t := closedAt
			f.Cycles[i].ClosedAt = &t
		}
	}
	return nil
}

func (f *FakeCycleStore) DeleteCycle(ctx context.Context, cycleID string) error {
	kept := f.Cycles[:0]
	for _, c := range f.Cycles {
		if c.ID != cycleID {
			kept = append(kept, c)
		}
	}
	f.Cycles = kept
	return nil
}

func (f *FakeCycleStore) CountEvaluations(ctx context.Context, cycleID string) (int, error) {
	return f.EvaluationCounts[cycleID], nil
}

func (f *FakeCycleStore) LatestCycle(ctx context.Context, cardID string) (*domain.ReviewCycle, error) {
	var latest *domain.ReviewCycle
	for i := range f.Cycles {
		if f.Cycles[i].CardID != cardID {
			continue
		}
		if latest == nil || f.Cycles[i].CycleNumber > latest.CycleNumber {
			c := f.Cycles[i]
			latest = &c
		}
	}
	return latest, nil
}

func (f *FakeCycleStore) ClearFinal(ctx context.Context, cardID string) error {
	for i := range f.Cycles {
		if f.Cycles[i].CardID == cardID {
			f.Cycles[i].IsFinal = false
		}
	}
	return nil
}

func (f *FakeCycleStore) MarkFinal(ctx context.Context, cycleID string) error {
	for i := range f.Cycles {
		if f.Cycles[i].ID == cycleID {
			f.Cycles[i].IsFinal = true
		}
	}
	return nil
}

func (f *FakeCycleStore) LockAll(ctx context.Context, cardID string, lockedAt time.Time) error {
	for i := range f.Cycles {
		if f.Cycles[i].CardID == cardID && f.Cycles[i].LockedAt == nil {
			t := lockedAt
			f.Cycles[i].LockedAt = &t
		}
	}
	return nil
}

func (f *FakeCycleStore) ClearLocks(ctx context.Context, cardID string) error {
	for i := range f.Cycles {
		if f.Cycles[i].CardID == cardID {
			f.Cycles[i].LockedAt = nil
		}
	}
	return nil
}
