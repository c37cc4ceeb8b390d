package quotation

import (
	"time"

	"quotedesk/internal/core/apperror"
)

// transitions is the complete status graph. Absence means illegal; there are
// no self-transitions.
var transitions = map[Status][]Status{
	StatusInProcess: {StatusComplete, StatusFailed, StatusRevised},
	StatusRevised:   {StatusComplete, StatusFailed, StatusInProcess},
	StatusComplete:  {StatusRevised},
	StatusFailed:    {StatusRevised},
}

// CanTransition reports whether from → to is in the transition table.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the legal target states from the given state.
func AllowedTransitions(from Status) []Status {
	out := make([]Status, len(transitions[from]))
	copy(out, transitions[from])
	return out
}

// Actor identifies who performed a lifecycle action.
type Actor struct {
	UserID string
	Role   string
}

// Lifecycle is the only writer of Quotation.Status and Quotation.History.
type Lifecycle struct {
	now func() time.Time
}

// NewLifecycle creates a lifecycle engine using wall-clock time.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{now: func() time.Time { return time.Now().UTC() }}
}

// Seed records the creation entry: the quotation enters StatusInProcess and
// the history gets its first entry with identical before/after snapshots.
func (l *Lifecycle) Seed(q *Quotation, actor Actor) {
	q.Status = StatusInProcess
	snap := q.SnapshotNow()
	q.History = append(q.History, HistoryEntry{
		Status:    StatusInProcess,
		At:        l.now(),
		UpdatedBy: actor.UserID,
		Role:      actor.Role,
		Snapshot:  SnapshotPair{Before: snap, After: snap},
	})
}

// Transition validates the status change against the transition table, applies
// the optional edit between the before and after snapshots, moves the status
// and appends one history entry. On any error the quotation is left untouched
// only if edit itself made no changes; callers discard the in-memory copy on
// failure, so no partial state is ever persisted.
func (l *Lifecycle) Transition(q *Quotation, to Status, actor Actor, edit func(*Quotation) error) error {
	if !to.Valid() {
		return apperror.NewValidation("invalid status").
			WithDetail("field", "status").
			WithDetail("value", string(to))
	}

	if !CanTransition(q.Status, to) {
		return apperror.NewInvalidTransition(string(q.Status), string(to)).
			WithDetail("allowed", AllowedTransitions(q.Status))
	}

	before := q.SnapshotNow()

	if edit != nil {
		if err := edit(q); err != nil {
			return err
		}
	}

	q.Status = to
	q.History = append(q.History, HistoryEntry{
		Status:    to,
		At:        l.now(),
		UpdatedBy: actor.UserID,
		Role:      actor.Role,
		Snapshot:  SnapshotPair{Before: before, After: q.SnapshotNow()},
	})

	return nil
}
