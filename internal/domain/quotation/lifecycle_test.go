package quotation

import (
	"testing"
	"time"

	"quotedesk/internal/core/apperror"
	"quotedesk/internal/core/id"
	"quotedesk/internal/core/types"
)

func newID(t *testing.T) id.ID {
	t.Helper()
	return id.New()
}

func testLifecycle(at time.Time) *Lifecycle {
	return &Lifecycle{now: func() time.Time { return at }}
}

func TestCanTransition_FullTable(t *testing.T) {
	all := []Status{StatusInProcess, StatusRevised, StatusComplete, StatusFailed}

	legal := map[Status]map[Status]bool{
		StatusInProcess: {StatusComplete: true, StatusFailed: true, StatusRevised: true},
		StatusRevised:   {StatusComplete: true, StatusFailed: true, StatusInProcess: true},
		StatusComplete:  {StatusRevised: true},
		StatusFailed:    {StatusRevised: true},
	}

	for _, from := range all {
		for _, to := range all {
			want := legal[from][to]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTransition_AppendsHistoryEntry(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	lc := testLifecycle(at)

	q := New(newID(t))
	q.CustomerName = "Acme Industries"
	q.CustomerEmail = "buyer@acme.test"
	q.Total = types.MustMoney("270")
	lc.Seed(q, Actor{UserID: "user-1", Role: "member"})

	err := lc.Transition(q, StatusComplete, Actor{UserID: "user-2", Role: "admin"}, nil)
	if err != nil {
		t.Fatalf("Transition failed: %v", err)
	}

	if q.Status != StatusComplete {
		t.Errorf("status = %s, want %s", q.Status, StatusComplete)
	}
	if len(q.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(q.History))
	}

	entry := q.History[1]
	if entry.Status != StatusComplete {
		t.Errorf("entry status = %s, want %s", entry.Status, StatusComplete)
	}
	if !entry.At.Equal(at) {
		t.Errorf("entry at = %s, want %s", entry.At, at)
	}
	if entry.UpdatedBy != "user-2" || entry.Role != "admin" {
		t.Errorf("entry actor = %s/%s, want user-2/admin", entry.UpdatedBy, entry.Role)
	}
	if entry.Snapshot.Before.CustomerName != "Acme Industries" {
		t.Errorf("before snapshot not captured: %+v", entry.Snapshot.Before)
	}
}

func TestTransition_EditCapturedInSnapshot(t *testing.T) {
	lc := NewLifecycle()

	q := New(newID(t))
	q.CustomerName = "Old Name"
	q.CustomerEmail = "old@example.test"
	lc.Seed(q, Actor{UserID: "u", Role: "member"})

	err := lc.Transition(q, StatusFailed, Actor{UserID: "u", Role: "member"}, func(inner *Quotation) error {
		inner.CustomerName = "New Name"
		return nil
	})
	if err != nil {
		t.Fatalf("Transition failed: %v", err)
	}

	pair := q.History[len(q.History)-1].Snapshot
	if pair.Before.CustomerName != "Old Name" || pair.After.CustomerName != "New Name" {
		t.Errorf("snapshot pair = %q → %q, want Old Name → New Name",
			pair.Before.CustomerName, pair.After.CustomerName)
	}

	changes := SnapshotDiff(pair)
	if len(changes) != 1 || changes[0].Field != "customerName" {
		t.Errorf("diff = %+v, want single customerName change", changes)
	}
}

func TestTransition_SelfTransitionRejected(t *testing.T) {
	lc := NewLifecycle()

	q := New(newID(t))
	lc.Seed(q, Actor{UserID: "u", Role: "member"})
	if err := lc.Transition(q, StatusComplete, Actor{UserID: "u", Role: "member"}, nil); err != nil {
		t.Fatalf("setup transition failed: %v", err)
	}
	historyLen := len(q.History)

	err := lc.Transition(q, StatusComplete, Actor{UserID: "u", Role: "member"}, nil)
	if !apperror.IsInvalidTransition(err) {
		t.Fatalf("complete → complete: got %v, want InvalidTransition", err)
	}

	if q.Status != StatusComplete {
		t.Errorf("status changed on rejected transition: %s", q.Status)
	}
	if len(q.History) != historyLen {
		t.Errorf("history grew on rejected transition: %d → %d", historyLen, len(q.History))
	}
}

func TestTransition_RejectionListsAllowedTargets(t *testing.T) {
	lc := NewLifecycle()
	q := New(newID(t))
	lc.Seed(q, Actor{UserID: "u", Role: "member"})
	if err := lc.Transition(q, StatusComplete, Actor{UserID: "u", Role: "member"}, nil); err != nil {
		t.Fatalf("setup transition failed: %v", err)
	}

	err := lc.Transition(q, StatusFailed, Actor{UserID: "u", Role: "member"}, nil)
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeInvalidTransition {
		t.Fatalf("complete → failed: got %v, want InvalidTransition", err)
	}

	allowed, ok := appErr.Details["allowed"].([]Status)
	if !ok {
		t.Fatalf("allowed detail missing or wrong type: %+v", appErr.Details)
	}
	if len(allowed) != 1 || allowed[0] != StatusRevised {
		t.Errorf("allowed = %v, want [revised]", allowed)
	}
}

func TestTransition_UnknownStatusRejected(t *testing.T) {
	lc := NewLifecycle()
	q := New(newID(t))
	lc.Seed(q, Actor{UserID: "u", Role: "member"})

	err := lc.Transition(q, Status("archived"), Actor{UserID: "u", Role: "member"}, nil)
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Errorf("unknown status: got %v, want validation error", err)
	}
}

func TestSeed_CreatesInitialEntry(t *testing.T) {
	lc := NewLifecycle()
	q := New(newID(t))
	q.CustomerName = "Acme"
	q.Total = types.MustMoney("100")

	lc.Seed(q, Actor{UserID: "creator", Role: "member"})

	if q.Status != StatusInProcess {
		t.Errorf("status = %s, want %s", q.Status, StatusInProcess)
	}
	if len(q.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(q.History))
	}

	entry := q.History[0]
	if entry.Status != StatusInProcess || entry.UpdatedBy != "creator" {
		t.Errorf("seed entry = %+v", entry)
	}
	if len(SnapshotDiff(entry.Snapshot)) != 0 {
		t.Errorf("seed entry must have identical before/after snapshots")
	}
}

func TestSnapshotDiff_TotalChange(t *testing.T) {
	pair := SnapshotPair{
		Before: Snapshot{CustomerName: "Acme", Total: types.MustMoney("100")},
		After:  Snapshot{CustomerName: "Acme", Total: types.MustMoney("270.5")},
	}

	changes := SnapshotDiff(pair)
	if len(changes) != 1 {
		t.Fatalf("changes = %+v, want one", changes)
	}
	if changes[0].Field != "total" || changes[0].Before != "100.00" || changes[0].After != "270.50" {
		t.Errorf("total change = %+v", changes[0])
	}
}
