package numerator

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"quotedesk/internal/core/id"
)

// Mock objects
type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

type mockQuerier struct {
	mu      sync.Mutex
	seqs    map[string]int64
	lastKey string
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.seqs == nil {
		m.seqs = make(map[string]int64)
	}
	key, _ := args[0].(string)
	m.seqs[key]++
	m.lastKey = key
	return &mockRow{val: m.seqs[key]}
}

func TestNextNumber_Sequence(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("QT")
	companyID := id.New()
	now := time.Now()

	num, err := svc.NextNumber(ctx, cfg, companyID, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := fmt.Sprintf("QT-%d-00001", now.UTC().Year())
	if num != want {
		t.Errorf("expected %s, got %s", want, num)
	}

	num, err = svc.NextNumber(ctx, cfg, companyID, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want = fmt.Sprintf("QT-%d-00002", now.UTC().Year())
	if num != want {
		t.Errorf("expected %s, got %s", want, num)
	}
}

func TestNextNumber_PerCompanyCounters(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("QT")
	now := time.Now()

	companyA := id.New()
	companyB := id.New()

	if _, err := svc.NextNumber(ctx, cfg, companyA, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	keyA := q.lastKey

	numB, err := svc.NextNumber(ctx, cfg, companyB, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.lastKey == keyA {
		t.Error("expected distinct sequence keys per company")
	}
	// Company B starts from 1 regardless of A's counter.
	want := fmt.Sprintf("QT-%d-00001", now.UTC().Year())
	if numB != want {
		t.Errorf("expected %s, got %s", want, numB)
	}
}

func TestNextNumber_NoYear(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	cfg := Config{Prefix: "QT", IncludeYear: false, PadWidth: 4}

	num, err := svc.NextNumber(context.Background(), cfg, id.New(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "QT-0001" {
		t.Errorf("expected QT-0001, got %s", num)
	}
}
