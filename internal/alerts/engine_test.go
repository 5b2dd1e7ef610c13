package alerts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"mesas/m/domain"
	"mesas/m/internal/store"
)

var today = time.Date(2025, time.January, 15, 9, 30, 0, 0, time.UTC)

func inDays(n int) string {
	return today.AddDate(0, 0, n).Format(DateLayout)
}

type countingRecorder struct{ total int }

func (c *countingRecorder) RecordAlerts(ctx context.Context, n int) error {
	c.total += n
	return nil
}

func TestDaysUntilExpiry(t *testing.T) {
	cases := []struct {
		expiry string
		want   int
	}{
		{inDays(-1), -1},
		{inDays(0), 0},
		{inDays(30), 30},
		{inDays(31), 31},
		{"2025-03-01", 45},
	}
	for _, tc := range cases {
		got, err := DaysUntilExpiry(tc.expiry, today)
		if err != nil {
			t.Fatalf("DaysUntilExpiry(%q) error: %v", tc.expiry, err)
		}
		if got != tc.want {
			t.Fatalf("DaysUntilExpiry(%q) expected %d, got %d", tc.expiry, tc.want, got)
		}
	}
}

func TestComputeExpiryAlerts_Thresholds(t *testing.T) {
	meds := []domain.Medicine{
		{ID: 1, Name: "Old", ExpiryDate: "2025-01-10"},
		{ID: 2, Name: "Today", ExpiryDate: inDays(0)},
		{ID: 3, Name: "Edge", ExpiryDate: inDays(30)},
		{ID: 4, Name: "Far", ExpiryDate: inDays(31)},
	}
	got, err := ComputeExpiryAlerts(meds, today)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := []string{
		"Old (ID: 1) has EXPIRED on 2025-01-10",
		"Today (ID: 2) expires in 0 days",
		"Edge (ID: 3) expires in 30 days",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d alerts, got %+v", len(want), got)
	}
	for i, a := range got {
		if a.Kind != domain.AlertExpiry || a.Message != want[i] {
			t.Fatalf("alert %d: got %+v, want %q", i, a, want[i])
		}
	}
}

func TestComputeExpiryAlerts_BadDate(t *testing.T) {
	meds := []domain.Medicine{{ID: 9, Name: "Broken", ExpiryDate: "31/12/2025"}}
	if _, err := ComputeExpiryAlerts(meds, today); !errors.Is(err, domain.ErrDataIntegrity) {
		t.Fatalf("expected data integrity error, got %v", err)
	}
}

func TestComputeStockAlerts(t *testing.T) {
	meds := []domain.Medicine{
		{ID: 1, Name: "Empty", Stock: 0},
		{ID: 2, Name: "One", Stock: 1},
		{ID: 3, Name: "Five", Stock: 5},
		{ID: 4, Name: "Six", Stock: 6},
	}
	got := ComputeStockAlerts(meds)
	want := []string{
		"Empty (ID: 1) is OUT OF STOCK",
		"One (ID: 2) has LOW STOCK: 1 units left",
		"Five (ID: 3) has LOW STOCK: 5 units left",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d alerts, got %+v", len(want), got)
	}
	for i, a := range got {
		if a.Kind != domain.AlertStock || a.Message != want[i] {
			t.Fatalf("alert %d: got %+v, want %q", i, a, want[i])
		}
	}
}

func TestEngine_AllAlerts_ExpiryFirst(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	_ = s.CreateMedicine(ctx, &domain.Medicine{Name: "Syrup", Category: "Syrup", Stock: 0, ExpiryDate: inDays(10)})
	_ = s.CreateMedicine(ctx, &domain.Medicine{Name: "Tabs", Category: "Tablet", Stock: 10, ExpiryDate: inDays(40)})

	rec := &countingRecorder{}
	engine := NewEngine(s, rec)
	got, err := engine.AllAlerts(ctx, today)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	msgs := Messages(got)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 alerts, got %v", msgs)
	}
	if msgs[0] != "Syrup (ID: 1) expires in 10 days" || msgs[1] != "Syrup (ID: 1) is OUT OF STOCK" {
		t.Fatalf("unexpected messages: %v", msgs)
	}
	if rec.total != 2 {
		t.Fatalf("expected 2 recorded, got %d", rec.total)
	}

	// the counter is cumulative across computations
	if _, err := engine.AllAlerts(ctx, today); err != nil {
		t.Fatal(err)
	}
	if rec.total != 4 {
		t.Fatalf("expected 4 recorded, got %d", rec.total)
	}
}

func TestEngine_AllAlerts_Empty(t *testing.T) {
	got, err := NewEngine(store.NewMemoryStore(), nil).AllAlerts(context.Background(), today)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

type failingRecorder struct{}

func (failingRecorder) RecordAlerts(ctx context.Context, n int) error {
	return errors.New("counter unavailable")
}

func TestEngine_AllAlerts_CounterFailureKeepsAlerts(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	_ = s.CreateMedicine(ctx, &domain.Medicine{Name: "Drops", Category: "Drops", Stock: 2, ExpiryDate: inDays(90)})

	logger, hook := logtest.NewNullLogger()
	got, err := NewEngine(s, failingRecorder{}).WithLogger(logger).AllAlerts(ctx, today)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if msgs := Messages(got); len(msgs) != 1 || msgs[0] != "Drops (ID: 1) has LOW STOCK: 2 units left" {
		t.Fatalf("unexpected alerts: %v", msgs)
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.ErrorLevel || entry.Message != "counter unavailable" {
		t.Fatalf("expected logged counter failure, got %+v", entry)
	}
	if entry.Data["funcName"] != "AllAlerts" {
		t.Fatalf("unexpected log fields: %+v", entry.Data)
	}
}
