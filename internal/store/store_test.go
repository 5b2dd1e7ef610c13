package store

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"mesas/m/domain"
	"mesas/m/internal/database"
	"mesas/m/internal/migrations"
)

func newSQLStore(t *testing.T) Store {
	t.Helper()
	db, err := database.Connect(":memory:")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := migrations.Run(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewSQLStore(db)
}

func forEachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemoryStore()) })
	t.Run("sqlite", func(t *testing.T) { fn(t, newSQLStore(t)) })
}

func TestMedicineCRUD(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		a := &domain.Medicine{Name: "Paracetamol", Category: "Tablet", Stock: 100, Price: 5.5, ExpiryDate: "2030-12-31", OwnerID: 1}
		b := &domain.Medicine{Name: "Aspirin", Category: "Tablet", Stock: 10, Price: 4.5, ExpiryDate: "2029-10-15", OwnerID: 1}
		if err := s.CreateMedicine(ctx, a); err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := s.CreateMedicine(ctx, b); err != nil {
			t.Fatalf("create: %v", err)
		}
		if a.ID == 0 || b.ID <= a.ID || a.CreatedAt == "" {
			t.Fatalf("ids/created_at not assigned: %+v %+v", a, b)
		}

		got, err := s.GetMedicineByID(ctx, a.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if *got != *a {
			t.Fatalf("round trip mismatch: %+v vs %+v", got, a)
		}

		stock := int64(3)
		if err := s.UpdateMedicine(ctx, a.ID, domain.MedicinePatch{Stock: &stock}); err != nil {
			t.Fatalf("update: %v", err)
		}
		got, _ = s.GetMedicineByID(ctx, a.ID)
		if got.Stock != 3 || got.ExpiryDate != "2030-12-31" {
			t.Fatalf("patch touched other fields: %+v", got)
		}

		list, err := s.ListMedicines(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 2 || list[0].ID != a.ID || list[1].ID != b.ID {
			t.Fatalf("expected insertion order, got %+v", list)
		}

		if err := s.DeleteMedicine(ctx, a.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := s.GetMedicineByID(ctx, a.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected not found after delete, got %v", err)
		}
	})
}

func TestMedicineMissing(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		stock := int64(1)
		if err := s.UpdateMedicine(ctx, 42, domain.MedicinePatch{Stock: &stock}); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("update: expected not found, got %v", err)
		}
		if err := s.DeleteMedicine(ctx, 42); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("delete: expected not found, got %v", err)
		}
	})
}

func TestReportsAppendAndList(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		owner := int64(7)
		inv := &domain.Report{
			Kind:           domain.ReportInventory,
			OwnerID:        &owner,
			GenerationDate: "2025-01-15T10:00:00Z",
			Inventory: &domain.InventoryReport{
				TotalMedicines:  2,
				LowStockCount:   1,
				TotalStockValue: decimal.RequireFromString("123.45"),
			},
		}
		stock := &domain.Report{
			Kind:           domain.ReportStock,
			GenerationDate: "2025-01-15T10:01:00Z",
			Stock: &domain.StockReport{
				OutOfStock:      []domain.StockEntry{{ID: 1, Name: "A", Category: "Tablet", Stock: 0}},
				LowStock:        []domain.StockEntry{},
				TotalOutOfStock: 1,
			},
		}
		if err := s.AppendReport(ctx, inv); err != nil {
			t.Fatalf("append: %v", err)
		}
		if err := s.AppendReport(ctx, stock); err != nil {
			t.Fatalf("append: %v", err)
		}

		reports, err := s.ListReports(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(reports) != 2 || reports[0].ID != inv.ID || reports[1].ID != stock.ID {
			t.Fatalf("unexpected reports: %+v", reports)
		}
		first := reports[0]
		if first.OwnerID == nil || *first.OwnerID != 7 {
			t.Fatalf("owner not kept: %+v", first)
		}
		if first.Inventory == nil || !first.Inventory.TotalStockValue.Equal(decimal.RequireFromString("123.45")) {
			t.Fatalf("inventory body not kept: %+v", first.Inventory)
		}
		if reports[1].OwnerID != nil || reports[1].Stock == nil || reports[1].Stock.OutOfStock[0].Name != "A" {
			t.Fatalf("stock body not kept: %+v", reports[1])
		}
	})
}

func TestReportsAreImmutableOnceStored(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		inv := &domain.Report{
			Kind:           domain.ReportInventory,
			GenerationDate: "2025-01-15T10:00:00Z",
			Inventory:      &domain.InventoryReport{TotalMedicines: 2, TotalStockValue: decimal.RequireFromString("10")},
		}
		stock := &domain.Report{
			Kind:           domain.ReportStock,
			GenerationDate: "2025-01-15T10:01:00Z",
			Stock: &domain.StockReport{
				OutOfStock:      []domain.StockEntry{{ID: 1, Name: "A", Category: "Tablet"}},
				LowStock:        []domain.StockEntry{},
				TotalOutOfStock: 1,
			},
		}
		if err := s.AppendReport(ctx, inv); err != nil {
			t.Fatalf("append: %v", err)
		}
		if err := s.AppendReport(ctx, stock); err != nil {
			t.Fatalf("append: %v", err)
		}

		inv.Inventory.TotalMedicines = 99
		stock.Stock.OutOfStock[0].Name = "changed"
		listed, err := s.ListReports(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		listed[0].Inventory.TotalStockValue = decimal.Zero
		listed[1].Stock.TotalOutOfStock = 0

		again, err := s.ListReports(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if again[0].Inventory.TotalMedicines != 2 || !again[0].Inventory.TotalStockValue.Equal(decimal.RequireFromString("10")) {
			t.Fatalf("inventory history changed: %+v", again[0].Inventory)
		}
		if again[1].Stock.OutOfStock[0].Name != "A" || again[1].Stock.TotalOutOfStock != 1 {
			t.Fatalf("stock history changed: %+v", again[1].Stock)
		}
	})
}

func TestUsers(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		u := &domain.User{Username: "nurse", Password: "hash", Role: domain.RoleUser}
		if err := s.CreateUser(ctx, u); err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := s.CreateUser(ctx, &domain.User{Username: "nurse", Password: "x", Role: domain.RoleUser}); !errors.Is(err, domain.ErrDuplicate) {
			t.Fatalf("expected duplicate, got %v", err)
		}
		if err := s.TouchLastLogin(ctx, u.ID); err != nil {
			t.Fatalf("touch: %v", err)
		}
		if err := s.UpdatePassword(ctx, u.ID, "hash2"); err != nil {
			t.Fatalf("password: %v", err)
		}
		got, err := s.GetUserByUsername(ctx, "nurse")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.LastLogin == nil || got.Password != "hash2" {
			t.Fatalf("user not updated: %+v", got)
		}
		if _, err := s.GetUserByID(ctx, 99); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
		if n, _ := s.CountUsers(ctx); n != 1 {
			t.Fatalf("expected 1 user, got %d", n)
		}
	})
}

func TestCounters(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		if v, err := s.Counter(ctx, CounterAlerts); err != nil || v != 0 {
			t.Fatalf("expected zero counter, got %d %v", v, err)
		}
		_ = s.IncrementCounter(ctx, CounterAlerts, 3)
		_ = s.IncrementCounter(ctx, CounterAlerts, 2)
		if v, _ := s.Counter(ctx, CounterAlerts); v != 5 {
			t.Fatalf("expected 5, got %d", v)
		}
	})
}
