package seed

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"mesas/m/internal/alerts"
	"mesas/m/internal/inventory"
	"mesas/m/internal/store"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "medicines.csv")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMedicines(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	manager := inventory.NewManager(s, alerts.NewEngine(s, nil))
	path := writeCSV(t, "name,category,stock,price,expiry_date\n"+
		"Paracetamol,Tablet,100,5.50,2024-12-31\n"+
		"Broken,Tablet,many,1,2025-01-01\n"+
		"Negative,Tablet,-4,1,2025-01-01\n"+
		"Salbutamol,Inhaler,15,45.00,2025-02-28\n")

	n, err := LoadMedicines(ctx, manager, quietLogger(), path, 1)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows seeded, got %d", n)
	}
	list, _ := s.ListMedicines(ctx)
	if len(list) != 2 || list[1].Name != "Salbutamol" || list[1].OwnerID != 1 || list[1].Price != 45 {
		t.Fatalf("unexpected medicines: %+v", list)
	}

	// a second run leaves a populated inventory alone
	n, err = LoadMedicines(ctx, manager, quietLogger(), path, 1)
	if err != nil || n != 0 {
		t.Fatalf("expected no-op, got %d %v", n, err)
	}
}

func TestLoadMedicines_MissingFile(t *testing.T) {
	s := store.NewMemoryStore()
	manager := inventory.NewManager(s, alerts.NewEngine(s, nil))
	if _, err := LoadMedicines(context.Background(), manager, quietLogger(), filepath.Join(t.TempDir(), "none.csv"), 1); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
