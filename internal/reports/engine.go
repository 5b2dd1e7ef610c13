// Package reports turns the medicine collection into persisted point-in-time
// reports.
package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"mesas/m/domain"
	"mesas/m/internal/alerts"
	"mesas/m/internal/store"
)

type Engine struct {
	medicines store.MedicineStore
	reports   store.ReportStore
	clock     alerts.Clock
}

func NewEngine(medicines store.MedicineStore, reports store.ReportStore, clock alerts.Clock) *Engine {
	if clock == nil {
		clock = alerts.SystemClock
	}
	return &Engine{medicines: medicines, reports: reports, clock: clock}
}

// StockValue sums price times stock without intermediate rounding.
func StockValue(medicines []domain.Medicine) decimal.Decimal {
	total := decimal.Zero
	for _, m := range medicines {
		total = total.Add(decimal.NewFromFloat(m.Price).Mul(decimal.NewFromInt(m.Stock)))
	}
	return total
}

// GenerateInventoryReport summarises every medicine; ownerID is recorded on
// the report only and does not filter the collection.
func (e *Engine) GenerateInventoryReport(ctx context.Context, ownerID int64) (*domain.Report, error) {
	now := e.clock()
	medicines, err := e.medicines.ListMedicines(ctx)
	if err != nil {
		return nil, err
	}
	body := &domain.InventoryReport{
		TotalMedicines:  len(medicines),
		TotalStockValue: StockValue(medicines),
	}
	for _, m := range medicines {
		days, err := alerts.ExpiryDays(m, now)
		if err != nil {
			return nil, err
		}
		switch {
		case days < 0:
			body.ExpiredCount++
		case days <= alerts.NearExpiryWindowDays:
			body.NearExpiryCount++
		}
		if m.Stock <= alerts.LowStockThreshold {
			body.LowStockCount++
		}
	}
	return e.save(ctx, &domain.Report{Kind: domain.ReportInventory, OwnerID: &ownerID, Inventory: body}, now)
}

func (e *Engine) GenerateExpiryReport(ctx context.Context) (*domain.Report, error) {
	now := e.clock()
	medicines, err := e.medicines.ListMedicines(ctx)
	if err != nil {
		return nil, err
	}
	body := &domain.ExpiryReport{
		ExpiredMedicines: []domain.ExpiredMedicine{},
		ExpiringSoon:     []domain.ExpiringMedicine{},
	}
	for _, m := range medicines {
		days, err := alerts.ExpiryDays(m, now)
		if err != nil {
			return nil, err
		}
		switch {
		case days < 0:
			body.ExpiredMedicines = append(body.ExpiredMedicines, domain.ExpiredMedicine{ID: m.ID, Name: m.Name, ExpiryDate: m.ExpiryDate})
		case days <= alerts.NearExpiryWindowDays:
			body.ExpiringSoon = append(body.ExpiringSoon, domain.ExpiringMedicine{ID: m.ID, Name: m.Name, DaysUntilExpiry: days})
		}
	}
	body.TotalExpired = len(body.ExpiredMedicines)
	body.TotalExpiringSoon = len(body.ExpiringSoon)
	return e.save(ctx, &domain.Report{Kind: domain.ReportExpiry, Expiry: body}, now)
}

func (e *Engine) GenerateStockReport(ctx context.Context) (*domain.Report, error) {
	now := e.clock()
	medicines, err := e.medicines.ListMedicines(ctx)
	if err != nil {
		return nil, err
	}
	body := &domain.StockReport{
		OutOfStock: []domain.StockEntry{},
		LowStock:   []domain.StockEntry{},
	}
	for _, m := range medicines {
		entry := domain.StockEntry{ID: m.ID, Name: m.Name, Category: m.Category, Stock: m.Stock}
		switch {
		case m.Stock == 0:
			body.OutOfStock = append(body.OutOfStock, entry)
		case m.Stock <= alerts.LowStockThreshold:
			body.LowStock = append(body.LowStock, entry)
		}
	}
	body.TotalOutOfStock = len(body.OutOfStock)
	body.TotalLowStock = len(body.LowStock)
	body.TotalHealthyStock = len(medicines) - body.TotalOutOfStock - body.TotalLowStock
	return e.save(ctx, &domain.Report{Kind: domain.ReportStock, Stock: body}, now)
}

// History returns the last limit reports, oldest first. A limit of zero or
// less returns all of them.
func (e *Engine) History(ctx context.Context, limit int) ([]domain.Report, error) {
	all, err := e.reports.ListReports(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

func (e *Engine) save(ctx context.Context, r *domain.Report, now time.Time) (*domain.Report, error) {
	r.GenerationDate = now.UTC().Format(time.RFC3339)
	if err := e.reports.AppendReport(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}
