// Package alerts classifies medicines into expiry and stock alerts.
package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"mesas/m/domain"
	"mesas/m/internal/config"
	"mesas/m/internal/store"
)

const (
	// DateLayout is the only accepted expiry date format.
	DateLayout = "2006-01-02"

	NearExpiryWindowDays = 30
	LowStockThreshold    = 5
)

// Clock returns the current time. Tests pass a fixed one.
type Clock func() time.Time

func SystemClock() time.Time { return time.Now() }

// Recorder receives the number of alerts produced by each computation.
type Recorder interface {
	RecordAlerts(ctx context.Context, n int) error
}

// DaysUntilExpiry returns the whole days from today's calendar date to expiry.
// It is negative once the date has passed.
func DaysUntilExpiry(expiry string, today time.Time) (int, error) {
	exp, err := time.Parse(DateLayout, expiry)
	if err != nil {
		return 0, err
	}
	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(exp.Sub(start).Hours() / 24), nil
}

// ExpiryDays is DaysUntilExpiry for a stored medicine; a date that no longer
// parses is a data integrity failure.
func ExpiryDays(m domain.Medicine, today time.Time) (int, error) {
	days, err := DaysUntilExpiry(m.ExpiryDate, today)
	if err != nil {
		return 0, fmt.Errorf("%w: medicine %d has unparseable expiry date %q", domain.ErrDataIntegrity, m.ID, m.ExpiryDate)
	}
	return days, nil
}

// ComputeExpiryAlerts emits at most one alert per medicine, in input order.
func ComputeExpiryAlerts(medicines []domain.Medicine, today time.Time) ([]domain.Alert, error) {
	var out []domain.Alert
	for _, m := range medicines {
		days, err := ExpiryDays(m, today)
		if err != nil {
			return nil, err
		}
		switch {
		case days < 0:
			out = append(out, domain.Alert{
				Kind:       domain.AlertExpiry,
				MedicineID: m.ID,
				Message:    fmt.Sprintf("%s (ID: %d) has EXPIRED on %s", m.Name, m.ID, m.ExpiryDate),
			})
		case days <= NearExpiryWindowDays:
			out = append(out, domain.Alert{
				Kind:       domain.AlertExpiry,
				MedicineID: m.ID,
				Message:    fmt.Sprintf("%s (ID: %d) expires in %d days", m.Name, m.ID, days),
			})
		}
	}
	return out, nil
}

func ComputeStockAlerts(medicines []domain.Medicine) []domain.Alert {
	var out []domain.Alert
	for _, m := range medicines {
		switch {
		case m.Stock == 0:
			out = append(out, domain.Alert{
				Kind:       domain.AlertStock,
				MedicineID: m.ID,
				Message:    fmt.Sprintf("%s (ID: %d) is OUT OF STOCK", m.Name, m.ID),
			})
		case m.Stock <= LowStockThreshold:
			out = append(out, domain.Alert{
				Kind:       domain.AlertStock,
				MedicineID: m.ID,
				Message:    fmt.Sprintf("%s (ID: %d) has LOW STOCK: %d units left", m.Name, m.ID, m.Stock),
			})
		}
	}
	return out
}

// Messages projects alerts to their display strings.
func Messages(alerts []domain.Alert) []string {
	out := make([]string, len(alerts))
	for i, a := range alerts {
		out[i] = a.Message
	}
	return out
}

// Engine computes the live alert set from the medicine store.
type Engine struct {
	medicines store.MedicineStore
	recorder  Recorder
	logger    *logrus.Logger
}

// NewEngine builds an Engine. recorder may be nil.
func NewEngine(medicines store.MedicineStore, recorder Recorder) *Engine {
	return &Engine{medicines: medicines, recorder: recorder, logger: logrus.StandardLogger()}
}

// WithLogger sets the logger used for counter failures.
func (e *Engine) WithLogger(logger *logrus.Logger) *Engine {
	e.logger = logger
	return e
}

// AllAlerts returns expiry alerts followed by stock alerts. Callers that
// truncate the list rely on expiry problems coming first. A failure to
// record the count is logged and does not withhold the alerts.
func (e *Engine) AllAlerts(ctx context.Context, today time.Time) ([]domain.Alert, error) {
	medicines, err := e.medicines.ListMedicines(ctx)
	if err != nil {
		return nil, err
	}
	expiry, err := ComputeExpiryAlerts(medicines, today)
	if err != nil {
		return nil, err
	}
	all := append(expiry, ComputeStockAlerts(medicines)...)
	if e.recorder != nil && len(all) > 0 {
		if err := e.recorder.RecordAlerts(ctx, len(all)); err != nil {
			config.LogError(e.logger, "alerts", "AllAlerts", "record alert count", len(all), err)
		}
	}
	if all == nil {
		all = []domain.Alert{}
	}
	return all, nil
}
