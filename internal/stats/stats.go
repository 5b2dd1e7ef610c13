// Package stats owns the cumulative alert counter and the admin overview.
package stats

import (
	"context"

	"mesas/m/domain"
	"mesas/m/internal/reports"
	"mesas/m/internal/store"
)

type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// RecordAlerts adds n to the alert counter. The counter only grows.
func (s *Service) RecordAlerts(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}
	return s.store.IncrementCounter(ctx, store.CounterAlerts, int64(n))
}

func (s *Service) Snapshot(ctx context.Context) (*domain.SystemStats, error) {
	users, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	medicines, err := s.store.ListMedicines(ctx)
	if err != nil {
		return nil, err
	}
	history, err := s.store.ListReports(ctx)
	if err != nil {
		return nil, err
	}
	alertCount, err := s.store.Counter(ctx, store.CounterAlerts)
	if err != nil {
		return nil, err
	}
	return &domain.SystemStats{
		TotalUsers:            users,
		TotalMedicines:        len(medicines),
		TotalAlertsGenerated:  alertCount,
		TotalReportsGenerated: len(history),
		TotalInventoryValue:   reports.StockValue(medicines),
	}, nil
}
