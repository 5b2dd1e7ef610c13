// Package store persists medicines, users, reports and counters. Every record
// type is keyed by an integer id that the store alone assigns.
package store

import (
	"context"
	"time"

	"mesas/m/domain"
)

// CounterAlerts is the cumulative number of alerts ever emitted.
const CounterAlerts = "alerts_generated"

type MedicineStore interface {
	ListMedicines(ctx context.Context) ([]domain.Medicine, error)
	GetMedicineByID(ctx context.Context, id int64) (*domain.Medicine, error)
	CreateMedicine(ctx context.Context, m *domain.Medicine) error
	UpdateMedicine(ctx context.Context, id int64, patch domain.MedicinePatch) error
	DeleteMedicine(ctx context.Context, id int64) error
}

type ReportStore interface {
	AppendReport(ctx context.Context, r *domain.Report) error
	ListReports(ctx context.Context) ([]domain.Report, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, u *domain.User) error
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdatePassword(ctx context.Context, id int64, hashed string) error
	TouchLastLogin(ctx context.Context, id int64) error
	CountUsers(ctx context.Context) (int, error)
}

type CounterStore interface {
	IncrementCounter(ctx context.Context, name string, delta int64) error
	Counter(ctx context.Context, name string) (int64, error)
}

// Store is everything the application needs from persistence.
type Store interface {
	MedicineStore
	ReportStore
	UserStore
	CounterStore
}

func timestamp(now time.Time) string {
	return now.UTC().Format(time.RFC3339)
}
