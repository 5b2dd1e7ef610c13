// Package inventory validates and applies medicine mutations and serves the
// search and listing views.
package inventory

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"mesas/m/domain"
	"mesas/m/internal/alerts"
	"mesas/m/internal/store"
)

type Manager struct {
	store    store.MedicineStore
	alerts   *alerts.Engine
	validate *validator.Validate
}

func NewManager(s store.MedicineStore, engine *alerts.Engine) *Manager {
	return &Manager{store: s, alerts: engine, validate: validator.New()}
}

// AddMedicine validates the input and creates the record. Nothing is written
// when validation fails.
func (m *Manager) AddMedicine(ctx context.Context, in domain.NewMedicine) (*domain.Medicine, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.ExpiryDate = strings.TrimSpace(in.ExpiryDate)
	if math.IsNaN(in.Price) || math.IsInf(in.Price, 0) {
		return nil, fmt.Errorf("%w: price must be a non-negative number", domain.ErrInvalidInput)
	}
	if err := m.validate.StructCtx(ctx, in); err != nil {
		return nil, validationError(err)
	}

	med := &domain.Medicine{
		Name:       in.Name,
		Category:   in.Category,
		Stock:      in.Stock,
		Price:      in.Price,
		ExpiryDate: in.ExpiryDate,
		OwnerID:    in.OwnerID,
	}
	if err := m.store.CreateMedicine(ctx, med); err != nil {
		return nil, err
	}
	return med, nil
}

func (m *Manager) GetMedicine(ctx context.Context, id int64) (*domain.Medicine, error) {
	return m.store.GetMedicineByID(ctx, id)
}

func (m *Manager) UpdateStock(ctx context.Context, id, newStock int64) error {
	if _, err := m.store.GetMedicineByID(ctx, id); err != nil {
		return err
	}
	if newStock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", domain.ErrInvalidInput)
	}
	return m.store.UpdateMedicine(ctx, id, domain.MedicinePatch{Stock: &newStock})
}

func (m *Manager) UpdateExpiry(ctx context.Context, id int64, newExpiry string) error {
	if _, err := m.store.GetMedicineByID(ctx, id); err != nil {
		return err
	}
	newExpiry = strings.TrimSpace(newExpiry)
	if err := m.validate.VarCtx(ctx, newExpiry, "required,datetime="+alerts.DateLayout); err != nil {
		return fmt.Errorf("%w: invalid date format, use YYYY-MM-DD", domain.ErrInvalidInput)
	}
	return m.store.UpdateMedicine(ctx, id, domain.MedicinePatch{ExpiryDate: &newExpiry})
}

// DeleteMedicine removes the record permanently.
func (m *Manager) DeleteMedicine(ctx context.Context, id int64) error {
	return m.store.DeleteMedicine(ctx, id)
}

// Search matches keyword against name or category, ignoring case. An empty
// keyword matches every medicine.
func (m *Manager) Search(ctx context.Context, keyword string) ([]domain.Medicine, error) {
	medicines, err := m.store.ListMedicines(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(keyword)
	out := []domain.Medicine{}
	for _, med := range medicines {
		if strings.Contains(strings.ToLower(med.Name), needle) || strings.Contains(strings.ToLower(med.Category), needle) {
			out = append(out, med)
		}
	}
	return out, nil
}

// SortedMedicines orders by expiry date, earliest first, then by id.
func (m *Manager) SortedMedicines(ctx context.Context) ([]domain.Medicine, error) {
	medicines, err := m.store.ListMedicines(ctx)
	if err != nil {
		return nil, err
	}
	expiry := make(map[int64]time.Time, len(medicines))
	for _, med := range medicines {
		exp, err := time.Parse(alerts.DateLayout, med.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("%w: medicine %d has unparseable expiry date %q", domain.ErrDataIntegrity, med.ID, med.ExpiryDate)
		}
		expiry[med.ID] = exp
	}
	slices.SortFunc(medicines, func(a, b domain.Medicine) int {
		if c := expiry[a.ID].Compare(expiry[b.ID]); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return medicines, nil
}

// Alerts returns the alerts that exist right now.
func (m *Manager) Alerts(ctx context.Context, today time.Time) ([]domain.Alert, error) {
	return m.alerts.AllAlerts(ctx, today)
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	fe := verrs[0]
	var msg string
	switch fe.Field() {
	case "Name":
		msg = "medicine name is required"
	case "Category":
		msg = "category is required"
	case "Stock":
		msg = "stock must be a non-negative integer"
	case "Price":
		msg = "price must be a non-negative number"
	case "ExpiryDate":
		msg = "invalid date format, use YYYY-MM-DD"
	default:
		msg = fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag())
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, msg)
}
