package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"mesas/m/domain"
)

// MemoryStore keeps every record in process memory. Ids start at 1 per record
// type and are never reused.
type MemoryStore struct {
	mu           sync.RWMutex
	now          func() time.Time
	nextMedID    int64
	nextUserID   int64
	nextReportID int64
	medicines    map[int64]domain.Medicine
	users        map[int64]domain.User
	reports      []domain.Report
	counters     map[string]int64
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:          time.Now,
		nextMedID:    1,
		nextUserID:   1,
		nextReportID: 1,
		medicines:    make(map[int64]domain.Medicine),
		users:        make(map[int64]domain.User),
		counters:     make(map[string]int64),
	}
}

func (m *MemoryStore) ListMedicines(ctx context.Context) ([]domain.Medicine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Medicine, 0, len(m.medicines))
	for _, med := range m.medicines {
		out = append(out, med)
	}
	slices.SortFunc(out, func(a, b domain.Medicine) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (m *MemoryStore) GetMedicineByID(ctx context.Context, id int64) (*domain.Medicine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	med, ok := m.medicines[id]
	if !ok {
		return nil, fmt.Errorf("%w: medicine %d", domain.ErrNotFound, id)
	}
	return &med, nil
}

func (m *MemoryStore) CreateMedicine(ctx context.Context, med *domain.Medicine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	med.ID = m.nextMedID
	m.nextMedID++
	med.CreatedAt = timestamp(m.now())
	m.medicines[med.ID] = *med
	return nil
}

func (m *MemoryStore) UpdateMedicine(ctx context.Context, id int64, patch domain.MedicinePatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	med, ok := m.medicines[id]
	if !ok {
		return fmt.Errorf("%w: medicine %d", domain.ErrNotFound, id)
	}
	if patch.Stock != nil {
		med.Stock = *patch.Stock
	}
	if patch.ExpiryDate != nil {
		med.ExpiryDate = *patch.ExpiryDate
	}
	m.medicines[id] = med
	return nil
}

func (m *MemoryStore) DeleteMedicine(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.medicines[id]; !ok {
		return fmt.Errorf("%w: medicine %d", domain.ErrNotFound, id)
	}
	delete(m.medicines, id)
	return nil
}

func (m *MemoryStore) AppendReport(ctx context.Context, r *domain.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = m.nextReportID
	m.nextReportID++
	m.reports = append(m.reports, cloneReport(*r))
	return nil
}

func (m *MemoryStore) ListReports(ctx context.Context) ([]domain.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Report, len(m.reports))
	for i, r := range m.reports {
		out[i] = cloneReport(r)
	}
	return out, nil
}

// cloneReport copies a report together with its body so stored history
// shares no memory with callers.
func cloneReport(r domain.Report) domain.Report {
	if r.OwnerID != nil {
		owner := *r.OwnerID
		r.OwnerID = &owner
	}
	if r.Inventory != nil {
		inv := *r.Inventory
		r.Inventory = &inv
	}
	if r.Expiry != nil {
		exp := *r.Expiry
		exp.ExpiredMedicines = slices.Clone(exp.ExpiredMedicines)
		exp.ExpiringSoon = slices.Clone(exp.ExpiringSoon)
		r.Expiry = &exp
	}
	if r.Stock != nil {
		st := *r.Stock
		st.OutOfStock = slices.Clone(st.OutOfStock)
		st.LowStock = slices.Clone(st.LowStock)
		r.Stock = &st
	}
	return r
}

func (m *MemoryStore) CreateUser(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return fmt.Errorf("%w: username %s", domain.ErrDuplicate, u.Username)
		}
	}
	u.ID = m.nextUserID
	m.nextUserID++
	u.CreatedAt = timestamp(m.now())
	m.users[u.ID] = *u
	return nil
}

func (m *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, username)
}

func (m *MemoryStore) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	return &u, nil
}

func (m *MemoryStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b domain.User) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (m *MemoryStore) UpdatePassword(ctx context.Context, id int64, hashed string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	u.Password = hashed
	m.users[id] = u
	return nil
}

func (m *MemoryStore) TouchLastLogin(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	ts := timestamp(m.now())
	u.LastLogin = &ts
	m.users[id] = u
	return nil
}

func (m *MemoryStore) CountUsers(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), nil
}

func (m *MemoryStore) IncrementCounter(ctx context.Context, name string, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name] += delta
	return nil
}

func (m *MemoryStore) Counter(ctx context.Context, name string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counters[name], nil
}
