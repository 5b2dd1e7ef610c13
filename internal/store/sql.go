package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"mesas/m/domain"
)

// SQLStore implements Store on top of the schema created by migrations.Run.
type SQLStore struct {
	db  *sqlx.DB
	now func() time.Time
}

var _ Store = (*SQLStore)(nil)

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

const medicineColumns = `id, name, category, stock, price, expiry_date, owner_id, created_at`

func (s *SQLStore) ListMedicines(ctx context.Context) ([]domain.Medicine, error) {
	medicines := []domain.Medicine{}
	if err := s.db.SelectContext(ctx, &medicines, `SELECT `+medicineColumns+` FROM medicines ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	return medicines, nil
}

func (s *SQLStore) GetMedicineByID(ctx context.Context, id int64) (*domain.Medicine, error) {
	var m domain.Medicine
	err := s.db.GetContext(ctx, &m, `SELECT `+medicineColumns+` FROM medicines WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: medicine %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get medicine %d: %w", id, err)
	}
	return &m, nil
}

func (s *SQLStore) CreateMedicine(ctx context.Context, m *domain.Medicine) error {
	createdAt := timestamp(s.now())
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO medicines (name, category, stock, price, expiry_date, owner_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.Name, m.Category, m.Stock, m.Price, m.ExpiryDate, m.OwnerID, createdAt)
	if err != nil {
		return fmt.Errorf("create medicine: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create medicine: %w", err)
	}
	m.ID = id
	m.CreatedAt = createdAt
	return nil
}

func (s *SQLStore) UpdateMedicine(ctx context.Context, id int64, patch domain.MedicinePatch) error {
	var (
		sets []string
		args []any
	)
	if patch.Stock != nil {
		sets = append(sets, "stock = ?")
		args = append(args, *patch.Stock)
	}
	if patch.ExpiryDate != nil {
		sets = append(sets, "expiry_date = ?")
		args = append(args, *patch.ExpiryDate)
	}
	if len(sets) == 0 {
		_, err := s.GetMedicineByID(ctx, id)
		return err
	}
	args = append(args, id)
	res, err := s.db.ExecContext(ctx, `UPDATE medicines SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update medicine %d: %w", id, err)
	}
	return requireAffected(res, "medicine", id)
}

func (s *SQLStore) DeleteMedicine(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM medicines WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete medicine %d: %w", id, err)
	}
	return requireAffected(res, "medicine", id)
}

type reportRow struct {
	ID             int64         `db:"id"`
	Kind           string        `db:"kind"`
	OwnerID        sql.NullInt64 `db:"owner_id"`
	GenerationDate string        `db:"generation_date"`
	Payload        string        `db:"payload"`
}

func (s *SQLStore) AppendReport(ctx context.Context, r *domain.Report) error {
	payload, err := encodeReportBody(r)
	if err != nil {
		return err
	}
	owner := sql.NullInt64{}
	if r.OwnerID != nil {
		owner = sql.NullInt64{Int64: *r.OwnerID, Valid: true}
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (kind, owner_id, generation_date, payload) VALUES (?, ?, ?, ?)`,
		string(r.Kind), owner, r.GenerationDate, payload)
	if err != nil {
		return fmt.Errorf("append report: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("append report: %w", err)
	}
	r.ID = id
	return nil
}

func (s *SQLStore) ListReports(ctx context.Context) ([]domain.Report, error) {
	var rows []reportRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, kind, owner_id, generation_date, payload FROM reports ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	reports := make([]domain.Report, 0, len(rows))
	for _, row := range rows {
		r := domain.Report{ID: row.ID, Kind: domain.ReportKind(row.Kind), GenerationDate: row.GenerationDate}
		if row.OwnerID.Valid {
			owner := row.OwnerID.Int64
			r.OwnerID = &owner
		}
		if err := decodeReportBody(&r, row.Payload); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

const userColumns = `id, username, email, password, role, last_login, created_at`

func (s *SQLStore) CreateUser(ctx context.Context, u *domain.User) error {
	createdAt := timestamp(s.now())
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password, role, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.Password, u.Role, createdAt)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique constraint") {
			return fmt.Errorf("%w: username %s", domain.ErrDuplicate, u.Username)
		}
		return fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	u.ID = id
	u.CreatedAt = createdAt
	return nil
}

func (s *SQLStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := s.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, username)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", username, err)
	}
	return &u, nil
}

func (s *SQLStore) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := s.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

func (s *SQLStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if err := s.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *SQLStore) UpdatePassword(ctx context.Context, id int64, hashed string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET password = ? WHERE id = ?`, hashed, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return requireAffected(res, "user", id)
}

func (s *SQLStore) TouchLastLogin(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET last_login = ? WHERE id = ?`, timestamp(s.now()), id)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return requireAffected(res, "user", id)
}

func (s *SQLStore) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (s *SQLStore) IncrementCounter(ctx context.Context, name string, delta int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO counters (name, value) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET value = value + excluded.value`,
		name, delta)
	if err != nil {
		return fmt.Errorf("increment counter %s: %w", name, err)
	}
	return nil
}

func (s *SQLStore) Counter(ctx context.Context, name string) (int64, error) {
	var value int64
	err := s.db.GetContext(ctx, &value, `SELECT value FROM counters WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read counter %s: %w", name, err)
	}
	return value, nil
}

func requireAffected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %d: %w", entity, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %d", domain.ErrNotFound, entity, id)
	}
	return nil
}

func encodeReportBody(r *domain.Report) (string, error) {
	var body any
	switch r.Kind {
	case domain.ReportInventory:
		body = r.Inventory
	case domain.ReportExpiry:
		body = r.Expiry
	case domain.ReportStock:
		body = r.Stock
	default:
		return "", fmt.Errorf("%w: unknown report kind %q", domain.ErrInvalidInput, r.Kind)
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	return string(raw), nil
}

func decodeReportBody(r *domain.Report, payload string) error {
	var target any
	switch r.Kind {
	case domain.ReportInventory:
		r.Inventory = &domain.InventoryReport{}
		target = r.Inventory
	case domain.ReportExpiry:
		r.Expiry = &domain.ExpiryReport{}
		target = r.Expiry
	case domain.ReportStock:
		r.Stock = &domain.StockReport{}
		target = r.Stock
	default:
		return fmt.Errorf("%w: report %d has unknown kind %q", domain.ErrDataIntegrity, r.ID, r.Kind)
	}
	if err := json.Unmarshal([]byte(payload), target); err != nil {
		return fmt.Errorf("%w: report %d payload: %v", domain.ErrDataIntegrity, r.ID, err)
	}
	return nil
}
