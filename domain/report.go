package domain

import "github.com/shopspring/decimal"

type ReportKind string

const (
	ReportInventory ReportKind = "INVENTORY"
	ReportExpiry    ReportKind = "EXPIRY"
	ReportStock     ReportKind = "STOCK"
)

// Report is an immutable snapshot of the inventory. Exactly one of the
// Inventory, Expiry and Stock bodies is set, matching Kind.
type Report struct {
	ID             int64      `json:"id"`
	Kind           ReportKind `json:"kind"`
	OwnerID        *int64     `json:"owner_id,omitempty"`
	GenerationDate string     `json:"generation_date"`

	Inventory *InventoryReport `json:"inventory,omitempty"`
	Expiry    *ExpiryReport    `json:"expiry,omitempty"`
	Stock     *StockReport     `json:"stock,omitempty"`
}

type InventoryReport struct {
	TotalMedicines  int             `json:"total_medicines"`
	ExpiredCount    int             `json:"expired_count"`
	NearExpiryCount int             `json:"near_expiry_count"`
	LowStockCount   int             `json:"low_stock_count"`
	TotalStockValue decimal.Decimal `json:"total_stock_value"`
}

type ExpiredMedicine struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ExpiryDate string `json:"expiry_date"`
}

type ExpiringMedicine struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	DaysUntilExpiry int    `json:"days_until_expiry"`
}

type ExpiryReport struct {
	ExpiredMedicines  []ExpiredMedicine  `json:"expired_medicines"`
	ExpiringSoon      []ExpiringMedicine `json:"expiring_soon"`
	TotalExpired      int                `json:"total_expired"`
	TotalExpiringSoon int                `json:"total_expiring_soon"`
}

type StockEntry struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Stock    int64  `json:"stock"`
}

type StockReport struct {
	OutOfStock        []StockEntry `json:"out_of_stock"`
	LowStock          []StockEntry `json:"low_stock"`
	TotalOutOfStock   int          `json:"total_out_of_stock"`
	TotalLowStock     int          `json:"total_low_stock"`
	TotalHealthyStock int          `json:"total_healthy_stock"`
}

// SystemStats is the admin overview of the whole store.
type SystemStats struct {
	TotalUsers            int             `json:"total_users"`
	TotalMedicines        int             `json:"total_medicines"`
	TotalAlertsGenerated  int64           `json:"total_alerts_generated"`
	TotalReportsGenerated int             `json:"total_reports_generated"`
	TotalInventoryValue   decimal.Decimal `json:"total_inventory_value"`
}
