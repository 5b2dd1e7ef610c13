package domain

type AlertKind string

const (
	AlertExpiry AlertKind = "EXPIRY"
	AlertStock  AlertKind = "STOCK"
)

// Alert is recomputed on every request and never stored.
type Alert struct {
	Kind       AlertKind `json:"kind"`
	MedicineID int64     `json:"medicine_id"`
	Message    string    `json:"message"`
}
