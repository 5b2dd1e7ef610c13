package domain

// Medicine is one inventory record. ExpiryDate is kept in its ISO form (YYYY-MM-DD).
type Medicine struct {
	ID         int64   `db:"id" json:"id"`
	Name       string  `db:"name" json:"name"`
	Category   string  `db:"category" json:"category"`
	Stock      int64   `db:"stock" json:"stock"`
	Price      float64 `db:"price" json:"price"`
	ExpiryDate string  `db:"expiry_date" json:"expiry_date"`
	OwnerID    int64   `db:"owner_id" json:"owner_id"`
	CreatedAt  string  `db:"created_at" json:"created_at"`
}

// NewMedicine carries the caller supplied fields for a medicine that does not exist yet.
type NewMedicine struct {
	Name       string  `json:"name" validate:"required"`
	Category   string  `json:"category" validate:"required"`
	Stock      int64   `json:"stock" validate:"min=0"`
	Price      float64 `json:"price" validate:"min=0"`
	ExpiryDate string  `json:"expiry_date" validate:"required,datetime=2006-01-02"`
	OwnerID    int64   `json:"owner_id"`
}

// MedicinePatch lists the mutable fields of a medicine. Nil fields are left alone.
type MedicinePatch struct {
	Stock      *int64
	ExpiryDate *string
}
