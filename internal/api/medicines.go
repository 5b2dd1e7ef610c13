package api

import (
	"fmt"
	"net/http"
	"strings"

	"mesas/m/domain"
)

type medicineRequest struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Stock      *int64   `json:"stock"`
	Price      *float64 `json:"price"`
	ExpiryDate string   `json:"expiry_date"`
}

// missingField names the first numeric field absent from the body.
func (req medicineRequest) missingField() string {
	switch {
	case req.Stock == nil:
		return "stock"
	case req.Price == nil:
		return "price"
	}
	return ""
}

func (h *Handler) addMedicine(w http.ResponseWriter, r *http.Request) {
	var req medicineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input: stock must be an integer and price must be a number")
		return
	}
	if field := req.missingField(); field != "" {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid input: %s is required", field))
		return
	}
	med, err := h.inventory.AddMedicine(r.Context(), domain.NewMedicine{
		Name:       req.Name,
		Category:   req.Category,
		Stock:      *req.Stock,
		Price:      *req.Price,
		ExpiryDate: req.ExpiryDate,
		OwnerID:    userIDFromContext(r),
	})
	if err != nil {
		h.respondServiceError(w, r, "addMedicine", err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"status":   fmt.Sprintf(domain.MessageSuccessAddMedicine, med.Name, med.ID),
		"medicine": med,
	})
}

func (h *Handler) getMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid medicine id")
		return
	}
	med, err := h.inventory.GetMedicine(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, "getMedicine", err)
		return
	}
	respondJSON(w, http.StatusOK, med)
}

func (h *Handler) listMedicines(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.inventory.SortedMedicines(r.Context())
	if err != nil {
		h.respondServiceError(w, r, "listMedicines", err)
		return
	}
	respondJSON(w, http.StatusOK, medicines)
}

func (h *Handler) searchMedicines(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	medicines, err := h.inventory.Search(r.Context(), query)
	if err != nil {
		h.respondServiceError(w, r, "searchMedicines", err)
		return
	}
	respondJSON(w, http.StatusOK, medicines)
}

func (h *Handler) updateStock(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid medicine id")
		return
	}
	var payload struct {
		Stock *int64 `json:"stock"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input: stock must be an integer")
		return
	}
	if payload.Stock == nil {
		respondError(w, http.StatusBadRequest, "invalid input: stock is required")
		return
	}
	if err := h.inventory.UpdateStock(r.Context(), id, *payload.Stock); err != nil {
		h.respondServiceError(w, r, "updateStock", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": domain.MessageSuccessUpdateStock})
}

func (h *Handler) updateExpiry(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid medicine id")
		return
	}
	var payload struct {
		ExpiryDate string `json:"expiry_date"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.inventory.UpdateExpiry(r.Context(), id, payload.ExpiryDate); err != nil {
		h.respondServiceError(w, r, "updateExpiry", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": domain.MessageSuccessUpdateExpiry})
}

// deleteMedicine is irreversible; clients confirm with the user beforehand.
func (h *Handler) deleteMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid medicine id")
		return
	}
	if err := h.inventory.DeleteMedicine(r.Context(), id); err != nil {
		h.respondServiceError(w, r, "deleteMedicine", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": domain.MessageSuccessDeleteMedicine})
}
