package api

import (
	"net/http"
	"strconv"

	"mesas/m/domain"
	"mesas/m/internal/alerts"
)

const defaultHistoryLimit = 10

type alertsResponse struct {
	Alerts      []string       `json:"alerts"`
	Details     []domain.Alert `json:"details"`
	Total       int            `json:"total"`
	ExpiryCount int            `json:"expiry_count"`
	StockCount  int            `json:"stock_count"`
}

// listAlerts recomputes alerts for today. An optional limit truncates the
// message list; expiry alerts always come first.
func (h *Handler) listAlerts(w http.ResponseWriter, r *http.Request) {
	all, err := h.inventory.Alerts(r.Context(), h.clock())
	if err != nil {
		h.respondServiceError(w, r, "listAlerts", err)
		return
	}
	resp := alertsResponse{Details: all, Total: len(all)}
	for _, a := range all {
		if a.Kind == domain.AlertExpiry {
			resp.ExpiryCount++
		} else {
			resp.StockCount++
		}
	}
	shown := all
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 && limit < len(shown) {
		shown = shown[:limit]
		resp.Details = shown
	}
	resp.Alerts = alerts.Messages(shown)
	respondJSON(w, http.StatusOK, resp)
}

// reportView adds the two-decimal display value next to the full precision
// inventory.total_stock_value.
type reportView struct {
	domain.Report
	TotalStockValueDisplay string `json:"total_stock_value_display,omitempty"`
}

func newReportView(r domain.Report) reportView {
	v := reportView{Report: r}
	if r.Inventory != nil {
		v.TotalStockValueDisplay = r.Inventory.TotalStockValue.StringFixed(2)
	}
	return v
}

func (h *Handler) inventoryReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.GenerateInventoryReport(r.Context(), userIDFromContext(r))
	if err != nil {
		h.respondServiceError(w, r, "inventoryReport", err)
		return
	}
	respondJSON(w, http.StatusCreated, newReportView(*report))
}

func (h *Handler) expiryReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.GenerateExpiryReport(r.Context())
	if err != nil {
		h.respondServiceError(w, r, "expiryReport", err)
		return
	}
	respondJSON(w, http.StatusCreated, newReportView(*report))
}

func (h *Handler) stockReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.GenerateStockReport(r.Context())
	if err != nil {
		h.respondServiceError(w, r, "stockReport", err)
		return
	}
	respondJSON(w, http.StatusCreated, newReportView(*report))
}

func (h *Handler) reportHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	history, err := h.reports.History(r.Context(), limit)
	if err != nil {
		h.respondServiceError(w, r, "reportHistory", err)
		return
	}
	views := make([]reportView, len(history))
	for i, report := range history {
		views[i] = newReportView(report)
	}
	respondJSON(w, http.StatusOK, views)
}
