package api

import (
	"net/http"

	"mesas/m/domain"
)

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		h.respondServiceError(w, r, "listUsers", err)
		return
	}
	for i := range users {
		users[i].Password = ""
	}
	respondJSON(w, http.StatusOK, users)
}

func (h *Handler) systemStats(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	snap, err := h.stats.Snapshot(r.Context())
	if err != nil {
		h.respondServiceError(w, r, "systemStats", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"total_users":             snap.TotalUsers,
		"total_medicines":         snap.TotalMedicines,
		"total_alerts_generated":  snap.TotalAlertsGenerated,
		"total_reports_generated": snap.TotalReportsGenerated,
		"total_inventory_value":   snap.TotalInventoryValue.StringFixed(2),
	})
}
