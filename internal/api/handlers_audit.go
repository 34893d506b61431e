package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Stevekk11/Evidence-psich-spolku/internal/audit"
)

// handleListAudit lists governance-relevant audit entries newest-first,
// optionally scoped to one club via ?clubId=.
func (a *API) handleListAudit(w http.ResponseWriter, r *http.Request) {
	filter := audit.Filter{
		Actions: []string{audit.ActionClubChangeRequest, audit.ActionStatutesUpdated},
	}

	if raw := r.URL.Query().Get("clubId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			respondError(w, http.StatusBadRequest, errors.New("clubId must be a positive integer"))
			return
		}
		clubID := uint(id)
		filter.ClubID = &clubID
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	entries, err := a.audits.List(ctx, filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"entries": entries})
}
