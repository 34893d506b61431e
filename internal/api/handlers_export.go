package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Stevekk11/Evidence-psich-spolku/internal/models"
)

// handleExportClub streams a club's data as a downloadable JSON or CSV file.
func (a *API) handleExportClub(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		respondError(w, http.StatusBadRequest, errors.New("format must be json or csv"))
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	c, err := a.clubs.Get(ctx, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	var exhibitions []models.Exhibition
	if err := a.store.ORM.WithContext(ctx).Where("club_id = ?", id).Order("held_at").Find(&exhibitions).Error; err != nil {
		respondError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	switch format {
	case "json":
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=club-%d.json", id))
		respondJSON(w, http.StatusOK, map[string]any{
			"club":        toClubResponse(c),
			"exhibitions": exhibitions,
		})
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=club-%d.csv", id))
		w.WriteHeader(http.StatusOK)
		_ = writeClubCSV(w, c, exhibitions)
	}
}

func writeClubCSV(w http.ResponseWriter, c models.Club, exhibitions []models.Exhibition) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"id", "name", "registrationNumber", "address", "email", "phone", "guidelines", "guidelinesUpdatedAt", "chairmanUserName", "createdAt"}); err != nil {
		return err
	}
	record := []string{
		fmt.Sprintf("%d", c.ID),
		c.Name,
		deref(c.RegistrationNumber),
		deref(c.Address),
		deref(c.Email),
		deref(c.Phone),
		deref(c.Guidelines),
		formatTime(c.GuidelinesUpdatedAt),
		chairman(c.Chairman),
		c.CreatedAt.UTC().Format(time.RFC3339),
	}
	if err := cw.Write(record); err != nil {
		return err
	}

	if len(exhibitions) > 0 {
		if err := cw.Write([]string{"exhibitionId", "name", "location", "heldAt"}); err != nil {
			return err
		}
		for _, e := range exhibitions {
			row := []string{
				fmt.Sprintf("%d", e.ID),
				e.Name,
				e.Location,
				e.HeldAt.UTC().Format(time.RFC3339),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func chairman(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.Username
}
