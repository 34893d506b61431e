package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/Stevekk11/Evidence-psich-spolku/internal/club"
	"github.com/Stevekk11/Evidence-psich-spolku/internal/models"
)

type clubRequest struct {
	Name               string  `json:"name"`
	RegistrationNumber *string `json:"registrationNumber"`
	Address            *string `json:"address"`
	Email              *string `json:"email"`
	Phone              *string `json:"phone"`
	Guidelines         *string `json:"guidelines"`
	ChairmanUserName   string  `json:"chairmanUserName"`
}

func (req clubRequest) toInput() club.Input {
	return club.Input{
		Name:               req.Name,
		RegistrationNumber: req.RegistrationNumber,
		Address:            req.Address,
		Email:              req.Email,
		Phone:              req.Phone,
		Guidelines:         req.Guidelines,
		ChairmanUsername:   req.ChairmanUserName,
	}
}

type clubResponse struct {
	ID                  uint       `json:"id"`
	Name                string     `json:"name"`
	RegistrationNumber  *string    `json:"registrationNumber"`
	Address             *string    `json:"address"`
	Email               *string    `json:"email"`
	Phone               *string    `json:"phone"`
	Guidelines          *string    `json:"guidelines"`
	GuidelinesUpdatedAt *time.Time `json:"guidelinesUpdatedAt"`
	ChairmanUserName    *string    `json:"chairmanUserName"`
	CreatedAt           time.Time  `json:"createdAt"`
}

func toClubResponse(c models.Club) clubResponse {
	resp := clubResponse{
		ID:                  c.ID,
		Name:                c.Name,
		RegistrationNumber:  c.RegistrationNumber,
		Address:             c.Address,
		Email:               c.Email,
		Phone:               c.Phone,
		Guidelines:          c.Guidelines,
		GuidelinesUpdatedAt: c.GuidelinesUpdatedAt,
		CreatedAt:           c.CreatedAt,
	}
	if c.Chairman != nil {
		resp.ChairmanUserName = &c.Chairman.Username
	}
	return resp
}

func (a *API) handleListClubs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	clubs, err := a.clubs.List(ctx)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	out := make([]clubResponse, 0, len(clubs))
	for _, c := range clubs {
		out = append(out, toClubResponse(c))
	}
	respondJSON(w, http.StatusOK, map[string]any{"clubs": out})
}

func (a *API) handleGetClub(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	c, err := a.clubs.Get(ctx, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"club": toClubResponse(c)})
}

func (a *API) handleCreateClub(w http.ResponseWriter, r *http.Request) {
	actor, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, errors.New("authentication required"))
		return
	}

	var req clubRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	c, err := a.clubs.Create(ctx, actor.ID, req.toInput())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"club": toClubResponse(c)})
}

func (a *API) handleUpdateClub(w http.ResponseWriter, r *http.Request) {
	actor, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, errors.New("authentication required"))
		return
	}

	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var req clubRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	if err := a.clubs.Update(ctx, actor.ID, id, req.toInput()); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

func (a *API) handleChangeRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, errors.New("authentication required"))
		return
	}

	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var req clubRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	entry, err := a.clubs.CreateChangeRequest(ctx, actor.ID, id, req.toInput())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"audit": map[string]any{
		"id":           entry.ID,
		"action":       entry.Action,
		"clubId":       entry.ClubID,
		"changedAt":    entry.ChangedAt,
		"originalData": entry.OriginalData,
		"newData":      entry.NewData,
	}})
}

type statutesRequest struct {
	Guidelines *string    `json:"guidelines"`
	UpdatedAt  *time.Time `json:"updatedAt"`
}

func (a *API) handleUpdateStatutes(w http.ResponseWriter, r *http.Request) {
	actor, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, errors.New("authentication required"))
		return
	}

	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var req statutesRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	if err := a.clubs.UpdateStatutes(ctx, actor.ID, id, req.Guidelines, req.UpdatedAt); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleGetStatutes(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	c, err := a.clubs.Get(ctx, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"guidelines": c.Guidelines,
		"updatedAt":  c.GuidelinesUpdatedAt,
	})
}
