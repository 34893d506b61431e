package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Stevekk11/Evidence-psich-spolku/internal/models"
)

type exhibitionRequest struct {
	Name     string    `json:"name"`
	Location string    `json:"location"`
	HeldAt   time.Time `json:"heldAt"`
	ClubID   uint      `json:"clubId"`
}

type resultRequest struct {
	DogID     uint   `json:"dogId"`
	Placement int    `json:"placement"`
	Notes     string `json:"notes"`
}

func (a *API) handleListExhibitions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	var exhibitions []models.Exhibition
	if err := a.store.ORM.WithContext(ctx).Order("held_at DESC").Find(&exhibitions).Error; err != nil {
		respondError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"exhibitions": exhibitions})
}

func (a *API) handleGetExhibition(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	var exhibition models.Exhibition
	err = a.store.ORM.WithContext(ctx).First(&exhibition, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusNotFound, errors.New("exhibition not found"))
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"exhibition": exhibition})
}

func (a *API) handleCreateExhibition(w http.ResponseWriter, r *http.Request) {
	actor, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, errors.New("authentication required"))
		return
	}

	var req exhibitionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, errors.New("name is required"))
		return
	}
	if req.ClubID == 0 {
		respondError(w, http.StatusBadRequest, errors.New("clubId is required"))
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	orm := a.store.ORM.WithContext(ctx)

	var club models.Club
	if err := orm.First(&club, "id = ?", req.ClubID).Error; err != nil {
		respondError(w, http.StatusBadRequest, errors.New("club not found"))
		return
	}

	exhibition := models.Exhibition{
		Name:        req.Name,
		Location:    req.Location,
		HeldAt:      req.HeldAt,
		ClubID:      req.ClubID,
		CreatedByID: &actor.ID,
	}
	if err := orm.Create(&exhibition).Error; err != nil {
		respondError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"exhibition": exhibition})
}

func (a *API) handleUpdateExhibition(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var req exhibitionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, errors.New("name is required"))
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	orm := a.store.ORM.WithContext(ctx)

	var exhibition models.Exhibition
	err = orm.First(&exhibition, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusNotFound, errors.New("exhibition not found"))
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	if req.ClubID != 0 && req.ClubID != exhibition.ClubID {
		var club models.Club
		if err := orm.First(&club, "id = ?", req.ClubID).Error; err != nil {
			respondError(w, http.StatusBadRequest, errors.New("club not found"))
			return
		}
		exhibition.ClubID = req.ClubID
	}

	exhibition.Name = req.Name
	exhibition.Location = req.Location
	if !req.HeldAt.IsZero() {
		exhibition.HeldAt = req.HeldAt
	}

	if err := orm.Save(&exhibition).Error; err != nil {
		respondError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"exhibition": exhibition})
}

func (a *API) handleDeleteExhibition(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	res := a.store.ORM.WithContext(ctx).Delete(&models.Exhibition{}, "id = ?", id)
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, errors.New("exhibition not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleListResults(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	orm := a.store.ORM.WithContext(ctx)

	var exhibition models.Exhibition
	err = orm.First(&exhibition, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusNotFound, errors.New("exhibition not found"))
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	var results []models.ExhibitionResult
	if err := orm.Where("exhibition_id = ?", id).Order("placement").Find(&results).Error; err != nil {
		respondError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (a *API) handleCreateResult(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var req resultRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.DogID == 0 {
		respondError(w, http.StatusBadRequest, errors.New("dogId is required"))
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	orm := a.store.ORM.WithContext(ctx)

	var exhibition models.Exhibition
	err = orm.First(&exhibition, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusNotFound, errors.New("exhibition not found"))
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	var dog models.Dog
	if err := orm.First(&dog, "id = ?", req.DogID).Error; err != nil {
		respondError(w, http.StatusBadRequest, errors.New("dog not found"))
		return
	}

	result := models.ExhibitionResult{
		ExhibitionID: id,
		DogID:        req.DogID,
		Placement:    req.Placement,
		Notes:        req.Notes,
	}
	if err := orm.Create(&result).Error; err != nil {
		respondError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"result": result})
}
