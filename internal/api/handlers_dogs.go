package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Stevekk11/Evidence-psich-spolku/internal/models"
)

type dogRequest struct {
	Name      string     `json:"name"`
	Breed     string     `json:"breed"`
	BirthDate *time.Time `json:"birthDate"`
	OwnerID   *string    `json:"ownerId"`
}

func (a *API) handleListDogs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	var dogs []models.Dog
	if err := a.store.ORM.WithContext(ctx).Order("id").Find(&dogs).Error; err != nil {
		respondError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"dogs": dogs})
}

func (a *API) handleGetDog(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	var dog models.Dog
	err = a.store.ORM.WithContext(ctx).First(&dog, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusNotFound, errors.New("dog not found"))
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"dog": dog})
}

func (a *API) handleCreateDog(w http.ResponseWriter, r *http.Request) {
	var req dogRequest
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

	if req.OwnerID != nil && *req.OwnerID != "" {
		var owner models.User
		if err := orm.First(&owner, "id = ?", *req.OwnerID).Error; err != nil {
			respondError(w, http.StatusBadRequest, errors.New("owner not found"))
			return
		}
	}

	dog := models.Dog{
		Name:      req.Name,
		Breed:     req.Breed,
		BirthDate: req.BirthDate,
		OwnerID:   req.OwnerID,
	}
	if err := orm.Create(&dog).Error; err != nil {
		respondError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"dog": dog})
}

func (a *API) handleUpdateDog(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var req dogRequest
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

	var dog models.Dog
	err = orm.First(&dog, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusNotFound, errors.New("dog not found"))
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	if req.OwnerID != nil && *req.OwnerID != "" {
		var owner models.User
		if err := orm.First(&owner, "id = ?", *req.OwnerID).Error; err != nil {
			respondError(w, http.StatusBadRequest, errors.New("owner not found"))
			return
		}
	}

	dog.Name = req.Name
	dog.Breed = req.Breed
	dog.BirthDate = req.BirthDate
	dog.OwnerID = req.OwnerID

	if err := orm.Save(&dog).Error; err != nil {
		respondError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"dog": dog})
}

func (a *API) handleDeleteDog(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	res := a.store.ORM.WithContext(ctx).Delete(&models.Dog{}, "id = ?", id)
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, errors.New("dog not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
