package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Stevekk11/Evidence-psich-spolku/internal/api"
	"github.com/Stevekk11/Evidence-psich-spolku/internal/models"
	"github.com/Stevekk11/Evidence-psich-spolku/internal/testhelper"
)

const signingKey = "integration-signing-key"

func startServer(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()

	orm, pool := testhelper.SetupTestDB(t)

	app, err := api.New(&api.Store{ORM: orm, DB: pool}, api.Config{JWTSigningKey: signingKey})
	require.NoError(t, err)

	routes, err := app.Routes()
	require.NoError(t, err)

	srv := httptest.NewServer(routes)
	t.Cleanup(srv.Close)
	return srv, orm
}

func registerUser(t *testing.T, orm *gorm.DB, role string) (models.User, string) {
	t.Helper()

	id := uuid.NewString()
	user := models.User{
		ID:       id,
		Username: "api-" + id[:8],
		Role:     role,
		Active:   true,
		Email:    fmt.Sprintf("%s@example.com", id[:8]),
	}
	require.NoError(t, orm.Create(&user).Error)

	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
	require.NoError(t, err)
	return user, token
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func TestClubLifecycleOverHTTP(t *testing.T) {
	srv, orm := startServer(t)
	_, adminToken := registerUser(t, orm, models.RoleAdmin)
	_, readToken := registerUser(t, orm, models.RoleReadOnly)

	name := "HTTP Club " + uuid.NewString()[:8]

	// Create requires a mutating role.
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/clubs", "", map[string]any{"name": name})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/clubs", readToken, map[string]any{"name": name})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/clubs", adminToken, map[string]any{
		"name":  name,
		"email": "club@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Club struct {
			ID    uint    `json:"id"`
			Name  string  `json:"name"`
			Email *string `json:"email"`
		} `json:"club"`
	}
	decodeBody(t, resp, &created)
	require.NotZero(t, created.Club.ID)
	assert.Equal(t, name, created.Club.Name)

	clubURL := fmt.Sprintf("%s/api/clubs/%d", srv.URL, created.Club.ID)

	// Anonymous read is public.
	resp = doJSON(t, http.MethodGet, clubURL, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Update and verify 200 with empty body semantics.
	resp = doJSON(t, http.MethodPut, clubURL, adminToken, map[string]any{
		"name":  name,
		"phone": "+420777000111",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Statutes update returns 204 and becomes readable.
	resp = doJSON(t, http.MethodPost, clubURL+"/statutes", adminToken, map[string]any{
		"guidelines": "No biting",
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, clubURL+"/statutes", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var statutes struct {
		Guidelines *string    `json:"guidelines"`
		UpdatedAt  *time.Time `json:"updatedAt"`
	}
	decodeBody(t, resp, &statutes)
	require.NotNil(t, statutes.Guidelines)
	assert.Equal(t, "No biting", *statutes.Guidelines)
	assert.NotNil(t, statutes.UpdatedAt)

	// Change request records a proposal without touching the club.
	resp = doJSON(t, http.MethodPost, clubURL+"/change-request", adminToken, map[string]any{
		"name": name + " proposed",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Audit listing is scoped to governance actions and to the club.
	resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/audit/statutes?clubId=%d", srv.URL, created.Club.ID), readToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var audits struct {
		Entries []struct {
			Action string `json:"action"`
		} `json:"entries"`
	}
	decodeBody(t, resp, &audits)
	require.Len(t, audits.Entries, 2)
	for _, e := range audits.Entries {
		assert.Contains(t, []string{"ClubChangeRequest", "StatutesUpdated"}, e.Action)
	}

	// Audit listing requires a non-public role.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/audit/statutes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Export in both formats.
	resp = doJSON(t, http.MethodGet, clubURL+"/export?format=csv", readToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))

	resp = doJSON(t, http.MethodGet, clubURL+"/export?format=json", readToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Missing clubs stay 404.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/clubs/999999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/clubs/999999", adminToken, map[string]any{"name": "Ghost"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDogAndExhibitionCRUDOverHTTP(t *testing.T) {
	srv, orm := startServer(t)
	admin, adminToken := registerUser(t, orm, models.RoleAdmin)

	clubName := "Show Club " + uuid.NewString()[:8]
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/clubs", adminToken, map[string]any{"name": clubName})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		Club struct {
			ID uint `json:"id"`
		} `json:"club"`
	}
	decodeBody(t, resp, &created)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/dogs", adminToken, map[string]any{
		"name":    "Rex",
		"breed":   "German Shepherd",
		"ownerId": admin.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var dog struct {
		Dog struct {
			ID uint `json:"ID"`
		} `json:"dog"`
	}
	decodeBody(t, resp, &dog)
	require.NotZero(t, dog.Dog.ID)

	// Dangling owner reference is rejected.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/dogs", adminToken, map[string]any{
		"name":    "Stray",
		"ownerId": "missing-user",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/exhibitions", adminToken, map[string]any{
		"name":   "Spring Show",
		"heldAt": time.Now().UTC().Format(time.RFC3339),
		"clubId": created.Club.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var exhibition struct {
		Exhibition struct {
			ID uint `json:"ID"`
		} `json:"exhibition"`
	}
	decodeBody(t, resp, &exhibition)

	// Results must reference existing dogs.
	resultsURL := fmt.Sprintf("%s/api/exhibitions/%d/results", srv.URL, exhibition.Exhibition.ID)
	resp = doJSON(t, http.MethodPost, resultsURL, adminToken, map[string]any{
		"dogId":     999999,
		"placement": 1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, resultsURL, adminToken, map[string]any{
		"dogId":     dog.Dog.ID,
		"placement": 1,
		"notes":     "Best in show",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, resultsURL, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var results struct {
		Results []struct {
			DogID     uint `json:"DogID"`
			Placement int  `json:"Placement"`
		} `json:"results"`
	}
	decodeBody(t, resp, &results)
	require.Len(t, results.Results, 1)
	assert.Equal(t, dog.Dog.ID, results.Results[0].DogID)
}
