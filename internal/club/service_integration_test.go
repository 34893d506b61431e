package club_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Stevekk11/Evidence-psich-spolku/internal/audit"
	"github.com/Stevekk11/Evidence-psich-spolku/internal/club"
	"github.com/Stevekk11/Evidence-psich-spolku/internal/models"
	"github.com/Stevekk11/Evidence-psich-spolku/internal/testhelper"
)

func newUser(t *testing.T, orm *gorm.DB, role string) models.User {
	t.Helper()

	id := uuid.NewString()
	user := models.User{
		ID:       id,
		Username: "user-" + id[:8],
		Name:     "Test",
		Surname:  "User",
		Role:     role,
		Active:   true,
		Email:    fmt.Sprintf("%s@example.com", id[:8]),
	}
	require.NoError(t, orm.Create(&user).Error)
	return user
}

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s %s", prefix, uuid.NewString()[:8])
}

func strPtr(s string) *string { return &s }

func TestUpdateClubAppendsAuditEntry(t *testing.T) {
	orm, pool := testhelper.SetupTestDB(t)
	ctx := context.Background()

	svc := club.NewService(orm, audit.NewRecorder(), nil)
	audits := audit.NewQuery(pool)
	actor := newUser(t, orm, models.RoleAdmin)
	chairman := newUser(t, orm, models.RoleChairman)

	created, err := svc.Create(ctx, actor.ID, club.Input{
		Name:       uniqueName("Rex Club"),
		Address:    strPtr("Old Street 1"),
		Email:      strPtr("old@example.com"),
		Guidelines: strPtr("old rules"),
	})
	require.NoError(t, err)

	newName := uniqueName("Rex Club Renamed")
	require.NoError(t, svc.Update(ctx, actor.ID, created.ID, club.Input{
		Name:             newName,
		Address:          strPtr("New Street 2"),
		Email:            strPtr("new@example.com"),
		Guidelines:       strPtr("new rules"),
		ChairmanUsername: chairman.Username,
	}))

	entries, err := audits.List(ctx, audit.Filter{ClubID: &created.ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, audit.ActionClubUpdated, entry.Action)
	assert.Equal(t, actor.ID, entry.UserID)
	assert.Equal(t, int64(created.ID), entry.ClubID)

	var original audit.ClubOriginal
	require.NoError(t, json.Unmarshal(entry.OriginalData, &original))
	assert.Equal(t, created.Name, original.Name)
	require.NotNil(t, original.Address)
	assert.Equal(t, "Old Street 1", *original.Address)
	require.NotNil(t, original.ChairmanUserName)
	assert.Equal(t, actor.Username, *original.ChairmanUserName)

	var proposed audit.ClubProposed
	require.NoError(t, json.Unmarshal(entry.NewData, &proposed))
	assert.Equal(t, newName, proposed.Name)
	require.NotNil(t, proposed.Address)
	assert.Equal(t, "New Street 2", *proposed.Address)
	require.NotNil(t, proposed.ChairmanUserName)
	assert.Equal(t, chairman.Username, *proposed.ChairmanUserName)

	updated, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
	require.NotNil(t, updated.Chairman)
	assert.Equal(t, chairman.Username, updated.Chairman.Username)
}

func TestChangeRequestDoesNotMutateClub(t *testing.T) {
	orm, pool := testhelper.SetupTestDB(t)
	ctx := context.Background()

	svc := club.NewService(orm, audit.NewRecorder(), nil)
	audits := audit.NewQuery(pool)
	actor := newUser(t, orm, models.RoleChairman)

	created, err := svc.Create(ctx, actor.ID, club.Input{
		Name:  uniqueName("Stable Club"),
		Email: strPtr("stable@example.com"),
	})
	require.NoError(t, err)

	before, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)

	entry, err := svc.CreateChangeRequest(ctx, actor.ID, created.ID, club.Input{
		Name:  uniqueName("Proposed Name"),
		Phone: strPtr("+420123456789"),
	})
	require.NoError(t, err)
	assert.Equal(t, audit.ActionClubChangeRequest, entry.Action)
	assert.NotZero(t, entry.ID)

	after, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Name, after.Name)
	assert.Equal(t, before.Email, after.Email)
	assert.Equal(t, before.Phone, after.Phone)
	assert.Equal(t, before.GuidelinesUpdatedAt, after.GuidelinesUpdatedAt)

	entries, err := audits.List(ctx, audit.Filter{ClubID: &created.ID, Actions: []string{audit.ActionClubChangeRequest}})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	var original audit.ChangeRequestOriginal
	require.NoError(t, json.Unmarshal(entries[0].OriginalData, &original))
	assert.Equal(t, created.Name, original.Name)
}

func TestCreateClubRejectsDuplicateName(t *testing.T) {
	orm, pool := testhelper.SetupTestDB(t)
	ctx := context.Background()

	svc := club.NewService(orm, audit.NewRecorder(), nil)
	audits := audit.NewQuery(pool)
	actor := newUser(t, orm, models.RoleAdmin)

	name := uniqueName("Unique Club")
	first, err := svc.Create(ctx, actor.ID, club.Input{Name: name})
	require.NoError(t, err)

	_, err = svc.Create(ctx, actor.ID, club.Input{Name: name})
	var vErr *club.ValidationError
	require.ErrorAs(t, err, &vErr)

	var count int64
	require.NoError(t, orm.Model(&models.Club{}).Where("name = ?", name).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	entries, err := audits.List(ctx, audit.Filter{ClubID: &first.ID})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpdateClubUnknownChairman(t *testing.T) {
	orm, pool := testhelper.SetupTestDB(t)
	ctx := context.Background()

	svc := club.NewService(orm, audit.NewRecorder(), nil)
	audits := audit.NewQuery(pool)
	actor := newUser(t, orm, models.RoleAdmin)

	created, err := svc.Create(ctx, actor.ID, club.Input{Name: uniqueName("Chairman Club")})
	require.NoError(t, err)

	err = svc.Update(ctx, actor.ID, created.ID, club.Input{
		Name:             created.Name,
		ChairmanUsername: "no-such-user",
	})
	var vErr *club.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Error(), "chairman not found")

	after, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, after.Chairman)
	assert.Equal(t, actor.Username, after.Chairman.Username)

	entries, err := audits.List(ctx, audit.Filter{ClubID: &created.ID})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpdateStatutesScenario(t *testing.T) {
	orm, pool := testhelper.SetupTestDB(t)
	ctx := context.Background()

	svc := club.NewService(orm, audit.NewRecorder(), nil)
	audits := audit.NewQuery(pool)
	actor := newUser(t, orm, models.RoleChairman)

	created, err := svc.Create(ctx, actor.ID, club.Input{Name: uniqueName("Rex Club")})
	require.NoError(t, err)
	require.Nil(t, created.Guidelines)

	before := time.Now().UTC()
	require.NoError(t, svc.UpdateStatutes(ctx, actor.ID, created.ID, strPtr("No biting"), nil))

	after, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, after.Guidelines)
	assert.Equal(t, "No biting", *after.Guidelines)
	require.NotNil(t, after.GuidelinesUpdatedAt)
	assert.False(t, after.GuidelinesUpdatedAt.Before(before.Add(-time.Second)))

	entries, err := audits.List(ctx, audit.Filter{ClubID: &created.ID, Actions: []string{audit.ActionStatutesUpdated}})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	var original audit.StatutesState
	require.NoError(t, json.Unmarshal(entries[0].OriginalData, &original))
	assert.Nil(t, original.Guidelines)

	var proposed audit.StatutesState
	require.NoError(t, json.Unmarshal(entries[0].NewData, &proposed))
	require.NotNil(t, proposed.Guidelines)
	assert.Equal(t, "No biting", *proposed.Guidelines)
	assert.NotNil(t, proposed.GuidelinesUpdatedAt)
}

func TestUpdateStatutesHonorsClientTimestamp(t *testing.T) {
	orm, _ := testhelper.SetupTestDB(t)
	ctx := context.Background()

	svc := club.NewService(orm, audit.NewRecorder(), nil)
	actor := newUser(t, orm, models.RoleChairman)

	created, err := svc.Create(ctx, actor.ID, club.Input{Name: uniqueName("Dated Club")})
	require.NoError(t, err)

	stamp := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, svc.UpdateStatutes(ctx, actor.ID, created.ID, strPtr("Be kind"), &stamp))

	after, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, after.GuidelinesUpdatedAt)
	assert.True(t, stamp.Equal(*after.GuidelinesUpdatedAt))
}

func TestMutationsOnMissingClubLeaveNoTrace(t *testing.T) {
	orm, pool := testhelper.SetupTestDB(t)
	ctx := context.Background()

	svc := club.NewService(orm, audit.NewRecorder(), nil)
	audits := audit.NewQuery(pool)
	actor := newUser(t, orm, models.RoleAdmin)

	const missing uint = 999999
	err := svc.Update(ctx, actor.ID, missing, club.Input{Name: "Ghost Club"})
	assert.ErrorIs(t, err, club.ErrNotFound)

	_, err = svc.CreateChangeRequest(ctx, actor.ID, missing, club.Input{Name: "Ghost Club"})
	assert.ErrorIs(t, err, club.ErrNotFound)

	err = svc.UpdateStatutes(ctx, actor.ID, missing, strPtr("nothing"), nil)
	assert.ErrorIs(t, err, club.ErrNotFound)

	missingID := missing
	entries, err := audits.List(ctx, audit.Filter{ClubID: &missingID})
	require.NoError(t, err)
	assert.Empty(t, entries)
}
