package audit

import "time"

// Action tags stored on audit entries. Consumers parse historical payloads
// per action, so the key set of each snapshot type below is frozen.
const (
	ActionClubUpdated       = "ClubUpdated"
	ActionClubChangeRequest = "ClubChangeRequest"
	ActionStatutesUpdated   = "StatutesUpdated"
)

// ClubOriginal is the pre-change capture written by UpdateClub.
type ClubOriginal struct {
	Name                string     `json:"name"`
	RegistrationNumber  *string    `json:"registrationNumber"`
	Address             *string    `json:"address"`
	Email               *string    `json:"email"`
	Phone               *string    `json:"phone"`
	Guidelines          *string    `json:"guidelines"`
	GuidelinesUpdatedAt *time.Time `json:"guidelinesUpdatedAt"`
	ChairmanUserName    *string    `json:"chairmanUserName"`
}

// ClubProposed is the post-change (or proposed) capture written by
// UpdateClub and CreateChangeRequest.
type ClubProposed struct {
	Name               string  `json:"name"`
	RegistrationNumber *string `json:"registrationNumber"`
	Address            *string `json:"address"`
	Email              *string `json:"email"`
	Phone              *string `json:"phone"`
	Guidelines         *string `json:"guidelines"`
	ChairmanUserName   *string `json:"chairmanUserName"`
}

// ChangeRequestOriginal is the pre-change capture written by
// CreateChangeRequest. It carries no address field.
type ChangeRequestOriginal struct {
	Name                string     `json:"name"`
	RegistrationNumber  *string    `json:"registrationNumber"`
	Email               *string    `json:"email"`
	Phone               *string    `json:"phone"`
	Guidelines          *string    `json:"guidelines"`
	GuidelinesUpdatedAt *time.Time `json:"guidelinesUpdatedAt"`
	ChairmanUserName    *string    `json:"chairmanUserName"`
}

// StatutesState is both the pre- and post-change capture written by
// UpdateStatutes.
type StatutesState struct {
	Guidelines          *string    `json:"guidelines"`
	GuidelinesUpdatedAt *time.Time `json:"guidelinesUpdatedAt"`
}
