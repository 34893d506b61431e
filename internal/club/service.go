package club

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nats-io/nats.go"
	"gorm.io/gorm"

	"github.com/Stevekk11/Evidence-psich-spolku/internal/audit"
	"github.com/Stevekk11/Evidence-psich-spolku/internal/models"
)

const (
	maxNameLength = 200

	clubUpdatedSubject     = "spolek.clubs.updated"
	changeRequestedSubject = "spolek.clubs.change_requested"
	statutesUpdatedSubject = "spolek.statutes.updated"
)

// ErrNotFound is returned when the addressed club does not exist.
var ErrNotFound = errors.New("club not found")

// ValidationError marks client-correctable input problems.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Input carries the governance fields accepted by create, update, and
// change-request operations. Optional fields stay nil when absent.
type Input struct {
	Name               string
	RegistrationNumber *string
	Address            *string
	Email              *string
	Phone              *string
	Guidelines         *string
	ChairmanUsername   string
}

// Service orchestrates club reads, validation, mutation, and the audit
// append inside one transaction per request.
type Service struct {
	orm      *gorm.DB
	recorder *audit.Recorder
	bus      *nats.Conn
}

// NewService wires the mutation service. bus may be nil; event publication
// is then disabled.
func NewService(orm *gorm.DB, recorder *audit.Recorder, bus *nats.Conn) *Service {
	return &Service{orm: orm, recorder: recorder, bus: bus}
}

// List returns all clubs with their chairman association, ordered by id.
func (s *Service) List(ctx context.Context) ([]models.Club, error) {
	var clubs []models.Club
	if err := s.orm.WithContext(ctx).Preload("Chairman").Order("id").Find(&clubs).Error; err != nil {
		return nil, err
	}
	return clubs, nil
}

// Get loads one club with its chairman association.
func (s *Service) Get(ctx context.Context, id uint) (models.Club, error) {
	var club models.Club
	err := s.orm.WithContext(ctx).Preload("Chairman").First(&club, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Club{}, ErrNotFound
	}
	if err != nil {
		return models.Club{}, err
	}
	return club, nil
}

// Create persists a new club chaired by the acting user. Creation is not
// audit-logged; the audit trail covers post-creation governance changes.
func (s *Service) Create(ctx context.Context, actorID string, in Input) (models.Club, error) {
	if err := validateInput(in); err != nil {
		return models.Club{}, err
	}

	club := models.Club{
		Name:               in.Name,
		RegistrationNumber: in.RegistrationNumber,
		Address:            in.Address,
		Email:              in.Email,
		Phone:              in.Phone,
		Guidelines:         in.Guidelines,
		ChairmanID:         &actorID,
		CreatedAt:          time.Now().UTC(),
	}
	if in.Guidelines != nil {
		now := time.Now().UTC()
		club.GuidelinesUpdatedAt = &now
	}

	err := s.orm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Club{}).Where("name = ?", in.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &ValidationError{Msg: fmt.Sprintf("club named %q already exists", in.Name)}
		}
		return tx.Create(&club).Error
	})
	if isUniqueViolation(err) {
		// Lost a race with a concurrent create past the pre-check.
		return models.Club{}, &ValidationError{Msg: fmt.Sprintf("club named %q already exists", in.Name)}
	}
	if err != nil {
		return models.Club{}, err
	}

	return s.Get(ctx, club.ID)
}

// Update applies new governance fields to a club and appends a ClubUpdated
// audit entry in the same transaction. The original snapshot is materialized
// before any field changes so it always reflects pre-mutation state.
func (s *Service) Update(ctx context.Context, actorID string, clubID uint, in Input) error {
	if err := validateInput(in); err != nil {
		return err
	}

	err := s.orm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var club models.Club
		err := tx.Preload("Chairman").First(&club, "id = ?", clubID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		original := audit.ClubOriginal{
			Name:                club.Name,
			RegistrationNumber:  club.RegistrationNumber,
			Address:             club.Address,
			Email:               club.Email,
			Phone:               club.Phone,
			Guidelines:          club.Guidelines,
			GuidelinesUpdatedAt: club.GuidelinesUpdatedAt,
			ChairmanUserName:    chairmanUsername(club.Chairman),
		}

		if in.Name != club.Name {
			var count int64
			if err := tx.Model(&models.Club{}).Where("name = ? AND id <> ?", in.Name, clubID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return &ValidationError{Msg: fmt.Sprintf("club named %q already exists", in.Name)}
			}
		}

		guidelinesChanged := !stringPtrEqual(club.Guidelines, in.Guidelines)

		club.Name = in.Name
		club.RegistrationNumber = in.RegistrationNumber
		club.Address = in.Address
		club.Email = in.Email
		club.Phone = in.Phone
		club.Guidelines = in.Guidelines
		if guidelinesChanged {
			now := time.Now().UTC()
			club.GuidelinesUpdatedAt = &now
		}

		if in.ChairmanUsername != "" {
			var chairman models.User
			err := tx.Where("username = ?", in.ChairmanUsername).First(&chairman).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ValidationError{Msg: "chairman not found"}
			}
			if err != nil {
				return err
			}
			club.ChairmanID = &chairman.ID
			club.Chairman = &chairman
		}

		proposed := audit.ClubProposed{
			Name:               in.Name,
			RegistrationNumber: in.RegistrationNumber,
			Address:            in.Address,
			Email:              in.Email,
			Phone:              in.Phone,
			Guidelines:         in.Guidelines,
			ChairmanUserName:   optionalString(in.ChairmanUsername),
		}

		if err := tx.Save(&club).Error; err != nil {
			return err
		}

		_, err = s.recorder.Record(ctx, tx, actorID, clubID, audit.ActionClubUpdated, original, proposed)
		return err
	})
	if isUniqueViolation(err) {
		return &ValidationError{Msg: fmt.Sprintf("club named %q already exists", in.Name)}
	}
	if err != nil {
		return err
	}

	s.publishJSON(clubUpdatedSubject, map[string]any{"club_id": clubID, "actor_id": actorID})
	return nil
}

// CreateChangeRequest records a proposed governance change without touching
// the club row. It is a pure audit append.
func (s *Service) CreateChangeRequest(ctx context.Context, actorID string, clubID uint, in Input) (models.AuditLogEntry, error) {
	var entry models.AuditLogEntry

	err := s.orm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var club models.Club
		err := tx.Preload("Chairman").First(&club, "id = ?", clubID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		original := audit.ChangeRequestOriginal{
			Name:                club.Name,
			RegistrationNumber:  club.RegistrationNumber,
			Email:               club.Email,
			Phone:               club.Phone,
			Guidelines:          club.Guidelines,
			GuidelinesUpdatedAt: club.GuidelinesUpdatedAt,
			ChairmanUserName:    chairmanUsername(club.Chairman),
		}
		proposed := audit.ClubProposed{
			Name:               in.Name,
			RegistrationNumber: in.RegistrationNumber,
			Address:            in.Address,
			Email:              in.Email,
			Phone:              in.Phone,
			Guidelines:         in.Guidelines,
			ChairmanUserName:   optionalString(in.ChairmanUsername),
		}

		entry, err = s.recorder.Record(ctx, tx, actorID, clubID, audit.ActionClubChangeRequest, original, proposed)
		return err
	})
	if err != nil {
		return models.AuditLogEntry{}, err
	}

	s.publishJSON(changeRequestedSubject, map[string]any{"club_id": clubID, "actor_id": actorID, "audit_id": entry.ID})
	return entry, nil
}

// UpdateStatutes replaces a club's guidelines and stamps the change time.
// When updatedAt is nil the server clock is used.
func (s *Service) UpdateStatutes(ctx context.Context, actorID string, clubID uint, guidelines *string, updatedAt *time.Time) error {
	err := s.orm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var club models.Club
		err := tx.First(&club, "id = ?", clubID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		original := audit.StatutesState{
			Guidelines:          club.Guidelines,
			GuidelinesUpdatedAt: club.GuidelinesUpdatedAt,
		}

		stamp := time.Now().UTC()
		if updatedAt != nil {
			stamp = updatedAt.UTC()
		}
		club.Guidelines = guidelines
		club.GuidelinesUpdatedAt = &stamp

		proposed := audit.StatutesState{
			Guidelines:          club.Guidelines,
			GuidelinesUpdatedAt: club.GuidelinesUpdatedAt,
		}

		if err := tx.Save(&club).Error; err != nil {
			return err
		}

		_, err = s.recorder.Record(ctx, tx, actorID, clubID, audit.ActionStatutesUpdated, original, proposed)
		return err
	})
	if err != nil {
		return err
	}

	s.publishJSON(statutesUpdatedSubject, map[string]any{"club_id": clubID, "actor_id": actorID})
	return nil
}

func (s *Service) publishJSON(subject string, payload map[string]any) {
	if s.bus == nil || subject == "" {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = s.bus.Publish(subject, data)
}

func validateInput(in Input) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return &ValidationError{Msg: "name is required"}
	}
	if len(in.Name) > maxNameLength {
		return &ValidationError{Msg: fmt.Sprintf("name must be at most %d characters", maxNameLength)}
	}
	if in.Email != nil && *in.Email != "" {
		if _, err := mail.ParseAddress(*in.Email); err != nil {
			return &ValidationError{Msg: "email is not a valid address"}
		}
	}
	return nil
}

func chairmanUsername(u *models.User) *string {
	if u == nil {
		return nil
	}
	return &u.Username
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
