package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Stevekk11/Evidence-psich-spolku/internal/models"
)

// Fixtures is the shape of an optional YAML seed file.
type Fixtures struct {
	Users []struct {
		ID       string `yaml:"id"`
		Username string `yaml:"username"`
		Name     string `yaml:"name"`
		Surname  string `yaml:"surname"`
		Role     string `yaml:"role"`
		Email    string `yaml:"email"`
	} `yaml:"users"`
	Clubs []struct {
		Name               string `yaml:"name"`
		RegistrationNumber string `yaml:"registrationNumber"`
		Address            string `yaml:"address"`
		Email              string `yaml:"email"`
		Phone              string `yaml:"phone"`
		Guidelines         string `yaml:"guidelines"`
		ChairmanUsername   string `yaml:"chairmanUsername"`
	} `yaml:"clubs"`
}

// Seed loads baseline data. When path is empty only no-op conflict-safe
// defaults are applied; otherwise the YAML fixture file is inserted with
// on-conflict-do-nothing semantics so repeated runs stay idempotent.
func Seed(ctx context.Context, database *gorm.DB, path string) error {
	if path == "" {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var fx Fixtures
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	tx := database.WithContext(ctx)

	for _, u := range fx.Users {
		user := models.User{
			ID:       u.ID,
			Username: u.Username,
			Name:     u.Name,
			Surname:  u.Surname,
			Role:     u.Role,
			Active:   true,
			Email:    u.Email,
		}
		if user.Role == "" {
			user.Role = models.RoleReadOnly
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&user).Error; err != nil {
			return fmt.Errorf("seed user %q: %w", u.Username, err)
		}
	}

	for _, c := range fx.Clubs {
		club := models.Club{
			Name:               c.Name,
			RegistrationNumber: optional(c.RegistrationNumber),
			Address:            optional(c.Address),
			Email:              optional(c.Email),
			Phone:              optional(c.Phone),
			Guidelines:         optional(c.Guidelines),
			CreatedAt:          time.Now().UTC(),
		}
		if c.Guidelines != "" {
			now := time.Now().UTC()
			club.GuidelinesUpdatedAt = &now
		}
		if c.ChairmanUsername != "" {
			var chairman models.User
			if err := tx.Where("username = ?", c.ChairmanUsername).First(&chairman).Error; err != nil {
				return fmt.Errorf("seed club %q: chairman %q: %w", c.Name, c.ChairmanUsername, err)
			}
			club.ChairmanID = &chairman.ID
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&club).Error; err != nil {
			return fmt.Errorf("seed club %q: %w", c.Name, err)
		}
	}

	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
